// Package amcache decodes the Amcache.hve registry hive: the
// InventoryApplicationFile and File subkeys under Root, re-keyed by
// the program/file GUID each subkey's name carries.
package amcache

import (
	"strings"

	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/registry"
)

// FileEntry is one decoded Root\File or Root\InventoryApplicationFile
// subkey, re-keyed by its GUID-like key name.
type FileEntry struct {
	KeyName    string
	Path       string
	SHA1       string
	Size       uint64
	LastModified string
	Values     map[string]any
}

const (
	inventoryApplicationFilePath = `Root\InventoryApplicationFile`
	filePath                     = `Root\File`
)

// Load walks both known Amcache subtrees and returns every decoded
// file entry, keyed by the volume+key GUID each subkey is named with.
func Load(h *registry.Hive) ([]FileEntry, error) {
	var out []FileEntry
	for _, base := range []string{inventoryApplicationFilePath, filePath} {
		entries, err := loadSubtree(h, base)
		if err != nil {
			continue
		}
		out = append(out, entries...)
	}
	return out, nil
}

func loadSubtree(h *registry.Hive, base string) ([]FileEntry, error) {
	w := registry.NewWalker(h, base, nil)
	records, err := w.Walk()
	if err != nil && len(records) == 0 {
		return nil, err
	}

	out := make([]FileEntry, 0, len(records))
	for _, rec := range records {
		entry := FileEntry{
			KeyName:      keyNameOf(rec.Path),
			LastModified: primitives.FiletimeToISO(rec.LastWritten),
			Values:       make(map[string]any, len(rec.Values)),
		}
		for _, v := range rec.Values {
			decoded := v.Data
			entry.Values[v.Name] = decoded
			switch strings.ToLower(v.Name) {
			case "lowercaselongpath", "path", "10":
				if s, ok := decoded.(string); ok {
					entry.Path = s
				}
			case "filesha1hash", "sha1", "101":
				if s, ok := decoded.(string); ok {
					entry.SHA1 = s
				}
			case "size", "6":
				if u, ok := decoded.(uint64); ok {
					entry.Size = u
				} else if u32, ok := decoded.(uint32); ok {
					entry.Size = uint64(u32)
				}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func keyNameOf(path string) string {
	if i := strings.LastIndex(path, `\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
