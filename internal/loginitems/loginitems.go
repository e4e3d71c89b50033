// Package loginitems decodes the two macOS Login Items stores: the
// legacy com.apple.loginitems.plist SFL2 bookmark blob, and the
// modern BackgroundItems-v*.btm plist-wrapped bookmark list (macOS
// 13+). Both ultimately carry one or more serialized bookmark data
// blobs; this package extracts the path each bookmark resolves to
// without implementing the full bookmark-alias resolution graph.
package loginitems

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/plist"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// Item is one decoded login item / background item entry.
type Item struct {
	Path     string
	Hidden   bool
	Bundle   string
}

const bookmarkSignature = "book"

// bookmarkTOCKeyPath is the standard bookmark TOC key that carries the
// resolved target's path components.
const bookmarkTOCKeyPath = 0x1004

// ParseSFL2Bookmark decodes one SFL2 sandbox bookmark blob: a "book"
// signature, a header, a data section of TLV-style (key, type, value)
// records, and a table of contents pointing into it.
func ParseSFL2Bookmark(buf []byte) (*Item, error) {
	if len(buf) < 4 || string(buf[0:4]) != bookmarkSignature {
		return nil, &primitives.FormatViolation{Artifact: "loginitems.sfl2", Kind: "missing book signature"}
	}
	if len(buf) < 12 {
		return nil, &primitives.Truncation{Artifact: "loginitems.sfl2", Wanted: 12, Got: len(buf)}
	}
	le := binary.LittleEndian
	totalLen := le.Uint32(buf[4:8])
	if uint64(totalLen) > uint64(len(buf)) {
		return nil, &primitives.Truncation{Artifact: "loginitems.sfl2", Wanted: int(totalLen), Got: len(buf)}
	}
	dataStart := uint32(48) // fixed bookmark header size
	if dataStart > totalLen {
		return nil, &primitives.FormatViolation{Artifact: "loginitems.sfl2", Kind: "header larger than blob"}
	}
	data := buf[dataStart:totalLen]

	components := parseStringArrayAtKey(data, bookmarkTOCKeyPath)
	item := &Item{Path: joinPathComponents(components)}
	return item, nil
}

// parseStringArrayAtKey scans the TLV data section for a record whose
// key matches and whose type tag marks it as a string array, and
// decodes its UTF-8 elements.
func parseStringArrayAtKey(data []byte, key uint32) []string {
	le := binary.LittleEndian
	var out []string
	for len(data) >= 12 {
		recLen := le.Uint32(data[0:4])
		recKey := le.Uint32(data[4:8])
		recType := le.Uint32(data[8:12])
		if recLen < 12 || uint64(recLen) > uint64(len(data)) {
			break
		}
		body := data[12:recLen]
		if recKey == key && recType == 0x0101 { // array-of-string type tag
			out = append(out, decodeStringArray(body)...)
		}
		data = data[recLen:]
	}
	return out
}

func decodeStringArray(buf []byte) []string {
	le := binary.LittleEndian
	var out []string
	for len(buf) >= 8 {
		entryLen := le.Uint32(buf[0:4])
		entryType := le.Uint32(buf[4:8])
		if entryLen < 8 || uint64(entryLen) > uint64(len(buf)) {
			break
		}
		if entryType == 0x0601 { // string type tag
			out = append(out, primitives.ExtractUTF8String(buf[8:entryLen]))
		}
		buf = buf[entryLen:]
	}
	return out
}

func joinPathComponents(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	path := ""
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// ParseBTM decodes a BackgroundItems-v*.btm file: an outer plist
// (usually binary) wrapping a dictionary of item-id → bookmark-data
// entries, each value a raw SFL2-style bookmark blob under the
// well-known "Bookmark" key.
func ParseBTM(buf []byte) ([]Item, error) {
	val, err := plist.Decode(buf)
	if err != nil {
		return nil, err
	}
	root, ok := val.(map[string]any)
	if !ok {
		return nil, &primitives.FormatViolation{Artifact: "loginitems.btm", Kind: "root is not a dictionary"}
	}

	var items []Item
	for _, v := range root {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		raw, ok := entry["Bookmark"].([]byte)
		if !ok {
			continue
		}
		item, err := ParseSFL2Bookmark(raw)
		if err != nil {
			continue // skip a torn bookmark, keep the rest of the store
		}
		if hidden, ok := entry["Hidden"].(bool); ok {
			item.Hidden = hidden
		}
		if bundle, ok := entry["BundleIdentifier"].(string); ok {
			item.Bundle = bundle
		}
		items = append(items, *item)
	}
	return items, nil
}
