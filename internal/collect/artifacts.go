package collect

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/puffycid/artemis-core/internal/amcache"
	"github.com/puffycid/artemis-core/internal/bits"
	"github.com/puffycid/artemis-core/internal/emond"
	"github.com/puffycid/artemis-core/internal/fsaccess"
	"github.com/puffycid/artemis-core/internal/fsevents"
	"github.com/puffycid/artemis-core/internal/jumplist"
	"github.com/puffycid/artemis-core/internal/linuxartifacts"
	"github.com/puffycid/artemis-core/internal/lnk"
	"github.com/puffycid/artemis-core/internal/ntfs"
	"github.com/puffycid/artemis-core/internal/prefetch"
	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/recyclebin"
	"github.com/puffycid/artemis-core/internal/registry"
	"github.com/puffycid/artemis-core/internal/shimcache"
)

// toRecord round-trips a decoded value through JSON to the generic
// map[string]any shape every record payload uses, rather than
// hand-writing one struct-to-map mapping per artifact.
func toRecord(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func optString(options map[string]any, key string) string {
	if v, ok := options[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func init() {
	Register("prefetch", parsePrefetch)
	Register("recyclebin", parseRecycleBin)
	Register("mft", parseMFT)
	Register("usnjrnl", parseUsnJournal)
	Register("shimcache", parseShimcache)
	Register("amcache", parseAmcache)
	Register("bits", parseBits)
	Register("jumplist", parseJumplist)
	Register("lnk", parseLnk)
	Register("emond", parseEmond)
	Register("fsevents", parseFsevents)
	Register("linux_journal_hashtable", parseLinuxJournalHashTable)
	Register("logons", parseLogons)
}

func parsePrefetch(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "prefetch requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	file, err := prefetch.Parse(raw)
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(file)
	if err != nil {
		return nil, err
	}
	return []map[string]any{rec}, nil
}

func parseRecycleBin(options map[string]any) ([]map[string]any, error) {
	pattern := optString(options, "alt_path")
	if pattern == "" {
		return nil, &primitives.Configuration{Detail: "recyclebin requires alt_path glob"}
	}
	paths, err := fsaccess.GlobAll(pattern)
	if err != nil {
		return nil, &primitives.InputNotPresent{Artifact: "recyclebin", Path: pattern}
	}
	var out []map[string]any
	for _, p := range paths {
		raw, err := fsaccess.ReadBounded(p)
		if err != nil {
			continue
		}
		entry, err := recyclebin.Parse(raw)
		if err != nil {
			continue // skip torn $I record, keep scanning the rest
		}
		rec, err := toRecord(entry)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseMFT(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "mft requires alt_file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "mft", Resource: path, Cause: err}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "mft", Resource: path, Cause: err}
	}

	reader := ntfs.NewReader(f)
	lastIndex := info.Size()/1024 - 1
	entries, err := reader.WalkAll(lastIndex)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseUsnJournal(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "usnjrnl requires alt_file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "usnjrnl", Resource: path, Cause: err}
	}
	defer f.Close()
	records, err := ntfs.ReadUsnJournal(f)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rec, err := toRecord(r)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseShimcache(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "shimcache requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	entries, err := shimcache.Parse(raw, shimcacheVersionFromName(optString(options, "version")))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func shimcacheVersionFromName(name string) shimcache.Version {
	switch name {
	case "win7":
		return shimcache.VersionWin7
	case "win8":
		return shimcache.VersionWin8
	case "win11":
		return shimcache.VersionWin11
	default:
		return shimcache.VersionWin10
	}
}

func parseAmcache(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "amcache requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	hive, err := registry.OpenHive(raw)
	if err != nil {
		return nil, err
	}
	entries, err := amcache.Load(hive)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseBits(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "bits requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	var jobs []bits.Job
	if carve, _ := options["carve"].(bool); carve {
		jobs = bits.CarveLegacy(raw)
	} else {
		jobs, err = bits.LoadESE(raw)
		if err != nil {
			return nil, err
		}
	}
	out := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		rec, err := toRecord(j)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseJumplist(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "jumplist requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	var entries []jumplist.Entry
	if optString(options, "variant") == "custom" {
		entries, err = jumplist.ParseCustom(raw)
	} else {
		entries, err = jumplist.ParseAutomatic(raw)
	}
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseLnk(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "lnk requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	sc, err := lnk.Parse(raw)
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(sc)
	if err != nil {
		return nil, err
	}
	return []map[string]any{rec}, nil
}

func parseEmond(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "emond requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	rules, err := emond.Parse(raw)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		rec, err := toRecord(r)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseFsevents(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "fsevents requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	pages, err := fsevents.ParseFile(raw)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for _, page := range pages {
		for _, rec := range page.Records {
			m, err := toRecord(rec)
			if err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func parseLinuxJournalHashTable(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "linux_journal_hashtable requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	items, err := linuxartifacts.ParseHashTable(raw)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		rec, err := toRecord(it)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseLogons(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "logons requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	records, err := linuxartifacts.ParseLogonRecords(raw)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rec, err := toRecord(r)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
