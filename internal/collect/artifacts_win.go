package collect

import (
	"os"
	"regexp"

	"github.com/puffycid/artemis-core/internal/ese"
	"github.com/puffycid/artemis-core/internal/fsaccess"
	"github.com/puffycid/artemis-core/internal/outlook"
	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/propstore"
	"github.com/puffycid/artemis-core/internal/registry"
	"github.com/puffycid/artemis-core/internal/wmi"
)

func init() {
	Register("registry", parseRegistry)
	Register("srum", parseSrum)
	Register("ese_table", parseEseTable)
	Register("wmi_persistence", parseWmi)
	Register("outlook", parseOutlook)
	Register("propstore", parsePropStore)
}

// parseRegistry walks a hive, optionally rooted at start_path and
// optionally name-filtered by a regex, and emits one record per key.
func parseRegistry(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "registry requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	hive, err := registry.OpenHive(raw)
	if err != nil {
		return nil, err
	}

	var filter *regexp.Regexp
	if pattern := optString(options, "filter"); pattern != "" {
		filter, err = regexp.Compile(pattern)
		if err != nil {
			return nil, &primitives.Configuration{Detail: "registry filter regex", Cause: err}
		}
	}

	walker := registry.NewWalker(hive, optString(options, "start_path"), filter)
	keys, err := walker.Walk()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		rec, err := toRecord(k)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseSrum dumps SruDbIdMapTable from an ESE-backed SRUDB.dat,
// resolving each id-blob to its SID/UTF-16/opaque rendering.
func parseSrum(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "srum requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	db, err := ese.Open(raw)
	if err != nil {
		return nil, err
	}
	entries, err := ese.DecodeSruDbIdMapTable(db)
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

// parseEseTable is the generic ESE table dump used for any catalog
// table not given its own typed decoder (application/network SRUM
// tables, BITS jobs under a custom qmgr.db schema, and so on).
func parseEseTable(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	table := optString(options, "table_name")
	if path == "" || table == "" {
		return nil, &primitives.Configuration{Detail: "ese_table requires alt_file and table_name"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	db, err := ese.Open(raw)
	if err != nil {
		return nil, err
	}
	rows, err := db.DumpTable(table)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		rec, err := toRecord(r)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseWmi reconstructs the WMI repository from its three constituent
// files and dumps every class/instance record it can reach through
// the mapping file, at table-dump depth (no query engine).
func parseWmi(options map[string]any) ([]map[string]any, error) {
	mappingPath := optString(options, "alt_mapping_file")
	indexPath := optString(options, "alt_index_file")
	objectsPath := optString(options, "alt_objects_file")
	if mappingPath == "" || indexPath == "" || objectsPath == "" {
		return nil, &primitives.Configuration{Detail: "wmi_persistence requires alt_mapping_file, alt_index_file, alt_objects_file"}
	}

	mappingBuf, err := fsaccess.ReadBounded(mappingPath)
	if err != nil {
		return nil, err
	}
	indexBuf, err := fsaccess.ReadBounded(indexPath)
	if err != nil {
		return nil, err
	}
	objectsBuf, err := fsaccess.ReadBounded(objectsPath)
	if err != nil {
		return nil, err
	}

	repo, err := wmi.NewRepository(mappingBuf, indexBuf, objectsBuf)
	if err != nil {
		return nil, err
	}
	classes, err := repo.Classes()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(classes))
	for _, c := range classes {
		rec, err := toRecord(c)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseOutlook opens an OST/PST store and emits one record per
// message, folder names attached for context.
func parseOutlook(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "outlook requires alt_file"}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "outlook", Resource: path, Cause: err}
	}

	store, err := outlook.Open(raw)
	if err != nil {
		return nil, err
	}
	messages, err := store.Messages()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		rec, err := toRecord(m)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// parsePropStore decodes a serialized Property Store blob (jump list
// DestList entries, shellbag slots, and other shell-item property
// bags all embed one).
func parsePropStore(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "propstore requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	store, err := propstore.Parse(raw)
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(store)
	if err != nil {
		return nil, err
	}
	return []map[string]any{rec}, nil
}
