package collect

import (
	"os"

	"github.com/puffycid/artemis-core/internal/compress"
	"github.com/puffycid/artemis-core/internal/fsaccess"
	"github.com/puffycid/artemis-core/internal/loginitems"
	"github.com/puffycid/artemis-core/internal/machoinfo"
	"github.com/puffycid/artemis-core/internal/plist"
	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/spotlight"
	"github.com/puffycid/artemis-core/internal/unifiedlog"
)

func init() {
	Register("unifiedlog", parseUnifiedLog)
	Register("spotlight", parseSpotlight)
	Register("machoinfo", parseMachO)
	Register("loginitems", parseLoginItems)
	Register("plist", parsePlist)
}

func parseUnifiedLog(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "unifiedlog requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	if decompressed, derr := compress.Gzip(raw); derr == nil {
		raw = decompressed
	}

	chunks, err := unifiedlog.ParseChunks(raw)
	if err != nil {
		return nil, err
	}

	var baseTime uint64
	out := make([]map[string]any, 0, len(chunks))
	for _, ch := range chunks {
		rec, err := toRecord(ch)
		if err != nil {
			continue
		}
		if entry, err := unifiedlog.ParseFirehosePreamble(ch.Data, baseTime); err == nil {
			preambleRec, perr := toRecord(entry)
			if perr == nil {
				rec["firehose"] = preambleRec
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseSpotlight(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "spotlight requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	header, err := spotlight.ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	headerRec, err := toRecord(header)
	if err != nil {
		return nil, err
	}

	stringsPath := optString(options, "alt_strings_file")
	var props []map[string]any
	if stringsPath != "" {
		stringsRaw, serr := fsaccess.ReadBounded(stringsPath)
		if serr == nil {
			names := spotlight.ParseStringTable(stringsRaw)
			if entries, perr := spotlight.ParsePropertyDictionary(raw, names); perr == nil {
				for _, p := range entries {
					if m, merr := toRecord(p); merr == nil {
						props = append(props, m)
					}
				}
			}
		}
	}
	headerRec["properties"] = props
	return []map[string]any{headerRec}, nil
}

func parseMachO(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "machoinfo requires alt_file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "machoinfo", Resource: path, Cause: err}
	}
	defer f.Close()

	slices, err := machoinfo.Parse(f)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(slices))
	for _, s := range slices {
		rec, err := toRecord(s)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseLoginItems(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "loginitems requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}

	var items []loginitems.Item
	if optString(options, "variant") == "btm" {
		items, err = loginitems.ParseBTM(raw)
	} else {
		var item *loginitems.Item
		item, err = loginitems.ParseSFL2Bookmark(raw)
		if item != nil {
			items = []loginitems.Item{*item}
		}
	}
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

func parsePlist(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "plist requires alt_file"}
	}
	raw, err := fsaccess.ReadBounded(path)
	if err != nil {
		return nil, err
	}
	value, err := plist.Decode(raw)
	if err != nil {
		return nil, err
	}
	if m, ok := value.(map[string]any); ok {
		return []map[string]any{m}, nil
	}
	return []map[string]any{{"value": value}}, nil
}
