package collect

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/record"
)

// serialize renders one artifact's enveloped records in the
// configured format: "json" wraps a single object with metadata+data,
// "jsonl" emits one metadata-carrying object per line, "csv" derives
// headers from the first record.
func serialize(format string, envelope record.Envelope, records []map[string]any) ([]byte, string, error) {
	switch format {
	case "json":
		data := any(records)
		if len(records) == 1 {
			data = records[0]
		}
		out, err := json.Marshal(record.Enveloped{Metadata: envelope, Data: toDataMap(data)})
		if err != nil {
			return nil, "", &primitives.Configuration{Detail: "json encode", Cause: err}
		}
		return out, "json", nil

	case "jsonl":
		var buf bytes.Buffer
		for _, r := range records {
			line, err := json.Marshal(record.Enveloped{Metadata: envelope, Data: r})
			if err != nil {
				return nil, "", &primitives.Configuration{Detail: "jsonl encode", Cause: err}
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), "jsonl", nil

	case "csv":
		out, err := serializeCSV(records)
		if err != nil {
			return nil, "", err
		}
		return out, "csv", nil

	default:
		return nil, "", &primitives.Configuration{Detail: "unknown output format: " + format}
	}
}

// toDataMap shapes "json" format's single top-level data payload: one
// record is placed under "data" as is; several records (or none) are
// placed as an array under "data"."records".
func toDataMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"records": v}
}

func serializeCSV(records []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(records) == 0 {
		w.Flush()
		return buf.Bytes(), nil
	}

	headers := make([]string, 0, len(records[0]))
	for k := range records[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	if err := w.Write(headers); err != nil {
		return nil, &primitives.Configuration{Detail: "csv header", Cause: err}
	}

	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = fmt.Sprintf("%v", rec[h])
		}
		if err := w.Write(row); err != nil {
			return nil, &primitives.Configuration{Detail: "csv row", Cause: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &primitives.Configuration{Detail: "csv flush", Cause: err}
	}
	return buf.Bytes(), nil
}
