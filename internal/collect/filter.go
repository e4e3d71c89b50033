package collect

import (
	"github.com/goccy/go-json"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// Filter is the embedded JS engine's contract: given an artifact's
// serialized JSON value and its name, return the value that should be
// serialized in its place. The engine's internals are an external
// collaborator out of this module's scope; Run accepts any
// implementation, including nil (no filtering configured).
type Filter interface {
	Apply(value []byte, artifactName string) ([]byte, error)
}

// FilterFunc adapts a plain function to the Filter interface.
type FilterFunc func(value []byte, artifactName string) ([]byte, error)

func (f FilterFunc) Apply(value []byte, artifactName string) ([]byte, error) {
	return f(value, artifactName)
}

// applyFilter hands the filter the artifact's decoded value as a bare
// JSON value — a single object for one record, an array for several —
// before the collection-metadata envelope is attached or the output
// format is chosen, matching the documented Filter(value, name) ->
// value contract. The filtered JSON is decoded back into the same
// []map[string]any shape serialize expects.
func applyFilter(filter Filter, artifactName string, records []map[string]any) ([]map[string]any, error) {
	var value any = records
	if len(records) == 1 {
		value = records[0]
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, &primitives.Configuration{Detail: "filter encode", Cause: err}
	}

	out, err := filter.Apply(raw, artifactName)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(out, &decoded); err != nil {
		return nil, &primitives.Configuration{Detail: "filter decode", Cause: err}
	}

	switch v := decoded.(type) {
	case []any:
		result := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				result = append(result, m)
			}
		}
		return result, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case nil:
		return nil, nil
	default:
		return nil, &primitives.Configuration{Detail: "filter returned unexpected value"}
	}
}
