package collect

import "github.com/puffycid/artemis-core/internal/primitives"

// ParserFunc decodes one configured artifact into its record payloads
// (normally one payload, occasionally several — e.g. a filelisting
// walk emits one record per MFT entry). Options carries the
// artifact's [artifacts.<name>] sub-table verbatim.
type ParserFunc func(options map[string]any) ([]map[string]any, error)

// registry is the flat tagged-variant dispatch table Design Notes
// calls for: one artifact-name key, one parser function, no virtual
// method table. Built-in parsers register themselves in init();
// callers embedding this module can add more via Register.
var registry = map[string]ParserFunc{}

// Register adds or replaces the parser for an artifact name.
func Register(name string, fn ParserFunc) {
	registry[name] = fn
}

// Lookup returns the parser registered for an artifact name, or a
// Configuration error if none is registered — an unknown artifact
// name in the TOML is caught here rather than silently producing
// empty output.
func Lookup(name string) (ParserFunc, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, &primitives.Configuration{Detail: "unknown artifact: " + name}
	}
	return fn, nil
}

// Names lists every artifact name currently registered.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
