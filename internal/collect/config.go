// Package collect is the collector orchestrator: it reads a TOML
// configuration naming one output sink and a list of artifacts, runs
// each artifact's parser in configuration order, wraps the result in
// the collection-metadata envelope, and hands the serialized bytes to
// the sink. One artifact runs at a time; the orchestrator never
// retries a sink failure itself (that is the sink's job, per the
// concurrency model).
package collect

import (
	"github.com/BurntSushi/toml"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// OutputConfig is the TOML [output] table.
type OutputConfig struct {
	Name         string `toml:"name"`
	Directory    string `toml:"directory"`
	Format       string `toml:"format"` // "json" | "jsonl" | "csv"
	Compress     bool   `toml:"compress"`
	EndpointID   string `toml:"endpoint_id"`
	CollectionID string `toml:"collection_id"`
	Output       string `toml:"output"` // "local" | "gcp" | "aws" | "azure"
	URL          string `toml:"url"`
	APIKey       string `toml:"api_key"`
	FilterName   string `toml:"filter_name"`
	FilterScript string `toml:"filter_script"`
	Logging      string `toml:"logging"`

	// Bucket/key fields only meaningful for cloud sinks; each sink
	// ignores fields it does not use.
	Bucket string `toml:"bucket"`
	KeyID  string `toml:"key_id"`
}

// ArtifactConfig is one entry of the TOML [[artifacts]] array plus its
// matching [artifacts.<name>] sub-table, flattened: Options holds
// whatever keys that sub-table declared (alt_file, alt_drive, carve,
// yara_rule, page_limit, include_additional, ...).
type ArtifactConfig struct {
	Name    string
	Options map[string]any
}

// Config is the decoded acquisition TOML: one output block, and the
// artifacts to run in file order.
type Config struct {
	Output    OutputConfig
	Artifacts []ArtifactConfig
}

// rawArtifact defers every key of one [[artifacts]] element, since
// the per-artifact options table is keyed by the artifact's own name
// (e.g. [artifacts.mft]) rather than a fixed sub-key: the field names
// aren't known until artifact_name has been read.
type rawArtifact map[string]toml.Primitive

type rawConfig struct {
	Output    OutputConfig  `toml:"output"`
	Artifacts []rawArtifact `toml:"artifacts"`
}

// LoadConfig decodes and minimally validates a TOML acquisition
// config. An invalid TOML document or missing/unknown output sink is
// a Configuration error: the caller should abort the run and exit
// non-zero rather than attempt a partial collection.
func LoadConfig(data []byte) (*Config, error) {
	var raw rawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &primitives.Configuration{Detail: "invalid TOML", Cause: err}
	}

	cfg := &Config{Output: raw.Output}
	for _, ra := range raw.Artifacts {
		namePrim, ok := ra["artifact_name"]
		if !ok {
			return nil, &primitives.Configuration{Detail: "artifact entry missing artifact_name"}
		}
		var name string
		if err := md.PrimitiveDecode(namePrim, &name); err != nil {
			return nil, &primitives.Configuration{Detail: "artifact_name is not a string", Cause: err}
		}

		ac := ArtifactConfig{Name: name, Options: map[string]any{}}
		if sub, ok := ra[name]; ok {
			if err := md.PrimitiveDecode(sub, &ac.Options); err != nil {
				return nil, &primitives.Configuration{Detail: "invalid [artifacts." + name + "] table", Cause: err}
			}
		}
		cfg.Artifacts = append(cfg.Artifacts, ac)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Output.Output {
	case "local", "gcp", "aws", "azure":
	default:
		return &primitives.Configuration{Detail: "unknown output sink: " + cfg.Output.Output}
	}
	switch cfg.Output.Format {
	case "json", "jsonl", "csv":
	default:
		return &primitives.Configuration{Detail: "unknown output format: " + cfg.Output.Format}
	}
	if len(cfg.Artifacts) == 0 {
		return &primitives.Configuration{Detail: "no artifacts configured"}
	}
	return nil
}
