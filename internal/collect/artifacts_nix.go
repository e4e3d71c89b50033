package collect

import (
	"os"

	"github.com/puffycid/artemis-core/internal/linuxartifacts"
	"github.com/puffycid/artemis-core/internal/primitives"
)

func init() {
	Register("elf", parseELF)
}

func parseELF(options map[string]any) ([]map[string]any, error) {
	path := optString(options, "alt_file")
	if path == "" {
		return nil, &primitives.Configuration{Detail: "elf requires alt_file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Artifact: "elf", Resource: path, Cause: err}
	}
	defer f.Close()

	info, err := linuxartifacts.ParseELF(f)
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(info)
	if err != nil {
		return nil, err
	}
	return []map[string]any{rec}, nil
}
