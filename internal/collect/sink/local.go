package sink

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Local writes `<directory>/<name>/<artifact>.<ext>[.gz]`, creating
// the per-artifact directory as needed.
type Local struct {
	Directory string
	Name      string
	Compress  bool
}

func (l *Local) Write(_ context.Context, artifactName, extension string, data []byte) error {
	dir := filepath.Join(l.Directory, l.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &primitives.OutputError{Sink: "local", Cause: err}
	}

	name := artifactName + "." + extension
	if l.Compress {
		name += ".gz"
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return &primitives.OutputError{Sink: "local", Cause: err}
	}
	defer f.Close()

	if !l.Compress {
		if _, err := f.Write(data); err != nil {
			return &primitives.OutputError{Sink: "local", Cause: err}
		}
		return nil
	}

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return &primitives.OutputError{Sink: "local", Cause: err}
	}
	if err := gw.Close(); err != nil {
		return &primitives.OutputError{Sink: "local", Cause: err}
	}
	return nil
}
