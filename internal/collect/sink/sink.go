// Package sink implements the output sinks the orchestrator hands
// serialized artifact bytes to: local disk, and the three cloud
// object-store backends named in the config schema. Every sink does
// its own I/O; only Local compresses (when configured), and the gcp
// and azure sinks send one request per Write with no retry. The
// orchestrator never retries a failed Write itself.
package sink

import "context"

// Sink receives one artifact's serialized bytes plus enough naming
// information to place the object: the artifact name and the file
// extension its format implies ("json", "jsonl", "csv"). The caller
// never adds ".gz"; a sink that compresses (Local) appends it itself.
type Sink interface {
	Write(ctx context.Context, artifactName, extension string, data []byte) error
}
