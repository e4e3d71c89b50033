package collect

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/puffycid/artemis-core/internal/collect/sink"
	"github.com/puffycid/artemis-core/internal/primitives"
	"github.com/puffycid/artemis-core/internal/record"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Run executes every configured artifact in file order: dispatch to
// its registered parser, envelope the result with collection
// metadata, serialize in the configured format, and hand the bytes to
// the configured sink. One artifact's failure is logged and skipped —
// Run keeps going — except a sink construction failure, which aborts
// the whole run since no later artifact could be persisted either.
//
// filter may be nil, meaning no script-based post-processing is
// configured.
func Run(ctx context.Context, cfg *Config, filter Filter) error {
	out, err := newSink(ctx, &cfg.Output)
	if err != nil {
		return err
	}

	fingerprint := CaptureFingerprint()
	collectionID := cfg.Output.CollectionID
	if collectionID == "" {
		collectionID = uuid.NewString()
	}

	// Parsing stays strictly one-artifact-at-a-time (spec.md §5). The
	// only overlap is the upload of one artifact's already-serialized
	// bytes against the next artifact's parse; SetLimit(1) keeps at
	// most one upload in flight so the sink never sees two writers.
	var uploads errgroup.Group
	uploads.SetLimit(1)

	for _, art := range cfg.Artifacts {
		runOne(ctx, cfg, art, out, fingerprint, collectionID, filter, &uploads)
	}
	return uploads.Wait()
}

func runOne(ctx context.Context, cfg *Config, art ArtifactConfig, out sink.Sink, fp Fingerprint, collectionID string, filter Filter, uploads *errgroup.Group) {
	id := uuid.NewString()
	started := time.Now().UTC()

	parser, err := Lookup(art.Name)
	if err != nil {
		log.Error().Str("artifact", art.Name).Str("id", id).Err(err).Msg("unknown artifact")
		return
	}

	records, err := parser(art.Options)
	completed := time.Now().UTC()
	if err != nil {
		log.Error().Str("artifact", art.Name).Str("id", id).Err(err).Msg("artifact failed")
		return
	}

	if filter != nil {
		records, err = applyFilter(filter, art.Name, records)
		if err != nil {
			log.Error().Str("artifact", art.Name).Str("id", id).Err(err).Msg("filter rejected output")
			return
		}
	}

	envelope := record.Envelope{
		EndpointID:   cfg.Output.EndpointID,
		CollectionID: collectionID,
		UUID:         id,
		ArtifactName: art.Name,
		Started:      started,
		Completed:    completed,
		Hostname:     fp.Hostname,
		OS:           runtime.GOOS,
		Kernel:       fp.Kernel,
		Platform:     fp.Platform,
		LoadAverage:  fp.LoadAverage,
	}

	data, ext, err := serialize(cfg.Output.Format, envelope, records)
	if err != nil {
		log.Error().Str("artifact", art.Name).Str("id", id).Err(err).Msg("serialize failed")
		return
	}

	recordCount := len(records)
	uploads.Go(func() error {
		if err := out.Write(ctx, art.Name, ext, data); err != nil {
			log.Error().Str("artifact", art.Name).Str("id", id).Err(err).Msg("write failed")
			return nil
		}
		log.Info().
			Str("artifact", art.Name).
			Str("id", id).
			Str("output", cfg.Output.Output).
			Int("records", recordCount).
			Msg("artifact complete")
		return nil
	})
}

// newSink builds the Sink named by cfg.Output, per the schema
// validated in LoadConfig — validate already rejected anything else.
func newSink(ctx context.Context, cfg *OutputConfig) (sink.Sink, error) {
	switch cfg.Output {
	case "local":
		return &sink.Local{Directory: cfg.Directory, Name: cfg.Name, Compress: cfg.Compress}, nil
	case "aws":
		return sink.NewAWS(ctx, cfg.Bucket, cfg.Name)
	case "gcp":
		return sink.NewGCP(cfg.Bucket, cfg.Name, cfg.APIKey), nil
	case "azure":
		return sink.NewAzure(cfg.URL, cfg.Name), nil
	default:
		return nil, &primitives.Configuration{Detail: "unknown output sink: " + cfg.Output}
	}
}
