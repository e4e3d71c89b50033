package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// GCP uploads one artifact's bytes to a Google Cloud Storage object
// via the JSON API's simple-upload endpoint, authenticated with a
// caller-supplied bearer token (APIKey). This is intentionally
// minimal — no credential refresh, no resumable-upload fallback for
// large objects — full multi-cloud auth is outside this spec's core;
// see DESIGN.md.
type GCP struct {
	Bucket   string
	Name     string
	APIToken string
	client   *http.Client
}

func NewGCP(bucket, name, apiToken string) *GCP {
	return &GCP{Bucket: bucket, Name: name, APIToken: apiToken, client: http.DefaultClient}
}

func (g *GCP) Write(ctx context.Context, artifactName, extension string, data []byte) error {
	object := fmt.Sprintf("%s/%s.%s", g.Name, artifactName, extension)
	url := fmt.Sprintf("https://storage.googleapis.com/upload/storage/v1/b/%s/o?uploadType=media&name=%s", g.Bucket, object)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &primitives.OutputError{Sink: "gcp", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.APIToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := g.client.Do(req)
	if err != nil {
		return &primitives.OutputError{Sink: "gcp", Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &primitives.OutputError{Sink: "gcp", Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
