package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Azure uploads one artifact's bytes as a block blob via a
// caller-supplied container SAS URL (the config's URL field already
// carries the target container plus its SAS token). Minimal scope,
// same caveat as the GCP sink: no credential refresh, no block-list
// staging for objects over the single-PUT size limit.
type Azure struct {
	ContainerSASURL string
	Name            string
	client          *http.Client
}

func NewAzure(containerSASURL, name string) *Azure {
	return &Azure{ContainerSASURL: containerSASURL, Name: name, client: http.DefaultClient}
}

func (a *Azure) Write(ctx context.Context, artifactName, extension string, data []byte) error {
	object := fmt.Sprintf("%s/%s.%s", a.Name, artifactName, extension)
	url := appendBlobPath(a.ContainerSASURL, object)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return &primitives.OutputError{Sink: "azure", Cause: err}
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.client.Do(req)
	if err != nil {
		return &primitives.OutputError{Sink: "azure", Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &primitives.OutputError{Sink: "azure", Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// appendBlobPath inserts the blob path before the SAS query string of
// a container URL like "https://acct.blob.core.windows.net/container?sv=...".
func appendBlobPath(containerURL, blobPath string) string {
	for i := 0; i < len(containerURL); i++ {
		if containerURL[i] == '?' {
			return containerURL[:i] + "/" + blobPath + containerURL[i:]
		}
	}
	return containerURL + "/" + blobPath
}
