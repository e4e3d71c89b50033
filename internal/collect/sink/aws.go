package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// AWS uploads one artifact's bytes as an S3 object under a stable key
// `<name>/<artifact>.<ext>`, using the ambient credential chain
// (environment, shared config, instance role) via
// config.LoadDefaultConfig — the same entry point
// ClusterCockpit-cc-backend uses for its AWS-backed storage.
type AWS struct {
	Bucket string
	Name   string
	client *s3.Client
}

func NewAWS(ctx context.Context, bucket, name string) (*AWS, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Resource: "aws config", Cause: err}
	}
	return &AWS{Bucket: bucket, Name: name, client: s3.NewFromConfig(cfg)}, nil
}

func (a *AWS) Write(ctx context.Context, artifactName, extension string, data []byte) error {
	key := fmt.Sprintf("%s/%s.%s", a.Name, artifactName, extension)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &primitives.OutputError{Sink: "aws", Cause: err}
	}
	return nil
}
