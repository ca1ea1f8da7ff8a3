package aws

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores files in an S3 bucket and returns a servable URL.
type Uploader struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewUploader returns an Uploader. baseURL is the public prefix the bucket
// is served from; when empty the virtual-hosted S3 URL is used.
func NewUploader(client S3API, bucket, baseURL string) *Uploader {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload writes body under prefix with a generated name keeping the
// original file extension.
func (u *Uploader) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error) {
	key := path.Join(prefix, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	input := &s3.PutObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return u.baseURL + "/" + key, nil
}
