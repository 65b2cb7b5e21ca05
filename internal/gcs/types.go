// Package gcs describes the Cloud Storage operations the dataset sources
// and the CLI publisher depend on.
package gcs

import (
	"context"
	"fmt"
)

// StorageService reads and writes dataset objects in Cloud Storage.
type StorageService interface {
	// FetchFromGCS returns the content of a gs://bucket/object URI.
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)

	// UploadBytes stores data as bucketName/objectName.
	UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error

	// ExtractFilenameFromGCSURI returns the last path element of a URI.
	ExtractFilenameFromGCSURI(uri string) string
}

// URI formats a bucket and object name as a gs:// URI.
func URI(bucket, object string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, object)
}
