package gcsuploader

import (
	"context"

	"github.com/dvloznov/card-campaign-analytics/internal/gcs"
)

// GCSStorageService implements gcs.StorageService on top of the package
// functions, authenticating with Application Default Credentials.
type GCSStorageService struct{}

var _ gcs.StorageService = (*GCSStorageService)(nil)

func NewGCSStorageService() *GCSStorageService {
	return &GCSStorageService{}
}

func (*GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return FetchFromGCS(ctx, gcsURI)
}

func (*GCSStorageService) UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	return UploadBytes(ctx, bucketName, objectName, contentType, data)
}

func (*GCSStorageService) ExtractFilenameFromGCSURI(uri string) string {
	return ExtractFilenameFromGCSURI(uri)
}
