package repository

import (
	"context"
	"io"
	"time"

	"health_chat_service/pkg/database"
)

// MediaRepository definition attachment object storage
type MediaRepository interface {
	// Put store the object and return a URL any participant can resolve
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type minioMediaRepository struct {
	mc *database.MinIOClient
	// presignTTL > 0 switches from public-bucket URLs to presigned URLs
	presignTTL time.Duration
}

// NewMinIOMediaRepository create a MediaRepository on minio.
// Pass presignTTL 0 when the bucket has public read.
func NewMinIOMediaRepository(mc *database.MinIOClient, presignTTL time.Duration) MediaRepository {
	return &minioMediaRepository{mc: mc, presignTTL: presignTTL}
}

func (r *minioMediaRepository) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := r.mc.UploadObject(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}
	if r.presignTTL > 0 {
		return r.mc.PresignGetURL(ctx, objectName, r.presignTTL)
	}
	return r.mc.PublicURL(objectName), nil
}
