package visualization

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
)

// Uploader ships rendered artifacts to the object store and returns the
// references to persist in file_paths.
type Uploader struct {
	client          *minio.Client
	bucketProcessed string
	bucketVisualize string
}

// NewUploader creates an Uploader from storage credentials and ensures both
// buckets exist.
func NewUploader(ctx context.Context, cfg *config.Storage) (*Uploader, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	u := &Uploader{
		client:          client,
		bucketProcessed: cfg.BucketProcessed,
		bucketVisualize: cfg.BucketVisualize,
	}

	for _, bucket := range []string{u.bucketProcessed, u.bucketVisualize} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}

	return u, nil
}

// UploadPlot stores a rendered PNG under the visualization bucket.
func (u *Uploader) UploadPlot(ctx context.Context, starID, kind string, png []byte) (*domain.ArtifactRef, error) {
	objectName := fmt.Sprintf("%s/%s.png", starID, kind)
	return u.upload(ctx, u.bucketVisualize, starID, kind, objectName, png, "image/png")
}

// UploadResults stores the serialized candidate list under the processed
// curves bucket.
func (u *Uploader) UploadResults(ctx context.Context, starID string, data []byte) (*domain.ArtifactRef, error) {
	objectName := fmt.Sprintf("%s/results.json", starID)
	return u.upload(ctx, u.bucketProcessed, starID, domain.ArtifactResultsJSON, objectName, data, "application/json")
}

func (u *Uploader) upload(ctx context.Context, bucket, starID, kind, objectName string, data []byte, contentType string) (*domain.ArtifactRef, error) {
	_, err := u.client.PutObject(ctx, bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return nil, fmt.Errorf("put object %s/%s: %w", bucket, objectName, err)
	}

	return &domain.ArtifactRef{
		StarID:     starID,
		Kind:       kind,
		Bucket:     bucket,
		ObjectName: objectName,
		CreatedAt:  time.Now().UnixMilli(),
	}, nil
}
