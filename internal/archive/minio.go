// Package archive exports a document's edit history to object storage before
// the cascade delete purges it. Export is best-effort: the facade logs
// failures and deletes anyway.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/coedit/coedit/internal/edits"
)

// Config holds object-store connection configuration.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// HistoryArchiver writes edit histories as JSON objects into one bucket.
type HistoryArchiver struct {
	client *minio.Client
	bucket string
}

// NewHistoryArchiver creates the client and ensures the bucket exists.
func NewHistoryArchiver(cfg *Config) (*HistoryArchiver, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &HistoryArchiver{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		// tolerate "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// ArchiveHistory stores the records under history/<documentID>.json.
func (a *HistoryArchiver) ArchiveHistory(ctx context.Context, documentID string, recs []*edits.Record) error {
	b, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	key := "history/" + documentID + ".json"
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}
