package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vodpress/internal/config"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key       string
	CreatedAt time.Time
	Size      int64
}

// Client wraps an S3-compatible object store.
type Client struct {
	mc *minio.Client
}

// New connects to the configured object store endpoint.
func New(cfg config.Storage) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("object store endpoint required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store connection: %w", err)
	}
	return &Client{mc: mc}, nil
}

// List returns every object in the bucket with its creation time.
func (c *Client) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	objects := make([]ObjectInfo, 0, 16)
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", bucket, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:       obj.Key,
			CreatedAt: obj.LastModified,
			Size:      obj.Size,
		})
	}
	return objects, nil
}

// Copy duplicates an object across buckets without downloading it.
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	dst := minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey}
	src := minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey}
	if _, err := c.mc.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("copy %s/%s to %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}
	return nil
}

// Download fetches an object to a local path.
func (c *Client) Download(ctx context.Context, bucket, key, localPath string) error {
	if err := c.mc.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Upload stores a local file under the given object key.
func (c *Client) Upload(ctx context.Context, bucket, localPath, key string) error {
	if _, err := c.mc.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", localPath, bucket, key, err)
	}
	return nil
}

// UploadDir recursively uploads every file under localDir, preserving each
// file's path relative to localDir beneath the destination prefix.
func (c *Client) UploadDir(ctx context.Context, bucket, localDir, prefix string) error {
	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", p, err)
		}
		return c.Upload(ctx, bucket, p, JoinKey(prefix, rel))
	})
}

// JoinKey appends a relative local path to an object key prefix, normalizing
// separators so a file at {dir}/sub/file lands at {prefix}sub/file.
func JoinKey(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	if prefix == "" {
		return rel
	}
	return strings.TrimSuffix(prefix, "/") + "/" + path.Clean(rel)
}
