package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"beatbox/config"
	"beatbox/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioBackend keeps files as objects named music/<dir>/<name> in one bucket.
type MinioBackend struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioBackend creates the MinIO client. No request is made until first use.
func NewMinioBackend(cfg *config.Config) (*MinioBackend, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &MinioBackend{client: client, bucket: cfg.MinioBucket, region: cfg.MinioRegion}, nil
}

func objectKey(dir, name string) string {
	return path.Join(RootDir, dir, name)
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// EnsureDir creates the bucket on first use; prefixes need no creation.
func (b *MinioBackend) EnsureDir(ctx context.Context, dir string) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{Region: b.region}); err != nil {
		// Another instance may have created it in between.
		if exists, errExists := b.client.BucketExists(ctx, b.bucket); errExists == nil && exists {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	logger.Info("created MinIO bucket", logger.String("bucket", b.bucket))
	return nil
}

func (b *MinioBackend) Put(ctx context.Context, dir, name string, r io.Reader, size int64, contentType string) error {
	key := objectKey(dir, name)
	if _, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{}); err == nil {
		return fmt.Errorf("object %s already exists", key)
	} else if !isNoSuchKey(err) {
		return fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	if size <= 0 {
		size = -1 // unknown length, streamed in parts
	}
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

func (b *MinioBackend) Open(ctx context.Context, dir, name string) (io.ReadSeekCloser, FileInfo, error) {
	key := objectKey(dir, name)
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, FileInfo{}, ErrFileNotFound
		}
		return nil, FileInfo{}, err
	}
	// GetObject is lazy; Stat performs the request.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, FileInfo{}, ErrFileNotFound
		}
		return nil, FileInfo{}, err
	}
	return obj, FileInfo{Name: name, Size: st.Size, ModTime: st.LastModified}, nil
}

func (b *MinioBackend) Remove(ctx context.Context, dir, name string) error {
	err := b.client.RemoveObject(ctx, b.bucket, objectKey(dir, name), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return err
	}
	return nil
}

func (b *MinioBackend) List(ctx context.Context, dir string) ([]FileInfo, error) {
	prefix := objectKey(dir, "") + "/"
	var files []FileInfo
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		files = append(files, FileInfo{Name: name, Size: obj.Size, ModTime: obj.LastModified})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
