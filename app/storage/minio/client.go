package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"socialnet/app/storage"
)

// objectAPI is the subset of *minio.Client the image store needs.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdkAPI narrows GetObject's *minio.Object to io.ReadCloser.
type sdkAPI struct{ *minio.Client }

func (s sdkAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ storage.ImageStore = (*Client)(nil)

// Client keeps post and profile images as objects in one bucket, keyed <role>/<filename>.
type Client struct {
	api    objectAPI
	bucket string
}

// Dial connects to the object store and creates the image bucket if it is missing.
func Dial(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newClient(ctx, sdkAPI{mc}, bucket)
}

func newClient(ctx context.Context, api objectAPI, bucket string) (*Client, error) {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check image bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create image bucket %s: %w", bucket, err)
		}
	}
	return &Client{api: api, bucket: bucket}, nil
}

// Save uploads an image of unknown length.
func (c *Client) Save(ctx context.Context, key string, r io.Reader) error {
	if err := storage.CheckKey(key); err != nil {
		return err
	}
	if _, err := c.api.PutObject(ctx, c.bucket, key, r, -1, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to store image %s: %w", key, err)
	}
	return nil
}

// Open streams an image. GetObject is lazy, so existence is checked with a stat first.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := c.stat(ctx, key); err != nil {
		return nil, err
	}
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", key, err)
	}
	return obj, nil
}

// Remove deletes an image, reporting storage.ErrImageNotFound for unknown keys.
func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.stat(ctx, key); err != nil {
		return err
	}
	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", key, err)
	}
	return nil
}

func (c *Client) stat(ctx context.Context, key string) error {
	if err := storage.CheckKey(key); err != nil {
		return err
	}
	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return storage.ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to stat image %s: %w", key, err)
	}
	return nil
}
