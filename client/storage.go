package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ErrFileNotFound is returned for keys that do not exist in the bucket, as
// opposed to a generic fetch failure. Callers word their error messages
// differently for the two cases.
var ErrFileNotFound = errors.New("file not found in storage")

type StorageConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type FileStorageClient interface {
	DownloadFile(ctx context.Context, fileKey string) ([]byte, error)
	FileExists(ctx context.Context, fileKey string) (bool, error)
	GenerateUploadUrl(ctx context.Context, fileKey string, expires time.Duration) (string, error)
}

func NewFileStorageClient(cfg StorageConfig) (FileStorageClient, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &fileStorageClientImpl{client: mc, bucket: bucket, region: region}, nil
}

type fileStorageClientImpl struct {
	client *minio.Client
	bucket string
	region string

	initOnce sync.Once
	initErr  error
}

func (f *fileStorageClientImpl) ensureBucket(ctx context.Context) error {
	f.initOnce.Do(func() {
		exists, err := f.client.BucketExists(ctx, f.bucket)
		if err != nil {
			f.initErr = err
			return
		}
		if exists {
			return
		}
		f.initErr = f.client.MakeBucket(ctx, f.bucket, minio.MakeBucketOptions{Region: f.region})
		if f.initErr == nil {
			log.Infof("Created s3 bucket %s", f.bucket)
		}
	})
	return f.initErr
}

func (f *fileStorageClientImpl) DownloadFile(ctx context.Context, fileKey string) ([]byte, error) {
	if err := f.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := f.client.GetObject(ctx, f.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return data, nil
}

func (f *fileStorageClientImpl) FileExists(ctx context.Context, fileKey string) (bool, error) {
	if err := f.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("ensure bucket: %w", err)
	}
	_, err := f.client.StatObject(ctx, f.bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *fileStorageClientImpl) GenerateUploadUrl(ctx context.Context, fileKey string, expires time.Duration) (string, error) {
	if err := f.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	u, err := f.client.PresignedPutObject(ctx, f.bucket, fileKey, expires)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
