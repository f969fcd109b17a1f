package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// objectAPI is the subset of *s3.Client used by S3Store.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// uploadAPI is the subset of *manager.Uploader used by S3Store.
type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store keeps the data directory in an S3 bucket under an optional prefix:
//
//	s3://<bucket>/<prefix>/<name>
//
// Unscoped paths (camera output) are local files and are read from disk.
type S3Store struct {
	name     string
	bucket   string
	prefix   string
	client   objectAPI
	uploader uploadAPI
}

// NewS3Store creates an S3Store from configuration, loading AWS credentials
// from the environment unless static keys are configured.
func NewS3Store(ctx context.Context, cfg config.FileStoreConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 file store requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	return newS3Store(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, client, manager.NewUploader(client)), nil
}

func newS3Store(name, bucket, prefix string, client objectAPI, uploader uploadAPI) *S3Store {
	return &S3Store{
		name:     name,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		client:   client,
		uploader: uploader,
	}
}

func (s *S3Store) uriPrefix() string {
	return "s3://" + s.bucket + "/"
}

// key maps a data directory path (bare name or s3:// URI) to an object key.
func (s *S3Store) key(p string) (string, error) {
	if k, ok := strings.CutPrefix(p, s.uriPrefix()); ok {
		return k, nil
	}
	if strings.Contains(p, "://") {
		return "", fmt.Errorf("path is outside bucket %s: %s", s.bucket, p)
	}
	if p == "" || strings.Contains(p, "/") || p == "." || p == ".." {
		return "", fmt.Errorf("invalid file name: %q", p)
	}
	return path.Join(s.prefix, p), nil
}

// WriteFile uploads decoded data as an object named name.
func (s *S3Store) WriteFile(ctx context.Context, name string, data string, dir gallery.Directory) (string, error) {
	content, err := gallery.DecodeFileData(data)
	if err != nil {
		return "", err
	}

	if dir != gallery.DirectoryData {
		p := localPath(name)
		if err := writeAtomic(p, content); err != nil {
			return "", err
		}
		return "file://" + p, nil
	}

	key, err := s.key(name)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return s.uriPrefix() + key, nil
}

// ReadFile downloads the object at path and returns it base64 encoded.
func (s *S3Store) ReadFile(ctx context.Context, p string, dir gallery.Directory) (string, error) {
	if dir != gallery.DirectoryData && !strings.HasPrefix(p, s.uriPrefix()) {
		content, err := os.ReadFile(localPath(p))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("file %s: %w", p, gallery.ErrNotFound)
			}
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return gallery.EncodeFileData(content), nil
	}

	key, err := s.key(p)
	if err != nil {
		return "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", fmt.Errorf("object %s: %w", key, gallery.ErrNotFound)
		}
		return "", fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return gallery.EncodeFileData(content), nil
}

// DeleteFile removes the object named name. S3 deletes are idempotent, so
// existence is checked first to report missing files like the other stores.
func (s *S3Store) DeleteFile(ctx context.Context, name string, dir gallery.Directory) error {
	if dir != gallery.DirectoryData {
		if err := os.Remove(localPath(name)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file %s: %w", name, gallery.ErrNotFound)
			}
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	key, err := s.key(name)
	if err != nil {
		return err
	}

	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("object %s: %w", key, gallery.ErrNotFound)
		}
		return fmt.Errorf("checking %s: %w", key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// ValidateSetup verifies that the bucket exists and is reachable.
func (s *S3Store) ValidateSetup(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

func localPath(p string) string {
	p = strings.TrimPrefix(p, "file://")
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Compile-time check that S3Store implements gallery.FileStore interface
var _ gallery.FileStore = (*S3Store)(nil)
