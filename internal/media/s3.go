package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-onboarding/internal/config"
)

// ObjectPutter is the slice of the S3 API the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		)
	}
	if cfg.Endpoint != "" {
		// S3-compatible stores (MinIO, R2) want path-style addressing
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type Uploader struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	newID         func() uuid.UUID
}

func NewUploader(client ObjectPutter, bucket, publicBaseURL string) *Uploader {
	return &Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		newID:         uuid.New,
	}
}

type Stored struct {
	Key string
	URL string
}

// ObjectKey is portfolio/<user>/<hairstyle>/<id>.webp for portfolio images
// and profile/<user>/<id>.webp when hairstyleID is zero.
func ObjectKey(userID uuid.UUID, hairstyleID uint, id uuid.UUID) string {
	if hairstyleID == 0 {
		return fmt.Sprintf("profile/%s/%s.webp", userID, id)
	}
	return fmt.Sprintf("portfolio/%s/%d/%s.webp", userID, hairstyleID, id)
}

func (u *Uploader) Upload(ctx context.Context, userID uuid.UUID, hairstyleID uint, r io.Reader) (*Stored, error) {
	body, err := Transcode(r)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(userID, hairstyleID, u.newID())
	if _, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("image/webp"),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Stored{Key: key, URL: u.url(key)}, nil
}

func (u *Uploader) url(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}
