// Package storage provides S3-compatible object storage for post images.
// It issues presigned upload URLs so clients write image bytes directly to
// MinIO, and the API only ever handles object keys.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "catsnap/internal/config"
)

// UploadTTL is how long a presigned upload URL stays valid.
const UploadTTL = 5 * time.Minute

// imageExtensions maps accepted image content types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// MaxProfilePictureSize is the profile picture size limit in bytes.
const MaxProfilePictureSize = 5 << 20

// Upload describes a presigned upload slot for a new image.
type Upload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

// ProfilePicture describes a stored profile picture.
type ProfilePicture struct {
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
}

// Service defines the object storage operations used by the application.
type Service interface {
	// GenerateImageUpload creates a presigned PUT URL for an image owned by
	// the given user. The key is namespaced under uploads/<userID>/.
	GenerateImageUpload(ctx context.Context, userID, contentType string) (*Upload, error)

	// UploadProfilePicture writes the image bytes directly to the bucket
	// under profile-pictures/<userID>/ and returns its public URL. Profile
	// pictures are small, so they skip the presign round trip.
	UploadProfilePicture(ctx context.Context, userID, contentType string, body io.Reader) (*ProfilePicture, error)

	// PublicURL returns the public URL for an object key.
	PublicURL(key string) string

	// KeyFromURL maps a public object URL back to its key. It reports false
	// when the URL is not served from this bucket.
	KeyFromURL(url string) (string, bool)

	// DeleteObject removes an object from the bucket.
	DeleteObject(ctx context.Context, key string) error

	// EnsureBucketExists creates the bucket if it does not exist.
	EnsureBucketExists(ctx context.Context) error

	// Health checks that the bucket is reachable.
	Health(ctx context.Context) error
}

type service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// New creates a storage service configured for MinIO from environment
// variables: S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET and
// optionally S3_REGION and S3_PUBLIC_ENDPOINT.
func New(ctx context.Context, logger *slog.Logger) (Service, error) {
	if err := appconfig.ValidateEnv([]string{
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET",
	}); err != nil {
		return nil, err
	}

	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	region := appconfig.GetEnvOrDefault("S3_REGION", "us-east-1")

	publicEndpoint := os.Getenv("S3_PUBLIC_ENDPOINT")
	if publicEndpoint == "" {
		publicEndpoint = endpoint
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Path-style addressing is required for MinIO.
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		publicURL: fmt.Sprintf("%s/%s", publicEndpoint, bucket),
		logger:    logger,
	}, nil
}

func (s *service) GenerateImageUpload(ctx context.Context, userID, contentType string) (*Upload, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("content type %s is not an accepted image type", contentType)
	}

	key := fmt.Sprintf("uploads/%s/%s.%s", userID, uuid.New().String(), ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadTTL))
	if err != nil {
		return nil, fmt.Errorf("presign upload for %s: %w", key, err)
	}

	return &Upload{
		UploadURL: req.URL,
		Key:       key,
		PublicURL: s.PublicURL(key),
	}, nil
}

func (s *service) UploadProfilePicture(ctx context.Context, userID, contentType string, body io.Reader) (*ProfilePicture, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("content type %s is not an accepted image type", contentType)
	}

	key := fmt.Sprintf("profile-pictures/%s/%s.%s", userID, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload profile picture %s: %w", key, err)
	}

	return &ProfilePicture{
		ImageURL: s.PublicURL(key),
		Filename: key,
	}, nil
}

func (s *service) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

func (s *service) KeyFromURL(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (s *service) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *service) EnsureBucketExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("created storage bucket", "bucket", s.bucket)
	return nil
}

func (s *service) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}
