package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket        string
	Prefix        string
	Region        string
	Endpoint      string // S3-compatible endpoint (MinIO, LocalStack); path-style addressing
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
	// PresignTTL > 0 returns presigned GET URLs instead of public ones.
	PresignTTL time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Uploader struct {
	cfg     S3Config
	api     objectPutter
	presign objectPresigner
}

// NewS3Uploader builds a client from the default AWS chain, or from static
// keys when both are configured.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return NewS3UploaderWithClient(cfg, client, s3.NewPresignClient(client)), nil
}

// NewS3UploaderWithClient wires prebuilt clients; presign may be nil.
func NewS3UploaderWithClient(cfg S3Config, api objectPutter, presign objectPresigner) *S3Uploader {
	return &S3Uploader{cfg: cfg, api: api, presign: presign}
}

func (u *S3Uploader) Upload(ctx context.Context, f File, opts Options) (string, error) {
	key := ObjectKey(u.cfg.Prefix, opts.Folder, f.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}
	if f.Size > 0 {
		in.ContentLength = aws.Int64(f.Size)
	}
	if _, err := u.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return u.url(ctx, key)
}

func (u *S3Uploader) url(ctx context.Context, key string) (string, error) {
	switch {
	case u.cfg.PublicBaseURL != "":
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key, nil
	case u.cfg.PresignTTL > 0 && u.presign != nil:
		req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(u.cfg.Bucket),
			Key:    aws.String(key),
		}, func(po *s3.PresignOptions) {
			po.Expires = u.cfg.PresignTTL
		})
		if err != nil {
			return "", fmt.Errorf("s3 presign %s: %w", key, err)
		}
		return req.URL, nil
	case u.cfg.Endpoint != "":
		return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key, nil
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key), nil
	}
}
