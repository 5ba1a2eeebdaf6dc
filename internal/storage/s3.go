package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
)

// S3Uploader stores documents in an S3-compatible bucket.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewS3Uploader builds an uploader from storage configuration.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
		now:           time.Now,
	}, nil
}

// Upload implements Uploader. Keys follow the
// <category>/<identity>/<timestamp>_<filename> convention so repeated uploads
// of the same filename never collide.
func (u *S3Uploader) Upload(ctx context.Context, identityToken string, category Category, file *File) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%d_%s", category, identityToken, u.now().UnixMilli(), sanitizeFileName(file.Name))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		return "", apperror.Wrap(apperror.KindUpload, "failed to upload file, please try again", err)
	}

	return u.publicBaseURL + "/" + key, nil
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "upload"
	}
	return name
}
