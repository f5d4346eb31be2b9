// Package publish uploads finished renders to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/ivlev/wrapped2video/internal/config"
)

// PutObjectAPI is the slice of the S3 client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client from the publish settings. Static keys win
// over the default credential chain.
func NewS3Client(ctx context.Context, p config.Publish) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(p.Region)}
	if p.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.AccessKeyID, p.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
		}
		o.UsePathStyle = p.UsePathStyle
	}), nil
}

// Publisher puts files under prefix/<job id>/ in one bucket.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// New returns a publisher for bucket.
func New(client PutObjectAPI, bucket, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), logger: logger}
}

// Key is the object key a file gets for a job.
func (p *Publisher) Key(jobID, file string) string {
	return path.Join(p.prefix, jobID, filepath.Base(file))
}

// Upload sends file and returns its s3:// location.
func (p *Publisher) Upload(ctx context.Context, jobID, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	key := p.Key(jobID, file)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(file)),
		Metadata:      map[string]string{"job-id": jobID},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to %s: %w", file, p.bucket, err)
	}

	loc := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	p.logger.Info().Str("location", loc).Int64("bytes", info.Size()).Msg("published")
	return loc, nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp4":
		return "video/mp4"
	case ".wav":
		return "audio/wav"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
