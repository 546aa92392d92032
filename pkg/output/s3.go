package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/taigrr/glint/pkg/log"
)

// UploadTimeout bounds a single frame upload.
const UploadTimeout = 10 * time.Second

// PutObjecter is the part of the S3 client the sink uses. *s3.S3 satisfies it.
type PutObjecter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Config holds the connection settings for an S3-compatible store.
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	ACL       string
}

// Enabled reports whether enough is set to upload anything.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// NewS3Client creates an S3 client with static credentials and path-style
// addressing, which works against MinIO and other S3-compatible stores.
func NewS3Client(cfg S3Config) (*s3.S3, error) {
	awsCfg := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Sink uploads frames as PNG objects.
type S3Sink struct {
	client PutObjecter
	bucket string
	prefix string
	acl    string
	log    log.Logger
}

// NewS3Sink creates a sink that uploads into cfg.Bucket under cfg.Prefix.
func NewS3Sink(client PutObjecter, cfg S3Config) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		acl:    cfg.ACL,
		log:    log.New("output"),
	}
}

// Key returns the object key of frame n.
func (s *S3Sink) Key(n int) string {
	return path.Join(s.prefix, FrameName(n))
}

// WriteFrame uploads frame n.
func (s *S3Sink) WriteFrame(ctx context.Context, n int, img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := s.Key(n)
	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	}
	if s.acl != "" {
		input.ACL = aws.String(s.acl)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Debugf("uploaded %s (%d bytes)", key, size)
	return nil
}
