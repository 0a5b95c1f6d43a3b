package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// ErrNoBucket is returned when publishing is requested without a bucket
var ErrNoBucket = errors.New("no S3 bucket configured")

// PublisherConfig locates the bucket renders are uploaded to. Empty
// credentials fall back to the SDK's default chain.
type PublisherConfig struct {
	Bucket    string
	Prefix    string
	Endpoint  string // for S3 compatible stores
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from, optional
}

// Publisher uploads encoded images to S3
type Publisher struct {
	client s3iface.S3API
	config PublisherConfig
	logger core.Logger
}

// NewPublisher creates an S3 session for config
func NewPublisher(config PublisherConfig, logger core.Logger) (*Publisher, error) {
	if config.Bucket == "" {
		return nil, ErrNoBucket
	}
	awsConfig := &aws.Config{}
	if config.Region != "" {
		awsConfig.Region = aws.String(config.Region)
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewPublisherWithClient(s3.New(sess), config, logger), nil
}

// NewPublisherWithClient creates a publisher around an existing client
func NewPublisherWithClient(client s3iface.S3API, config PublisherConfig, logger core.Logger) *Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Publisher{client: client, config: config, logger: logger}
}

// Key returns the object key name is stored under
func (p *Publisher) Key(name string) string {
	return path.Join(p.config.Prefix, name)
}

// Publish uploads data under name and returns where it can be fetched
func (p *Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("uploaded %s to s3://%s (%d bytes)", key, p.config.Bucket, size)
	if p.config.PublicURL != "" {
		return p.config.PublicURL + "/" + key, nil
	}
	return "s3://" + p.config.Bucket + "/" + key, nil
}
