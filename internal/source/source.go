package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3Config addresses the object store holding seed files. Static keys are
// optional; without them the default AWS credential chain is used.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// ObjectGetter is satisfied by *s3.Client.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener resolves input paths to readers.
type Opener struct {
	cfg S3Config
	s3  ObjectGetter
}

func NewOpener(cfg S3Config) *Opener {
	return &Opener{cfg: cfg}
}

// NewOpenerWithClient uses an existing S3 client.
func NewOpenerWithClient(client ObjectGetter) *Opener {
	return &Opener{s3: client}
}

// Open returns a reader for a local path or an s3://bucket/key URL.
func (o *Opener) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if !IsS3(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URL(path)
	if err != nil {
		return nil, err
	}
	client, err := o.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return out.Body, nil
}

func (o *Opener) client(ctx context.Context) (ObjectGetter, error) {
	if o.s3 != nil {
		return o.s3, nil
	}
	opts := []func(*awsconfig.LoadOptions) error{}
	if o.cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(o.cfg.Region))
	}
	if o.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.cfg.AccessKey, o.cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	o.s3 = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		if o.cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.cfg.Endpoint)
			so.UsePathStyle = true
		}
	})
	return o.s3, nil
}

// IsS3 reports whether path names an object rather than a local file.
func IsS3(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(path string) (string, string, error) {
	rest, ok := strings.CutPrefix(path, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %s", path)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs a bucket and a key: %s", path)
	}
	return bucket, key, nil
}
