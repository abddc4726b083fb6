// Package objectstore turns s3:// document locators into time-limited download links.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotS3Locator = errors.New("locator is not an s3:// path")

const s3Scheme = "s3://"

// Config is read with the DOCUMENTS prefix.
type Config struct {
	Presign    bool          `split_words:"true" default:"false"`
	PresignTTL time.Duration `split_words:"true" default:"15m"`
	AWSRegion  string        `split_words:"true" default:"ap-south-1"`
	// Endpoint overrides the S3 endpoint, e.g. http://localhost:4566 for localstack.
	Endpoint string `split_words:"true"`
}

// Presigner is the subset of *s3.PresignClient used here.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Linker struct {
	presigner Presigner
	ttl       time.Duration
}

func NewLinker(p Presigner, ttl time.Duration) *Linker {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Linker{presigner: p, ttl: ttl}
}

// New loads the default AWS credential chain and builds a presigning linker.
func New(ctx context.Context, cfg Config) (*Linker, error) {
	region := strings.TrimSpace(cfg.AWSRegion)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return NewLinker(s3.NewPresignClient(client), cfg.PresignTTL), nil
}

// ParseLocator splits s3://bucket/key into its parts.
func ParseLocator(locator string) (bucket, key string, ok bool) {
	locator = strings.TrimSpace(locator)
	if !strings.HasPrefix(locator, s3Scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(locator, s3Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || strings.TrimLeft(key, "/") == "" {
		return "", "", false
	}
	return bucket, strings.TrimLeft(key, "/"), true
}

func (l *Linker) DownloadURL(ctx context.Context, locator string) (string, error) {
	bucket, key, ok := ParseLocator(locator)
	if !ok {
		return "", ErrNotS3Locator
	}

	req, err := l.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) { o.Expires = l.ttl })
	if err != nil {
		return "", fmt.Errorf("objectstore: presign %s: %w", locator, err)
	}
	return req.URL, nil
}

func (l *Linker) TTL() time.Duration {
	return l.ttl
}
