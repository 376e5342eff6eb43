// Package source extracts the raw tables of a batch from local files or
// S3 objects.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const s3Scheme = "s3://"

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrNoS3Client      = errors.New("s3 location given but no s3 client configured")
)

// GetObjectAPI is the slice of the S3 client the extractor needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Extractor interface {
	Extract(ctx context.Context, name, location string) (domain.Table, error)
}

type extractor struct {
	fs afero.Fs
	s3 GetObjectAPI
}

// NewExtractor reads local paths through fs and s3://bucket/key locations
// through client. client may be nil when no input lives in S3.
func NewExtractor(fs afero.Fs, client GetObjectAPI) Extractor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &extractor{
		fs: fs,
		s3: client,
	}
}

// NewS3Client builds a client from the default AWS credential chain.
func NewS3Client(ctx context.Context) (GetObjectAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NeedsS3 reports whether any location points at S3.
func NeedsS3(locations ...string) bool {
	for _, l := range locations {
		if strings.HasPrefix(l, s3Scheme) {
			return true
		}
	}
	return false
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 location", ErrInvalidLocation, location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q must look like s3://bucket/key", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

func (e *extractor) Extract(ctx context.Context, name, location string) (domain.Table, error) {
	logger := zerolog.Ctx(ctx)

	rc, err := e.open(ctx, location)
	if err != nil {
		return domain.Table{}, err
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			logger.Warn().Err(err).Str("location", location).Msg("failed to close source")
		}
	}(rc)

	table, err := ReadCSV(rc, name)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to extract %s from %s: %w", name, location, err)
	}

	logger.Info().Str("table", name).Str("location", location).Int("rows", table.Len()).Msg("extracted")
	return table, nil
}

func (e *extractor) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}
	if !strings.HasPrefix(location, s3Scheme) {
		f, err := e.fs.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}

	if e.s3 == nil {
		return nil, ErrNoS3Client
	}
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	out, err := e.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}
	return out.Body, nil
}
