package traqcal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/caarlos0/env/v11"
	"github.com/carbocation/pfx"
)

// S3Config holds the client settings for s3:// locations. Credentials come from
// the default AWS chain (AWS_ACCESS_KEY_ID etc.).
type S3Config struct {
	Region string `env:"TRAQCAL_S3_REGION" envDefault:"us-east-1"`

	// Endpoint is set for S3-compatible services such as MinIO.
	Endpoint  string `env:"TRAQCAL_S3_ENDPOINT"`
	PathStyle bool   `env:"TRAQCAL_S3_PATH_STYLE"`
}

// S3ConfigFromEnv reads S3Config from the process environment.
func S3ConfigFromEnv() (S3Config, error) {
	var cfg S3Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// S3Store reads s3://bucket/path locations.
type S3Store struct {
	client *s3.Client
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, pfx.Err(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{client: client}, nil
}

// List mirrors GSStore.List: objects and common prefixes directly under dir,
// and fs.ErrNotExist when nothing lives there.
func (s *S3Store) List(ctx context.Context, dir string) ([]Entry, error) {
	bucketName, key, err := splitBucketPath(dir, SchemeS3)
	if err != nil {
		return nil, err
	}
	prefix := dirPrefix(key)

	var out []Entry
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucketName),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", dir, err))
		}

		for _, cp := range page.CommonPrefixes {
			p := aws.ToString(cp.Prefix)
			out = append(out, Entry{
				Path:  SchemeS3 + bucketName + "/" + p,
				Name:  objectName(p),
				IsDir: true,
			})
		}

		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			if k == prefix {
				continue
			}
			out = append(out, Entry{
				Path: SchemeS3 + bucketName + "/" + k,
				Name: objectName(k),
			})
		}

		if page.IsTruncated != nil && *page.IsTruncated && page.NextContinuationToken != nil {
			token = page.NextContinuationToken
			continue
		}
		break
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}

	return out, nil
}

func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucketName, key, err := splitBucketPath(path, SchemeS3)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("%s names a bucket, not an object", path)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return out.Body, nil
}
