// Package objstore stores event photos and team avatars in S3.
package objstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Key prefixes.
const (
	EventPhotosPrefix = "events/photos/"
	TeamAvatarsPrefix = "teams/avatars/"
)

// Store is the subset of object storage the app uses.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, opts *PutOptions) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// PutOptions controls how an object is written.
type PutOptions struct {
	ContentType string
	Public      bool
}

// Config selects the bucket and region.
type Config struct {
	Bucket string
	Region string
}

// S3 is a Store backed by an S3 bucket.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 loads the default AWS credential chain and returns an S3 store.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("objstore: bucket is required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objstore: load aws config: %w", err)
	}
	return &S3{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// Put uploads body under key.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, opts *PutOptions) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts != nil {
		if opts.ContentType != "" {
			in.ContentType = aws.String(opts.ContentType)
		}
		if opts.Public {
			in.ACL = s3types.ObjectCannedACLPublicRead
		}
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error in S3.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the path-style URL of a public object.
func (s *S3) PublicURL(key string) string {
	return PublicURL(s.bucket, key)
}

// PublicURL returns https://s3.amazonaws.com/<bucket>/<key>.
func PublicURL(bucket, key string) string {
	return "https://s3.amazonaws.com/" + bucket + "/" + key
}

// EventPhotoKey maps a stored photo URL to its object key. Only the last
// path segment of the URL is kept.
func EventPhotoKey(photoURL string) string {
	return EventPhotosPrefix + baseName(photoURL)
}

// TeamAvatarKey returns the object key of a team avatar file.
func TeamAvatarKey(fileName string) string {
	return TeamAvatarsPrefix + baseName(fileName)
}

func baseName(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return path.Base(s)
}
