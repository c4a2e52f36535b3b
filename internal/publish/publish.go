// SPDX-License-Identifier: MPL-2.0

// Package publish uploads a built HTML tree to an S3 bucket.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
)

// ErrNoBucket is returned when no bucket is configured.
var ErrNoBucket = errors.New("s3 bucket required")

type (
	// PutObjectAPI is the part of the S3 client the publisher uses.
	PutObjectAPI interface {
		PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	}

	// ClientConfig selects the S3 endpoint. Credentials come from the
	// default AWS chain (environment, shared config, instance role).
	ClientConfig struct {
		Region string
		// Endpoint is an optional S3-compatible endpoint such as MinIO.
		Endpoint  string
		PathStyle bool
	}

	// Publisher uploads files under a key prefix.
	Publisher struct {
		client PutObjectAPI
		bucket string
		prefix string
		logger *log.Logger
	}
)

// NewClient builds an S3 client from the default AWS configuration.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// New returns a Publisher writing to bucket under prefix.
func New(client PutObjectAPI, bucket, prefix string, logger *log.Logger) (*Publisher, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Publisher{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

// Key returns the object key of a slash path relative to the published directory.
func (p *Publisher) Key(rel string) string {
	return p.prefix + rel
}

// Publish uploads every regular file under dir and returns how many were sent.
func (p *Publisher) Publish(ctx context.Context, dir string) (int, error) {
	var sent int
	err := filepath.WalkDir(dir, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		if err := p.put(ctx, file, filepath.ToSlash(rel)); err != nil {
			return err
		}
		sent++
		return nil
	})
	if err != nil {
		return sent, fmt.Errorf("publish %s to s3://%s/%s: %w", dir, p.bucket, p.prefix, err)
	}
	return sent, nil
}

func (p *Publisher) put(ctx context.Context, file, rel string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := p.Key(rel)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	if p.logger != nil {
		p.logger.Debug("uploaded", "key", key, "bytes", len(data))
	}
	return nil
}
