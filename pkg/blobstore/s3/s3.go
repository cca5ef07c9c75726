// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package s3 backs a sendwire `data` field with an S3-compatible
// object store: Source produces a sendwire.DataSource for writing a
// field from an object already at rest, and Sink produces an
// io.WriteCloser a Reader's blob can be drained into. Both hold the
// whole object in memory: Source reads it fully before returning, and
// Sink buffers every write until Close uploads it.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sendwire/sendwire/pkg/sendwire"
	"github.com/sendwire/sendwire/pkg/sendwirelog"
)

// ErrBlobStoreUnconfigured reports that a Store was asked to serve a
// Source or Sink before it had a usable client, i.e. Config.Bucket was
// left empty.
var ErrBlobStoreUnconfigured = errors.New("[blobstore/s3]> store not configured with a bucket")

// Config describes how to reach an S3-compatible endpoint.
type Config struct {
	Endpoint     string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Region       string
	UsePathStyle bool
}

// Store is an S3-backed source of sendwire.DataSource values and sink
// of io.WriteCloser values, keyed by object name within one bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New builds a Store from cfg. It does not contact the endpoint; the
// first Source call, or the Close of a Sink, does.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrBlobStoreUnconfigured
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("[blobstore/s3]> load AWS config: %w", err)
	}

	opts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}

	return &Store{client: s3.NewFromConfig(awsCfg, opts), bucket: cfg.Bucket}, nil
}

// Source fetches the object at key in full and returns it as a
// sendwire.DataSource. S3 objects are not natively seekable, so the
// body is buffered into memory once here; callers streaming payloads
// larger than memory should chunk objects across several keys rather
// than rely on a single Source call.
func (st *Store) Source(ctx context.Context, key string) (sendwire.DataSource, error) {
	if st == nil || st.client == nil {
		return nil, ErrBlobStoreUnconfigured
	}

	out, err := st.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("[blobstore/s3]> get object %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("[blobstore/s3]> read object %q: %w", key, err)
	}

	sendwirelog.Debugf("blobstore/s3: fetched %d byte(s) for key %q", len(data), key)
	return bytes.NewReader(data), nil
}

// Sink returns an io.WriteCloser that buffers writes and uploads them
// as a single object under key when Close is called.
func (st *Store) Sink(ctx context.Context, key string) (io.WriteCloser, error) {
	if st == nil || st.client == nil {
		return nil, ErrBlobStoreUnconfigured
	}
	return &objectSink{ctx: ctx, client: st.client, bucket: st.bucket, key: key}, nil
}

type objectSink struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
	closed bool
}

func (s *objectSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("[blobstore/s3]> write to closed sink for key %q", s.key)
	}
	return s.buf.Write(p)
}

func (s *objectSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   bytes.NewReader(s.buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("[blobstore/s3]> put object %q: %w", s.key, err)
	}
	sendwirelog.Debugf("blobstore/s3: uploaded %d byte(s) for key %q", s.buf.Len(), s.key)
	return nil
}
