/*
 * Nuts esign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-esign/pkg/signing"
)

// Sink receives signed documents
type Sink interface {
	// Put stores the artifact and returns where it can be found. Putting the same artifact twice overwrites it.
	Put(ctx context.Context, artifact *signing.Artifact) (string, error)
}

// NewSink creates a sink for a file:// or s3:// location
func NewSink(ctx context.Context, location string) (Sink, error) {
	parsedURL, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse download location")
	}
	switch parsedURL.Scheme {
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load aws configuration")
		}
		return &S3Sink{
			Uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
			Bucket:   parsedURL.Host,
			Prefix:   strings.TrimPrefix(parsedURL.Path, "/"),
		}, nil
	case "file":
		if parsedURL.Path == "" {
			return nil, fmt.Errorf("download location '%s' has no path", location)
		}
		return FileSink{Dir: parsedURL.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported download location scheme '%s'", parsedURL.Scheme)
	}
}

// objectName is the name of an artifact relative to the root of a sink
func objectName(artifact *signing.Artifact) string {
	return path.Join(artifact.SessionID, artifact.FileName)
}

// FileSink writes artifacts below a local directory
type FileSink struct {
	Dir string
}

// Put writes to a temporary file first so a partially written document is never visible under its final name
func (f FileSink) Put(_ context.Context, artifact *signing.Artifact) (string, error) {
	target := filepath.Join(f.Dir, filepath.FromSlash(objectName(artifact)))
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to make directory")
	}

	tmp, err := ioutil.TempFile(dir, ".partial-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact.Content); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "failed to write file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to write file")
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", errors.Wrap(err, "failed to move file into place")
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}

// S3UploadAPI is the part of the s3 upload manager used by S3Sink
type S3UploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Sink uploads artifacts to a bucket
type S3Sink struct {
	Uploader S3UploadAPI
	Bucket   string
	Prefix   string
}

// Put uploads the artifact as attachment and returns its location
func (s *S3Sink) Put(ctx context.Context, artifact *signing.Artifact) (string, error) {
	key := path.Join(s.Prefix, objectName(artifact))
	output, err := s.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(artifact.Content),
		ContentType:        aws.String(artifact.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", artifact.FileName)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to bucket %s", key, s.Bucket)
	}
	if output != nil && output.Location != "" {
		return output.Location, nil
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}
