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
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	testIo "github.com/nuts-foundation/nuts-go-test/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-esign/pkg/signing"
)

type mockUploadAPI func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)

func (m mockUploadAPI) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	return m(ctx, input, opts...)
}

func testArtifact() *signing.Artifact {
	return &signing.Artifact{
		SessionID:   "session-1",
		Format:      signing.FormatPades,
		FileName:    "letter_of_intent_pades.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.7 signed"),
	}
}

func TestFileSink_Put(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		dir := testIo.TestDirectory(t)
		sink := FileSink{Dir: filepath.Join(dir, "not", "yet", "there")}

		location, err := sink.Put(context.Background(), testArtifact())

		require.NoError(t, err)
		expected := filepath.Join(dir, "not", "yet", "there", "session-1", "letter_of_intent_pades.pdf")
		assert.Equal(t, "file://"+filepath.ToSlash(expected), location)
		data, err := ioutil.ReadFile(expected)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7 signed", string(data))
	})

	t.Run("second put overwrites without leftovers", func(t *testing.T) {
		dir := testIo.TestDirectory(t)
		sink := FileSink{Dir: dir}
		artifact := testArtifact()

		_, err := sink.Put(context.Background(), artifact)
		require.NoError(t, err)
		artifact.Content = []byte("%PDF-1.7 signed again")
		_, err = sink.Put(context.Background(), artifact)
		require.NoError(t, err)

		entries, _ := ioutil.ReadDir(filepath.Join(dir, "session-1"))
		assert.Len(t, entries, 1)
		data, _ := ioutil.ReadFile(filepath.Join(dir, "session-1", "letter_of_intent_pades.pdf"))
		assert.Equal(t, "%PDF-1.7 signed again", string(data))
	})

	t.Run("directory can not be created", func(t *testing.T) {
		dir := testIo.TestDirectory(t)
		blocker := filepath.Join(dir, "file")
		require.NoError(t, ioutil.WriteFile(blocker, []byte{}, 0600))
		sink := FileSink{Dir: blocker}

		_, err := sink.Put(context.Background(), testArtifact())

		assert.Error(t, err)
	})
}

func TestS3Sink_Put(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var input *s3.PutObjectInput
		sink := &S3Sink{
			Uploader: mockUploadAPI(func(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
				input = in
				return &manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/signed/session-1/letter_of_intent_pades.pdf"}, nil
			}),
			Bucket: "bucket",
			Prefix: "signed",
		}

		location, err := sink.Put(context.Background(), testArtifact())

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.s3.amazonaws.com/signed/session-1/letter_of_intent_pades.pdf", location)
		require.NotNil(t, input)
		assert.Equal(t, "bucket", *input.Bucket)
		assert.Equal(t, "signed/session-1/letter_of_intent_pades.pdf", *input.Key)
		assert.Equal(t, "application/pdf", *input.ContentType)
		assert.Equal(t, `attachment; filename="letter_of_intent_pades.pdf"`, *input.ContentDisposition)
	})

	t.Run("location falls back to s3 url", func(t *testing.T) {
		sink := &S3Sink{
			Uploader: mockUploadAPI(func(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
				return &manager.UploadOutput{}, nil
			}),
			Bucket: "bucket",
		}

		location, err := sink.Put(context.Background(), testArtifact())

		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/session-1/letter_of_intent_pades.pdf", location)
	})

	t.Run("upload failed", func(t *testing.T) {
		uploadErr := errors.New("upload failed")
		sink := &S3Sink{
			Uploader: mockUploadAPI(func(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
				return nil, uploadErr
			}),
			Bucket: "bucket",
		}

		_, err := sink.Put(context.Background(), testArtifact())

		assert.True(t, errors.Is(err, uploadErr))
	})
}

func TestNewSink(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		sink, err := NewSink(context.Background(), "file:///var/lib/esign/")

		require.NoError(t, err)
		assert.Equal(t, FileSink{Dir: "/var/lib/esign/"}, sink)
	})

	t.Run("s3", func(t *testing.T) {
		sink, err := NewSink(context.Background(), "s3://bucket/signed/")

		require.NoError(t, err)
		s3Sink, ok := sink.(*S3Sink)
		require.True(t, ok)
		assert.Equal(t, "bucket", s3Sink.Bucket)
		assert.Equal(t, "signed/", s3Sink.Prefix)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewSink(context.Background(), "ftp://host/dir")

		assert.EqualError(t, err, "unsupported download location scheme 'ftp'")
	})

	t.Run("file without path", func(t *testing.T) {
		_, err := NewSink(context.Background(), "file://")

		assert.Error(t, err)
	})
}
