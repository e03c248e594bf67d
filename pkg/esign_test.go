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

package pkg

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-esign/pkg/provider/dummy"
	"github.com/nuts-foundation/nuts-esign/pkg/provider/express"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
	"github.com/nuts-foundation/nuts-esign/pkg/transfer"
	"github.com/nuts-foundation/nuts-esign/test"
)

func testConfig(t *testing.T) Config {
	c := DefaultConfig()
	c.Document.Path = test.Document(t)
	c.Reference.Secret = "0123456789abcdef0123456789abcdef"
	c.Poll.Interval = "1ms"
	c.Poll.Timeout = "1s"
	return c
}

func strictMode(t *testing.T, value bool) {
	original := inStrictMode
	inStrictMode = func() bool { return value }
	t.Cleanup(func() { inStrictMode = original })
}

func TestESignInstance(t *testing.T) {
	assert.Same(t, ESignInstance(), ESignInstance())
	assert.Equal(t, DefaultConfig(), ESignInstance().Config)
}

func TestESign_Configure(t *testing.T) {
	t.Run("defaults with dummy provider", func(t *testing.T) {
		e := &ESign{Config: testConfig(t)}

		require.NoError(t, e.Configure())

		assert.True(t, e.configDone)
		assert.IsType(t, &dummy.Dummy{}, e.Provider)
		assert.Equal(t, transfer.ModeStream, e.DownloadMode())
		assert.Equal(t, "letter_of_intent.pdf", e.Poller.DocumentName)
		assert.Equal(t, 3, e.Poller.FailureThreshold)
		assert.Equal(t, signing.FormatPades, e.Format())
		assert.NoError(t, e.Shutdown())
	})

	t.Run("express provider", func(t *testing.T) {
		c := testConfig(t)
		c.Provider.Name = express.Name
		c.Provider.ClientID = "id"
		c.Provider.ClientSecret = "secret"
		e := &ESign{Config: c}

		require.NoError(t, e.Configure())

		assert.IsType(t, &express.Client{}, e.Provider)
	})

	t.Run("express provider in strict mode", func(t *testing.T) {
		strictMode(t, true)
		c := testConfig(t)
		c.Provider.Name = express.Name
		c.Provider.ClientID = "id"
		c.Provider.ClientSecret = "secret"
		e := &ESign{Config: c}

		require.NoError(t, e.Configure())
	})

	t.Run("durations and methods", func(t *testing.T) {
		c := testConfig(t)
		c.Reference.TTL = "1h"
		c.Document.SignatureMethods = "MITID, DK_NEMID,"
		c.Poll.MaxArtifactSize = 1024
		e := &ESign{Config: c}

		require.NoError(t, e.Configure())

		assert.Equal(t, time.Millisecond, e.Downloader.Interval)
		assert.Equal(t, time.Second, e.Downloader.Timeout)
		assert.Equal(t, int64(1024), e.Poller.MaxArtifactSize)
		assert.Equal(t, []signing.SignatureMethod{"MITID", "DK_NEMID"}, e.Builder.Template.Methods)
	})

	t.Run("random secret", func(t *testing.T) {
		c := testConfig(t)
		c.Reference.Secret = ""
		e := &ESign{Config: c}

		require.NoError(t, e.Configure())

		ref, err := e.Codec.Encode("session")
		require.NoError(t, err)
		id, err := e.Codec.Decode(ref)
		require.NoError(t, err)
		assert.Equal(t, "session", id)
	})

	t.Run("statsd", func(t *testing.T) {
		c := testConfig(t)
		c.Statsd.Addr = "localhost:8125"
		e := &ESign{Config: c}

		require.NoError(t, e.Configure())

		assert.NotNil(t, e.Stats)
		assert.NoError(t, e.Shutdown())
	})

	t.Run("invalid config", func(t *testing.T) {
		strictMode(t, true)
		e := &ESign{Config: testConfig(t)}

		err := e.Configure()

		assert.True(t, errors.Is(err, ErrDummyInStrictMode))
		assert.False(t, e.configDone)
	})

	t.Run("runs once", func(t *testing.T) {
		e := &ESign{Config: testConfig(t)}
		require.NoError(t, e.Configure())
		provider := e.Provider

		require.NoError(t, e.Configure())

		assert.Same(t, provider, e.Provider)
	})
}

func TestESign_Workflow(t *testing.T) {
	t.Run("stream", func(t *testing.T) {
		e := &ESign{Config: testConfig(t)}
		require.NoError(t, e.Configure())
		ctx := context.Background()

		ref, redirectURL, err := e.StartSigning(ctx)
		require.NoError(t, err)
		u, err := url.Parse(redirectURL)
		require.NoError(t, err)
		assert.Equal(t, "true", u.Query().Get(signing.SuccessParam))
		assert.Equal(t, ref, u.Query().Get(signing.ReferenceParam))

		status, err := e.SessionStatus(ctx, ref)
		require.NoError(t, err)
		assert.Empty(t, status.Completed)

		artifact, err := e.Fetch(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "letter_of_intent_pades.pdf", artifact.FileName)
		assert.True(t, strings.HasPrefix(string(artifact.Content), "%PDF-1.4"))
	})

	t.Run("persist", func(t *testing.T) {
		c := testConfig(t)
		dir := filepath.Dir(c.Document.Path)
		c.Download.Mode = string(transfer.ModePersist)
		c.Download.Location = "file://" + filepath.ToSlash(filepath.Join(dir, "signed"))
		e := &ESign{Config: c}
		require.NoError(t, e.Configure())
		ctx := context.Background()

		ref, _, err := e.StartSigning(ctx)
		require.NoError(t, err)
		location, err := e.Persist(ctx, ref)
		require.NoError(t, err)

		assert.Equal(t, transfer.ModePersist, e.DownloadMode())
		assert.True(t, strings.HasSuffix(location, "letter_of_intent_pades.pdf"))
		files, _ := filepath.Glob(filepath.Join(dir, "signed", "*", "letter_of_intent_pades.pdf"))
		assert.Len(t, files, 1)
	})

	t.Run("missing document", func(t *testing.T) {
		c := testConfig(t)
		c.Document.Path = "non-existing.pdf"
		e := &ESign{Config: c}
		require.NoError(t, e.Configure())

		_, _, err := e.StartSigning(context.Background())

		assert.Error(t, err)
	})

	t.Run("forged reference", func(t *testing.T) {
		e := &ESign{Config: testConfig(t)}
		require.NoError(t, e.Configure())

		_, err := e.Fetch(context.Background(), "forged")

		assert.True(t, errors.Is(err, signing.ErrRejected))
	})
}
