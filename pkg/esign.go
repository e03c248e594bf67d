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
	"fmt"
	"path/filepath"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	core "github.com/nuts-foundation/nuts-go-core"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg/provider/dummy"
	"github.com/nuts-foundation/nuts-esign/pkg/provider/express"
	"github.com/nuts-foundation/nuts-esign/pkg/reference"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
	"github.com/nuts-foundation/nuts-esign/pkg/transfer"
)

// statsdBuflen is the amount of metrics buffered before they are sent
const statsdBuflen = 16

// ESignClient is the interface used by the API and the CLI
type ESignClient interface {
	// StartSigning creates a signing session for the configured document and returns the reference and the signer URL
	StartSigning(ctx context.Context) (string, string, error)
	// SessionStatus performs a single status query
	SessionStatus(ctx context.Context, ref string) (*signing.CompletionStatus, error)
	// Fetch waits for the signed document and returns it
	Fetch(ctx context.Context, ref string) (*signing.Artifact, error)
	// Persist waits for the signed document and writes it to the configured download location
	Persist(ctx context.Context, ref string) (string, error)
	DownloadMode() transfer.Mode
	// Format returns the format of signed documents which are downloaded
	Format() signing.Format
	FrontendURL() string
}

// ESign wires the signing workflow together from its configuration
type ESign struct {
	Config     Config
	configOnce sync.Once
	configDone bool

	Stats      statsd.ClientInterface
	Provider   signing.Provider
	Codec      reference.Codec
	Builder    signing.Builder
	Initiator  *signing.Initiator
	Poller     *signing.Poller
	Downloader *transfer.Downloader
	mode       transfer.Mode
}

var instance *ESign
var oneBackend sync.Once

// inStrictMode returns the strict mode of the node
var inStrictMode = func() bool {
	return core.NutsConfig().InStrictMode()
}

// ESignInstance returns the singleton engine instance
func ESignInstance() *ESign {
	oneBackend.Do(func() {
		instance = &ESign{
			Config: DefaultConfig(),
		}
	})
	return instance
}

// Configure validates the configuration and creates all components. It only runs once.
func (e *ESign) Configure() (err error) {
	e.configOnce.Do(func() {
		strictMode := inStrictMode()
		if err = e.Config.Validate(strictMode); err != nil {
			return
		}
		if err = e.configure(context.Background(), strictMode); err != nil {
			return
		}
		e.configDone = true
	})
	return err
}

func (e *ESign) configure(ctx context.Context, strictMode bool) error {
	cfg := e.Config

	if err := e.addStats(); err != nil {
		return err
	}

	codec, err := newCodec(cfg.Reference)
	if err != nil {
		return err
	}
	e.Codec = codec

	if e.Provider, err = newProvider(ctx, cfg, strictMode); err != nil {
		return err
	}

	format, _ := signing.ParseFormat(cfg.Poll.Format)
	configured := cfg.Document.Methods()
	methods := make([]signing.SignatureMethod, len(configured))
	for i, m := range configured {
		methods[i] = signing.SignatureMethod(m)
	}
	e.Builder = signing.Builder{
		Template: signing.RequestTemplate{
			Title:                   cfg.Document.Title,
			ContactEmail:            cfg.Document.ContactEmail,
			Formats:                 []signing.Format{format},
			Methods:                 methods,
			FrontendURL:             cfg.FrontendURL,
			Language:                cfg.Document.Language,
			NotificationSubject:     cfg.Document.NotificationSubject,
			NotificationText:        cfg.Document.NotificationText,
			SenderName:              cfg.Document.SenderName,
			SigningDeadline:         duration(cfg.Document.SigningDeadline),
			GetSocialSecurityNumber: cfg.Document.SocialSecurityNumber,
		},
		Document: signing.FileDocument{Path: cfg.Document.Path},
	}

	e.Initiator = signing.NewInitiator(e.Provider, codec)
	e.Initiator.Stats = e.Stats

	e.Poller = signing.NewPoller(e.Provider, codec)
	e.Poller.Stats = e.Stats
	e.Poller.FailureThreshold = cfg.Poll.FailureThreshold
	e.Poller.MaxArtifactSize = int64(cfg.Poll.MaxArtifactSize)
	e.Poller.DocumentName = filepath.Base(cfg.Document.Path)

	var sink transfer.Sink
	if cfg.Download.Location != "" {
		if sink, err = transfer.NewSink(ctx, cfg.Download.Location); err != nil {
			return err
		}
	}
	if e.Downloader, err = transfer.NewDownloader(e.Poller, codec, sink, cfg.Download.IndexSize); err != nil {
		return errors.Wrap(err, "could not create downloader")
	}
	e.Downloader.Format = format
	e.Downloader.Interval = duration(cfg.Poll.Interval)
	e.Downloader.Timeout = duration(cfg.Poll.Timeout)
	e.Downloader.Stats = e.Stats

	e.mode, _ = transfer.ParseMode(cfg.Download.Mode)
	return nil
}

func newCodec(cfg ReferenceConfig) (reference.Codec, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		logging.Log().Warnf("No %s configured, using a random secret: references do not survive a restart", ConfReferenceSecret)
		var err error
		if secret, err = reference.RandomSecret(); err != nil {
			return nil, err
		}
	}
	return reference.NewCodec(secret, reference.WithTTL(duration(cfg.TTL)))
}

func newProvider(ctx context.Context, cfg Config, strictMode bool) (signing.Provider, error) {
	switch cfg.Provider.Name {
	case dummy.Name:
		logging.Log().Warn("Using the dummy signing provider, documents are not really signed")
		return dummy.New(strictMode), nil
	case express.Name:
		client, err := express.NewClient(ctx, express.Config{
			APIURL:       cfg.Provider.APIURL,
			TokenURL:     cfg.Provider.TokenURL,
			ClientID:     cfg.Provider.ClientID,
			ClientSecret: cfg.Provider.ClientSecret,
			Timeout:      duration(cfg.Provider.Timeout),
		})
		if err != nil {
			return nil, errors.Wrap(err, "could not create express client")
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown %s: '%s'", ConfProviderName, cfg.Provider.Name)
}

func (e *ESign) addStats() error {
	e.Stats = &statsd.NoOpClient{}
	if e.Config.Statsd.Addr == "" {
		logging.Log().Infof("Statsd left disabled as no %s was provided in config", ConfStatsdAddr)
		return nil
	}
	client, err := statsd.NewBuffered(e.Config.Statsd.Addr, statsdBuflen)
	if err != nil {
		return fmt.Errorf("error constructing statsd client: %w", err)
	}
	client.Namespace = e.Config.Statsd.Namespace
	e.Stats = client
	logging.Log().Infof("Statsd enabled at %s with namespace %s", e.Config.Statsd.Addr, e.Config.Statsd.Namespace)
	return nil
}

// Shutdown flushes metrics
func (e *ESign) Shutdown() error {
	if e.Stats == nil {
		return nil
	}
	return e.Stats.Close()
}

// StartSigning builds a request for the configured document and creates a session for it
func (e *ESign) StartSigning(ctx context.Context) (string, string, error) {
	request, err := e.Builder.Build(ctx)
	if err != nil {
		return "", "", err
	}
	return e.Initiator.CreateSession(ctx, request)
}

// SessionStatus returns the formats completed so far
func (e *ESign) SessionStatus(ctx context.Context, ref string) (*signing.CompletionStatus, error) {
	return e.Poller.Status(ctx, ref)
}

// Fetch waits for the signed document in the configured format
func (e *ESign) Fetch(ctx context.Context, ref string) (*signing.Artifact, error) {
	return e.Downloader.Fetch(ctx, ref)
}

// Persist waits for the signed document and writes it to the download location
func (e *ESign) Persist(ctx context.Context, ref string) (string, error) {
	return e.Downloader.Persist(ctx, ref)
}

// DownloadMode returns the configured download mode
func (e *ESign) DownloadMode() transfer.Mode {
	return e.mode
}

// Format returns the configured format of signed documents
func (e *ESign) Format() signing.Format {
	return e.Downloader.Format
}

// FrontendURL returns the configured frontend URL
func (e *ESign) FrontendURL() string {
	return e.Config.FrontendURL
}
