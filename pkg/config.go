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
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nuts-foundation/nuts-esign/pkg/provider/dummy"
	"github.com/nuts-foundation/nuts-esign/pkg/provider/express"
	"github.com/nuts-foundation/nuts-esign/pkg/reference"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
	"github.com/nuts-foundation/nuts-esign/pkg/transfer"
)

// Configuration keys, nested keys are separated by a dot
const (
	ConfAddress                      = "address"
	ConfFrontendURL                  = "frontendUrl"
	ConfProviderName                 = "provider.name"
	ConfProviderAPIURL               = "provider.apiUrl"
	ConfProviderTokenURL             = "provider.tokenUrl"
	ConfProviderClientID             = "provider.clientId"
	ConfProviderClientSecret         = "provider.clientSecret"
	ConfProviderTimeout              = "provider.timeout"
	ConfReferenceSecret              = "reference.secret"
	ConfReferenceTTL                 = "reference.ttl"
	ConfDocumentPath                 = "document.path"
	ConfDocumentTitle                = "document.title"
	ConfDocumentContactEmail         = "document.contactEmail"
	ConfDocumentSignatureMethods     = "document.signatureMethods"
	ConfDocumentLanguage             = "document.language"
	ConfDocumentNotificationSubject  = "document.notificationSubject"
	ConfDocumentNotificationText     = "document.notificationText"
	ConfDocumentSenderName           = "document.senderName"
	ConfDocumentSigningDeadline      = "document.signingDeadline"
	ConfDocumentSocialSecurityNumber = "document.socialSecurityNumber"
	ConfPollInterval                 = "poll.interval"
	ConfPollTimeout                  = "poll.timeout"
	ConfPollFailureThreshold         = "poll.failureThreshold"
	ConfPollFormat                   = "poll.format"
	ConfPollMaxArtifactSize          = "poll.maxArtifactSize"
	ConfDownloadMode                 = "download.mode"
	ConfDownloadLocation             = "download.location"
	ConfDownloadIndexSize            = "download.indexSize"
	ConfStatsdAddr                   = "statsd.addr"
	ConfStatsdNamespace              = "statsd.namespace"
)

// ErrDummyInStrictMode is returned when the dummy provider is configured while strict mode is on
var ErrDummyInStrictMode = errors.New("dummy provider can not be used in strict mode")

// Config holds all the configuration params. Durations are Go duration strings such as "1s" or "2m".
type Config struct {
	Address     string
	FrontendURL string
	Provider    ProviderConfig
	Reference   ReferenceConfig
	Document    DocumentConfig
	Poll        PollConfig
	Download    DownloadConfig
	Statsd      StatsdConfig
}

// ProviderConfig selects and configures the signing provider
type ProviderConfig struct {
	Name         string
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      string
}

// ReferenceConfig configures the reference tokens handed to browsers
type ReferenceConfig struct {
	// Secret is the HMAC key, a random key is generated when empty
	Secret string
	// TTL is the validity of references, empty or 0 means they never expire
	TTL string
}

// DocumentConfig describes the document which is offered for signing
type DocumentConfig struct {
	Path         string
	Title        string
	ContactEmail string
	// SignatureMethods is a comma separated list
	SignatureMethods     string
	Language             string
	NotificationSubject  string
	NotificationText     string
	SenderName           string
	SigningDeadline      string
	SocialSecurityNumber bool
}

// Methods returns the configured signature methods
func (c DocumentConfig) Methods() []string {
	var methods []string
	for _, m := range strings.Split(c.SignatureMethods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

// PollConfig configures waiting for signed documents
type PollConfig struct {
	Interval         string
	Timeout          string
	FailureThreshold int
	Format           string
	// MaxArtifactSize is in bytes
	MaxArtifactSize int
}

// DownloadConfig configures how signed documents are handed over
type DownloadConfig struct {
	Mode      string
	Location  string
	IndexSize int
}

// StatsdConfig enables metrics when Addr is set
type StatsdConfig struct {
	Addr      string
	Namespace string
}

// DefaultConfig returns the configuration used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Address:     "localhost:4242",
		FrontendURL: "http://localhost:3000",
		Provider: ProviderConfig{
			Name:     dummy.Name,
			APIURL:   express.DefaultAPIURL,
			TokenURL: express.DefaultTokenURL,
			Timeout:  express.DefaultTimeout.String(),
		},
		Document: DocumentConfig{
			Path:                 "letter_of_intent.pdf",
			Title:                "Sign job",
			ContactEmail:         "your@company.com",
			SignatureMethods:     "NO_BANKID_NETCENTRIC,MITID,DK_NEMID",
			Language:             "NO",
			SigningDeadline:      (7 * 24 * time.Hour).String(),
			SocialSecurityNumber: true,
		},
		Poll: PollConfig{
			Interval:         "1s",
			Timeout:          "2m",
			FailureThreshold: signing.DefaultFailureThreshold,
			Format:           string(signing.FormatPades),
			MaxArtifactSize:  signing.DefaultMaxArtifactSize,
		},
		Download: DownloadConfig{
			Mode:      string(transfer.ModeStream),
			IndexSize: 1024,
		},
		Statsd: StatsdConfig{
			Namespace: "esign.",
		},
	}
}

// Validate checks the configuration for values which can not work. The dummy provider is refused in strict mode.
func (c Config) Validate(strictMode bool) error {
	if u, err := url.Parse(c.FrontendURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("invalid %s: '%s'", ConfFrontendURL, c.FrontendURL)
	}

	switch c.Provider.Name {
	case dummy.Name:
		if strictMode {
			return ErrDummyInStrictMode
		}
	case express.Name:
		if c.Provider.ClientID == "" || c.Provider.ClientSecret == "" {
			return fmt.Errorf("%s and %s are required for provider %s", ConfProviderClientID, ConfProviderClientSecret, express.Name)
		}
	default:
		return fmt.Errorf("unknown %s: '%s'", ConfProviderName, c.Provider.Name)
	}

	if c.Reference.Secret != "" && len(c.Reference.Secret) < reference.MinSecretLength {
		return fmt.Errorf("%s must be at least %d bytes", ConfReferenceSecret, reference.MinSecretLength)
	}
	for key, value := range map[string]string{
		ConfProviderTimeout:         c.Provider.Timeout,
		ConfReferenceTTL:            c.Reference.TTL,
		ConfDocumentSigningDeadline: c.Document.SigningDeadline,
	} {
		if d, err := parseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("invalid %s: '%s'", key, value)
		}
	}

	if _, err := signing.ParseFormat(c.Poll.Format); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfPollFormat, err)
	}
	interval, err := parseDuration(c.Poll.Interval)
	if err != nil || interval <= 0 {
		return fmt.Errorf("%s must be a positive duration, got '%s'", ConfPollInterval, c.Poll.Interval)
	}
	timeout, err := parseDuration(c.Poll.Timeout)
	if err != nil || timeout <= 0 {
		return fmt.Errorf("%s must be a positive duration, got '%s'", ConfPollTimeout, c.Poll.Timeout)
	}
	if c.Poll.FailureThreshold <= 0 {
		return fmt.Errorf("%s must be positive", ConfPollFailureThreshold)
	}
	if c.Poll.MaxArtifactSize <= 0 {
		return fmt.Errorf("%s must be positive", ConfPollMaxArtifactSize)
	}

	mode, err := transfer.ParseMode(c.Download.Mode)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfDownloadMode, err)
	}
	if mode == transfer.ModePersist && c.Download.Location == "" {
		return fmt.Errorf("%s is required in %s mode", ConfDownloadLocation, transfer.ModePersist)
	}
	if c.Download.IndexSize <= 0 {
		return fmt.Errorf("%s must be positive", ConfDownloadIndexSize)
	}
	return nil
}

// parseDuration parses a Go duration string, empty means 0
func parseDuration(value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return time.ParseDuration(strings.TrimSpace(value))
}

// duration returns the value of a validated duration
func duration(value string) time.Duration {
	d, _ := parseDuration(value)
	return d
}
