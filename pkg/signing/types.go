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

package signing

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Format is a packaging of the final signed document
type Format string

const (
	// FormatPades is a PDF with embedded long term validation signatures
	FormatPades Format = "pades"
	// FormatXades is an XML signature package
	FormatXades Format = "xades"
	// FormatNative is the provider native signature package
	FormatNative Format = "native"
	// FormatStandardPackaging is a zip containing the original document and the signatures
	FormatStandardPackaging Format = "standard_packaging"
)

var formatContentTypes = map[Format]string{
	FormatPades:             "application/pdf",
	FormatXades:             "application/xml",
	FormatNative:            "application/octet-stream",
	FormatStandardPackaging: "application/zip",
}

var formatExtensions = map[Format]string{
	FormatPades:             ".pdf",
	FormatXades:             ".xml",
	FormatNative:            ".bin",
	FormatStandardPackaging: ".zip",
}

// ParseFormat parses a format name, case insensitive.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := formatContentTypes[f]; !ok {
		return "", fmt.Errorf("unknown output format: '%s'", value)
	}
	return f, nil
}

// ContentType returns the MIME type of documents in this format
func (f Format) ContentType() string {
	if ct, ok := formatContentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileName derives the name of the signed file from the name of the original document.
// e.g. letter_of_intent.pdf becomes letter_of_intent_pades.pdf
func (f Format) FileName(original string) string {
	base := original
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "document"
	}
	ext, ok := formatExtensions[f]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("%s_%s%s", base, f, ext)
}

// SignatureMethod identifies an identity method a signer may use, e.g. NO_BANKID_NETCENTRIC
type SignatureMethod string

// RedirectSettings holds the URLs the provider sends the signer to when the signing ceremony ends
type RedirectSettings struct {
	Success string
	Cancel  string
	Error   string
}

// SignerPolicy describes how a single signer is allowed to sign
type SignerPolicy struct {
	// ExternalSignerID is generated by us and echoed by the provider
	ExternalSignerID string
	Methods          []SignatureMethod
	Redirect         RedirectSettings
}

// Notification holds the e-mail which is sent to signers when a signature is requested
type Notification struct {
	Language   string
	Subject    string
	Text       string
	SenderName string
}

// SigningRequest describes one document to be signed. It is created once per sign action and never mutated.
type SigningRequest struct {
	// ExternalID correlates the remote session with this request
	ExternalID   string
	Title        string
	FileName     string
	Document     []byte
	Formats      []Format
	Signers      []SignerPolicy
	ContactEmail string
	// Notification is optional
	Notification *Notification
	// GetSocialSecurityNumber asks the provider to return the national identity number of signers
	GetSocialSecurityNumber bool
}

// Validate checks whether the request can be submitted to a provider
func (r SigningRequest) Validate() error {
	if len(r.Document) == 0 {
		return fmt.Errorf("%w: document is empty", ErrInvalidRequest)
	}
	if len(r.Signers) == 0 {
		return fmt.Errorf("%w: at least one signer is required", ErrInvalidRequest)
	}
	if len(r.Formats) == 0 {
		return fmt.Errorf("%w: at least one output format is required", ErrInvalidRequest)
	}
	for _, f := range r.Formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// CreatedSession is returned by a provider after a signing session has been created
type CreatedSession struct {
	SessionID string
	// SignerID identifies the (first) signer at the provider
	SignerID string
	// SignerURL is where the browser of the (first) signer must be sent to
	SignerURL string
}

// CompletionStatus is a snapshot of the provider state of a session
type CompletionStatus struct {
	// DocumentStatus is the provider specific status text, informational only
	DocumentStatus string
	Completed      []Format
}

// Contains returns true when the given format has been completed
func (s *CompletionStatus) Contains(format Format) bool {
	if s == nil {
		return false
	}
	for _, f := range s.Completed {
		if f == format {
			return true
		}
	}
	return false
}

// Artifact is a signed document in a single output format
type Artifact struct {
	SessionID   string
	Format      Format
	FileName    string
	ContentType string
	Content     []byte
}

// Provider is the outbound port to the external signing provider.
type Provider interface {
	// CreateSession creates exactly one remote signing session
	CreateSession(ctx context.Context, request SigningRequest) (*CreatedSession, error)
	// Status returns the formats completed so far. A nil status without error is treated as nothing completed.
	Status(ctx context.Context, sessionID string) (*CompletionStatus, error)
	// Content opens the signed document in the given format. The caller must close it.
	Content(ctx context.Context, sessionID string, format Format) (io.ReadCloser, error)
}

// RedirectUpdater is implemented by providers which send the signer back to the redirect URLs registered at
// creation without passing on the query of the signer URL. The reference is attached to those URLs afterwards.
type RedirectUpdater interface {
	UpdateRedirect(ctx context.Context, session CreatedSession, redirect RedirectSettings) error
}
