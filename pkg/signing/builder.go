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
	"io/ioutil"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/goodsign/monday"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const deadlineLayout = "Monday, 2 January 2006 15:04"

// Outcome query parameters appended to the frontend URL, the frontend switches on these
const (
	SuccessParam  = "success"
	CanceledParam = "canceled"
	ErrorParam    = "error"
	DownloadParam = "download"
)

var localesByLanguage = map[string]monday.Locale{
	"NO": monday.LocaleNbNO,
	"DA": monday.LocaleDaDK,
	"SV": monday.LocaleSvSE,
	"FI": monday.LocaleFiFI,
	"NL": monday.LocaleNlNL,
	"EN": monday.LocaleEnUS,
}

// DocumentSource provides the bytes of the document to sign
type DocumentSource interface {
	Name() string
	Load(ctx context.Context) ([]byte, error)
}

// FileDocument reads the document from the local file system on every Load
type FileDocument struct {
	Path string
}

// Name returns the base name of the file
func (f FileDocument) Name() string {
	return filepath.Base(f.Path)
}

// Load reads the whole file
func (f FileDocument) Load(_ context.Context) ([]byte, error) {
	data, err := ioutil.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read document '%s'", f.Path)
	}
	return data, nil
}

// RequestTemplate holds everything except the document needed to build a SigningRequest
type RequestTemplate struct {
	Title        string
	ContactEmail string
	Formats      []Format
	Methods      []SignatureMethod
	// FrontendURL is the base of the success, cancel and error redirect URLs
	FrontendURL string
	// Language of the notification, e.g. NO
	Language string
	// NotificationSubject, NotificationText and SenderName are mustache templates. No notification is sent when the
	// text is empty. Available variables: title, sender, deadline
	NotificationSubject string
	NotificationText    string
	SenderName          string
	// SigningDeadline is rendered in the notification as the moment the signer should have signed
	SigningDeadline         time.Duration
	GetSocialSecurityNumber bool
}

// Builder creates a SigningRequest for every sign action
type Builder struct {
	Template RequestTemplate
	Document DocumentSource
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

// Build loads the document and assembles a new request with fresh correlation identifiers
func (b Builder) Build(ctx context.Context) (SigningRequest, error) {
	data, err := b.Document.Load(ctx)
	if err != nil {
		return SigningRequest{}, err
	}

	redirect, err := b.redirectSettings()
	if err != nil {
		return SigningRequest{}, err
	}

	notification, err := b.renderNotification()
	if err != nil {
		return SigningRequest{}, err
	}

	return SigningRequest{
		ExternalID:   uuid.New().String(),
		Title:        b.Template.Title,
		FileName:     b.Document.Name(),
		Document:     data,
		Formats:      append([]Format{}, b.Template.Formats...),
		ContactEmail: b.Template.ContactEmail,
		Signers: []SignerPolicy{{
			ExternalSignerID: uuid.New().String(),
			Methods:          append([]SignatureMethod{}, b.Template.Methods...),
			Redirect:         redirect,
		}},
		Notification:            notification,
		GetSocialSecurityNumber: b.Template.GetSocialSecurityNumber,
	}, nil
}

func (b Builder) redirectSettings() (RedirectSettings, error) {
	success, err := OutcomeURL(b.Template.FrontendURL, SuccessParam)
	if err != nil {
		return RedirectSettings{}, err
	}
	cancel, _ := OutcomeURL(b.Template.FrontendURL, CanceledParam)
	failed, _ := OutcomeURL(b.Template.FrontendURL, ErrorParam)
	return RedirectSettings{Success: success, Cancel: cancel, Error: failed}, nil
}

// OutcomeURL adds <outcome>=true to the frontend URL
func OutcomeURL(frontendURL string, outcome string) (string, error) {
	u, err := url.Parse(frontendURL)
	if err != nil || !u.IsAbs() {
		return "", fmt.Errorf("invalid frontend url: '%s'", frontendURL)
	}
	q := u.Query()
	q.Set(outcome, "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (b Builder) renderNotification() (*Notification, error) {
	if strings.TrimSpace(b.Template.NotificationText) == "" {
		return nil, nil
	}

	language := strings.ToUpper(b.Template.Language)
	locale, ok := localesByLanguage[language]
	if !ok {
		locale = monday.LocaleEnUS
	}
	now := time.Now
	if b.NowFunc != nil {
		now = b.NowFunc
	}

	vars := map[string]string{
		"title":    b.Template.Title,
		"sender":   b.Template.SenderName,
		"deadline": monday.Format(now().Add(b.Template.SigningDeadline), deadlineLayout, locale),
	}

	subject, err := mustache.Render(b.Template.NotificationSubject, vars)
	if err != nil {
		return nil, fmt.Errorf("could not render notification subject: %w", err)
	}
	text, err := mustache.Render(b.Template.NotificationText, vars)
	if err != nil {
		return nil, fmt.Errorf("could not render notification text: %w", err)
	}
	sender, err := mustache.Render(b.Template.SenderName, vars)
	if err != nil {
		return nil, fmt.Errorf("could not render notification sender: %w", err)
	}

	return &Notification{
		Language:   language,
		Subject:    subject,
		Text:       text,
		SenderName: sender,
	}, nil
}
