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

package express

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg/provider"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
)

// Name is the configuration name of this provider
const Name = "express"

const (
	DefaultAPIURL   = "https://api.idfy.io"
	DefaultTokenURL = "https://login.idfy.io/connect/token"
	DefaultTimeout  = 30 * time.Second
)

// DefaultScopes are the OAuth2 scopes needed to create documents and download their signed files
var DefaultScopes = []string{"document_read", "document_write", "document_file"}

const (
	redirectModeRedirect    = "redirect"
	mechanismIdentification = "identification"
	documentsPath           = "/signature/documents"
)

// Config holds the settings of the express signature API client
type Config struct {
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
	// HTTPClient is used as transport for both token and API requests when set
	HTTPClient *http.Client
}

// Client implements signing.Provider on top of the signature documents REST API
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a client which authenticates with OAuth2 client credentials. Tokens are fetched lazily and
// cached until they expire. ctx is only used for token requests and should live as long as the client.
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if len(config.Scopes) == 0 {
		config.Scopes = DefaultScopes
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, errors.New("client id and client secret are required")
	}

	baseURL, err := url.Parse(config.APIURL)
	if err != nil || !baseURL.IsAbs() {
		return nil, fmt.Errorf("invalid api url: '%s'", config.APIURL)
	}

	credentials := clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       config.Scopes,
	}
	if config.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, config.HTTPClient)
	}
	httpClient := credentials.Client(ctx)
	httpClient.Timeout = config.Timeout

	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// CreateSession creates a document with a single signer and returns the URL of that signer
func (c *Client) CreateSession(ctx context.Context, request signing.SigningRequest) (*signing.CreatedSession, error) {
	body := toCreateDocumentRequest(request)
	response := documentResponse{}
	if err := c.doJSON(ctx, http.MethodPost, documentsPath, nil, body, &response); err != nil {
		return nil, errors.Wrap(err, "could not create document")
	}
	if response.DocumentID == "" || len(response.Signers) == 0 {
		return nil, errors.New("document created without id or signers")
	}

	logging.Log().WithField("sessionID", response.DocumentID).WithField("externalID", request.ExternalID).Debug("Document created")
	return &signing.CreatedSession{
		SessionID: response.DocumentID,
		SignerID:  response.Signers[0].ID,
		SignerURL: response.Signers[0].URL,
	}, nil
}

// UpdateRedirect replaces the redirect URLs of the signer. The API does not forward the query of the signer URL,
// so the reference has to be part of the redirect URLs themselves.
func (c *Client) UpdateRedirect(ctx context.Context, session signing.CreatedSession, redirect signing.RedirectSettings) error {
	if session.SignerID == "" {
		return errors.New("unknown signer id")
	}
	body := updateSignerRequest{RedirectSettings: toRedirectSettings(redirect)}
	response := signerResponse{}
	if err := c.doJSON(ctx, http.MethodPatch, signerPath(session.SessionID, session.SignerID), nil, body, &response); err != nil {
		return errors.Wrap(err, "could not update signer")
	}
	logging.Log().WithField("sessionID", session.SessionID).Debug("Signer redirect updated")
	return nil
}

// Status returns the packages which are completed for the document
func (c *Client) Status(ctx context.Context, sessionID string) (*signing.CompletionStatus, error) {
	response := documentStatus{}
	if err := c.doJSON(ctx, http.MethodGet, documentPath(sessionID, "status"), nil, nil, &response); err != nil {
		return nil, errors.Wrap(err, "could not get document status")
	}

	status := &signing.CompletionStatus{DocumentStatus: response.DocumentStatus, Completed: []signing.Format{}}
	for _, p := range response.CompletedPackages {
		f, err := signing.ParseFormat(p)
		if err != nil {
			// e.g. packages added to the API after this client was written
			continue
		}
		status.Completed = append(status.Completed, f)
	}
	return status, nil
}

// Content opens the signed file in the given format
func (c *Client) Content(ctx context.Context, sessionID string, format signing.Format) (io.ReadCloser, error) {
	query := url.Values{}
	query.Set("fileFormat", string(format))
	resp, err := c.do(ctx, http.MethodGet, documentPath(sessionID, "files"), query, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not get signed file")
	}
	return resp.Body, nil
}

func (c *Client) doJSON(ctx context.Context, method, p string, query url.Values, in interface{}, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	resp, err := c.do(ctx, method, p, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// do executes the request. Responses other than 2xx are turned into a *provider.Error.
func (c *Client) do(ctx context.Context, method, p string, query url.Values, body io.Reader) (*http.Response, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.ErrorFromResponse(resp)
	}
	return resp, nil
}

func documentPath(sessionID string, action string) string {
	return path.Join(documentsPath, url.PathEscape(sessionID), action)
}

func signerPath(sessionID string, signerID string) string {
	return path.Join(documentPath(sessionID, "signers"), url.PathEscape(signerID))
}

func toRedirectSettings(r signing.RedirectSettings) redirectSettings {
	return redirectSettings{
		RedirectMode: redirectModeRedirect,
		Success:      r.Success,
		Cancel:       r.Cancel,
		Error:        r.Error,
	}
}

func toCreateDocumentRequest(request signing.SigningRequest) createDocumentRequest {
	formats := make([]string, len(request.Formats))
	for i, f := range request.Formats {
		formats[i] = string(f)
	}

	signers := make([]signerOptions, len(request.Signers))
	for i, s := range request.Signers {
		methods := make([]string, len(s.Methods))
		for j, m := range s.Methods {
			methods[j] = strings.ToUpper(string(m))
		}
		signers[i] = signerOptions{
			ExternalSignerID: s.ExternalSignerID,
			RedirectSettings: toRedirectSettings(s.Redirect),
			SignatureType: signatureType{
				Mechanism:        mechanismIdentification,
				SignatureMethods: methods,
			},
		}
	}

	result := createDocumentRequest{
		Title:      request.Title,
		ExternalID: request.ExternalID,
		DataToSign: dataToSign{
			Base64Content: base64.StdEncoding.EncodeToString(request.Document),
			FileName:      request.FileName,
			Packaging:     packaging{SignaturePackageFormats: formats},
		},
		ContactDetails: contactDetails{Email: request.ContactEmail},
		Signers:        signers,
	}
	if n := request.Notification; n != nil {
		result.Notification = &notification{SignRequest: signRequest{Email: []email{{
			Language:   n.Language,
			Subject:    n.Subject,
			Text:       n.Text,
			SenderName: n.SenderName,
		}}}}
	}
	if request.GetSocialSecurityNumber {
		result.Advanced = &advanced{GetSocialSecurityNumber: true}
	}
	return result
}
