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
	"net/url"

	"github.com/DataDog/datadog-go/statsd"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg/reference"
)

// ReferenceParam is the query parameter which carries the reference token
const ReferenceParam = "ref"

// Initiator creates signing sessions at the provider
type Initiator struct {
	Provider Provider
	Codec    reference.Codec
	Stats    statsd.ClientInterface
}

// NewInitiator creates an Initiator which does not report metrics
func NewInitiator(provider Provider, codec reference.Codec) *Initiator {
	return &Initiator{
		Provider: provider,
		Codec:    codec,
		Stats:    &statsd.NoOpClient{},
	}
}

// CreateSession validates and submits the request. It returns the reference to the remote session and the URL
// the signer must be redirected to. The reference is attached to that URL as well.
// A failing provider call is not retried: it may have created a remote session anyway.
func (i *Initiator) CreateSession(ctx context.Context, request SigningRequest) (string, string, error) {
	if err := request.Validate(); err != nil {
		return "", "", err
	}

	log := logging.Log().WithField("externalID", request.ExternalID)

	created, err := i.Provider.CreateSession(ctx, request)
	if err != nil {
		log.WithError(err).Error("Provider rejected signing session")
		_ = i.Stats.Incr("session.rejected", nil, 1)
		return "", "", fmt.Errorf("%w: %w", ErrProviderRejected, err)
	}
	if created == nil || created.SessionID == "" || created.SignerURL == "" {
		log.Error("Provider returned an incomplete signing session")
		_ = i.Stats.Incr("session.rejected", nil, 1)
		return "", "", fmt.Errorf("%w: incomplete session returned", ErrProviderRejected)
	}
	log = log.WithField("sessionID", created.SessionID)

	ref, err := i.Codec.Encode(created.SessionID)
	if err != nil {
		return "", "", fmt.Errorf("could not encode reference: %w", err)
	}

	redirectURL, err := withReference(created.SignerURL, ref)
	if err != nil {
		log.WithError(err).Error("Provider returned an invalid signer URL")
		return "", "", fmt.Errorf("%w: invalid signer url", ErrProviderRejected)
	}

	if updater, ok := i.Provider.(RedirectUpdater); ok {
		redirect, err := redirectWithReference(request.Signers[0].Redirect, ref)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if err := updater.UpdateRedirect(ctx, *created, redirect); err != nil {
			log.WithError(err).Error("Could not attach reference to signer redirect")
			_ = i.Stats.Incr("session.rejected", nil, 1)
			return "", "", fmt.Errorf("%w: %w", ErrProviderRejected, err)
		}
	}

	log.Info("Signing session created")
	_ = i.Stats.Incr("session.created", nil, 1)
	return ref, redirectURL, nil
}

// redirectWithReference attaches the reference to every configured redirect URL
func redirectWithReference(redirect RedirectSettings, ref string) (RedirectSettings, error) {
	result := RedirectSettings{}
	for _, r := range []struct {
		src string
		dst *string
	}{{redirect.Success, &result.Success}, {redirect.Cancel, &result.Cancel}, {redirect.Error, &result.Error}} {
		if r.src == "" {
			continue
		}
		u, err := withReference(r.src, ref)
		if err != nil {
			return RedirectSettings{}, err
		}
		*r.dst = u
	}
	return result, nil
}

func withReference(rawURL string, ref string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("signer url must be absolute: '%s'", rawURL)
	}
	q := u.Query()
	q.Set(ReferenceParam, ref)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
