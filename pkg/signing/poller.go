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
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/sirupsen/logrus"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg/provider"
	"github.com/nuts-foundation/nuts-esign/pkg/reference"
)

// DefaultFailureThreshold is the default amount of consecutive failing status queries after which polling stops
const DefaultFailureThreshold = 3

// DefaultMaxArtifactSize limits the size of a downloaded signed document
const DefaultMaxArtifactSize = 64 << 20

// maxFetchAttempts allows a single return to polling after a failed fetch
const maxFetchAttempts = 2

var errArtifactTooLarge = errors.New("signed document exceeds maximum size")

// State is a state of a single AwaitAndFetch invocation
type State int

const (
	StateDecoding State = iota
	StatePolling
	StateFetching
	StateReady
	StateRejected
	StateTimedOut
	StateProviderUnavailable
	StateFetchFailed
	// StateAbandoned is entered when the caller cancelled the context
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateDecoding:
		return "decoding"
	case StatePolling:
		return "polling"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateRejected:
		return "rejected"
	case StateTimedOut:
		return "timed_out"
	case StateProviderUnavailable:
		return "provider_unavailable"
	case StateFetchFailed:
		return "fetch_failed"
	case StateAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Terminal returns true for states after which no provider calls are made
func (s State) Terminal() bool {
	return s >= StateReady
}

// Poller waits for a signing session to complete and fetches the signed document
type Poller struct {
	Provider Provider
	Codec    reference.Codec
	Clock    Clock
	Stats    statsd.ClientInterface
	// FailureThreshold is the amount of consecutive failing status queries which ends polling
	FailureThreshold int
	// MaxArtifactSize is the maximum amount of bytes read from a signed document
	MaxArtifactSize int64
	// DocumentName is the file name of the original document, used to name artifacts
	DocumentName string
}

// NewPoller creates a Poller with default settings
func NewPoller(provider Provider, codec reference.Codec) *Poller {
	return &Poller{
		Provider:         provider,
		Codec:            codec,
		Clock:            SystemClock{},
		Stats:            &statsd.NoOpClient{},
		FailureThreshold: DefaultFailureThreshold,
		MaxArtifactSize:  DefaultMaxArtifactSize,
	}
}

// Status decodes the reference and performs a single status query
func (p *Poller) Status(ctx context.Context, ref string) (*CompletionStatus, error) {
	sessionID, err := p.Codec.Decode(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	status, err := p.Provider.Status(ctx, sessionID)
	if err != nil {
		logging.Log().WithError(err).WithField("sessionID", sessionID).Warn("Session status query failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if status == nil {
		status = &CompletionStatus{Completed: []Format{}}
	}
	return status, nil
}

// AwaitAndFetch polls the provider until targetFormat is completed for the session identified by the reference
// and returns the signed document. Status queries are spaced pollInterval apart, errors included. Polling ends with
// ErrTimedOut after timeout, with ErrProviderUnavailable after FailureThreshold consecutive failing queries.
// A failed download returns to polling once before ErrFetchFailed is returned.
// When ctx is cancelled the context error is returned and no further provider calls are made.
func (p *Poller) AwaitAndFetch(ctx context.Context, ref string, targetFormat Format, pollInterval, timeout time.Duration) (*Artifact, error) {
	if pollInterval <= 0 || timeout <= 0 {
		return nil, fmt.Errorf("poll interval and timeout must be positive, got %s and %s", pollInterval, timeout)
	}

	run := &pollRun{
		poller:   p,
		ctx:      ctx,
		ref:      ref,
		target:   targetFormat,
		interval: pollInterval,
		timeout:  timeout,
		start:    p.Clock.Now(),
		log:      logging.Log().WithField("format", targetFormat),
	}

	state := StateDecoding
	for !state.Terminal() {
		switch state {
		case StateDecoding:
			state = run.decode()
		case StatePolling:
			state = run.poll()
		case StateFetching:
			state = run.fetch()
		}
	}
	return run.finish(state)
}

// pollRun holds the state of one AwaitAndFetch invocation, it is never shared
type pollRun struct {
	poller   *Poller
	ctx      context.Context
	ref      string
	target   Format
	interval time.Duration
	timeout  time.Duration
	start    time.Time
	log      *logrus.Entry

	sessionID     string
	failures      int
	fetchAttempts int
	lastErr       error
	artifact      *Artifact
}

func (r *pollRun) decode() State {
	sessionID, err := r.poller.Codec.Decode(r.ref)
	if err != nil {
		r.lastErr = err
		return StateRejected
	}
	r.sessionID = sessionID
	r.log = r.log.WithField("sessionID", sessionID)
	return StatePolling
}

func (r *pollRun) poll() State {
	if r.ctx.Err() != nil {
		return StateAbandoned
	}

	status, err := r.poller.Provider.Status(r.ctx, r.sessionID)
	if err != nil {
		if r.ctx.Err() != nil {
			return StateAbandoned
		}
		r.failures++
		r.lastErr = err
		r.log.WithError(err).WithField("providerStatus", provider.StatusCode(err)).
			Warnf("Session status query failed (%d/%d)", r.failures, r.poller.threshold())
		_ = r.poller.Stats.Incr("poll.status.error", nil, 1)
		if r.failures >= r.poller.threshold() || permanent(err) {
			return StateProviderUnavailable
		}
	} else {
		r.failures = 0
		_ = r.poller.Stats.Incr("poll.status.ok", nil, 1)
		if status == nil {
			r.log.Debug("Provider returned no status")
		} else if status.Contains(r.target) {
			return StateFetching
		} else {
			r.log.Debugf("Format not completed yet, document status: %s", status.DocumentStatus)
		}
	}

	if !r.wait() {
		return r.expiredOrAbandoned(StateTimedOut)
	}
	return StatePolling
}

func (r *pollRun) fetch() State {
	if r.ctx.Err() != nil {
		return StateAbandoned
	}

	r.fetchAttempts++
	content, err := r.download()
	if err == nil {
		r.artifact = &Artifact{
			SessionID:   r.sessionID,
			Format:      r.target,
			FileName:    r.target.FileName(r.poller.DocumentName),
			ContentType: r.target.ContentType(),
			Content:     content,
		}
		return StateReady
	}
	if r.ctx.Err() != nil {
		return StateAbandoned
	}

	r.lastErr = err
	r.log.WithError(err).WithField("providerStatus", provider.StatusCode(err)).
		Warnf("Could not fetch signed document (attempt %d/%d)", r.fetchAttempts, maxFetchAttempts)
	_ = r.poller.Stats.Incr("poll.fetch.error", nil, 1)
	if errors.Is(err, errArtifactTooLarge) || permanent(err) || r.fetchAttempts >= maxFetchAttempts {
		return StateFetchFailed
	}
	if !r.wait() {
		return r.expiredOrAbandoned(StateFetchFailed)
	}
	return StatePolling
}

func (r *pollRun) download() ([]byte, error) {
	body, err := r.poller.Provider.Content(r.ctx, r.sessionID, r.target)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	limit := r.poller.maxArtifactSize()
	content, err := ioutil.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, errArtifactTooLarge
	}
	return content, nil
}

// wait sleeps until the next poll. It returns false when the timeout has passed or the context is done.
func (r *pollRun) wait() bool {
	remaining := r.timeout - r.poller.Clock.Now().Sub(r.start)
	if remaining <= 0 {
		return false
	}
	d := r.interval
	if remaining < d {
		d = remaining
	}
	return r.poller.Clock.Sleep(r.ctx, d) == nil
}

func (r *pollRun) expiredOrAbandoned(expired State) State {
	if r.ctx.Err() != nil {
		return StateAbandoned
	}
	return expired
}

func (r *pollRun) finish(state State) (*Artifact, error) {
	elapsed := r.poller.Clock.Now().Sub(r.start)
	_ = r.poller.Stats.Incr("poll.outcome."+state.String(), nil, 1)
	_ = r.poller.Stats.Timing("poll.duration", elapsed, []string{"outcome:" + state.String()}, 1)

	log := r.log.WithField("outcome", state.String()).WithField("elapsed", elapsed)
	switch state {
	case StateReady:
		log.Info("Signed document fetched")
		return r.artifact, nil
	case StateRejected:
		log.WithError(r.lastErr).Warn("Reference rejected")
		return nil, fmt.Errorf("%w: %w", ErrRejected, r.lastErr)
	case StateTimedOut:
		log.Warn("Timed out waiting for signed document")
		return nil, fmt.Errorf("%w after %s", ErrTimedOut, r.timeout)
	case StateProviderUnavailable:
		log.WithError(r.lastErr).Error("Signing provider unavailable")
		return nil, fmt.Errorf("%w: %d consecutive status queries failed: %w", ErrProviderUnavailable, r.failures, r.lastErr)
	case StateFetchFailed:
		log.WithError(r.lastErr).Error("Fetching signed document failed")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, r.lastErr)
	default:
		log.Info("Polling abandoned")
		return nil, r.ctx.Err()
	}
}

func (p *Poller) threshold() int {
	if p.FailureThreshold <= 0 {
		return DefaultFailureThreshold
	}
	return p.FailureThreshold
}

func (p *Poller) maxArtifactSize() int64 {
	if p.MaxArtifactSize <= 0 {
		return DefaultMaxArtifactSize
	}
	return p.MaxArtifactSize
}

// permanent returns true when the provider answered with a status after which retrying the same request is useless
func permanent(err error) bool {
	var pErr *provider.Error
	return errors.As(err, &pErr) && !pErr.Temporary()
}
