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
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg/reference"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
)

// Mode is the way a signed document is handed over
type Mode string

const (
	// ModeStream returns the document to the caller
	ModeStream Mode = "stream"
	// ModePersist writes the document to a Sink
	ModePersist Mode = "persist"
)

// ParseMode parses a configured mode
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeStream, ModePersist:
		return Mode(value), nil
	}
	return "", fmt.Errorf("unknown download mode: '%s'", value)
}

// Awaiter waits for a signed document, it is implemented by signing.Poller
type Awaiter interface {
	AwaitAndFetch(ctx context.Context, ref string, targetFormat signing.Format, pollInterval, timeout time.Duration) (*signing.Artifact, error)
}

// Downloader polls for signed documents on behalf of download requests.
// Concurrent requests for the same session share a single polling loop. That loop is not bound to the request which
// started it: it is cancelled when the last waiting request has gone.
type Downloader struct {
	Awaiter  Awaiter
	Codec    reference.Codec
	Sink     Sink
	Format   signing.Format
	Interval time.Duration
	Timeout  time.Duration
	Stats    statsd.ClientInterface

	group   singleflight.Group
	mu      sync.Mutex
	flights map[string]*flight
	// persisted maps session keys to sink locations
	persisted *lru.Cache
}

// NewDownloader creates a Downloader which remembers the location of at most indexSize persisted documents
func NewDownloader(awaiter Awaiter, codec reference.Codec, sink Sink, indexSize int) (*Downloader, error) {
	index, err := lru.New(indexSize)
	if err != nil {
		return nil, err
	}
	return &Downloader{
		Awaiter:   awaiter,
		Codec:     codec,
		Sink:      sink,
		Format:    signing.FormatPades,
		Interval:  time.Second,
		Timeout:   2 * time.Minute,
		Stats:     &statsd.NoOpClient{},
		flights:   map[string]*flight{},
		persisted: index,
	}, nil
}

// Fetch waits for the signed document and returns it
func (d *Downloader) Fetch(ctx context.Context, ref string) (*signing.Artifact, error) {
	key, err := d.key(ref)
	if err != nil {
		return nil, err
	}

	v, err := d.shared(ctx, "fetch/"+key, func(ctx context.Context) (interface{}, error) {
		return d.Awaiter.AwaitAndFetch(ctx, ref, d.Format, d.Interval, d.Timeout)
	})
	if err != nil {
		return nil, err
	}
	return v.(*signing.Artifact), nil
}

// Persist waits for the signed document, hands it to the sink and returns its location.
// A document which has been persisted before is not fetched again.
func (d *Downloader) Persist(ctx context.Context, ref string) (string, error) {
	if d.Sink == nil {
		return "", fmt.Errorf("no download location configured")
	}
	key, err := d.key(ref)
	if err != nil {
		return "", err
	}
	if location, ok := d.persisted.Get(key); ok {
		_ = d.Stats.Incr("download.index.hit", nil, 1)
		return location.(string), nil
	}

	v, err := d.shared(ctx, "persist/"+key, func(ctx context.Context) (interface{}, error) {
		// another call may have finished between the index lookup and joining the group
		if location, ok := d.persisted.Get(key); ok {
			return location, nil
		}
		artifact, err := d.Awaiter.AwaitAndFetch(ctx, ref, d.Format, d.Interval, d.Timeout)
		if err != nil {
			return nil, err
		}
		location, err := d.Sink.Put(ctx, artifact)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", signing.ErrFetchFailed, err)
		}
		d.persisted.Add(key, location)
		logging.Log().WithField("sessionID", artifact.SessionID).WithField("location", location).Info("Signed document persisted")
		return location, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// key identifies the target document of a reference. The reference is validated before anything else happens.
func (d *Downloader) key(ref string) (string, error) {
	sessionID, err := d.Codec.Decode(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", signing.ErrRejected, err)
	}
	return sessionID + "/" + string(d.Format), nil
}

// flight is the context of a shared call, it lives as long as at least one caller waits for the result
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type flightResult struct {
	value  interface{}
	flight *flight
}

// shared runs fn once for all concurrent callers of key. A caller whose ctx ends stops waiting with the context
// error, the others keep waiting for the result.
func (d *Downloader) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	f := d.join(key)
	defer d.leave(key, f)

	for {
		ch := d.group.DoChan(key, func() (interface{}, error) {
			v, err := fn(f.ctx)
			return flightResult{value: v, flight: f}, err
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Shared {
				_ = d.Stats.Incr("download.shared", nil, 1)
			}
			result := res.Val.(flightResult)
			// joined a call of which all waiters had left just before
			if result.flight != f && errors.Is(res.Err, context.Canceled) {
				continue
			}
			return result.value, res.Err
		}
	}
}

func (d *Downloader) join(key string) *flight {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.flights[key]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		f = &flight{ctx: ctx, cancel: cancel}
		d.flights[key] = f
	}
	f.waiters++
	return f
}

func (d *Downloader) leave(key string, f *flight) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f.waiters--
	if f.waiters == 0 {
		f.cancel()
		delete(d.flights, key)
	}
}
