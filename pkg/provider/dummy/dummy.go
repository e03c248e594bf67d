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

package dummy

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	"github.com/nuts-foundation/nuts-esign/pkg/signing"
)

// Name is the configuration name of this provider
const Name = "dummy"

// SessionCreated represents the session state after creation
const SessionCreated = "created"

// SessionInProgress represents the session state after the first Status call
const SessionInProgress = "in-progress"

// SessionCompleted represents the session state after the second Status call
const SessionCompleted = "completed"

var errNotEnabled = errors.New("not allowed in strict mode")

var errNotCompleted = errors.New("format not completed")

// Dummy is a signing provider that always succeeds unless you try to use it in strict mode.
// Signers are sent straight to the success URL. Every Status call moves a session one state further,
// once completed all requested formats can be downloaded.
// The dummy provider is not supposed to be used in a clustered context unless consecutive calls arrive at the same instance
type Dummy struct {
	InStrictMode bool

	mutex    sync.Mutex
	sessions map[string]*session
}

type session struct {
	request signing.SigningRequest
	state   string
}

// New creates an empty Dummy
func New(strictMode bool) *Dummy {
	return &Dummy{InStrictMode: strictMode, sessions: map[string]*session{}}
}

// CreateSession stores the request and returns the success URL of the first signer as signer URL
func (d *Dummy) CreateSession(_ context.Context, request signing.SigningRequest) (*signing.CreatedSession, error) {
	if d.InStrictMode {
		return nil, errNotEnabled
	}
	if len(request.Signers) == 0 {
		return nil, errors.New("no signers")
	}

	sessionBytes := make([]byte, 16)
	if _, err := rand.Read(sessionBytes); err != nil {
		return nil, err
	}
	sessionID := hex.EncodeToString(sessionBytes)

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.sessions == nil {
		d.sessions = map[string]*session{}
	}
	d.sessions[sessionID] = &session{request: request, state: SessionCreated}

	return &signing.CreatedSession{
		SessionID: sessionID,
		SignerURL: request.Signers[0].Redirect.Success,
	}, nil
}

// Status moves the session to its next state and returns the completed formats
func (d *Dummy) Status(_ context.Context, sessionID string) (*signing.CompletionStatus, error) {
	if d.InStrictMode {
		return nil, errNotEnabled
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return nil, signing.ErrSessionNotFound
	}

	switch s.state {
	case SessionCreated:
		s.state = SessionInProgress
	case SessionInProgress, SessionCompleted:
		s.state = SessionCompleted
	}

	status := &signing.CompletionStatus{DocumentStatus: s.state, Completed: []signing.Format{}}
	if s.state == SessionCompleted {
		status.Completed = append(status.Completed, s.request.Formats...)
	}
	return status, nil
}

// Content returns the original document with a dummy signature appended
func (d *Dummy) Content(_ context.Context, sessionID string, format signing.Format) (io.ReadCloser, error) {
	if d.InStrictMode {
		return nil, errNotEnabled
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return nil, signing.ErrSessionNotFound
	}
	if s.state != SessionCompleted || !(&signing.CompletionStatus{Completed: s.request.Formats}).Contains(format) {
		return nil, fmt.Errorf("%w: %s", errNotCompleted, format)
	}

	signed := bytes.Buffer{}
	signed.Write(s.request.Document)
	fmt.Fprintf(&signed, "\n%% dummy %s signature for session %s\n", format, sessionID)
	return ioutil.NopCloser(&signed), nil
}
