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

package provider

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

// maxErrorBody limits how much of an error response is kept for logging
const maxErrorBody = 4096

// Error is returned when the provider answers with a non-success status code
type Error struct {
	StatusCode int
	// Body is the (truncated) response body. It may contain provider internals and must only be logged.
	Body string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider responded with status %d: %s", e.StatusCode, e.Body)
}

// Temporary returns true for status codes after which the same request may succeed
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrorFromResponse reads and closes the body of a failed response
func ErrorFromResponse(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{StatusCode: resp.StatusCode, Body: string(body)}
}

// StatusCode returns the status code of a provider Error in the chain of err, or 0
func StatusCode(err error) int {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.StatusCode
	}
	return 0
}
