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

import "errors"

// ErrInvalidRequest is returned when a SigningRequest is not complete enough to be submitted
var ErrInvalidRequest = errors.New("invalid signing request")

// ErrProviderRejected is returned when the provider refused to create a signing session.
// Session creation is never retried, a retry must use a fresh request.
var ErrProviderRejected = errors.New("provider rejected signing session")

// ErrRejected is returned when a reference did not pass validation. It wraps the reference error.
var ErrRejected = errors.New("reference rejected")

// ErrTimedOut is returned when the target format did not complete within the timeout
var ErrTimedOut = errors.New("timed out waiting for signed document")

// ErrProviderUnavailable is returned when too many consecutive status queries failed
var ErrProviderUnavailable = errors.New("signing provider unavailable")

// ErrFetchFailed is returned when the signed document could not be downloaded although it was reported complete
var ErrFetchFailed = errors.New("could not fetch signed document")

// ErrSessionNotFound can be returned by providers when a session is unknown
var ErrSessionNotFound = errors.New("signing session not found")
