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

//go:generate oapi-codegen -generate server,types -package v1 -o generated.go ../../docs/_static/esign.yaml

package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg"
	"github.com/nuts-foundation/nuts-esign/pkg/signing"
	"github.com/nuts-foundation/nuts-esign/pkg/transfer"
)

// Wrapper bridges the generated api types and http logic to the internal types and logic.
// It does not perform any business logic. Errors are translated to generic messages, details are only logged.
type Wrapper struct {
	ESign pkg.ESignClient
}

// CreateSignatureSession starts a signing session for the configured document and redirects the browser to the signer page
func (api *Wrapper) CreateSignatureSession(ctx echo.Context) error {
	_, redirectURL, err := api.ESign.StartSigning(ctx.Request().Context())
	if err != nil {
		return toHTTPError(ctx, err)
	}
	return ctx.Redirect(http.StatusSeeOther, redirectURL)
}

// Download waits until the signed document is available. In stream mode the document is the response body,
// in persist mode it is written to the download location and the browser is redirected to the frontend.
func (api *Wrapper) Download(ctx echo.Context, params DownloadParams) error {
	reqCtx := ctx.Request().Context()

	if api.ESign.DownloadMode() == transfer.ModePersist {
		if _, err := api.ESign.Persist(reqCtx, params.Ref); err != nil {
			return toHTTPError(ctx, err)
		}
		redirectURL, err := signing.OutcomeURL(api.ESign.FrontendURL(), signing.DownloadParam)
		if err != nil {
			return toHTTPError(ctx, err)
		}
		return ctx.Redirect(http.StatusSeeOther, redirectURL)
	}

	artifact, err := api.ESign.Fetch(reqCtx, params.Ref)
	if err != nil {
		return toHTTPError(ctx, err)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	return ctx.Blob(http.StatusOK, artifact.ContentType, artifact.Content)
}

// SessionStatus returns the formats which have been completed so far, without waiting
func (api *Wrapper) SessionStatus(ctx echo.Context, params SessionStatusParams) error {
	status, err := api.ESign.SessionStatus(ctx.Request().Context(), params.Ref)
	if err != nil {
		return toHTTPError(ctx, err)
	}

	completed := make([]string, len(status.Completed))
	for i, f := range status.Completed {
		completed[i] = string(f)
	}
	return ctx.JSON(http.StatusOK, SessionStatus{
		Completed:      completed,
		DocumentStatus: status.DocumentStatus,
		Ready:          status.Contains(api.ESign.Format()),
	})
}

// toHTTPError maps workflow errors to status codes
func toHTTPError(ctx echo.Context, err error) error {
	log := logging.Log().WithError(err).WithField("path", ctx.Path())

	if ctx.Request().Context().Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		log.Debug("Request cancelled by client")
		return nil
	}

	switch {
	case errors.Is(err, signing.ErrRejected):
		log.Warn("Invalid reference")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reference")
	case errors.Is(err, signing.ErrInvalidRequest):
		log.Error("Invalid signing request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signing request")
	case errors.Is(err, signing.ErrProviderRejected):
		log.Error("Signing provider rejected the request")
		return echo.NewHTTPError(http.StatusBadGateway, "signing provider rejected the request")
	case errors.Is(err, signing.ErrProviderUnavailable):
		log.Error("Signing provider unavailable")
		return echo.NewHTTPError(http.StatusBadGateway, "signing provider unavailable")
	case errors.Is(err, signing.ErrFetchFailed):
		log.Error("Signed document could not be retrieved")
		return echo.NewHTTPError(http.StatusBadGateway, "signed document could not be retrieved")
	case errors.Is(err, signing.ErrTimedOut):
		log.Warn("Timed out waiting for signed document")
		return echo.NewHTTPError(http.StatusGatewayTimeout, "timed out waiting for signed document")
	}
	log.Error("Request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
