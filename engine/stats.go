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

package engine

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/labstack/echo/v4"
)

// statsMiddleware emits "<route>.request.attempts" for every request and "<route>.response.status.<code>" for
// every response. Route names are derived from the route path, e.g. http.signature-session.status
func statsMiddleware(stats statsd.ClientInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := metricName(c.Path())
			_ = stats.Incr(name+".request.attempts", nil, 1)

			err := next(c)

			_ = stats.Incr(fmt.Sprintf("%s.response.status.%d", name, responseStatus(c, err)), nil, 1)
			return err
		}
	}
}

func metricName(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "http.root"
	}
	return "http." + strings.ReplaceAll(trimmed, "/", ".")
}

// responseStatus returns the status which will be written, errors are written by echo after the middleware returns
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
