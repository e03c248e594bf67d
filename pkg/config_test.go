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

package pkg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate(false))
	})

	t.Run("dummy in strict mode", func(t *testing.T) {
		assert.True(t, errors.Is(DefaultConfig().Validate(true), ErrDummyInStrictMode))
	})

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"relative frontend url", func(c *Config) { c.FrontendURL = "/app" }},
		{"unknown provider", func(c *Config) { c.Provider.Name = "docusign" }},
		{"express without credentials", func(c *Config) { c.Provider.Name = "express" }},
		{"short secret", func(c *Config) { c.Reference.Secret = "too short" }},
		{"negative ttl", func(c *Config) { c.Reference.TTL = "-1s" }},
		{"ttl without unit", func(c *Config) { c.Reference.TTL = "10" }},
		{"invalid provider timeout", func(c *Config) { c.Provider.Timeout = "soon" }},
		{"invalid signing deadline", func(c *Config) { c.Document.SigningDeadline = "-1h" }},
		{"unknown format", func(c *Config) { c.Poll.Format = "docx" }},
		{"zero interval", func(c *Config) { c.Poll.Interval = "0s" }},
		{"empty interval", func(c *Config) { c.Poll.Interval = "" }},
		{"zero timeout", func(c *Config) { c.Poll.Timeout = "0" }},
		{"zero threshold", func(c *Config) { c.Poll.FailureThreshold = 0 }},
		{"zero artifact size", func(c *Config) { c.Poll.MaxArtifactSize = 0 }},
		{"unknown mode", func(c *Config) { c.Download.Mode = "upload" }},
		{"persist without location", func(c *Config) { c.Download.Mode = "persist" }},
		{"zero index size", func(c *Config) { c.Download.IndexSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)

			assert.Error(t, c.Validate(false))
		})
	}

	t.Run("express with credentials", func(t *testing.T) {
		c := DefaultConfig()
		c.Provider.Name = "express"
		c.Provider.ClientID = "id"
		c.Provider.ClientSecret = "secret"

		assert.NoError(t, c.Validate(true))
	})

	t.Run("persist with location", func(t *testing.T) {
		c := DefaultConfig()
		c.Download.Mode = "persist"
		c.Download.Location = "file:///var/lib/esign"

		assert.NoError(t, c.Validate(false))
	})
}

func TestDocumentConfig_Methods(t *testing.T) {
	assert.Equal(t, []string{"NO_BANKID_NETCENTRIC", "MITID", "DK_NEMID"}, DefaultConfig().Document.Methods())
	assert.Empty(t, DocumentConfig{SignatureMethods: " , "}.Methods())
}
