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

package cmd

import (
	"fmt"
	"os"

	core "github.com/nuts-foundation/nuts-go-core"

	"github.com/nuts-foundation/nuts-esign/engine"
	"github.com/nuts-foundation/nuts-esign/logging"
)

var e = engine.NewESignEngine()
var rootCmd = e.Cmd

// Execute loads the configuration, configures the engine and runs the root command.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	c := core.NutsConfig()
	c.IgnoredPrefixes = append(c.IgnoredPrefixes, e.ConfigKey)
	c.RegisterFlags(rootCmd, e)
	if err := c.Load(rootCmd); err != nil {
		exit(err)
	}

	c.PrintConfig(logging.Log().Logger)

	if err := c.InjectIntoEngine(e); err != nil {
		exit(err)
	}

	if err := e.Configure(); err != nil {
		exit(err)
	}

	if err := rootCmd.Execute(); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Println(err)
	os.Exit(1)
}
