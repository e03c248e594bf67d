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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdp/qrterminal/v3"
	core "github.com/nuts-foundation/nuts-go-core"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/nuts-foundation/nuts-esign/api/v1"
	"github.com/nuts-foundation/nuts-esign/logging"
	"github.com/nuts-foundation/nuts-esign/pkg"
)

const shutdownTimeout = 10 * time.Second

// NewESignEngine creates and returns a new ESign engine instance.
func NewESignEngine() *core.Engine {
	esign := pkg.ESignInstance()

	return &core.Engine{
		Cmd:       cmd(esign),
		Config:    &esign.Config,
		ConfigKey: "esign",
		Configure: esign.Configure,
		FlagSet:   flagSet(),
		Name:      "ESign",
		Routes:    routes(esign),
	}
}

func routes(client pkg.ESignClient) func(router core.EchoRouter) {
	return func(router core.EchoRouter) {
		v1.RegisterHandlers(router, &v1.Wrapper{ESign: client})
	}
}

func cmd(client pkg.ESignClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "esign",
		Short:        "sign documents with an electronic signature provider",
		SilenceUsage: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "server",
		Short: "Run the esign HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			esign := pkg.ESignInstance()
			return serve(NewEchoServer(routes(esign), esign.Stats), esign.Config.Address, esign.Shutdown)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sign",
		Short: "Create a signing session for the configured document",
		Long:  "Create a signing session for the configured document. The signer URL is printed as QR code so the document can be signed on a phone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, signerURL, err := client.StartSigning(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference:  %s\n", ref)
			fmt.Fprintf(out, "Signer URL: %s\n", signerURL)
			qrterminal.GenerateHalfBlock(signerURL, qrterminal.L, out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download [reference]",
		Short: "Wait for the signed document and write it to the download location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			location, err := client.Persist(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed document written to %s\n", location)
			return nil
		},
	})

	return cmd
}

// NewEchoServer creates the HTTP server with the given routes mounted, requests are counted on stats
func NewEchoServer(routes func(router core.EchoRouter), stats statsd.ClientInterface) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(middleware.Logger())
	echoServer.Use(statsMiddleware(stats))
	routes(echoServer)
	return echoServer
}

// serve runs the server until it fails or the process is interrupted
func serve(echoServer *echo.Echo, address string, shutdown func() error) error {
	errs := make(chan error, 1)
	go func() {
		errs <- echoServer.Start(address)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		logging.Log().Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := echoServer.Shutdown(ctx); err != nil {
		logging.Log().WithError(err).Error("Could not shut down HTTP server")
	}
	return shutdown()
}

func flagSet() *pflag.FlagSet {
	defaults := pkg.DefaultConfig()
	flags := pflag.NewFlagSet("esign", pflag.ContinueOnError)

	flags.String(pkg.ConfAddress, defaults.Address, "Interface and port for http server to bind to")
	flags.String(pkg.ConfFrontendURL, defaults.FrontendURL, "URL of the frontend, signers are redirected back to it")

	flags.String(pkg.ConfProviderName, defaults.Provider.Name, "Signing provider: dummy or express. The dummy provider is refused in strict mode.")
	flags.String(pkg.ConfProviderAPIURL, defaults.Provider.APIURL, "Base URL of the signature API")
	flags.String(pkg.ConfProviderTokenURL, defaults.Provider.TokenURL, "OAuth2 token endpoint of the signature API")
	flags.String(pkg.ConfProviderClientID, defaults.Provider.ClientID, "OAuth2 client id")
	flags.String(pkg.ConfProviderClientSecret, defaults.Provider.ClientSecret, "OAuth2 client secret")
	flags.String(pkg.ConfProviderTimeout, defaults.Provider.Timeout, "Timeout of a single request to the signature API")

	flags.String(pkg.ConfReferenceSecret, defaults.Reference.Secret, "Secret used to sign references, at least 32 bytes. Random when empty.")
	flags.String(pkg.ConfReferenceTTL, defaults.Reference.TTL, "Validity of references, references never expire when empty")

	flags.String(pkg.ConfDocumentPath, defaults.Document.Path, "Path of the document to sign")
	flags.String(pkg.ConfDocumentTitle, defaults.Document.Title, "Title shown to signers")
	flags.String(pkg.ConfDocumentContactEmail, defaults.Document.ContactEmail, "Contact e-mail shown to signers")
	flags.String(pkg.ConfDocumentSignatureMethods, defaults.Document.SignatureMethods, "Comma separated list of allowed signature methods")
	flags.String(pkg.ConfDocumentLanguage, defaults.Document.Language, "Language of the signing notification")
	flags.String(pkg.ConfDocumentNotificationSubject, defaults.Document.NotificationSubject, "Subject of the signing notification, a mustache template")
	flags.String(pkg.ConfDocumentNotificationText, defaults.Document.NotificationText, "Text of the signing notification, a mustache template. No notification is sent when empty.")
	flags.String(pkg.ConfDocumentSenderName, defaults.Document.SenderName, "Sender of the signing notification")
	flags.String(pkg.ConfDocumentSigningDeadline, defaults.Document.SigningDeadline, "Deadline mentioned in the signing notification")
	flags.Bool(pkg.ConfDocumentSocialSecurityNumber, defaults.Document.SocialSecurityNumber, "Retrieve the social security number of signers")

	flags.String(pkg.ConfPollInterval, defaults.Poll.Interval, "Time between status queries")
	flags.String(pkg.ConfPollTimeout, defaults.Poll.Timeout, "Maximum time to wait for a signed document")
	flags.Int(pkg.ConfPollFailureThreshold, defaults.Poll.FailureThreshold, "Consecutive failing status queries after which waiting stops")
	flags.String(pkg.ConfPollFormat, defaults.Poll.Format, "Format of the signed document: pades, xades, native or standard_packaging")
	flags.Int(pkg.ConfPollMaxArtifactSize, defaults.Poll.MaxArtifactSize, "Maximum size in bytes of a signed document")

	flags.String(pkg.ConfDownloadMode, defaults.Download.Mode, "stream returns the signed document, persist writes it to the download location")
	flags.String(pkg.ConfDownloadLocation, defaults.Download.Location, "file:// or s3:// location signed documents are written to")
	flags.Int(pkg.ConfDownloadIndexSize, defaults.Download.IndexSize, "Amount of persisted documents which are remembered")

	flags.String(pkg.ConfStatsdAddr, defaults.Statsd.Addr, "Statsd address, metrics are disabled when empty")
	flags.String(pkg.ConfStatsdNamespace, defaults.Statsd.Namespace, "Prefix of all metrics")

	return flags
}
