package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/nibbler/pkg/cli/config"
	"github.com/m-mizutani/nibbler/pkg/controller/server"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr         string
		triggerToken types.TriggerToken

		githubApp   config.GitHubApp
		openAI      config.OpenAI
		bigQuery    config.BigQuery
		sentry      config.Sentry
		guardCfg    config.Guard
		registryCfg config.Registry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("NIBBLER_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "trigger-token",
			Usage:       "Bearer token of the trigger API (empty disables the API)",
			Sources:     cli.EnvVars("NIBBLER_TRIGGER_TOKEN"),
			Destination: (*string)(&triggerToken),
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			githubApp.Flags(),
			openAI.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
			guardCfg.Flags(),
			registryCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("TriggerToken", triggerToken),
				slog.Any("GitHubApp", githubApp),
				slog.Any("OpenAI", openAI),
				slog.Any("BigQuery", bigQuery),
				slog.Any("Sentry", sentry),
				slog.Any("Guard", guardCfg),
				slog.Any("Registry", registryCfg),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			uc, cleanup, err := buildUseCase(ctx, &githubApp, &openAI, &bigQuery, &registryCfg)
			if err != nil {
				return err
			}
			defer cleanup()

			s := server.New(uc,
				server.WithGitHubSecret(githubApp.Secret()),
				server.WithTriggerToken(triggerToken),
				server.WithGuard(guardCfg.New()),
			)

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}
