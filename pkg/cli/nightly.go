package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/nibbler/pkg/cli/config"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

// nightlyCommand runs one batch over every registered repository and exits.
// It is the entry point for cron style scheduling.
func nightlyCommand() *cli.Command {
	var (
		githubApp   config.GitHubApp
		openAI      config.OpenAI
		bigQuery    config.BigQuery
		sentry      config.Sentry
		registryCfg config.Registry
	)

	return &cli.Command{
		Name:    "nightly",
		Aliases: []string{"n"},
		Usage:   "Run the nightly improvement batch once",
		Flags: slice.Flatten(
			githubApp.Flags(),
			openAI.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
			registryCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting nightly batch",
				slog.Any("GitHubApp", githubApp),
				slog.Any("OpenAI", openAI),
				slog.Any("BigQuery", bigQuery),
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

			report, err := uc.RunNightly(ctx)
			if err != nil {
				return err
			}

			logging.Default().Info("nightly batch done",
				slog.Any("run_id", report.RunID),
				slog.Int("total", len(report.Outcomes)),
				slog.Int("success", report.Count(model.OutcomeSuccess)),
				slog.Int("skipped", report.Count(model.OutcomeSkipped)),
				slog.Int("failed", report.Count(model.OutcomeFailed)),
			)
			return nil
		},
	}
}

// refreshCommand rebuilds the registry from the GitHub App installation list.
func refreshCommand() *cli.Command {
	var (
		githubApp   config.GitHubApp
		openAI      config.OpenAI
		bigQuery    config.BigQuery
		registryCfg config.Registry
	)

	return &cli.Command{
		Name:  "refresh",
		Usage: "Rebuild the installation registry from GitHub",
		Flags: slice.Flatten(
			githubApp.Flags(),
			openAI.Flags(),
			bigQuery.Flags(),
			registryCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, cleanup, err := buildUseCase(ctx, &githubApp, &openAI, &bigQuery, &registryCfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return uc.RefreshRegistry(ctx)
		},
	}
}
