package cli

import (
	"context"

	"github.com/m-mizutani/nibbler/pkg/cli/config"
	"github.com/m-mizutani/nibbler/pkg/infra"
	"github.com/m-mizutani/nibbler/pkg/usecase"
	"github.com/m-mizutani/nibbler/pkg/utils/safe"
)

// buildUseCase wires the infra clients and registry shared by every command.
// The returned cleanup releases held connections and must be called when the
// command finishes.
func buildUseCase(ctx context.Context, githubApp *config.GitHubApp, openAI *config.OpenAI, bigQuery *config.BigQuery, registryCfg *config.Registry) (*usecase.UseCase, func(), error) {
	cleanup := func() {}

	ghApp, err := githubApp.New()
	if err != nil {
		return nil, nil, err
	}

	analyzer, err := openAI.New()
	if err != nil {
		return nil, nil, err
	}

	infraOptions := []infra.Option{
		infra.WithGitHubApp(ghApp),
		infra.WithAnalyzer(analyzer),
	}

	if bqClient, err := bigQuery.NewClient(ctx); err != nil {
		return nil, nil, err
	} else if bqClient != nil {
		infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))
		cleanup = func() { safe.Close(bqClient) }
	}

	reg := registryCfg.New()
	if err := reg.Load(ctx); err != nil {
		return nil, nil, err
	}

	uc := usecase.New(infra.New(infraOptions...), reg)
	return uc, cleanup, nil
}
