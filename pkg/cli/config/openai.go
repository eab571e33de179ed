package config

import (
	"log/slog"

	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/infra/openai"
	"github.com/urfave/cli/v3"
)

type OpenAI struct {
	apiKey types.OpenAIAPIKey `masq:"secret"`
	model  string
}

func (x *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "OpenAI",
			Destination: (*string)(&x.apiKey),
			Sources:     cli.EnvVars("NIBBLER_OPENAI_API_KEY"),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model name",
			Category:    "OpenAI",
			Destination: &x.model,
			Sources:     cli.EnvVars("NIBBLER_OPENAI_MODEL"),
		},
	}
}

func (x OpenAI) New() (*openai.Client, error) {
	return openai.New(x.apiKey, x.model)
}

func (x OpenAI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("APIKey.len", len(x.apiKey)),
		slog.String("Model", x.model),
	)
}
