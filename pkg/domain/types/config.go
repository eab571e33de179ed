package types

import "log/slog"

type (
	OpenAIAPIKey string
	TriggerToken string
)

func (x OpenAIAPIKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x OpenAIAPIKey) String() string {
	return "***********"
}

func (x TriggerToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x TriggerToken) String() string {
	return "***********"
}
