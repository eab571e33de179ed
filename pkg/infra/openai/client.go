package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You review a small code excerpt around a marker comment that flags an improvement opportunity. Propose at most one minimal, safe textual substitution within the excerpt.

Respond with a single JSON object:
{"canImprove": bool, "title": string, "explanation": string, "searchText": string, "replaceText": string, "confidence": number}

Rules:
- searchText must be copied verbatim from the excerpt and must be unique within the whole file.
- Keep the change small: one hunk, no reformatting of unrelated lines.
- Do not touch the marker comment line itself; it is removed separately.
- confidence is your own estimate in [0,1] that the change is correct and safe.
- If nothing qualifies, return {"canImprove": false} only.`

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	client completionClient
	model  string
}

var _ interfaces.Analyzer = (*Client)(nil)

func New(apiKey types.OpenAIAPIKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(types.ErrConfiguration, "OpenAI API key is empty")
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	return &Client{
		client: openai.NewClient(string(apiKey)),
		model:  modelName,
	}, nil
}

// NewWithClient injects the completion backend, for tests.
func NewWithClient(client completionClient, modelName string) *Client {
	return &Client{client: client, model: modelName}
}

func (x *Client) AnalyzeCandidate(ctx context.Context, input *interfaces.AnalyzeInput) (*model.Suggestion, error) {
	userPrompt := buildUserPrompt(input)

	resp, err := x.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: x.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, goerr.Wrap(types.ErrProvider, "chat completion failed", goerr.V("cause", err))
	}
	if len(resp.Choices) == 0 {
		return nil, goerr.Wrap(types.ErrProvider, "chat completion returned no choices")
	}

	suggestion, err := ParseSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		logging.From(ctx).Debug("analyzer declined to suggest",
			slog.String("file", input.File),
		)
	}
	return suggestion, nil
}

// ParseSuggestion decodes the analyzer's JSON contract. A declining answer
// (canImprove=false) yields (nil, nil); a malformed one is a validation
// error so the caller can advance to the next candidate.
func ParseSuggestion(raw string) (*model.Suggestion, error) {
	raw = strings.TrimSpace(raw)
	// Tolerate a fenced response even though JSON mode should prevent it
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var suggestion model.Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		return nil, goerr.Wrap(types.ErrValidation, "analyzer response is not valid JSON",
			goerr.V("raw", raw), goerr.V("cause", err),
		)
	}

	if !suggestion.CanImprove {
		return nil, nil
	}
	if err := suggestion.Validate(); err != nil {
		return nil, err
	}

	return &suggestion, nil
}

func buildUserPrompt(input *interfaces.AnalyzeInput) string {
	var b strings.Builder
	b.WriteString("File: " + input.File + "\n")
	if input.Language != "" {
		b.WriteString("Language: " + input.Language + "\n")
	}
	b.WriteString("Marker line: " + strings.TrimSpace(input.MarkerLine) + "\n\n")
	b.WriteString("Excerpt:\n")
	b.WriteString(input.SurroundingCode)
	b.WriteString("\n")
	return b.String()
}
