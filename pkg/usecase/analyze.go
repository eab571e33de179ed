package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// findImprovement walks the candidate files in search order and returns the
// first improvement that survives the full validation chain. Per-candidate
// failures are logged and skipped; the loop only aborts on context
// cancellation. Returns (nil, nil, nil) when no candidate qualifies.
func (x *UseCase) findImprovement(ctx context.Context, target workflowTarget, branch string, paths []string) (*model.Improvement, *model.FileContent, error) {
	logger := logging.From(ctx).With(slog.String("repo", target.fullName()))

	if len(paths) > maxCandidates {
		paths = paths[:maxCandidates]
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		improvement, content, err := x.evaluateCandidate(ctx, target, branch, path)
		if err != nil {
			logger.Warn("candidate evaluation failed, moving on",
				slog.String("path", path),
				slog.Any("error", err),
			)
			continue
		}
		if improvement == nil {
			continue
		}

		return improvement, content, nil
	}

	return nil, nil, nil
}

// evaluateCandidate runs a single file through locate, analyze and validate.
// A nil improvement with nil error means the candidate was disqualified.
func (x *UseCase) evaluateCandidate(ctx context.Context, target workflowTarget, branch, path string) (*model.Improvement, *model.FileContent, error) {
	logger := logging.From(ctx).With(
		slog.String("repo", target.fullName()),
		slog.String("path", path),
	)

	content, err := x.clients.GitHubApp().GetFileContent(ctx, target.installID, target.owner, target.name, path, branch)
	if err != nil {
		return nil, nil, err
	}

	candidate := model.LocateCandidate(path, content.Content, types.MarkerKeyword)
	if candidate == nil {
		// Search index lag: the file matched the query but no longer carries
		// the marker at this ref.
		logger.Debug("no marker comment in file, skipping")
		return nil, nil, nil
	}

	suggestion, err := x.clients.Analyzer().AnalyzeCandidate(ctx, &interfaces.AnalyzeInput{
		File:            path,
		MarkerLine:      candidate.LineContent,
		SurroundingCode: candidate.SurroundingCode(content.Content, contextRadius),
		Language:        target.language,
	})
	if err != nil {
		return nil, nil, err
	}
	if suggestion == nil {
		logger.Debug("analyzer declined to suggest")
		return nil, nil, nil
	}

	if err := suggestion.Validate(); err != nil {
		return nil, nil, err
	}
	if suggestion.Confidence <= confidenceThreshold {
		logger.Info("suggestion below confidence threshold, skipping",
			slog.Float64("confidence", suggestion.Confidence),
		)
		return nil, nil, nil
	}
	if !model.ValidateUniqueSearchText(content.Content, suggestion.SearchText) {
		logger.Warn("suggestion search text is not unique in file, skipping")
		return nil, nil, nil
	}

	return &model.Improvement{
		Path:        path,
		SearchText:  suggestion.SearchText,
		ReplaceText: suggestion.ReplaceText,
		Title:       suggestion.Title,
		Explanation: suggestion.Explanation,
		Confidence:  suggestion.Confidence,
		MarkerLine:  candidate.LineContent,
		Fingerprint: content.Fingerprint,
	}, content, nil
}
