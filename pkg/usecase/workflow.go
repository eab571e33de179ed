package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// workflowTarget identifies one repository binding of an installation.
type workflowTarget struct {
	installID     types.GitHubAppInstallID
	owner         string
	name          string
	defaultBranch string
	language      string
}

func targetFromRepository(installID types.GitHubAppInstallID, repo *model.Repository) workflowTarget {
	return workflowTarget{
		installID:     installID,
		owner:         repo.Owner(),
		name:          repo.Name(),
		defaultBranch: repo.DefaultBranch,
		language:      repo.Language,
	}
}

func (x workflowTarget) fullName() string {
	return x.owner + "/" + x.name
}

// performWorkflow drives the per-repository state machine: open-PR check,
// branch creation, candidate search, analysis, validation, application and
// PR creation. A no-op run compensates by deleting the branch it created, so
// no orphaned branches are left behind.
func (x *UseCase) performWorkflow(ctx context.Context, target workflowTarget) (*model.WorkflowOutcome, error) {
	logger := logging.From(ctx).With(slog.String("repo", target.fullName()))
	gh := x.clients.GitHubApp()

	openPRs, err := gh.ListOpenPullRequests(ctx, target.installID, target.owner, target.name, types.BranchPrefix)
	if err != nil {
		return nil, err
	}

	x.sweepStaleBranches(ctx, target, openPRs)

	if len(openPRs) > 0 {
		logger.Info("skipping: improvement PR already open",
			slog.String("pr", openPRs[0].URL),
		)
		return model.SkippedOutcome(target.fullName(), model.SkipExistingPR), nil
	}

	defaultBranch := target.defaultBranch
	if defaultBranch == "" {
		defaultBranch, err = gh.GetDefaultBranch(ctx, target.installID, target.owner, target.name)
		if err != nil {
			return nil, err
		}
	}

	head, err := gh.GetBranchHead(ctx, target.installID, target.owner, target.name, defaultBranch)
	if err != nil {
		return nil, err
	}

	branch := workBranchName(logging.CtxTime(ctx))
	if err := gh.CreateBranch(ctx, target.installID, target.owner, target.name, branch, head); err != nil {
		return nil, err
	}

	paths, err := gh.SearchCode(ctx, target.installID, target.owner, target.name, types.MarkerKeyword)
	if err != nil {
		x.deleteWorkBranch(ctx, target, branch)
		return nil, err
	}
	if len(paths) == 0 {
		logger.Info("skipping: no marker comment found")
		x.deleteWorkBranch(ctx, target, branch)
		return model.SkippedOutcome(target.fullName(), model.SkipNoCandidate), nil
	}

	improvement, content, err := x.findImprovement(ctx, target, branch, paths)
	if err != nil {
		x.deleteWorkBranch(ctx, target, branch)
		return nil, err
	}
	if improvement == nil {
		logger.Info("skipping: no qualifying improvement",
			slog.Int("candidates", len(paths)),
		)
		x.deleteWorkBranch(ctx, target, branch)
		return model.SkippedOutcome(target.fullName(), model.SkipNoImprovementFound), nil
	}

	applied, err := ApplyImprovement(content, improvement)
	if err != nil {
		x.deleteWorkBranch(ctx, target, branch)
		return nil, err
	}

	if err := gh.UpdateFileContent(ctx, target.installID, &interfaces.UpdateFileInput{
		Owner:       target.owner,
		Repo:        target.name,
		Path:        improvement.Path,
		Content:     applied,
		Branch:      branch,
		Message:     improvement.Title,
		Fingerprint: improvement.Fingerprint,
	}); err != nil {
		return nil, err
	}

	pr, err := gh.CreatePullRequest(ctx, target.installID, &interfaces.CreatePullRequestInput{
		Owner: target.owner,
		Repo:  target.name,
		Title: improvement.Title,
		Body:  buildPullRequestBody(improvement),
		Head:  branch,
		Base:  defaultBranch,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("opened improvement PR",
		slog.String("pr", pr.URL),
		slog.String("title", improvement.Title),
		slog.Float64("confidence", improvement.Confidence),
	)

	return &model.WorkflowOutcome{
		Repo:       target.fullName(),
		Status:     model.OutcomeSuccess,
		PullReqURL: pr.URL,
		Title:      improvement.Title,
		Confidence: improvement.Confidence,
	}, nil
}

func workBranchName(now time.Time) string {
	return types.BranchPrefix + now.UTC().Format("2006-01-02")
}

// deleteWorkBranch is the compensation path for no-op runs. Its own failure
// is logged, never escalated: a leftover branch is annoying, not harmful.
func (x *UseCase) deleteWorkBranch(ctx context.Context, target workflowTarget, branch string) {
	if err := x.clients.GitHubApp().DeleteBranch(ctx, target.installID, target.owner, target.name, branch); err != nil {
		logging.From(ctx).Warn("failed to delete work branch",
			slog.String("repo", target.fullName()),
			slog.String("branch", branch),
			slog.Any("error", err),
		)
	}
}

// sweepStaleBranches removes dated work branches from earlier runs that have
// no open PR, e.g. after a crash between branch creation and completion.
// Failures are logged and ignored; the sweep is best effort.
func (x *UseCase) sweepStaleBranches(ctx context.Context, target workflowTarget, openPRs []*model.PullRequest) {
	logger := logging.From(ctx).With(slog.String("repo", target.fullName()))

	branches, err := x.clients.GitHubApp().ListBranches(ctx, target.installID, target.owner, target.name)
	if err != nil {
		logger.Warn("stale branch sweep: listing failed", slog.Any("error", err))
		return
	}

	inUse := make(map[string]bool, len(openPRs))
	for _, pr := range openPRs {
		inUse[pr.HeadBranch] = true
	}

	today := logging.CtxTime(ctx).UTC().Format("2006-01-02")
	for _, branch := range branches {
		date, ok := strings.CutPrefix(branch, types.BranchPrefix)
		if !ok || inUse[branch] {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		if date >= today {
			continue
		}

		if err := x.clients.GitHubApp().DeleteBranch(ctx, target.installID, target.owner, target.name, branch); err != nil {
			logger.Warn("stale branch sweep: deletion failed",
				slog.String("branch", branch),
				slog.Any("error", err),
			)
			continue
		}
		logger.Info("removed stale work branch", slog.String("branch", branch))
	}
}

func buildPullRequestBody(improvement *model.Improvement) string {
	var b strings.Builder
	b.WriteString(improvement.Explanation)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("- File: `%s`\n", improvement.Path))
	b.WriteString(fmt.Sprintf("- Marker: `%s`\n", strings.TrimSpace(improvement.MarkerLine)))
	b.WriteString(fmt.Sprintf("- Confidence: %.0f%%\n", improvement.Confidence*100))
	b.WriteString("\nThe marker comment has been removed as part of this change.\n")
	return b.String()
}
