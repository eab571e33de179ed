package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// RunNightly runs the improvement workflow once over every repository of
// every enabled installation. Per-repository failures are converted to failed
// outcomes and the batch moves on; only context cancellation aborts it.
func (x *UseCase) RunNightly(ctx context.Context) (*model.NightlyReport, error) {
	runID := types.NewRunID()
	startedAt := logging.CtxTime(ctx)
	ctx = logging.With(ctx, logging.From(ctx).With(slog.Any("run_id", runID)))
	logger := logging.From(ctx)

	installations := x.registry.ListEnabled()
	logger.Info("starting nightly run",
		slog.Int("installations", len(installations)),
	)

	report := &model.NightlyReport{
		RunID:     runID,
		StartedAt: startedAt,
	}

	for _, inst := range installations {
		for _, repo := range inst.Repositories {
			if err := ctx.Err(); err != nil {
				return nil, goerr.Wrap(err, "nightly run aborted")
			}

			outcome := x.runBinding(ctx, inst, repo)
			report.Outcomes = append(report.Outcomes, outcome)

			x.insertRunRecord(ctx, &model.RunRecord{
				RunID:     runID,
				Timestamp: logging.CtxTime(ctx),
				InstallID: inst.ID,
				Account:   inst.Account,
				Outcome:   *outcome,
			})

			if err := x.registry.TouchLastRun(ctx, inst.ID, logging.CtxTime(ctx)); err != nil {
				logger.Warn("failed to record last run time",
					slog.Any("install_id", inst.ID),
					slog.Any("error", err),
				)
			}

			if err := x.pacer.Pace(ctx); err != nil {
				return nil, goerr.Wrap(err, "nightly run aborted while pacing")
			}
		}
	}

	report.FinishedAt = logging.CtxTime(ctx)

	logger.Info("finished nightly run",
		slog.Int("total", len(report.Outcomes)),
		slog.Int("success", report.Count(model.OutcomeSuccess)),
		slog.Int("skipped", report.Count(model.OutcomeSkipped)),
		slog.Int("failed", report.Count(model.OutcomeFailed)),
	)

	return report, nil
}

// runBinding is the per-repository error boundary: workflow errors become
// failed outcomes here and never propagate into the batch loop.
func (x *UseCase) runBinding(ctx context.Context, inst *model.Installation, repo *model.Repository) *model.WorkflowOutcome {
	target := targetFromRepository(inst.ID, repo)

	outcome, err := x.performWorkflow(ctx, target)
	if err != nil {
		logging.From(ctx).Error("workflow failed",
			slog.String("repo", target.fullName()),
			slog.Any("error", err),
		)
		return model.FailedOutcome(target.fullName(), err)
	}
	return outcome
}

// RunRepository runs the workflow for a single registered repository,
// typically triggered manually through the API.
func (x *UseCase) RunRepository(ctx context.Context, owner, name string) (*model.WorkflowOutcome, error) {
	inst, err := x.registry.Find(owner, name)
	if err != nil {
		return nil, err
	}

	fullName := owner + "/" + name
	for _, repo := range inst.Repositories {
		if repo.FullName != fullName {
			continue
		}
		return x.runBinding(ctx, inst, repo), nil
	}

	return nil, goerr.Wrap(types.ErrNotFound, "repository is not registered",
		goerr.V("repo", fullName),
	)
}
