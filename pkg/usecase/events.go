package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// ApplyInstallationEvent records or removes an account-level binding.
func (x *UseCase) ApplyInstallationEvent(ctx context.Context, ev *model.InstallationEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	switch ev.Action {
	case model.InstallationCreated:
		now := logging.CtxTime(ctx)
		inst := &model.Installation{
			ID:        ev.InstallID,
			Account:   ev.Account,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return x.registry.Record(ctx, inst, ev.Repositories)

	case model.InstallationDeleted:
		return x.registry.Remove(ctx, ev.InstallID)

	default:
		return goerr.Wrap(types.ErrInvalidGitHubData, "unsupported installation action",
			goerr.V("action", ev.Action),
		)
	}
}

// ApplyInstallationReposEvent adds and removes repository bindings of an
// existing installation.
func (x *UseCase) ApplyInstallationReposEvent(ctx context.Context, ev *model.InstallationReposEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	for _, repo := range ev.Added {
		if err := x.registry.AddRepository(ctx, ev.InstallID, ev.Account, repo); err != nil {
			return err
		}
	}
	for _, repo := range ev.Removed {
		if err := x.registry.RemoveRepository(ctx, ev.InstallID, repo.FullName); err != nil {
			return err
		}
	}
	return nil
}

// ApplyRepositoryEvent ensures the repository of the event is registered.
// Events for unknown installations lazily create the binding, which covers
// notifications delivered before the installation event itself.
func (x *UseCase) ApplyRepositoryEvent(ctx context.Context, ev *model.RepositoryEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	return x.registry.AddRepository(ctx, ev.InstallID, ev.Account, ev.Repository)
}
