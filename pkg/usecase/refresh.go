package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// RefreshRegistry rebuilds the registry from the hosting platform and then
// repairs it: reconcile against the live installation list, collapse
// duplicate bindings, and drop installations that no longer exist.
func (x *UseCase) RefreshRegistry(ctx context.Context) error {
	gh := x.clients.GitHubApp()

	if err := x.registry.ReconcileFromSource(ctx, gh); err != nil {
		return err
	}
	if err := x.registry.Deduplicate(ctx); err != nil {
		return err
	}
	if err := x.registry.ValidateAgainstSource(ctx, gh.InstallationExists); err != nil {
		return err
	}

	logging.From(ctx).Info("refreshed registry",
		slog.Int("installations", len(x.registry.ListEnabled())),
	)
	return nil
}

// ListInstallations returns a snapshot of the enabled installations.
func (x *UseCase) ListInstallations(ctx context.Context) ([]*model.Installation, error) {
	return x.registry.ListEnabled(), nil
}
