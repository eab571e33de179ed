package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/m-mizutani/nibbler/pkg/domain/model"
)

type UseCase interface {
	RunNightly(ctx context.Context) (*model.NightlyReport, error)
	RunRepository(ctx context.Context, owner, name string) (*model.WorkflowOutcome, error)
	RefreshRegistry(ctx context.Context) error
	ListInstallations(ctx context.Context) ([]*model.Installation, error)

	ApplyInstallationEvent(ctx context.Context, ev *model.InstallationEvent) error
	ApplyInstallationReposEvent(ctx context.Context, ev *model.InstallationReposEvent) error
	ApplyRepositoryEvent(ctx context.Context, ev *model.RepositoryEvent) error
}
