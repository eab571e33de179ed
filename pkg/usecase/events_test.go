package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/nibbler/pkg/domain/mock"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/infra"
	"github.com/m-mizutani/nibbler/pkg/registry"
	"github.com/m-mizutani/nibbler/pkg/repository/memory"
	"github.com/m-mizutani/nibbler/pkg/usecase"
)

func newEventTestUseCase(reg *registry.Registry) *usecase.UseCase {
	return usecase.New(
		infra.New(infra.WithGitHubApp(&mock.GitHubAppMock{}), infra.WithAnalyzer(&mock.AnalyzerMock{})),
		reg,
		usecase.WithPacer(usecase.FixedDelayPacer(0)),
	)
}

func TestApplyInstallationEventLifecycle(t *testing.T) {
	reg := registry.New(memory.New())
	uc := newEventTestUseCase(reg)
	ctx := testContext()

	gt.NoError(t, uc.ApplyInstallationEvent(ctx, &model.InstallationEvent{
		Action:    model.InstallationCreated,
		InstallID: 200,
		Account:   "green",
		Repositories: []*model.Repository{
			{ID: 10, FullName: "green/web", DefaultBranch: "main"},
		},
	}))

	inst := gt.R1(reg.Find("green", "web")).NoError(t)
	gt.V(t, inst.ID).Equal(types.GitHubAppInstallID(200))
	gt.V(t, inst.CreatedAt).Equal(testNow)

	gt.NoError(t, uc.ApplyInstallationEvent(ctx, &model.InstallationEvent{
		Action:    model.InstallationDeleted,
		InstallID: 200,
	}))

	_, err := reg.Find("green", "web")
	gt.Error(t, err)

	// Deleting an already-gone installation is not an error.
	gt.NoError(t, uc.ApplyInstallationEvent(ctx, &model.InstallationEvent{
		Action:    model.InstallationDeleted,
		InstallID: 200,
	}))
}

func TestApplyInstallationReposEvent(t *testing.T) {
	reg := registry.New(memory.New())
	uc := newEventTestUseCase(reg)
	ctx := testContext()

	now := testNow.Add(-time.Hour)
	gt.NoError(t, reg.Record(ctx, &model.Installation{
		ID:        300,
		Account:   "red",
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}, []*model.Repository{
		{ID: 20, FullName: "red/core", DefaultBranch: "main"},
	}))

	gt.NoError(t, uc.ApplyInstallationReposEvent(ctx, &model.InstallationReposEvent{
		InstallID: 300,
		Account:   "red",
		Added:     []*model.Repository{{ID: 21, FullName: "red/tools", DefaultBranch: "main"}},
		Removed:   []*model.Repository{{ID: 20, FullName: "red/core", DefaultBranch: "main"}},
	}))

	_, err := reg.Find("red", "core")
	gt.Error(t, err)
	inst := gt.R1(reg.Find("red", "tools")).NoError(t)
	gt.V(t, len(inst.Repositories)).Equal(1)
}

func TestApplyRepositoryEventCreatesBinding(t *testing.T) {
	reg := registry.New(memory.New())
	uc := newEventTestUseCase(reg)
	ctx := testContext()

	// No installation event has been seen for this account yet.
	gt.NoError(t, uc.ApplyRepositoryEvent(ctx, &model.RepositoryEvent{
		InstallID:  400,
		Account:    "ochre",
		Repository: &model.Repository{ID: 30, FullName: "ochre/sdk", DefaultBranch: "main"},
	}))

	inst := gt.R1(reg.Find("ochre", "sdk")).NoError(t)
	gt.V(t, inst.ID).Equal(types.GitHubAppInstallID(400))
	gt.V(t, inst.Account).Equal("ochre")
}

func TestApplyEventRejectsInvalid(t *testing.T) {
	uc := newEventTestUseCase(registry.New(memory.New()))
	ctx := testContext()

	gt.Error(t, uc.ApplyInstallationEvent(ctx, &model.InstallationEvent{Action: model.InstallationCreated}))
	gt.Error(t, uc.ApplyRepositoryEvent(ctx, &model.RepositoryEvent{InstallID: 1}))
}
