package usecase_test

import (
	"context"
	"errors"
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

type countingPacer struct {
	calls int
}

func (x *countingPacer) Pace(ctx context.Context) error {
	x.calls++
	return nil
}

func TestRunNightlyIsolatesFailures(t *testing.T) {
	reg := registry.New(memory.New())
	now := testNow.Add(-24 * time.Hour)
	gt.NoError(t, reg.Record(context.Background(), &model.Installation{
		ID:        testInstallID,
		Account:   testAccount,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}, []*model.Repository{
		{ID: 1, FullName: "blue/api", DefaultBranch: "main", Language: "Go"},
		{ID: 2, FullName: "blue/web", DefaultBranch: "main", Language: "TypeScript"},
		{ID: 3, FullName: "blue/infra", DefaultBranch: "main", Language: "Go"},
	}))

	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			switch repo {
			case "api":
				return []*model.PullRequest{{Number: 1, HeadBranch: "nibble/2024-06-01"}}, nil
			case "web":
				return nil, errors.New("upstream is down")
			default:
				return nil, nil
			}
		},
		ListBranchesFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) ([]string, error) {
			return []string{"main"}, nil
		},
		GetBranchHeadFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) (types.CommitSHA, error) {
			return "aaa111", nil
		},
		CreateBranchFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, newBranch string, from types.CommitSHA) error {
			return nil
		},
		SearchCodeFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, query string) ([]string, error) {
			return nil, nil
		},
		DeleteBranchFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) error {
			return nil
		},
	}

	pacer := &countingPacer{}
	uc := usecase.New(
		infra.New(infra.WithGitHubApp(mockGH), infra.WithAnalyzer(&mock.AnalyzerMock{})),
		reg,
		usecase.WithPacer(pacer),
	)

	report := gt.R1(uc.RunNightly(testContext())).NoError(t)
	gt.V(t, len(report.Outcomes)).Equal(3)
	gt.V(t, report.Count(model.OutcomeSkipped)).Equal(2)
	gt.V(t, report.Count(model.OutcomeFailed)).Equal(1)
	gt.V(t, report.Count(model.OutcomeSuccess)).Equal(0)
	gt.V(t, report.StartedAt).Equal(testNow)

	// One failing repository must not stop the batch.
	gt.V(t, pacer.calls).Equal(3)

	for _, inst := range reg.ListEnabled() {
		gt.V(t, inst.LastRun != nil).Equal(true)
		gt.V(t, *inst.LastRun).Equal(testNow)
	}
}

func TestRunNightlyEmptyRegistry(t *testing.T) {
	uc := usecase.New(
		infra.New(infra.WithGitHubApp(&mock.GitHubAppMock{}), infra.WithAnalyzer(&mock.AnalyzerMock{})),
		registry.New(memory.New()),
		usecase.WithPacer(usecase.FixedDelayPacer(0)),
	)

	report := gt.R1(uc.RunNightly(testContext())).NoError(t)
	gt.V(t, len(report.Outcomes)).Equal(0)
}
