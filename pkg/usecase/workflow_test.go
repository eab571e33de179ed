package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/mock"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/infra"
	"github.com/m-mizutani/nibbler/pkg/registry"
	"github.com/m-mizutani/nibbler/pkg/repository/memory"
	"github.com/m-mizutani/nibbler/pkg/usecase"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

const (
	testInstallID = types.GitHubAppInstallID(100)
	testAccount   = "blue"
	testRepoFull  = "blue/api"
)

var testNow = time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC)

const testFileContent = `package api

func Fetch(url string) ([]byte, error) {
	// NIBBLE: handle non-200 responses
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
`

func testContext() context.Context {
	return logging.CtxWithTime(context.Background(), func() time.Time {
		return testNow
	})
}

func newTestUseCase(t *testing.T, gh *mock.GitHubAppMock, analyzer *mock.AnalyzerMock) *usecase.UseCase {
	reg := registry.New(memory.New())
	installedAt := testNow.Add(-24 * time.Hour)
	gt.NoError(t, reg.Record(context.Background(), &model.Installation{
		ID:        testInstallID,
		Account:   testAccount,
		Enabled:   true,
		CreatedAt: installedAt,
		UpdatedAt: installedAt,
	}, []*model.Repository{
		{
			ID:            1,
			FullName:      testRepoFull,
			DefaultBranch: "main",
			Language:      "Go",
		},
	}))

	clients := infra.New(
		infra.WithGitHubApp(gh),
		infra.WithAnalyzer(analyzer),
	)
	return usecase.New(clients, reg, usecase.WithPacer(usecase.FixedDelayPacer(0)))
}

func TestRunRepositorySkipsWhenPROpen(t *testing.T) {
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return []*model.PullRequest{
				{Number: 12, URL: "https://github.com/blue/api/pull/12", HeadBranch: "nibble/2024-06-01"},
			}, nil
		},
		ListBranchesFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) ([]string, error) {
			return []string{"main", "nibble/2024-06-01"}, nil
		},
	}
	uc := newTestUseCase(t, mockGH, &mock.AnalyzerMock{})

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSkipped)
	gt.V(t, outcome.Reason).Equal(model.SkipExistingPR)

	gt.V(t, len(mockGH.CreateBranchCalls())).Equal(0)
	// The branch backing the open PR must survive the stale sweep.
	gt.V(t, len(mockGH.DeleteBranchCalls())).Equal(0)
}

func TestRunRepositoryNoCandidateDeletesBranch(t *testing.T) {
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return nil, nil
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
	uc := newTestUseCase(t, mockGH, &mock.AnalyzerMock{})

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSkipped)
	gt.V(t, outcome.Reason).Equal(model.SkipNoCandidate)

	created := mockGH.CreateBranchCalls()
	gt.V(t, len(created)).Equal(1)
	gt.V(t, created[0].NewBranch).Equal("nibble/2024-06-02")
	gt.V(t, created[0].From).Equal(types.CommitSHA("aaa111"))

	deleted := mockGH.DeleteBranchCalls()
	gt.V(t, len(deleted)).Equal(1)
	gt.V(t, deleted[0].Branch).Equal("nibble/2024-06-02")
}

func TestRunRepositorySuccess(t *testing.T) {
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return nil, nil
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
			return []string{"fetch.go"}, nil
		},
		GetFileContentFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, path, ref string) (*model.FileContent, error) {
			return &model.FileContent{
				Path:        path,
				Content:     testFileContent,
				Fingerprint: "blob-sha-1",
			}, nil
		},
		UpdateFileContentFunc: func(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.UpdateFileInput) error {
			return nil
		},
		CreatePullRequestFunc: func(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.CreatePullRequestInput) (*model.PullRequest, error) {
			return &model.PullRequest{
				Number:     34,
				URL:        "https://github.com/blue/api/pull/34",
				HeadBranch: input.Head,
				BaseBranch: input.Base,
			}, nil
		},
	}
	mockAnalyzer := &mock.AnalyzerMock{
		AnalyzeCandidateFunc: func(ctx context.Context, input *interfaces.AnalyzeInput) (*model.Suggestion, error) {
			gt.V(t, input.Language).Equal("Go")
			return &model.Suggestion{
				CanImprove:  true,
				Title:       "Check HTTP response status",
				Explanation: "Non-200 responses were returned as successful payloads.",
				SearchText:  "return io.ReadAll(resp.Body)",
				ReplaceText: "if resp.StatusCode != http.StatusOK {\n\t\treturn nil, fmt.Errorf(\"unexpected status: %s\", resp.Status)\n\t}\n\n\treturn io.ReadAll(resp.Body)",
				Confidence:  0.85,
			}, nil
		},
	}
	uc := newTestUseCase(t, mockGH, mockAnalyzer)

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSuccess)
	gt.V(t, outcome.PullReqURL).Equal("https://github.com/blue/api/pull/34")
	gt.V(t, outcome.Title).Equal("Check HTTP response status")
	gt.V(t, outcome.Confidence).Equal(0.85)

	updates := mockGH.UpdateFileContentCalls()
	gt.V(t, len(updates)).Equal(1)
	gt.V(t, updates[0].Input.Branch).Equal("nibble/2024-06-02")
	gt.V(t, updates[0].Input.Fingerprint).Equal(types.FileFingerprint("blob-sha-1"))
	gt.S(t, updates[0].Input.Content).
		NotContains("NIBBLE").
		Contains("if resp.StatusCode != http.StatusOK {").
		Contains("defer resp.Body.Close()")

	prs := mockGH.CreatePullRequestCalls()
	gt.V(t, len(prs)).Equal(1)
	gt.V(t, prs[0].Input.Head).Equal("nibble/2024-06-02")
	gt.V(t, prs[0].Input.Base).Equal("main")
	gt.S(t, prs[0].Input.Body).Contains("Confidence: 85%")

	gt.V(t, len(mockGH.DeleteBranchCalls())).Equal(0)
}

func TestRunRepositoryLowConfidence(t *testing.T) {
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return nil, nil
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
			return []string{"fetch.go"}, nil
		},
		GetFileContentFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, path, ref string) (*model.FileContent, error) {
			return &model.FileContent{Path: path, Content: testFileContent, Fingerprint: "blob-sha-1"}, nil
		},
		DeleteBranchFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) error {
			return nil
		},
	}
	mockAnalyzer := &mock.AnalyzerMock{
		AnalyzeCandidateFunc: func(ctx context.Context, input *interfaces.AnalyzeInput) (*model.Suggestion, error) {
			// Exactly at the threshold does not qualify.
			return &model.Suggestion{
				CanImprove:  true,
				Title:       "Check HTTP response status",
				Explanation: "Non-200 responses were returned as successful payloads.",
				SearchText:  "return io.ReadAll(resp.Body)",
				ReplaceText: "return readChecked(resp)",
				Confidence:  0.7,
			}, nil
		},
	}
	uc := newTestUseCase(t, mockGH, mockAnalyzer)

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSkipped)
	gt.V(t, outcome.Reason).Equal(model.SkipNoImprovementFound)

	gt.V(t, len(mockGH.UpdateFileContentCalls())).Equal(0)
	gt.V(t, len(mockGH.DeleteBranchCalls())).Equal(1)
}

func TestFindImprovementAdvancesPastFailures(t *testing.T) {
	contents := map[string]string{
		"broken.go": testFileContent,
		"fetch.go":  testFileContent,
	}
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return nil, nil
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
			return []string{"broken.go", "fetch.go"}, nil
		},
		GetFileContentFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, path, ref string) (*model.FileContent, error) {
			return &model.FileContent{Path: path, Content: contents[path], Fingerprint: types.FileFingerprint("sha-" + path)}, nil
		},
		UpdateFileContentFunc: func(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.UpdateFileInput) error {
			return nil
		},
		CreatePullRequestFunc: func(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.CreatePullRequestInput) (*model.PullRequest, error) {
			return &model.PullRequest{Number: 35, URL: "https://github.com/blue/api/pull/35"}, nil
		},
	}
	mockAnalyzer := &mock.AnalyzerMock{
		AnalyzeCandidateFunc: func(ctx context.Context, input *interfaces.AnalyzeInput) (*model.Suggestion, error) {
			if input.File == "broken.go" {
				// Malformed output disqualifies this candidate only.
				return &model.Suggestion{CanImprove: true, Title: "Broken"}, nil
			}
			return &model.Suggestion{
				CanImprove:  true,
				Title:       "Check HTTP response status",
				Explanation: "Non-200 responses were returned as successful payloads.",
				SearchText:  "return io.ReadAll(resp.Body)",
				ReplaceText: "return readChecked(resp)",
				Confidence:  0.9,
			}, nil
		},
	}
	uc := newTestUseCase(t, mockGH, mockAnalyzer)

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSuccess)

	gt.V(t, len(mockAnalyzer.AnalyzeCandidateCalls())).Equal(2)
	updates := mockGH.UpdateFileContentCalls()
	gt.V(t, len(updates)).Equal(1)
	gt.V(t, updates[0].Input.Path).Equal("fetch.go")
	gt.V(t, updates[0].Input.Fingerprint).Equal(types.FileFingerprint("sha-fetch.go"))
}

func TestStaleBranchSweep(t *testing.T) {
	mockGH := &mock.GitHubAppMock{
		ListOpenPullRequestsFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
			return []*model.PullRequest{
				{Number: 12, URL: "https://github.com/blue/api/pull/12", HeadBranch: "nibble/2024-06-01"},
			}, nil
		},
		ListBranchesFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) ([]string, error) {
			return []string{"main", "nibble/2024-05-30", "nibble/2024-06-01", "nibble/not-a-date", "feature/x"}, nil
		},
		DeleteBranchFunc: func(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) error {
			return nil
		},
	}
	uc := newTestUseCase(t, mockGH, &mock.AnalyzerMock{})

	outcome := gt.R1(uc.RunRepository(testContext(), "blue", "api")).NoError(t)
	gt.V(t, outcome.Status).Equal(model.OutcomeSkipped)

	// Only the dated branch without an open PR is removed.
	deleted := mockGH.DeleteBranchCalls()
	gt.V(t, len(deleted)).Equal(1)
	gt.V(t, deleted[0].Branch).Equal("nibble/2024-05-30")
}

func TestRunRepositoryUnknown(t *testing.T) {
	uc := newTestUseCase(t, &mock.GitHubAppMock{}, &mock.AnalyzerMock{})

	_, err := uc.RunRepository(testContext(), "green", "web")
	gt.Error(t, err)
}
