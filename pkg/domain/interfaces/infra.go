package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . GitHubApp Analyzer BigQuery

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

// GitHubApp is the hosting platform capability interface consumed by the
// orchestrator and the registry. Implementations authenticate per
// installation.
type GitHubApp interface {
	// ListOpenPullRequests returns open PRs whose head branch starts with
	// branchPrefix.
	ListOpenPullRequests(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error)

	GetDefaultBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) (string, error)
	GetBranchHead(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) (types.CommitSHA, error)
	CreateBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, newBranch string, from types.CommitSHA) error
	DeleteBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) error
	ListBranches(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) ([]string, error)

	// GetFileContent returns the decoded file content and its revision
	// fingerprint at the given ref.
	GetFileContent(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, path, ref string) (*model.FileContent, error)

	// UpdateFileContent rewrites a file on a branch. The expected fingerprint
	// is an optimistic concurrency precondition; a mismatch fails the call.
	UpdateFileContent(ctx context.Context, installID types.GitHubAppInstallID, input *UpdateFileInput) error

	CreatePullRequest(ctx context.Context, installID types.GitHubAppInstallID, input *CreatePullRequestInput) (*model.PullRequest, error)

	// SearchCode returns the paths of files matching the query within the
	// repository, in the search service's best-effort order.
	SearchCode(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, query string) ([]string, error)

	ListInstallations(ctx context.Context) ([]*model.InstallationInfo, error)
	ListInstallationRepos(ctx context.Context, installID types.GitHubAppInstallID) ([]*model.Repository, error)

	// InstallationExists returns false only on a definite not-found signal.
	// Transient failures return an error instead.
	InstallationExists(ctx context.Context, installID types.GitHubAppInstallID) (bool, error)
}

type UpdateFileInput struct {
	Owner       string
	Repo        string
	Path        string
	Content     string
	Branch      string
	Message     string
	Fingerprint types.FileFingerprint
}

type CreatePullRequestInput struct {
	Owner string
	Repo  string
	Title string
	Body  string
	Head  string
	Base  string
}

// Analyzer is the AI analysis capability. AnalyzeCandidate returns (nil, nil)
// when the model declines to suggest an improvement.
type Analyzer interface {
	AnalyzeCandidate(ctx context.Context, input *AnalyzeInput) (*model.Suggestion, error)
}

type AnalyzeInput struct {
	File            string
	MarkerLine      string
	SurroundingCode string
	Language        string
}

type BigQueryInsertOption func(*BigQueryInsertConfig)

type BigQueryInsertConfig struct {
	EnableRetry bool
}

func WithRetry(retry bool) BigQueryInsertOption {
	return func(c *BigQueryInsertConfig) {
		c.EnableRetry = retry
	}
}

type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any, opts ...BigQueryInsertOption) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}
