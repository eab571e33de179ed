package ghapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

type Client struct {
	appID types.GitHubAppID
	pem   types.GitHubAppPrivateKey
}

var _ interfaces.GitHubApp = (*Client)(nil)

func New(appID types.GitHubAppID, pem types.GitHubAppPrivateKey) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrConfiguration, "appID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrConfiguration, "pem is empty")
	}

	return &Client{
		appID: appID,
		pem:   pem,
	}, nil
}

func (x *Client) buildGithubClient(installID types.GitHubAppInstallID) (*github.Client, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, int64(x.appID), int64(installID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create installation transport")
	}

	// The secondary rate limit waiter keeps the nightly batch under GitHub's
	// abuse detection budget.
	httpClient, err := github_ratelimit.NewRateLimitWaiterClient(itr)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create rate limit waiter")
	}

	return github.NewClient(httpClient), nil
}

func (x *Client) buildAppClient() (*github.Client, error) {
	itr, err := ghinstallation.NewAppsTransport(http.DefaultTransport, int64(x.appID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create app transport")
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}

func (x *Client) ListOpenPullRequests(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branchPrefix string) ([]*model.PullRequest, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	var matched []*model.PullRequest
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		prs, resp, err := client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, goerr.Wrap(types.ErrProvider, "failed to list pull requests",
				goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("cause", err),
			)
		}

		for _, pr := range prs {
			if strings.HasPrefix(pr.GetHead().GetRef(), branchPrefix) {
				matched = append(matched, &model.PullRequest{
					Number:     pr.GetNumber(),
					Title:      pr.GetTitle(),
					URL:        pr.GetHTMLURL(),
					HeadBranch: pr.GetHead().GetRef(),
					BaseBranch: pr.GetBase().GetRef(),
				})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return matched, nil
}

func (x *Client) GetDefaultBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) (string, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return "", err
	}

	repository, _, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", goerr.Wrap(types.ErrProvider, "failed to get repository",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("cause", err),
		)
	}

	return repository.GetDefaultBranch(), nil
}

func (x *Client) GetBranchHead(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) (types.CommitSHA, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return "", err
	}

	ref, _, err := client.Git.GetRef(ctx, owner, repo, "refs/heads/"+branch)
	if err != nil {
		return "", goerr.Wrap(types.ErrProvider, "failed to get branch head",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", branch), goerr.V("cause", err),
		)
	}

	return types.CommitSHA(ref.GetObject().GetSHA()), nil
}

func (x *Client) CreateBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, newBranch string, from types.CommitSHA) error {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return err
	}

	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + newBranch),
		Object: &github.GitObject{SHA: github.String(string(from))},
	}
	if _, _, err := client.Git.CreateRef(ctx, owner, repo, ref); err != nil {
		return goerr.Wrap(types.ErrProvider, "failed to create branch",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", newBranch), goerr.V("cause", err),
		)
	}

	logging.From(ctx).Debug("created branch",
		slog.String("owner", owner),
		slog.String("repo", repo),
		slog.String("branch", newBranch),
	)
	return nil
}

func (x *Client) DeleteBranch(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, branch string) error {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return err
	}

	if _, err := client.Git.DeleteRef(ctx, owner, repo, "refs/heads/"+branch); err != nil {
		return goerr.Wrap(types.ErrProvider, "failed to delete branch",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("branch", branch), goerr.V("cause", err),
		)
	}
	return nil
}

func (x *Client) ListBranches(ctx context.Context, installID types.GitHubAppInstallID, owner, repo string) ([]string, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	var names []string
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		branches, resp, err := client.Repositories.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, goerr.Wrap(types.ErrProvider, "failed to list branches",
				goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("cause", err),
			)
		}
		for _, branch := range branches {
			names = append(names, branch.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

func (x *Client) GetFileContent(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, path, ref string) (*model.FileContent, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	fileContent, _, _, err := client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		return nil, goerr.Wrap(types.ErrProvider, "failed to get file content",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("path", path), goerr.V("ref", ref), goerr.V("cause", err),
		)
	}
	if fileContent == nil {
		return nil, goerr.Wrap(types.ErrInvalidGitHubData, "path is not a file",
			goerr.V("path", path),
		)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidGitHubData, "failed to decode file content",
			goerr.V("path", path), goerr.V("cause", err),
		)
	}

	return &model.FileContent{
		Path:        path,
		Content:     content,
		Fingerprint: types.FileFingerprint(fileContent.GetSHA()),
	}, nil
}

func (x *Client) UpdateFileContent(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.UpdateFileInput) error {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(input.Message),
		Content: []byte(input.Content),
		Branch:  github.String(input.Branch),
		SHA:     github.String(string(input.Fingerprint)),
	}
	if _, _, err := client.Repositories.UpdateFile(ctx, input.Owner, input.Repo, input.Path, opts); err != nil {
		// A fingerprint mismatch (the file changed concurrently) surfaces
		// here as a conflict; it is not retried within the run.
		return goerr.Wrap(types.ErrProvider, "failed to update file",
			goerr.V("owner", input.Owner),
			goerr.V("repo", input.Repo),
			goerr.V("path", input.Path),
			goerr.V("branch", input.Branch),
			goerr.V("cause", err),
		)
	}

	return nil
}

func (x *Client) CreatePullRequest(ctx context.Context, installID types.GitHubAppInstallID, input *interfaces.CreatePullRequestInput) (*model.PullRequest, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	pr, _, err := client.PullRequests.Create(ctx, input.Owner, input.Repo, &github.NewPullRequest{
		Title: github.String(input.Title),
		Body:  github.String(input.Body),
		Head:  github.String(input.Head),
		Base:  github.String(input.Base),
	})
	if err != nil {
		return nil, goerr.Wrap(types.ErrProvider, "failed to create pull request",
			goerr.V("owner", input.Owner), goerr.V("repo", input.Repo), goerr.V("head", input.Head), goerr.V("cause", err),
		)
	}

	return &model.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		URL:        pr.GetHTMLURL(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
	}, nil
}

func (x *Client) SearchCode(ctx context.Context, installID types.GitHubAppInstallID, owner, repo, query string) ([]string, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("%q repo:%s/%s", query, owner, repo)
	result, _, err := client.Search.Code(ctx, q, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 30},
	})
	if err != nil {
		return nil, goerr.Wrap(types.ErrProvider, "failed to search code",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("query", q), goerr.V("cause", err),
		)
	}

	// Result order is the search service's best effort; callers must not
	// rely on it for correctness.
	paths := make([]string, 0, len(result.CodeResults))
	seen := make(map[string]bool)
	for _, code := range result.CodeResults {
		path := code.GetPath()
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	logging.From(ctx).Debug("code search finished",
		slog.String("repo", owner+"/"+repo),
		slog.Int("hits", len(paths)),
	)
	return paths, nil
}

func (x *Client) ListInstallations(ctx context.Context) ([]*model.InstallationInfo, error) {
	client, err := x.buildAppClient()
	if err != nil {
		return nil, err
	}

	var infos []*model.InstallationInfo
	opts := &github.ListOptions{PerPage: 100}
	for {
		installations, resp, err := client.Apps.ListInstallations(ctx, opts)
		if err != nil {
			return nil, goerr.Wrap(types.ErrProvider, "failed to list installations", goerr.V("cause", err))
		}
		for _, inst := range installations {
			infos = append(infos, &model.InstallationInfo{
				ID:      types.GitHubAppInstallID(inst.GetID()),
				Account: inst.GetAccount().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return infos, nil
}

func (x *Client) ListInstallationRepos(ctx context.Context, installID types.GitHubAppInstallID) ([]*model.Repository, error) {
	client, err := x.buildGithubClient(installID)
	if err != nil {
		return nil, err
	}

	var allRepos []*model.Repository
	opts := &github.ListOptions{PerPage: 100}
	for {
		result, resp, err := client.Apps.ListRepos(ctx, opts)
		if err != nil {
			return nil, goerr.Wrap(types.ErrProvider, "failed to list installation repos",
				goerr.V("install_id", installID), goerr.V("cause", err),
			)
		}

		for _, repo := range result.Repositories {
			if repo.GetArchived() || repo.GetDisabled() {
				continue
			}
			allRepos = append(allRepos, &model.Repository{
				ID:            repo.GetID(),
				FullName:      repo.GetFullName(),
				DefaultBranch: repo.GetDefaultBranch(),
				Language:      repo.GetLanguage(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Info("listed installation repos",
		slog.Int("count", len(allRepos)),
		slog.Any("install_id", installID),
	)
	return allRepos, nil
}

func (x *Client) InstallationExists(ctx context.Context, installID types.GitHubAppInstallID) (bool, error) {
	client, err := x.buildAppClient()
	if err != nil {
		return false, err
	}

	_, resp, err := client.Apps.GetInstallation(ctx, int64(installID))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, goerr.Wrap(types.ErrProvider, "failed to get installation",
			goerr.V("install_id", installID), goerr.V("cause", err),
		)
	}

	return true, nil
}
