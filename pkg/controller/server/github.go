package server

import (
	"log/slog"
	"net/http"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// handleGitHubAppEvent validates the webhook signature, converts the payload
// into a typed registry event and applies it. Events that carry no registry
// transition are acknowledged and dropped.
func handleGitHubAppEvent(uc interfaces.UseCase, r *http.Request, key types.GitHubAppSecret) error {
	ctx := r.Context()

	payload, err := github.ValidatePayload(r, []byte(key))
	if err != nil {
		return goerr.Wrap(err, "validating payload")
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return goerr.Wrap(err, "parsing webhook")
	}

	logging.From(ctx).Info("received GitHub App event",
		slog.String("type", github.WebHookType(r)),
	)

	switch ev := event.(type) {
	case *github.InstallationEvent:
		converted := installationEventOf(ev)
		if converted == nil {
			return nil
		}
		return uc.ApplyInstallationEvent(ctx, converted)

	case *github.InstallationRepositoriesEvent:
		return uc.ApplyInstallationReposEvent(ctx, installationReposEventOf(ev))

	case *github.PushEvent:
		converted := pushEventOf(ev)
		if converted == nil {
			return nil
		}
		return uc.ApplyRepositoryEvent(ctx, converted)

	default:
		logging.From(ctx).Debug("ignoring event",
			slog.String("type", github.WebHookType(r)),
		)
		return nil
	}
}

func installationEventOf(ev *github.InstallationEvent) *model.InstallationEvent {
	var action model.InstallationAction
	switch ev.GetAction() {
	case "created":
		action = model.InstallationCreated
	case "deleted":
		action = model.InstallationDeleted
	default:
		return nil
	}

	return &model.InstallationEvent{
		Action:       action,
		InstallID:    types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		Account:      ev.GetInstallation().GetAccount().GetLogin(),
		Repositories: repositoriesOf(ev.Repositories),
	}
}

func installationReposEventOf(ev *github.InstallationRepositoriesEvent) *model.InstallationReposEvent {
	return &model.InstallationReposEvent{
		InstallID: types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		Account:   ev.GetInstallation().GetAccount().GetLogin(),
		Added:     repositoriesOf(ev.RepositoriesAdded),
		Removed:   repositoriesOf(ev.RepositoriesRemoved),
	}
}

func pushEventOf(ev *github.PushEvent) *model.RepositoryEvent {
	repo := ev.GetRepo()
	if repo.GetFullName() == "" {
		logging.Default().Warn("ignore push event without repository")
		return nil
	}

	return &model.RepositoryEvent{
		InstallID: types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		Account:   repo.GetOwner().GetLogin(),
		Repository: &model.Repository{
			ID:            repo.GetID(),
			FullName:      repo.GetFullName(),
			DefaultBranch: repo.GetDefaultBranch(),
			Language:      repo.GetLanguage(),
		},
	}
}

func repositoriesOf(repos []*github.Repository) []*model.Repository {
	var converted []*model.Repository
	for _, repo := range repos {
		if repo.GetFullName() == "" {
			continue
		}
		converted = append(converted, &model.Repository{
			ID:            repo.GetID(),
			FullName:      repo.GetFullName(),
			DefaultBranch: repo.GetDefaultBranch(),
			Language:      repo.GetLanguage(),
		})
	}
	return converted
}
