package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

// Typed payloads of the GitHub App notifications the registry reacts to.
// Each event maps to exactly one deterministic registry transition, with no
// ordering dependency between event types.

type InstallationAction string

const (
	InstallationCreated InstallationAction = "created"
	InstallationDeleted InstallationAction = "deleted"
)

// InstallationEvent notifies that an account-level binding was created or
// removed.
type InstallationEvent struct {
	Action       InstallationAction
	InstallID    types.GitHubAppInstallID
	Account      string
	Repositories []*Repository
}

func (x *InstallationEvent) Validate() error {
	if x.InstallID == 0 {
		return goerr.Wrap(types.ErrInvalidGitHubData, "installation ID is empty")
	}
	if x.Action != InstallationCreated && x.Action != InstallationDeleted {
		return goerr.Wrap(types.ErrInvalidGitHubData, "unsupported installation action",
			goerr.V("action", x.Action),
		)
	}
	return nil
}

// InstallationReposEvent notifies that repositories were granted to or
// revoked from an existing binding.
type InstallationReposEvent struct {
	InstallID types.GitHubAppInstallID
	Account   string
	Added     []*Repository
	Removed   []*Repository
}

func (x *InstallationReposEvent) Validate() error {
	if x.InstallID == 0 {
		return goerr.Wrap(types.ErrInvalidGitHubData, "installation ID is empty")
	}
	return nil
}

// RepositoryEvent is any repository-scoped notification (e.g. a push). When
// it arrives for an unknown binding, the registry lazily creates the
// installation record.
type RepositoryEvent struct {
	InstallID  types.GitHubAppInstallID
	Account    string
	Repository *Repository
}

func (x *RepositoryEvent) Validate() error {
	if x.InstallID == 0 {
		return goerr.Wrap(types.ErrInvalidGitHubData, "installation ID is empty")
	}
	if x.Repository == nil {
		return goerr.Wrap(types.ErrInvalidGitHubData, "repository is empty")
	}
	return x.Repository.Validate()
}
