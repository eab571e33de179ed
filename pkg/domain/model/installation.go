package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

// Installation is a durable binding between a monitored account and the
// repositories it grants access to. Owned exclusively by the registry.
// JSON tags follow the persisted store format.
type Installation struct {
	ID           types.GitHubAppInstallID `json:"id"`
	Account      string                   `json:"account"`
	Repositories []*Repository            `json:"repositories"`
	LastRun      *time.Time               `json:"lastNibble,omitempty"`
	Enabled      bool                     `json:"enabled"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

func (x *Installation) Validate() error {
	if x.ID == 0 {
		return goerr.Wrap(types.ErrValidation, "installation ID is empty")
	}
	if x.Account == "" {
		return goerr.Wrap(types.ErrValidation, "account is empty")
	}
	return nil
}

// HasRepository reports whether the installation already binds the repository
// with the given full name.
func (x *Installation) HasRepository(fullName string) bool {
	for _, repo := range x.Repositories {
		if repo.FullName == fullName {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The registry hands out copies so that callers
// can never mutate its table.
func (x *Installation) Clone() *Installation {
	dup := *x
	if x.LastRun != nil {
		t := *x.LastRun
		dup.LastRun = &t
	}
	dup.Repositories = make([]*Repository, len(x.Repositories))
	for i, repo := range x.Repositories {
		r := *repo
		dup.Repositories[i] = &r
	}
	return &dup
}

// Repository is a monitored GitHub repository. FullName ("owner/name") is the
// globally unique key within the registry.
type Repository struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
}

func (x *Repository) Validate() error {
	if x.FullName == "" {
		return goerr.Wrap(types.ErrValidation, "repository full name is empty")
	}
	if !strings.Contains(x.FullName, "/") {
		return goerr.Wrap(types.ErrValidation, "repository full name must be owner/name",
			goerr.V("full_name", x.FullName),
		)
	}
	return nil
}

// Owner returns the owner part of FullName.
func (x *Repository) Owner() string {
	owner, _, _ := strings.Cut(x.FullName, "/")
	return owner
}

// Name returns the name part of FullName.
func (x *Repository) Name() string {
	_, name, _ := strings.Cut(x.FullName, "/")
	return name
}
