package model

import "github.com/m-mizutani/nibbler/pkg/domain/types"

// PullRequest is the subset of the hosting platform's change request the
// orchestrator cares about.
type PullRequest struct {
	Number     int
	Title      string
	URL        string
	HeadBranch string
	BaseBranch string
}

// FileContent is a file snapshot together with its revision fingerprint,
// used as an optimistic concurrency precondition on writes.
type FileContent struct {
	Path        string
	Content     string
	Fingerprint types.FileFingerprint
}

// InstallationInfo is an account-level binding as reported by the hosting
// platform (the external source of truth for the registry).
type InstallationInfo struct {
	ID      types.GitHubAppInstallID
	Account string
}
