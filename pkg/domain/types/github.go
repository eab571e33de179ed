package types

import "log/slog"

type (
	GitHubAppID         int64
	GitHubAppInstallID  int64
	GitHubAppSecret     string
	GitHubAppPrivateKey string
	BranchName          string
	CommitSHA           string
	FileFingerprint     string
)

// BranchPrefix is the reserved naming convention for daily improvement
// branches. A working branch is named "nibble/<YYYY-MM-DD>".
const BranchPrefix = "nibble/"

// MarkerKeyword is the token that marks an improvement opportunity in a
// single-line comment.
const MarkerKeyword = "NIBBLE"

func (x GitHubAppSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppSecret) String() string {
	return "***********"
}

func (x GitHubAppPrivateKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppPrivateKey) String() string {
	return "***********"
}
