package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound means no installation binds a requested repository.
	ErrNotFound = goerr.New("not found")

	// ErrValidation means a suggestion is ambiguous or malformed.
	ErrValidation = goerr.New("validation failed")

	// ErrProvider means a hosting platform call failed, including an
	// optimistic concurrency precondition failure on a file write.
	ErrProvider = goerr.New("provider request failed")

	// ErrPersistence means the registry file is unreadable or unwritable.
	ErrPersistence = goerr.New("persistence failed")

	// ErrConfiguration means a required credential or setting is missing.
	// It is the only error that is fatal to the process, and only at startup.
	ErrConfiguration = goerr.New("invalid configuration")

	ErrInvalidOption     = goerr.New("invalid option")
	ErrInvalidGitHubData = goerr.New("invalid github data")
)
