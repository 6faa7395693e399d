package models

import "errors"

// Error kinds. Callers match them with errors.Is; context is added by
// wrapping with fmt.Errorf.
var (
	ErrConfigNotFound     = errors.New("configuration not found")
	ErrConfigParse        = errors.New("invalid configuration file")
	ErrConfigInvariant    = errors.New("invalid configuration")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrSubprocessSpawn    = errors.New("failed to spawn subprocess")
	ErrSubprocessFailure  = errors.New("subprocess failed")
)

// Repository mode violations reported by Repository.Check.
var (
	ErrNoTarget                  = errors.New("repository must either specify both a source and a remote, or list sub-repositories")
	ErrPartialTarget             = errors.New("both source and remote must be simultaneously specified")
	ErrPartialTargetWithChildren = errors.New("both source and remote must be simultaneously specified, and sub-repositories cannot be simultaneously listed")
	ErrTargetWithChildren        = errors.New("sub-repositories cannot be simultaneously specified with source and remote")
	ErrTimeSeparator             = errors.New("time_separator must be a single character")
)
