package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrRefNotFound means the requested ref (branch) does not exist on the
	// remote, after branch fallback has already been applied.
	ErrRefNotFound = errors.New("ref not found")

	// ErrContentNotFound means a single blob is absent at the given ref.
	ErrContentNotFound = errors.New("content not found")

	// ErrRepoNotFound means the repository is missing from the registry;
	// summaries are never persisted for unregistered repositories.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrSummaryNotFound means no summary has been stored for the key yet.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrCompletionFailed wraps a failure of the text-completion collaborator.
	ErrCompletionFailed = errors.New("completion failed")
)
