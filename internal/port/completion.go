package port

import "context"

// CompletionProvider abstracts the external text-completion service.
// It is treated as a black box: no retry, no streaming. A failure here is
// fatal to the analysis run that issued it.
type CompletionProvider interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete submits a prompt and returns the raw freeform response,
	// bounded by maxTokens.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
