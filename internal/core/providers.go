package core

import "context"

// CompletionClient is the boundary to the external completion service.
// It takes the assembled context window and returns the reply text of
// the first choice.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
