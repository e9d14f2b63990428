package engine

import (
	"context"

	"github.com/roach88/cricscore/internal/match"
)

// Prompter is the Human-Input Port.
//
// Calls are synchronous from the engine's point of view: at most one is
// outstanding at a time and the event does not progress until it returns.
// RequestText may return "" and the engine supplies a default.
type Prompter interface {
	RequestText(ctx context.Context, prompt string) (string, error)
	RequestConfirmation(ctx context.Context, prompt string) (bool, error)
	Notify(ctx context.Context, message string)
}

// Recorder is the Persistence Port. SaveMatch returns the stored record id.
type Recorder interface {
	SaveMatch(ctx context.Context, rec match.Record) (string, error)
}
