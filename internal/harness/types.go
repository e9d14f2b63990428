package harness

import (
	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/testutil"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step behaved as expected and all checks held.
	Pass bool `json:"pass"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Trace is the engine event log in order.
	Trace []engine.Event `json:"trace"`

	// Exchanges holds every prompt, answer, and notification.
	Exchanges []testutil.Exchange `json:"exchanges"`

	// Match is the final match state.
	Match *match.Match `json:"match"`

	// Outcome is set once the match is complete.
	Outcome *engine.Outcome `json:"outcome,omitempty"`

	// Saved contains the records in the store, newest first.
	Saved []match.Record `json:"saved"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Errors:    []string{},
		Trace:     []engine.Event{},
		Exchanges: []testutil.Exchange{},
		Saved:     []match.Record{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Notifications returns the notification messages in order.
func (r *Result) Notifications() []string {
	var out []string
	for _, x := range r.Exchanges {
		if x.Kind == "notify" {
			out = append(out, x.Prompt)
		}
	}
	return out
}
