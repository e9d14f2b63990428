package engine

import (
	"context"
	"fmt"

	"github.com/roach88/cricscore/internal/match"
)

// UseReview spends a DRS review for side.
//
// The Prompter is asked whether the on-field decision was correct. A
// correct decision means the review is lost; an incorrect one is
// overturned and the review is retained. overturned reports which.
func (e *Engine) UseReview(ctx context.Context, side match.Side) (overturned bool, err error) {
	err = e.apply(ctx, EventReview, string(side), func(ctx context.Context) error {
		if e.m.Phase != match.PhaseLive && e.m.Phase != match.PhaseInningsBreak {
			return ruleError(CodeMatchNotLive, "reviews are not available while the match is %s", e.m.Phase)
		}
		if !side.Valid() {
			return ruleError(CodeInvalidSide, "unknown side %q", side)
		}

		left := e.m.Reviews(side)
		if left <= 0 {
			e.notify(ctx, fmt.Sprintf("No DRS reviews remaining for Team %s!", side))
			return &ScoringError{
				Kind:    RuleViolation,
				Code:    CodeNoReviewsRemaining,
				Message: fmt.Sprintf("team %s has no reviews remaining", side),
				Details: map[string]string{"side": string(side)},
			}
		}

		correct, err := e.confirm(ctx, "Was the on-field decision correct?")
		if err != nil {
			return err
		}

		if correct {
			left--
			e.m.SetReviews(side, left)
			overturned = false
			e.notify(ctx, fmt.Sprintf("Review Lost! Team %s has %d review(s) remaining.", side, left))
			return nil
		}
		overturned = true
		e.notify(ctx, fmt.Sprintf("Decision Overturned! Review retained. Team %s still has %d review(s).", side, left))
		return nil
	})
	if err != nil {
		return false, err
	}
	return overturned, nil
}
