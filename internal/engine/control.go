package engine

import (
	"context"
	"strconv"

	"github.com/roach88/cricscore/internal/match"
)

var statusMessages = map[match.Status]string{
	match.StatusBreak:  "Match on Break",
	match.StatusLunch:  "Lunch Break",
	match.StatusStumps: "Stumps - Day End",
}

// SetStatus labels the match as on a break, at lunch, or at stumps, then
// asks whether to resume. The label does not stop scoring.
func (e *Engine) SetStatus(ctx context.Context, status match.Status) error {
	return e.apply(ctx, EventStatus, string(status), func(ctx context.Context) error {
		if e.m.Phase == match.PhaseComplete {
			return ruleError(CodeMatchNotLive, "match is complete")
		}
		msg, ok := statusMessages[status]
		if !ok {
			return ruleError(CodeInvalidStatus, "cannot set status %q", status)
		}

		e.m.Status = status
		e.notify(ctx, msg)

		if status == match.StatusStumps {
			return e.askResume(ctx, "Resume match tomorrow?")
		}
		if err := wait(ctx, e.resumeDelay); err != nil {
			return newInputError("resume delay", err)
		}
		return e.askResume(ctx, "Resume match?")
	})
}

// Resume asks again whether a paused match should resume.
func (e *Engine) Resume(ctx context.Context) error {
	return e.apply(ctx, EventResume, "", func(ctx context.Context) error {
		if !e.m.Status.Paused() {
			return ruleError(CodeMatchNotPaused, "match is %s", e.m.Status)
		}
		return e.askResume(ctx, "Resume match?")
	})
}

func (e *Engine) askResume(ctx context.Context, prompt string) error {
	ok, err := e.confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if ok {
		e.m.Status = match.StatusLive
		e.notify(ctx, "Match Resumed!")
	}
	return nil
}

// DeclareDraw ends the match as a draw after confirmation. declared is
// false when the Prompter declines.
func (e *Engine) DeclareDraw(ctx context.Context) (declared bool, err error) {
	err = e.apply(ctx, EventDraw, "", func(ctx context.Context) error {
		if err := e.requireLive(); err != nil {
			return err
		}
		ok, err := e.confirm(ctx, "Declare match as DRAW?\n\nThis will end the match immediately.")
		if err != nil {
			return err
		}
		if !ok {
			declared = false
			return nil
		}

		e.m.Status = match.StatusDraw
		e.m.Phase = match.PhaseComplete
		e.m.Result = "Match Drawn"
		if inn := e.m.Current(); inn != nil {
			inn.Closed = true
		}
		e.outcome = &Outcome{Kind: OutcomeDraw, Text: e.m.Result}
		declared = true

		e.logger.Info("match drawn", "team_a", e.m.TeamA, "team_b", e.m.TeamB)
		e.persist(ctx)
		return nil
	})
	if err != nil {
		return false, err
	}
	return declared, nil
}

// StartSuperOver restarts a tied match as a one-over tie-breaker.
//
// Both innings are replaced by empty innings and the engine returns to
// phase setup: the caller records a new toss and calls Start again. DRS
// counters carry over. started is false when the Prompter declines.
func (e *Engine) StartSuperOver(ctx context.Context) (started bool, err error) {
	err = e.apply(ctx, EventSuperOver, "", func(ctx context.Context) error {
		if e.m.Phase != match.PhaseComplete || e.outcome == nil || !e.outcome.SuperOverAvailable {
			return ruleError(CodeSuperOverUnavailable, "super over requires a completed tied match")
		}
		ok, err := e.confirm(ctx, "START SUPER OVER?\n\nThis is a tie-breaker with 1 over per team.")
		if err != nil {
			return err
		}
		if !ok {
			started = false
			return nil
		}

		e.m.SuperOver = true
		e.m.MaxOvers = 1
		e.m.CurrentInnings = 1
		e.m.ViewingInnings = 1
		e.m.Innings = [2]*match.Innings{match.NewInnings(e.m.TeamA), match.NewInnings(e.m.TeamB)}
		e.m.Target = nil
		e.m.FreeHit = false
		e.m.ThisOver = nil
		e.m.Result = ""
		e.m.Toss = ""
		e.m.BattingFirst = ""
		e.m.BattingSecond = ""
		e.m.Status = match.StatusLive
		e.m.Phase = match.PhaseSetup
		e.outcome = nil
		e.saveErr = nil
		e.savedID = ""
		started = true

		e.logger.Info("super over started", "team_a", e.m.TeamA, "team_b", e.m.TeamB)
		e.notify(ctx, "SUPER OVER MODE\n\n1 over per team. Highest score wins!")
		return nil
	})
	if err != nil {
		return false, err
	}
	return started, nil
}

// ViewInnings selects which innings the scorecard shows.
func (e *Engine) ViewInnings(n int) error {
	return e.apply(context.Background(), EventView, strconv.Itoa(n), func(context.Context) error {
		if n != 1 && n != 2 {
			return newInningsError(n)
		}
		if e.m.Inning(n) == nil {
			return newInningsError(n)
		}
		e.m.ViewingInnings = n
		return nil
	})
}
