package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/cricscore/internal/match"
)

// RecordRuns scores a legal delivery off which the batters ran n (0-6).
func (e *Engine) RecordRuns(ctx context.Context, n int) error {
	return e.apply(ctx, EventRuns, strconv.Itoa(n), func(ctx context.Context) error {
		if err := e.requireLive(); err != nil {
			return err
		}
		if n < 0 || n > 6 {
			return &ScoringError{
				Kind:    RuleViolation,
				Code:    CodeInvalidRuns,
				Message: fmt.Sprintf("runs must be between 0 and 6, got %d", n),
			}
		}

		inn := e.m.Current()
		striker := inn.Striker()
		bowler := inn.Bowler()

		inn.Runs += n
		inn.Balls++
		inn.PartnershipRuns += n
		inn.PartnershipBalls++
		striker.Runs += n
		striker.Balls++
		switch n {
		case 4:
			striker.Fours++
		case 6:
			striker.Sixes++
		}
		bowler.Runs += n
		bowler.Balls++
		e.m.ThisOver = append(e.m.ThisOver, match.BallLog{Kind: "run", Runs: n, Label: strconv.Itoa(n)})

		if n%2 == 1 {
			inn.RotateStrike()
		}
		e.m.FreeHit = false

		return e.afterDelivery(ctx, true)
	})
}

// RecordExtra scores a wide or no-ball: one run to the team, charged to
// the bowler, with no legal ball and no ball faced.
func (e *Engine) RecordExtra(ctx context.Context, kind match.ExtraKind) error {
	return e.apply(ctx, EventExtra, string(kind), func(ctx context.Context) error {
		if err := e.requireLive(); err != nil {
			return err
		}

		inn := e.m.Current()
		switch kind {
		case match.Wide:
			inn.Extras.Wides++
		case match.NoBall:
			inn.Extras.NoBalls++
		default:
			return ruleError(CodeInvalidExtra, "unknown extra %q", kind)
		}
		inn.Extras.Total++
		inn.Runs++
		inn.PartnershipRuns++
		inn.Bowler().Runs++
		e.m.ThisOver = append(e.m.ThisOver, match.BallLog{Kind: "extra", Runs: 1, Label: kind.Label()})

		if kind == match.NoBall {
			e.m.FreeHit = true
			e.notify(ctx, "FREE HIT! Next ball is a Free Hit.")
		}

		return e.afterDelivery(ctx, false)
	})
}

// RecordWicket dismisses a batter.
//
// Off a free hit only run outs and retirements are accepted; anything else
// is rejected before any prompt. For those two kinds the Prompter decides
// whether the striker or the non-striker is out.
func (e *Engine) RecordWicket(ctx context.Context, kind match.WicketKind) error {
	return e.apply(ctx, EventWicket, string(kind), func(ctx context.Context) error {
		if err := e.requireLive(); err != nil {
			return err
		}
		parsed, err := match.ParseWicketKind(string(kind))
		if err != nil {
			return ruleError(CodeInvalidDismissal, "unknown dismissal %q", kind)
		}
		kind = parsed
		if e.m.FreeHit && !kind.AllowedOnFreeHit() {
			e.notify(ctx, "FREE HIT! Only Run Out is allowed.")
			return &ScoringError{
				Kind:    RuleViolation,
				Code:    CodeFreeHitDismissal,
				Message: fmt.Sprintf("%s is not allowed on a free hit", kind.Phrase()),
			}
		}

		inn := e.m.Current()
		outIdx := inn.StrikerIdx
		if kind.ConfirmsBatter() {
			isStriker, err := e.confirm(ctx, fmt.Sprintf("Is Striker (%s) the one?", inn.Striker().Name))
			if err != nil {
				return err
			}
			if !isStriker {
				outIdx = inn.NonStrikerIdx
			}
		}

		bowler := inn.Bowler()
		out := &inn.Batters[outIdx]
		legal := true

		switch kind {
		case match.RetiredHurt:
			out.OutDesc = "retired hurt"
			legal = false
			e.notify(ctx, fmt.Sprintf("%s Retired Hurt.", out.Name))
		case match.RunOut:
			fielder, err := e.ask(ctx, "Run Out By (Fielder)", "Fielder")
			if err != nil {
				return err
			}
			out.OutDesc = fmt.Sprintf("run out (%s)", fielder)
			inn.Wickets++
		default:
			desc, err := e.dismissal(ctx, kind, bowler.Name)
			if err != nil {
				return err
			}
			out.OutDesc = desc
			inn.Wickets++
			bowler.Wickets++
		}
		out.IsOut = true
		inn.PartnershipRuns = 0
		inn.PartnershipBalls = 0

		if legal {
			inn.Striker().Balls++
			bowler.Balls++
			inn.Balls++
			e.m.ThisOver = append(e.m.ThisOver, match.BallLog{Kind: "wicket", Runs: 0, Label: "W"})
		}
		e.m.FreeHit = false

		if !inn.AllOut() {
			name, err := e.choose(ctx, "New Batter Name", "Yet to bat:",
				inn.YetToBat(e.m.Squad(inn.TeamName)), fmt.Sprintf("Batter %d", len(inn.Batters)+1))
			if err != nil {
				return err
			}
			inn.Batters = append(inn.Batters, match.NewBatter(name))
			if outIdx == inn.StrikerIdx {
				inn.StrikerIdx = len(inn.Batters) - 1
			} else {
				inn.NonStrikerIdx = len(inn.Batters) - 1
			}
		}

		return e.afterDelivery(ctx, legal)
	})
}

// dismissal builds the scorecard description for a bowler's wicket.
func (e *Engine) dismissal(ctx context.Context, kind match.WicketKind, bowler string) (string, error) {
	switch kind {
	case match.Bowled:
		return "b " + bowler, nil
	case match.Caught:
		fielder, err := e.ask(ctx, "Fielder Name", "Fielder")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("c %s b %s", fielder, bowler), nil
	case match.Stumped:
		keeper, err := e.ask(ctx, "Wicket Keeper Name", "Keeper")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("st %s b %s", keeper, bowler), nil
	case match.LBW:
		return "lbw b " + bowler, nil
	}
	return fmt.Sprintf("%s b %s", kind.Phrase(), bowler), nil
}

// afterDelivery runs the over-end check (legal deliveries only) and then
// the innings-end check.
func (e *Engine) afterDelivery(ctx context.Context, legal bool) error {
	inn := e.m.Current()
	if legal && inn.Balls > 0 && inn.Balls%match.BallsPerOver == 0 && !e.chaseWon() {
		if err := e.endOver(ctx); err != nil {
			return err
		}
	}
	return e.checkInningsEnd(ctx)
}

func (e *Engine) chaseWon() bool {
	return e.m.CurrentInnings == 2 && e.m.Target != nil && e.m.Current().Runs >= *e.m.Target
}

func (e *Engine) inningsOver() bool {
	inn := e.m.Current()
	return e.chaseWon() || inn.Balls >= e.m.MaxOvers*match.BallsPerOver || inn.AllOut()
}

// endOver closes the over and credits a maiden. When another over follows
// it announces the over, changes ends and asks for the next bowler until
// one other than the outgoing bowler is named.
func (e *Engine) endOver(ctx context.Context) error {
	inn := e.m.Current()
	outgoing := inn.Bowler()
	if maiden(e.m.ThisOver) {
		outgoing.Maidens++
	}
	outgoingName := outgoing.Name
	e.m.ThisOver = nil

	if e.inningsOver() {
		return nil
	}
	e.notify(ctx, "Over Complete!")
	inn.RotateStrike()

	options := match.Without(e.m.Squad(e.fielding()), outgoingName)
	for {
		name, err := e.choose(ctx, "Next Bowler Name", "Bowlers:", options, fmt.Sprintf("Bowler %d", len(inn.Bowlers)+1))
		if err != nil {
			return err
		}
		if match.SameName(name, outgoingName) {
			e.notify(ctx, fmt.Sprintf("%s cannot bowl consecutive overs!", name))
			continue
		}

		idx := inn.FindBowler(name)
		if idx < 0 {
			inn.Bowlers = append(inn.Bowlers, match.Bowler{Name: name})
			idx = len(inn.Bowlers) - 1
		}
		inn.BowlerIdx = idx
		e.logger.Debug("over complete",
			"innings", e.m.CurrentInnings,
			"overs", match.Overs(inn.Balls),
			"bowler", name,
		)
		return nil
	}
}

// maiden reports whether an over conceded nothing off the bat or in
// extras.
func maiden(over []match.BallLog) bool {
	if len(over) == 0 {
		return false
	}
	for _, b := range over {
		if b.Runs != 0 {
			return false
		}
	}
	return true
}

// checkInningsEnd closes the innings when the chase is won, the overs are
// used up, or the side is all out.
func (e *Engine) checkInningsEnd(ctx context.Context) error {
	inn := e.m.Current()
	if !e.inningsOver() {
		return nil
	}
	inn.Closed = true

	e.logger.Info("innings closed",
		"innings", e.m.CurrentInnings,
		"team", inn.TeamName,
		"runs", inn.Runs,
		"wickets", inn.Wickets,
		"overs", match.Overs(inn.Balls),
	)

	if e.m.CurrentInnings == 1 {
		return e.startSecondInnings(ctx, inn)
	}
	return e.finish(ctx)
}

func (e *Engine) startSecondInnings(ctx context.Context, first *match.Innings) error {
	target := first.Runs + 1
	e.m.Target = &target
	e.m.Phase = match.PhaseInningsBreak

	reason := "Overs Completed!"
	if first.AllOut() {
		reason = "All Out!"
	}
	e.notify(ctx, fmt.Sprintf("%s\nTarget: %d\n\nStarting 2nd Innings...", reason, target))

	if err := wait(ctx, e.breakDelay); err != nil {
		return newInputError("innings break", err)
	}

	batSquad := e.m.Squad(e.m.BattingSecond)
	striker, err := e.choose(ctx, "Opener 1 Name", "Yet to bat:", batSquad, "Batter 1")
	if err != nil {
		return err
	}
	nonStriker, err := e.choose(ctx, "Opener 2 Name", "Yet to bat:", match.Without(batSquad, striker), "Batter 2")
	if err != nil {
		return err
	}
	bowler, err := e.choose(ctx, "Opening Bowler Name", "Bowlers:", e.m.Squad(e.m.BattingFirst), "Bowler")
	if err != nil {
		return err
	}

	inn := match.NewInnings(e.m.BattingSecond)
	inn.Batters = append(inn.Batters, match.NewBatter(striker), match.NewBatter(nonStriker))
	inn.Bowlers = append(inn.Bowlers, match.Bowler{Name: bowler})

	e.m.Innings[1] = inn
	e.m.CurrentInnings = 2
	e.m.ViewingInnings = 2
	e.m.FreeHit = false
	e.m.ThisOver = nil
	e.m.Phase = match.PhaseLive

	e.logger.Info("innings started",
		"innings", 2,
		"batting", inn.TeamName,
		"target", target,
	)
	return nil
}

// finish completes the match, announces the result, and persists it.
func (e *Engine) finish(ctx context.Context) error {
	out, err := Calculate(e.m)
	if err != nil {
		return err
	}
	e.m.Phase = match.PhaseComplete
	e.m.Result = out.Text
	e.outcome = &out

	e.logger.Info("match complete",
		"result", out.Text,
		"margin", out.MarginText(),
		"super_over_available", out.SuperOverAvailable,
	)
	e.notify(ctx, out.Text)
	e.persist(ctx)
	return nil
}
