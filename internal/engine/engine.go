package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/cricscore/internal/match"
)

// Setup describes a match before the toss.
type Setup struct {
	TeamA  string   `json:"team_a" yaml:"team_a"`
	TeamB  string   `json:"team_b" yaml:"team_b"`
	Overs  int      `json:"overs" yaml:"overs"`
	SquadA []string `json:"squad_a,omitempty" yaml:"squad_a,omitempty"`
	SquadB []string `json:"squad_b,omitempty" yaml:"squad_b,omitempty"`
}

// Openers are the players who start an innings. When the team has a
// squad, a number such as "2" names that squad member.
type Openers struct {
	Striker    string `json:"striker" yaml:"striker"`
	NonStriker string `json:"non_striker" yaml:"non_striker"`
	Bowler     string `json:"bowler" yaml:"bowler"`
}

// Engine is the single-writer scoring state machine for one match.
//
// Every public event method is atomic: the match is snapshotted before
// the event runs and restored if the event fails. Events never overlap;
// an event that arrives while another is in flight (a re-entrant call
// from a Prompter, or any call during the innings-break delay) is
// rejected with ENGINE_BUSY.
//
// INVARIANTS:
//   - innings.Runs == sum(batter.Runs) + innings.Extras.Total
//   - innings.Balls == sum(batter.Balls)
//   - 0 <= DRS counters <= match.DefaultReviews
//   - Target is nil until innings 1 closes
//   - Log seq values are strictly increasing with no gaps
type Engine struct {
	m        *match.Match
	prompter Prompter
	recorder Recorder
	clock    *Clock
	logger   *slog.Logger

	breakDelay  time.Duration
	resumeDelay time.Duration

	busy    atomic.Bool
	log     []Event
	outcome *Outcome
	saveErr error
	savedID string
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithBreakDelay sets the pause between the end of innings 1 and the
// openers prompts of innings 2. Default: 0.
func WithBreakDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.breakDelay = d
	}
}

// WithResumeDelay sets the pause before asking to resume after a break or
// lunch interval. Default: 0.
func WithResumeDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.resumeDelay = d
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the logical clock that stamps the event log.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine for the given setup in phase setup.
//
// Team names must be non-empty and distinct after case folding, and the
// over limit must be positive. The recorder may be nil, in which case
// finished matches are not persisted.
func New(setup Setup, prompter Prompter, recorder Recorder, opts ...EngineOption) (*Engine, error) {
	teamA := match.CleanName(setup.TeamA, "")
	teamB := match.CleanName(setup.TeamB, "")
	switch {
	case teamA == "" || teamB == "":
		return nil, ruleError(CodeInvalidSetup, "both team names are required")
	case match.SameName(teamA, teamB):
		return nil, ruleError(CodeInvalidSetup, "team names must differ, got %q twice", teamA)
	case setup.Overs <= 0:
		return nil, ruleError(CodeInvalidSetup, "overs must be positive, got %d", setup.Overs)
	case prompter == nil:
		return nil, ruleError(CodeInvalidSetup, "a prompter is required")
	}

	e := &Engine{
		m: &match.Match{
			TeamA:          teamA,
			TeamB:          teamB,
			SquadA:         append([]string(nil), setup.SquadA...),
			SquadB:         append([]string(nil), setup.SquadB...),
			MaxOvers:       setup.Overs,
			CurrentInnings: 1,
			ViewingInnings: 1,
			DRSTeamA:       match.DefaultReviews,
			DRSTeamB:       match.DefaultReviews,
			Status:         match.StatusLive,
			Phase:          match.PhaseSetup,
		},
		prompter: prompter,
		recorder: recorder,
		clock:    NewClock(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Toss records the toss. Only allowed in phase setup.
func (e *Engine) Toss(winner string, decision match.TossDecision) error {
	return e.apply(context.Background(), EventToss, fmt.Sprintf("%s:%s", winner, decision), func(context.Context) error {
		if e.m.Phase != match.PhaseSetup {
			return ruleError(CodeMatchNotLive, "toss is only allowed before the match starts")
		}

		var won, lost string
		switch {
		case match.SameName(winner, e.m.TeamA):
			won, lost = e.m.TeamA, e.m.TeamB
		case match.SameName(winner, e.m.TeamB):
			won, lost = e.m.TeamB, e.m.TeamA
		default:
			return ruleError(CodeInvalidSetup, "toss winner %q is not playing", winner)
		}

		switch decision {
		case match.DecisionBat:
			e.m.BattingFirst, e.m.BattingSecond = won, lost
		case match.DecisionBowl:
			e.m.BattingFirst, e.m.BattingSecond = lost, won
		default:
			return ruleError(CodeInvalidSetup, "unknown toss decision %q", decision)
		}
		e.m.Toss = fmt.Sprintf("%s won the toss and elected to %s", won, decision)
		return nil
	})
}

// Start opens innings 1 for the team batting first.
func (e *Engine) Start(ctx context.Context, o Openers) error {
	return e.apply(ctx, EventStart, o.Striker+","+o.NonStriker+","+o.Bowler, func(context.Context) error {
		if e.m.Phase != match.PhaseSetup {
			return ruleError(CodeMatchNotLive, "match has already started")
		}
		if e.m.BattingFirst == "" {
			return ruleError(CodeInvalidSetup, "toss has not been recorded")
		}

		batSquad := e.m.Squad(e.m.BattingFirst)
		striker := match.CleanName(match.PickPlayer(o.Striker, batSquad), "Batter 1")
		nonStriker := match.CleanName(match.PickPlayer(o.NonStriker, batSquad), "Batter 2")
		if match.SameName(striker, nonStriker) {
			return &ScoringError{
				Kind:    RuleViolation,
				Code:    CodeSameOpeners,
				Message: fmt.Sprintf("striker and non-striker are both %q", striker),
			}
		}

		inn := match.NewInnings(e.m.BattingFirst)
		inn.Batters = append(inn.Batters, match.NewBatter(striker), match.NewBatter(nonStriker))
		bowler := match.PickPlayer(o.Bowler, e.m.Squad(e.m.BattingSecond))
		inn.Bowlers = append(inn.Bowlers, match.Bowler{Name: match.CleanName(bowler, "Bowler")})

		e.m.Innings = [2]*match.Innings{inn, nil}
		e.m.CurrentInnings = 1
		e.m.ViewingInnings = 1
		e.m.Target = nil
		e.m.FreeHit = false
		e.m.ThisOver = nil
		e.m.Phase = match.PhaseLive

		e.logger.Info("innings started",
			"innings", 1,
			"batting", inn.TeamName,
			"overs", e.m.MaxOvers,
			"super_over", e.m.SuperOver,
		)
		return nil
	})
}

// Match returns a deep copy of the current match state.
func (e *Engine) Match() *match.Match {
	return e.m.Clone()
}

// Phase returns the engine state.
func (e *Engine) Phase() match.Phase {
	return e.m.Phase
}

// Outcome returns the match outcome once the match is complete.
func (e *Engine) Outcome() (Outcome, bool) {
	if e.outcome == nil {
		return Outcome{}, false
	}
	return *e.outcome, true
}

// Log returns a copy of the accepted events in order.
func (e *Engine) Log() []Event {
	return append([]Event(nil), e.log...)
}

// SaveError returns the last persistence failure, or nil.
func (e *Engine) SaveError() error {
	return e.saveErr
}

// SavedID returns the record id assigned by the Recorder, or "".
func (e *Engine) SavedID() string {
	return e.savedID
}

// apply runs fn as one atomic event.
//
// On failure the match, outcome, and persistence fields are restored to
// their values before the event and nothing is appended to the log.
func (e *Engine) apply(ctx context.Context, kind EventKind, value string, fn func(context.Context) error) error {
	if !e.busy.CompareAndSwap(false, true) {
		return ruleError(CodeEngineBusy, "%s rejected: another event is being processed", kind)
	}
	defer e.busy.Store(false)

	snapshot := e.m.Clone()
	outcome, saveErr, savedID := e.outcome, e.saveErr, e.savedID

	if err := fn(ctx); err != nil {
		e.m = snapshot
		e.outcome, e.saveErr, e.savedID = outcome, saveErr, savedID
		e.logger.Debug("event rejected",
			"kind", kind,
			"value", value,
			"error", err,
		)
		return err
	}

	ev := e.clock.Stamp(kind, value, e.m)
	e.log = append(e.log, ev)
	e.logger.Debug("event accepted",
		"seq", ev.Seq,
		"kind", kind,
		"value", value,
		"score", ev.Score,
	)
	return nil
}

func (e *Engine) requireLive() error {
	if e.m.Phase != match.PhaseLive {
		return ruleError(CodeMatchNotLive, "match is %s", e.m.Phase)
	}
	return nil
}

func (e *Engine) ask(ctx context.Context, prompt, def string) (string, error) {
	s, err := e.prompter.RequestText(ctx, prompt)
	if err != nil {
		return "", newInputError(prompt, err)
	}
	return match.CleanName(s, def), nil
}

// choose lists options, then asks prompt. A number picks from options
// and an empty answer takes the first of them, or def when there are none.
func (e *Engine) choose(ctx context.Context, prompt, label string, options []string, def string) (string, error) {
	if len(options) > 0 {
		e.notify(ctx, match.Roster(label, options))
		def = options[0]
	}
	s, err := e.prompter.RequestText(ctx, prompt)
	if err != nil {
		return "", newInputError(prompt, err)
	}
	return match.CleanName(match.PickPlayer(s, options), def), nil
}

// fielding is the team bowling in the current innings.
func (e *Engine) fielding() string {
	if e.m.CurrentInnings == 2 {
		return e.m.BattingFirst
	}
	return e.m.BattingSecond
}

func (e *Engine) confirm(ctx context.Context, prompt string) (bool, error) {
	ok, err := e.prompter.RequestConfirmation(ctx, prompt)
	if err != nil {
		return false, newInputError(prompt, err)
	}
	return ok, nil
}

func (e *Engine) notify(ctx context.Context, msg string) {
	e.prompter.Notify(ctx, msg)
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// persist hands the finished match to the Recorder. Failures are logged,
// kept for SaveError, and reported through the Prompter; they never undo
// the transition that completed the match.
func (e *Engine) persist(ctx context.Context) {
	if e.recorder == nil {
		return
	}
	rec, err := match.NewRecord(e.m)
	if err == nil {
		var id string
		id, err = e.recorder.SaveMatch(ctx, rec)
		if err == nil {
			e.savedID = id
			e.saveErr = nil
			e.logger.Info("match saved", "id", id, "result", rec.Result)
			return
		}
	}
	e.saveErr = err
	e.logger.Error("save match failed",
		"team_a", e.m.TeamA,
		"team_b", e.m.TeamB,
		"error", err,
	)
	e.notify(ctx, fmt.Sprintf("Failed to save match: %v", err))
}
