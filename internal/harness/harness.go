package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/store"
	"github.com/roach88/cricscore/internal/testutil"
)

// ScenarioUser owns every match a scenario saves.
const ScenarioUser = "scenario"

// Harness executes one scenario.
type Harness struct {
	store    *store.Store
	engine   *engine.Engine
	prompter *testutil.ScriptedPrompter
	logger   *slog.Logger
}

// sequenceIDs numbers saved matches "<prefix>-1", "<prefix>-2", ...
type sequenceIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDs) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Create the engine with a scripted prompter over the answers
// 3. Record the toss and open innings 1
// 4. Execute steps, checking expected errors
// 5. Check final state and assertions
//
// The returned error is reserved for infrastructure failures. A scenario
// whose checks fail returns a Result with Pass false.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	clock := testutil.NewDeterministicClock(time.Time{})
	st, err := store.Open(":memory:",
		store.WithNow(clock.Now),
		store.WithIDGenerator(&sequenceIDs{prefix: scenario.Name}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	answers := make([]testutil.Answer, len(scenario.Answers))
	for i, a := range scenario.Answers {
		answers[i] = testutil.Text(a)
	}
	prompter := testutil.NewScriptedPrompter(answers...)
	prompter.AllowDefaults = scenario.AllowDefaults

	h := &Harness{
		store:    st,
		prompter: prompter,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	result := NewResult()

	setup := scenario.Setup
	eng, err := engine.New(engine.Setup{
		TeamA:  setup.TeamA,
		TeamB:  setup.TeamB,
		Overs:  setup.Overs,
		SquadA: setup.SquadA,
		SquadB: setup.SquadB,
	}, prompter, st.RecorderFor(ScenarioUser), engine.WithLogger(h.logger))
	if err != nil {
		result.AddError(fmt.Sprintf("setup: %v", err))
		return result, nil
	}
	h.engine = eng

	if err := h.openMatch(ctx, setup); err != nil {
		result.AddError(fmt.Sprintf("setup: %v", err))
	} else {
		h.executeSteps(ctx, scenario.Steps, result)
	}

	if n := prompter.Remaining(); n > 0 {
		result.AddError(fmt.Sprintf("%d answer(s) were never used", n))
	}

	if err := h.collect(ctx, result); err != nil {
		return nil, err
	}

	if scenario.Expect != nil {
		for _, msg := range checkExpect(result.Match, *scenario.Expect) {
			result.AddError(msg)
		}
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) openMatch(ctx context.Context, setup MatchSetup) error {
	if setup.TossWinner == "" {
		return nil
	}
	decision, err := match.ParseTossDecision(setup.TossDecision)
	if err != nil {
		return err
	}
	if err := h.engine.Toss(setup.TossWinner, decision); err != nil {
		return err
	}
	return h.engine.Start(ctx, engine.Openers{
		Striker:    setup.Striker,
		NonStriker: setup.NonStriker,
		Bowler:     setup.Bowler,
	})
}

// executeSteps applies each step in order. An unexpected error stops the
// run because later steps would see a state the scenario did not intend.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		err := h.executeStep(ctx, step)

		switch {
		case step.ExpectError == "" && err != nil:
			result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", i+1, step.kind(), err))
			return
		case step.ExpectError != "" && err == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got success", i+1, step.kind(), step.ExpectError))
		case step.ExpectError != "" && string(engine.CodeOf(err)) != step.ExpectError:
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %v", i+1, step.kind(), step.ExpectError, err))
		}

		h.logger.Debug("step completed",
			"step", i+1,
			"kind", step.kind(),
			"error", err,
		)
	}
}

func (h *Harness) executeStep(ctx context.Context, step Step) error {
	e := h.engine
	switch step.kind() {
	case "runs":
		return e.RecordRuns(ctx, *step.Runs)
	case "extra":
		kind, err := match.ParseExtraKind(step.Extra)
		if err != nil {
			kind = match.ExtraKind(step.Extra)
		}
		return e.RecordExtra(ctx, kind)
	case "wicket":
		return e.RecordWicket(ctx, match.WicketKind(step.Wicket))
	case "review":
		_, err := e.UseReview(ctx, match.Side(step.Review))
		return err
	case "status":
		return e.SetStatus(ctx, match.Status(step.Status))
	case "resume":
		return e.Resume(ctx)
	case "draw":
		_, err := e.DeclareDraw(ctx)
		return err
	case "super_over":
		_, err := e.StartSuperOver(ctx)
		return err
	case "view":
		return e.ViewInnings(step.View)
	case "toss":
		decision, err := match.ParseTossDecision(step.Toss.Decision)
		if err != nil {
			return err
		}
		return e.Toss(step.Toss.Winner, decision)
	case "start":
		return e.Start(ctx, *step.Start)
	}
	return fmt.Errorf("unknown step")
}

// collect copies the final engine, prompter, and store state into result.
func (h *Harness) collect(ctx context.Context, result *Result) error {
	result.Exchanges = h.prompter.Exchanges()
	saved, err := h.store.ListMatches(ctx, ScenarioUser)
	if err != nil {
		return fmt.Errorf("failed to read saved matches: %w", err)
	}
	result.Saved = saved

	if h.engine == nil {
		return nil
	}
	result.Match = h.engine.Match()
	result.Trace = h.engine.Log()
	if out, ok := h.engine.Outcome(); ok {
		result.Outcome = &out
	}
	return nil
}
