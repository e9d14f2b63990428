package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/prompt"
	"github.com/roach88/cricscore/internal/scorecard"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	TeamA  string
	TeamB  string
	Overs  int    // 0 uses the config default
	SquadA string // comma or newline separated
	SquadB string
}

// ScoreResult is the JSON summary printed when a session ends.
type ScoreResult struct {
	MatchID   string `json:"match_id,omitempty"`
	TeamA     string `json:"team_a"`
	TeamB     string `json:"team_b"`
	Result    string `json:"result,omitempty"`
	Complete  bool   `json:"complete"`
	SaveError string `json:"save_error,omitempty"`
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a match interactively",
		Long: `Score a match ball by ball from the terminal.

After the toss and the openers, enter one event per line:

  0-6              runs off the bat
  wd, nb           wide, no ball
  w <dismissal>    wicket, e.g. "w caught" or "w run out"
  review A|B       DRS review for team A or B
  break, lunch, stumps
  resume, draw, super, view 1|2, card, help, quit

The finished match is saved for --user.

Examples:
  cricscore score --team-a India --team-b Australia --overs 20
  cricscore score --squad-a "Rohit, Gill, Kohli" --user alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.TeamA, "team-a", "", "name of team A (prompted if empty)")
	cmd.Flags().StringVar(&opts.TeamB, "team-b", "", "name of team B (prompted if empty)")
	cmd.Flags().IntVar(&opts.Overs, "overs", 0, "overs per innings (default from config)")
	cmd.Flags().StringVar(&opts.SquadA, "squad-a", "", "team A players, comma separated")
	cmd.Flags().StringVar(&opts.SquadB, "squad-b", "", "team B players, comma separated")

	return cmd
}

func runScore(ctx context.Context, opts *ScoreOptions, in io.Reader, out io.Writer) error {
	cfg := opts.Config
	logger := opts.logger()
	term := prompt.NewTerminal(in, out)

	setup, err := readSetup(ctx, opts, term)
	if err != nil {
		return WrapExitError(ExitCommandError, "match setup aborted", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, closeRec := newRecorder(ctx, cfg, st, logger)
	defer closeRec()

	eng, err := engine.New(setup, term, rec,
		engine.WithLogger(logger),
		engine.WithBreakDelay(cfg.BreakDelay),
		engine.WithResumeDelay(cfg.ResumeDelay),
	)
	if err != nil {
		if opts.Format == "json" {
			(&OutputFormatter{Format: "json", Writer: out}).ScoringError(err)
		}
		return WrapExitError(ExitCommandError, "invalid match setup", err)
	}

	s := &session{engine: eng, term: term, out: out}
	if err := s.play(ctx); err != nil && !errors.Is(err, prompt.ErrClosed) {
		return WrapExitError(ExitFailure, "scoring session failed", err)
	}

	m := eng.Match()
	result := ScoreResult{
		MatchID:  eng.SavedID(),
		TeamA:    m.TeamA,
		TeamB:    m.TeamB,
		Result:   m.Result,
		Complete: m.Phase == match.PhaseComplete,
	}
	if err := eng.SaveError(); err != nil {
		result.SaveError = err.Error()
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: out}
		return formatter.Success(result)
	}

	fmt.Fprintln(out)
	scorecard.Render(out, m)
	switch {
	case !result.Complete:
		fmt.Fprintln(out, "Match abandoned, nothing saved.")
	case result.SaveError != "":
		fmt.Fprintf(out, "Match could not be saved: %s\n", result.SaveError)
	case result.MatchID != "":
		fmt.Fprintf(out, "Saved match %s\n", result.MatchID)
	}
	return nil
}

// readSetup fills in team names and overs from flags, config, or prompts.
func readSetup(ctx context.Context, opts *ScoreOptions, term *prompt.Terminal) (engine.Setup, error) {
	setup := engine.Setup{
		TeamA: opts.TeamA,
		TeamB: opts.TeamB,
		Overs: opts.Overs,
	}
	if setup.Overs == 0 {
		setup.Overs = opts.Config.Overs
	}

	var err error
	if setup.TeamA == "" {
		if setup.TeamA, err = term.RequestText(ctx, "Team A name:"); err != nil {
			return setup, err
		}
	}
	if setup.TeamB == "" {
		if setup.TeamB, err = term.RequestText(ctx, "Team B name:"); err != nil {
			return setup, err
		}
	}

	players := opts.Config.Players
	if opts.SquadA != "" {
		setup.SquadA = match.ParseSquad(opts.SquadA, players, "A")
	}
	if opts.SquadB != "" {
		setup.SquadB = match.ParseSquad(opts.SquadB, players, "B")
	}
	return setup, nil
}

// session drives one engine from terminal input.
type session struct {
	engine *engine.Engine
	term   *prompt.Terminal
	out    io.Writer
}

// play runs toss, openers, and the event loop until the match is over
// or the scorer quits. A super over sends the loop back to the toss.
func (s *session) play(ctx context.Context) error {
	for {
		if s.engine.Phase() == match.PhaseSetup {
			if err := s.toss(ctx); err != nil {
				return err
			}
			if err := s.openers(ctx); err != nil {
				return err
			}
		}

		done, err := s.events(ctx)
		if err != nil || done {
			return err
		}
	}
}

func (s *session) toss(ctx context.Context) error {
	for {
		winner, err := s.term.RequestText(ctx, "Toss won by:")
		if err != nil {
			return err
		}
		answer, err := s.term.RequestText(ctx, "Elected to (bat/bowl):")
		if err != nil {
			return err
		}
		decision, err := match.ParseTossDecision(answer)
		if err != nil {
			s.term.Notify(ctx, "Please answer bat or bowl.")
			continue
		}
		if err := s.engine.Toss(winner, decision); err != nil {
			s.report(ctx, err)
			continue
		}
		s.term.Notify(ctx, s.engine.Match().Toss)
		return nil
	}
}

// openers asks for the opening pair and bowler. Squad members are listed
// first and may be picked by number.
func (s *session) openers(ctx context.Context) error {
	m := s.engine.Match()
	batting := m.Squad(m.BattingFirst)
	fielding := m.Squad(m.BattingSecond)
	for {
		var o engine.Openers
		var err error
		if len(batting) > 0 {
			s.term.Notify(ctx, match.Roster(m.BattingFirst+" squad:", batting))
		}
		if o.Striker, err = s.term.RequestText(ctx, "Striker:"); err != nil {
			return err
		}
		if o.NonStriker, err = s.term.RequestText(ctx, "Non-striker:"); err != nil {
			return err
		}
		if len(fielding) > 0 {
			s.term.Notify(ctx, match.Roster(m.BattingSecond+" squad:", fielding))
		}
		if o.Bowler, err = s.term.RequestText(ctx, "Opening bowler:"); err != nil {
			return err
		}
		if err := s.engine.Start(ctx, o); err != nil {
			s.report(ctx, err)
			continue
		}
		return nil
	}
}

// events reads commands until the match needs a new toss (done false)
// or the session ends (done true).
func (s *session) events(ctx context.Context) (done bool, err error) {
	for {
		if s.engine.Phase() == match.PhaseSetup {
			return false, nil
		}
		if s.finished() {
			return true, nil
		}

		line, err := s.term.RequestText(ctx, s.promptLine())
		if err != nil {
			return true, err
		}
		cmd, err := parseCommand(line)
		if err != nil {
			s.term.Notify(ctx, err.Error())
			continue
		}

		switch cmd.kind {
		case cmdQuit:
			return true, nil
		case cmdHelp:
			s.term.Notify(ctx, helpText)
			continue
		case cmdCard:
			scorecard.Render(s.out, s.engine.Match())
			continue
		}

		if err := s.apply(ctx, cmd); err != nil {
			if engine.IsInputFailure(err) {
				return true, err
			}
			s.report(ctx, err)
		}
	}
}

// finished reports whether nothing is left to score: the match is
// complete and no super over can follow.
func (s *session) finished() bool {
	if s.engine.Phase() != match.PhaseComplete {
		return false
	}
	out, ok := s.engine.Outcome()
	if ok && out.SuperOverAvailable {
		return false
	}
	return true
}

func (s *session) apply(ctx context.Context, cmd command) error {
	e := s.engine
	switch cmd.kind {
	case cmdRuns:
		return e.RecordRuns(ctx, cmd.runs)
	case cmdExtra:
		return e.RecordExtra(ctx, cmd.extra)
	case cmdWicket:
		return e.RecordWicket(ctx, cmd.wicket)
	case cmdReview:
		_, err := e.UseReview(ctx, cmd.side)
		return err
	case cmdStatus:
		return e.SetStatus(ctx, cmd.status)
	case cmdResume:
		return e.Resume(ctx)
	case cmdDraw:
		_, err := e.DeclareDraw(ctx)
		return err
	case cmdSuperOver:
		_, err := e.StartSuperOver(ctx)
		return err
	case cmdView:
		if err := e.ViewInnings(cmd.innings); err != nil {
			return err
		}
		return scorecard.Innings(s.out, e.Match(), cmd.innings)
	}
	return fmt.Errorf("unhandled command %q", cmd.kind)
}

// report shows a rejected event without ending the session.
func (s *session) report(ctx context.Context, err error) {
	var se *engine.ScoringError
	if errors.As(err, &se) {
		s.term.Notify(ctx, "Rejected: "+se.Message)
		return
	}
	s.term.Notify(ctx, "Error: "+err.Error())
}

// promptLine is the score summary shown before each command.
func (s *session) promptLine() string {
	m := s.engine.Match()
	if m.Phase == match.PhaseComplete {
		return fmt.Sprintf("%s. Type super for a super over or quit. >", m.Result)
	}
	inn := m.Current()
	if inn == nil {
		return ">"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d/%d (%s)", inn.TeamName, inn.Runs, inn.Wickets, match.Overs(inn.Balls))
	if m.CurrentInnings == 2 && m.Target != nil {
		fmt.Fprintf(&b, " need %d from %d", m.RunsNeeded(), m.BallsRemaining())
	}
	if m.Status.Paused() {
		fmt.Fprintf(&b, " [%s]", m.Status)
	}
	if m.FreeHit {
		b.WriteString(" FREE HIT")
	}
	b.WriteString(" >")
	return b.String()
}

const helpText = `Events:
  0-6              runs off the bat
  wd, nb           wide, no ball
  w <dismissal>    bowled, caught, stumped, lbw, run out, retired hurt,
                   hit wicket, obstructing the field
  review A|B       DRS review
  break, lunch, stumps, resume
  draw             declare the match drawn
  super            start a super over after a tie
  view 1|2         show one innings
  card             full scorecard
  quit             stop scoring`

type commandKind string

const (
	cmdRuns      commandKind = "runs"
	cmdExtra     commandKind = "extra"
	cmdWicket    commandKind = "wicket"
	cmdReview    commandKind = "review"
	cmdStatus    commandKind = "status"
	cmdResume    commandKind = "resume"
	cmdDraw      commandKind = "draw"
	cmdSuperOver commandKind = "super_over"
	cmdView      commandKind = "view"
	cmdCard      commandKind = "card"
	cmdHelp      commandKind = "help"
	cmdQuit      commandKind = "quit"
)

// command is one parsed line of scorer input.
type command struct {
	kind    commandKind
	runs    int
	extra   match.ExtraKind
	wicket  match.WicketKind
	side    match.Side
	status  match.Status
	innings int
}

// parseCommand turns a line such as "4", "nb", "w run out" or "review B"
// into a command. Range checks are left to the engine.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.New("enter an event, or help")
	}
	head := strings.ToLower(fields[0])
	rest := strings.Join(fields[1:], " ")

	if n, err := strconv.Atoi(head); err == nil && rest == "" {
		return command{kind: cmdRuns, runs: n}, nil
	}

	switch head {
	case "wd", "wide", "nb", "noball", "no_ball", "no-ball":
		kind, err := match.ParseExtraKind(head)
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdExtra, extra: kind}, nil
	case "w", "wkt", "wicket", "out":
		if rest == "" {
			return command{}, errors.New("which dismissal? e.g. w caught")
		}
		kind, err := match.ParseWicketKind(rest)
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdWicket, wicket: kind}, nil
	case "review", "drs":
		return command{kind: cmdReview, side: match.Side(strings.ToUpper(rest))}, nil
	case "break", "lunch", "stumps":
		return command{kind: cmdStatus, status: match.Status(head)}, nil
	case "resume":
		return command{kind: cmdResume}, nil
	case "draw":
		return command{kind: cmdDraw}, nil
	case "super", "superover", "super_over":
		return command{kind: cmdSuperOver}, nil
	case "view":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return command{}, fmt.Errorf("view needs an innings number, got %q", rest)
		}
		return command{kind: cmdView, innings: n}, nil
	case "card", "scorecard":
		return command{kind: cmdCard}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown event %q, type help", line)
}
