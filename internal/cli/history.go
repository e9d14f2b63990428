package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/scorecard"
	"github.com/roach88/cricscore/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit   int    // 0 means all
	MatchID string // show one match in full
}

// HistoryEntry is one row of the history listing.
type HistoryEntry struct {
	ID        string    `json:"id"`
	TeamA     string    `json:"team_a"`
	TeamB     string    `json:"team_b"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved matches",
		Long: `List the matches saved for --user, newest first.

Examples:
  cricscore history
  cricscore history --limit 5 --format json
  cricscore history --id 0190d6d4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many matches")
	cmd.Flags().StringVar(&opts.MatchID, "id", "", "show the full scorecard of one match")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	st, err := openStore(opts.Config)
	if err != nil {
		return err
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.MatchID != "" {
		rec, err := st.ReadMatch(cmd.Context(), opts.Config.User, opts.MatchID)
		if errors.Is(err, store.ErrNotFound) {
			formatter.Error("E_NOT_FOUND", fmt.Sprintf("no match %s for user %s", opts.MatchID, opts.Config.User), nil)
			return NewExitError(ExitFailure, "match not found")
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read match", err)
		}
		if opts.Format == "json" {
			return formatter.Success(rec)
		}
		return writeRecord(w, rec)
	}

	records, err := st.ListMatches(cmd.Context(), opts.Config.User)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	formatter.VerboseLog("Found %d match(es) for %s", len(records), opts.Config.User)

	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{
			ID:        rec.ID,
			TeamA:     rec.TeamA,
			TeamB:     rec.TeamB,
			Result:    rec.Result,
			CreatedAt: rec.CreatedAt,
		}
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"matches": entries,
			"count":   len(entries),
		})
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved matches.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tMATCH\tRESULT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s vs %s\t%s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.TeamA, e.TeamB, e.Result)
	}
	return tw.Flush()
}

// writeRecord prints a saved match: title, result, and both innings.
func writeRecord(w io.Writer, rec match.Record) error {
	innings, err := match.DecodeScoreData(rec.ScoreData)
	if err != nil {
		return WrapExitError(ExitFailure, "saved match is corrupt", err)
	}

	m := &match.Match{
		TeamA:          rec.TeamA,
		TeamB:          rec.TeamB,
		Innings:        innings,
		Result:         rec.Result,
		Phase:          match.PhaseComplete,
		CurrentInnings: 1,
	}
	if innings[1] != nil {
		m.CurrentInnings = 2
	}

	fmt.Fprintf(w, "%s vs %s (%s)\n", rec.TeamA, rec.TeamB, rec.CreatedAt.Format("2006-01-02 15:04"))
	if rec.Result != "" {
		fmt.Fprintf(w, "Result: %s\n", rec.Result)
	}
	for n := 1; n <= 2; n++ {
		if m.Inning(n) == nil {
			continue
		}
		fmt.Fprintln(w)
		if err := scorecard.Innings(w, m, n); err != nil {
			return err
		}
	}
	return nil
}
