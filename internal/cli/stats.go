package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/cricscore/internal/stats"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Top int // leaderboard rows, 0 prints only the leaders
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show top performers across saved matches",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Top, "top", 0, "also list the top N batters and bowlers")

	return cmd
}

func runStats(cmd *cobra.Command, opts *StatsOptions) error {
	st, err := openStore(opts.Config)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListMatches(cmd.Context(), opts.Config.User)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}
	summary := stats.Aggregate(records)

	w := cmd.OutOrStdout()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if summary.Skipped > 0 {
		formatter.VerboseLog("Skipped %d match(es) with unreadable score data", summary.Skipped)
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(w, "Matches: %d\n", summary.Matches)
	fmt.Fprintf(w, "Top batter: %s\n", summary.TopBatterText())
	fmt.Fprintf(w, "Top bowler: %s\n", summary.TopBowlerText())

	if opts.Top <= 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nBATTER\tRUNS\tMATCHES")
	for _, p := range head(summary.Batting, opts.Top) {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Name, p.Runs, p.Matches)
	}
	fmt.Fprintln(tw, "\nBOWLER\tWKTS\tMATCHES")
	for _, p := range head(summary.Bowling, opts.Top) {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Name, p.Wickets, p.Matches)
	}
	return tw.Flush()
}

func head(ps []stats.Performer, n int) []stats.Performer {
	if len(ps) > n {
		return ps[:n]
	}
	return ps
}
