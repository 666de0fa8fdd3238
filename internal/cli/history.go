package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samvad-hq/samvad-httpkit/internal/app"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [EXCHANGE_ID]",
	Short: "Show journaled exchanges",
	Long: `List recent exchanges, newest first, or show one exchange by id.

Examples:
  httpkit history             Show the most recent exchanges
  httpkit history -n 50       Show up to 50 exchanges
  httpkit history ID --json   Show one exchange as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum records (defaults to history_limit)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withRunner(cmd, func(_ context.Context, r *app.Runner) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			rec, found, err := r.Lookup(args[0])
			if err != nil {
				return fmt.Errorf("lookup exchange: %w", err)
			}
			if !found {
				return fmt.Errorf("exchange %q not found", args[0])
			}
			output, _ := json.MarshalIndent(rec, "", "  ")
			fmt.Fprintln(out, string(output))
			return nil
		}

		records, err := r.History(historyLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if historyJSON {
			output, _ := json.MarshalIndent(records, "", "  ")
			fmt.Fprintln(out, string(output))
			return nil
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "no exchanges recorded")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tID\tNAME\tMETHOD\tSTATUS\tCODE\tDURATION\tURL")
		for _, rec := range records {
			code := rec.StatusCode
			if rec.ErrorCode != 0 {
				code = rec.ErrorCode
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				rec.StartedAt.Local().Format(time.DateTime), rec.ID, rec.Name, rec.Method,
				rec.Status, code, time.Duration(rec.DurationMS)*time.Millisecond, rec.URL)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		tally := app.TallyRecords(records)
		fmt.Fprintf(out, "\n%d exchanges, %d failed (%s)\n", tally.Total, tally.Failed, tally.FailureRate)
		return nil
	})
}
