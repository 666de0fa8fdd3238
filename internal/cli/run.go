package cli

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-httpkit/internal/app"
	"github.com/samvad-hq/samvad-httpkit/pkg/collection"
	"github.com/spf13/cobra"
)

var (
	runFile  string
	runOnly  []string
	runQuiet bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a request collection",
	Long: `Dispatch every enabled request of a collection file in order.

Examples:
  httpkit run                          Use collection_file from config
  httpkit run -f smoke.yaml            Run a specific collection
  httpkit run -f smoke.yaml -o status  Run only the named requests`,
	RunE: runCollection,
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "Collection file (defaults to collection_file)")
	runCmd.Flags().StringSliceVarP(&runOnly, "only", "o", nil, "Run only these request names")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Print one status line per request")
	rootCmd.AddCommand(runCmd)
}

func runCollection(cmd *cobra.Command, args []string) error {
	return withRunner(cmd, func(ctx context.Context, r *app.Runner) error {
		path := runFile
		if path == "" {
			path = r.Config().CollectionFile
		}
		c, err := collection.Load(path)
		if err != nil {
			return fmt.Errorf("load collection: %w", err)
		}
		if len(runOnly) > 0 {
			if c, err = c.Subset(runOnly...); err != nil {
				return err
			}
		}

		results, runErr := r.RunCollection(ctx, c)
		out := cmd.OutOrStdout()
		for _, res := range results {
			printResult(out, res, !runQuiet)
		}
		tally := app.TallyResults(results)
		fmt.Fprintf(out, "\n%d requests, %d failed (%s)\n", tally.Total, tally.Failed, tally.FailureRate)
		return runErr
	})
}
