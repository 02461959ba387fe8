package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/ledger"
	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded pipeline runs",
	Long: `Lists the runs recorded in the ledger, newest first. With a run ID, lists
the items of that run instead. Requires LEDGER_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LedgerPath == "" {
			return errors.New("LEDGER_PATH is not set")
		}
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer l.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if len(args) == 1 {
			items, err := l.Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("no items recorded for run %s", args[0])
			}
			fmt.Fprintln(tw, "NAME\tFORMAT\tSTATUS\tCHARS\tERROR")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.Name, it.Format, it.Status, it.Chars, it.Error)
			}
			return tw.Flush()
		}

		runs, err := l.Runs(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "RUN ID\tSTAGE\tSTARTED\tITEMS\tOUTCOME")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Stage,
				r.StartedAt.Local().Format(time.DateTime), r.Total, formatCounts(r.Counts))
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func formatCounts(counts map[pipeline.ItemStatus]int) string {
	parts := make([]string, 0, len(counts))
	for status, n := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", status, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
