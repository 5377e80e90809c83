package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasgasior/fileconverter-go/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent batch runs",
	Long: `History reads the run ledger written by convert when history.enabled is
set. Use --run to list the files of one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show the files of this run")
	historyCmd.Flags().Duration("prune", 0, "delete runs older than this age first")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	path, err := cfg.historyPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if age, _ := cmd.Flags().GetDuration("prune"); age > 0 {
		n, err := store.Prune(ctx, time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "pruned %d run(s)\n", n)
	}

	if id, _ := cmd.Flags().GetInt64("run"); id > 0 {
		entries, err := store.Entries(ctx, id)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("run %d not found", id)
		}
		return printEntries(cmd.OutOrStdout(), entries)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	return printRuns(cmd.OutOrStdout(), runs)
}

func printRuns(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFORMAT\tRESULT\tDURATION\tOUTPUT DIR")
	for _, r := range runs {
		result := fmt.Sprintf("%d/%d", r.Succeeded, r.Total)
		if r.Canceled {
			result += " canceled"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Format, result, r.Duration, r.OutputDir)
	}
	return tw.Flush()
}

func printEntries(w io.Writer, entries []history.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tINPUT\tDETAIL")
	for _, e := range entries {
		if e.Success {
			fmt.Fprintf(tw, "ok\t%s\t%s\n", e.Input, e.Output)
			continue
		}
		detail := e.Error
		if i := strings.IndexByte(detail, '\n'); i >= 0 {
			detail = detail[:i]
		}
		fmt.Fprintf(tw, "failed\t%s\t%s\n", e.Input, detail)
	}
	return tw.Flush()
}
