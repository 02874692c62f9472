package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"vpptest/pkg/config"
	"vpptest/pkg/history"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent harness runs",
	Long: `Shows the most recent harness dispatches recorded in the history
database: what was run, with which flags, the exit code and how long it
took. Recording is controlled by the history config value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(appFs, cfgFile, logger)
		if err != nil {
			return err
		}
		if cfg.History == "" || cfg.History == config.HistoryDisabled {
			fmt.Fprintln(cmd.OutOrStdout(), "run history is disabled")
			return nil
		}

		store, err := history.Open(cfg.History, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			out, err := json.MarshalIndent(runs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling history to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("ID", "When", "Test", "Exit", "Duration", "Args")
		for _, run := range runs {
			test := run.TestFilter
			if test == "" {
				test = "all"
			}
			table.Append(
				shortID(run.ID),
				run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				test,
				fmt.Sprintf("%d", run.ExitCode),
				(time.Duration(run.DurationMS) * time.Millisecond).String(),
				run.Args,
			)
		}
		table.Render()
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(appFs, cfgFile, logger)
		if err != nil {
			return err
		}
		if cfg.History == "" || cfg.History == config.HistoryDisabled {
			fmt.Fprintln(cmd.OutOrStdout(), "run history is disabled")
			return nil
		}

		store, err := history.Open(cfg.History, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "run history cleared")
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output the runs as JSON")
}
