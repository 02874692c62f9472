package cmd

import (
	"encoding/json"
	"fmt"

	"vpptest/pkg/config"
	"vpptest/pkg/system"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var configJSON bool

type configForJSON struct {
	Persist     bool   `json:"persist"`
	Debug       bool   `json:"debug"`
	Verbose     bool   `json:"verbose"`
	Unconfigure bool   `json:"unconfigure"`
	Cpus        string `json:"cpus"`
	Test        string `json:"test"`
	SuiteDir    string `json:"suite-dir"`
	Timeout     string `json:"timeout"`
	History     string `json:"history"`
	HostCPUs    int    `json:"host-cpus"`
}

// configCmd prints the effective configuration after the file and the
// environment have been applied, plus what the host actually offers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the configuration the run command would use: documented
defaults, overridden by the config file, overridden by VPPTEST_* environment
variables. The host CPU count is shown alongside so -cpus requests can be
sanity-checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(appFs, cfgFile, logger)
		if err != nil {
			return err
		}

		view := configForJSON{
			Persist:     cfg.Persist,
			Debug:       cfg.Debug,
			Verbose:     cfg.Verbose,
			Unconfigure: cfg.Unconfigure,
			Cpus:        cfg.Cpus,
			Test:        cfg.Test,
			SuiteDir:    cfg.SuiteDir,
			Timeout:     cfg.Timeout.String(),
			History:     cfg.History,
			HostCPUs:    system.LogicalCPUs(),
		}

		if configJSON {
			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling config to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Setting", "Value")
		table.Append("persist", fmt.Sprintf("%t", view.Persist))
		table.Append("debug", fmt.Sprintf("%t", view.Debug))
		table.Append("verbose", fmt.Sprintf("%t", view.Verbose))
		table.Append("unconfigure", fmt.Sprintf("%t", view.Unconfigure))
		table.Append("cpus", orUnset(view.Cpus))
		table.Append("test", view.Test)
		table.Append("suite-dir", view.SuiteDir)
		table.Append("timeout", view.Timeout)
		table.Append("history", view.History)
		table.Append("host cpus", fmt.Sprintf("%d", view.HostCPUs))
		table.Render()
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Output the configuration as JSON")
}
