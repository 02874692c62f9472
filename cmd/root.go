package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"vpptest/pkg/config"
	"vpptest/pkg/dispatch"
	"vpptest/pkg/log"
	"vpptest/pkg/runner"
	"vpptest/pkg/system"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logger    log.Logger
	appFs     afero.Fs      = afero.NewOsFs()
	cmdRunner runner.Runner = &system.LiveRunner{}

	rootCmd = &cobra.Command{
		Use:   "vpptest",
		Short: "vpptest wraps the VPP host-stack test suite",
		Long: `vpptest parses --name=value style options, validates the flag
combination and invokes the go test based host-stack suite with elevated
privileges. Defaults come from an optional vpptest.yaml file and VPPTEST_*
environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewSlogLogger(level, cmd.ErrOrStderr())
			return nil
		},
	}
)

// Execute runs the command tree and exits the process with the mapped
// status. Called once from main.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	renderError(os.Stderr, err)
	os.Exit(exitStatus(err))
}

// renderError writes what belongs on stderr for a given failure. A rejected
// flag combination prints its fixed message and nothing else; a non-zero
// harness exit prints nothing because the harness already reported itself.
func renderError(w io.Writer, err error) {
	var verr *dispatch.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, verr.Error())
		return
	}
	var herr *dispatch.HarnessError
	if errors.As(err, &herr) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// exitStatus maps an Execute error to the process exit code. Harness exit
// codes pass through untouched; everything else is 1.
func exitStatus(err error) int {
	var herr *dispatch.HarnessError
	if errors.As(err, &herr) {
		return herr.Code
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
