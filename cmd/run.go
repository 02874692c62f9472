package cmd

import (
	"strconv"
	"strings"
	"time"

	"vpptest/pkg/config"
	"vpptest/pkg/dispatch"
	"vpptest/pkg/history"
	"vpptest/pkg/log"
	"vpptest/pkg/system"

	"github.com/spf13/cobra"
)

// runCmd is the dispatcher. Flag parsing is disabled on purpose: the
// original wrapper accepted --name=value tokens in any order, applied them
// in the order given and silently ignored everything it did not recognize.
// That contract is kept, so the raw arguments go straight to the flag set.
var runCmd = &cobra.Command{
	Use:   "run [--persist=true|false] [--debug=true|false] [--verbose=true|false] [--unconfigure=true|false] [--cpus=N] [--test=NAME|all]",
	Short: "Validate the flag combination and invoke the test harness",
	Long: `The run command builds the harness argument list from configuration
defaults and --name=value arguments, checks the flag combination rules
(persist, debug and unconfigure all need a single test; persist and
unconfigure exclude each other) and then runs the suite once via
sudo -E go test. The harness exit code becomes the vpptest exit code.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		harnessArgs, err := interceptWrapperFlags(cmd, args)
		if err != nil {
			return err
		}
		if harnessArgs == nil { // help was requested
			return nil
		}

		cfg, err := config.Load(appFs, cfgFile, logger)
		if err != nil {
			return err
		}

		fs := dispatch.NewFlagSet(cfg, logger)
		fs.ParseArguments(harnessArgs)
		plan := dispatch.BuildPlan(fs, logger)

		// Diagnostics only make sense for a run that will actually
		// happen, so the combination rules come first.
		if err := plan.Validate(); err != nil {
			return err
		}
		warnCpus(plan, logger)

		d := dispatch.New(cfg, cmdRunner, logger)
		start := time.Now()
		code, err := d.Dispatch(cmd.Context(), plan)
		if err != nil {
			return err
		}

		recordRun(cfg, plan, code, time.Since(start), logger)

		if code != 0 {
			return &dispatch.HarnessError{Code: code}
		}
		return nil
	},
}

// interceptWrapperFlags pulls out the arguments meant for the wrapper
// itself (--config, --log-level, help); everything else belongs to the
// flag set. Returns nil when help was printed.
func interceptWrapperFlags(cmd *cobra.Command, args []string) ([]string, error) {
	harnessArgs := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			return nil, cmd.Help()
		case strings.HasPrefix(arg, "--config="):
			cfgFile = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--log-level="):
			logLevel = strings.TrimPrefix(arg, "--log-level=")
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return nil, err
			}
			logger = log.NewSlogLogger(level, cmd.ErrOrStderr())
		default:
			harnessArgs = append(harnessArgs, arg)
		}
	}
	return harnessArgs, nil
}

// warnCpus flags suspicious -cpus requests without ever changing them;
// the value is forwarded verbatim either way.
func warnCpus(plan *dispatch.Plan, logger log.Logger) {
	if !plan.CpusSet {
		return
	}
	n, err := strconv.Atoi(plan.Cpus)
	if err != nil {
		logger.Warn("cpus value is not numeric, forwarding as-is", "cpus", plan.Cpus)
		return
	}
	if host := system.LogicalCPUs(); n > host {
		logger.Warn("requested more cpus than the host has",
			"requested", n, "host", host)
	}
}

// recordRun stores the dispatch in the history database. Failures here are
// logged and swallowed, they must never change the run's outcome.
func recordRun(cfg config.Config, plan *dispatch.Plan, code int, elapsed time.Duration, logger log.Logger) {
	if cfg.History == "" || cfg.History == config.HistoryDisabled {
		return
	}

	store, err := history.Open(cfg.History, logger)
	if err != nil {
		logger.Warn("cannot open run history", "error", err)
		return
	}
	defer store.Close()

	run := &history.Run{
		Args:       strings.Join(plan.Args, " "),
		TestFilter: plan.TestFilter,
		ExitCode:   code,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := store.Record(run); err != nil {
		logger.Warn("cannot record run", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
