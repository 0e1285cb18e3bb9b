package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verifyica-go/verifyica/internal/telemetry"
)

var (
	runConfigFlag  string
	runNoColorFlag bool
	runStatsFlag   bool
)

var runCmd = &cobra.Command{
	Use:   "run [selectors...]",
	Short: "Run the test suite through the engine",
	Long: `Run runs the built-in demo suite through the engine, printing colored
listener output for every discovered node.

Examples:
  verifyica run
  verifyica run CalculatorTest
  verifyica run --config verifyica.json --stats`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVar(&runConfigFlag, "config", "", "path to a JSON or YAML configuration document")
	runCmd.Flags().BoolVar(&runNoColorFlag, "no-color", false, "disable colored output")
	runCmd.Flags().BoolVar(&runStatsFlag, "stats", false, "print a telemetry snapshot after the run")
}

func runCommand(cmd *cobra.Command, args []string) error {
	eng, recorder, err := buildEngine(runConfigFlag, runNoColorFlag, runStatsFlag)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
		return exitWithCode(ExitConfigError)
	}

	summary, err := eng.Execute(context.Background(), selectorsFromArgs(args))
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "discovery failed: %v\n", err)
		return exitWithCode(ExitDiscoveryErr)
	}

	if recorder != nil {
		printStats(cmd, recorder)
	}

	if summary.Failed {
		return exitWithCode(ExitTestFailure)
	}
	return nil
}

func printStats(cmd *cobra.Command, recorder *telemetry.Recorder) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nrole       count    p50       p95       p99       max")
	for _, s := range recorder.Snapshots() {
		fmt.Fprintf(out, "%-10s %-8d %-9s %-9s %-9s %-9s\n",
			s.Role, s.Count, s.P50, s.P95, s.P99, s.Max)
	}
}
