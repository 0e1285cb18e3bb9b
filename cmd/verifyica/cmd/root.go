package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "verifyica",
	Short: "A parameterized test execution engine",
	Long: `verifyica runs parameterized test classes: declare an argument
supplier and a set of test methods, and the engine runs each test method
once per argument, with configurable parallelism across classes and
across arguments within a class.`,
}

// Execute runs the CLI, exiting the process with ExitUsageError on a
// cobra-level failure (bad flags, unknown command). Test-failure exit
// codes are set by the individual commands themselves.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
