package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verifyica-go/verifyica/internal/config"
	"github.com/verifyica-go/verifyica/internal/filter"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a configuration document without running anything",
	Long: `Validate parses and schema-checks a configuration document. If the
document names a filters file, that file is parsed too.

Examples:
  verifyica validate verifyica.json
  verifyica validate verifyica.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "invalid: %s: %v\n", args[0], err)
		return exitWithCode(ExitConfigError)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", args[0])

	if filename := cfg.FiltersFilename(); filename != "" {
		if _, err := filter.Load(filename); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "invalid filters: %s: %v\n", filename, err)
			return exitWithCode(ExitConfigError)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", filename)
	}

	return nil
}
