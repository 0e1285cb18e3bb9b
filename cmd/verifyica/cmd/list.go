package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verifyica-go/verifyica/internal/config"
	"github.com/verifyica-go/verifyica/internal/demo"
	"github.com/verifyica-go/verifyica/internal/filter"
	"github.com/verifyica-go/verifyica/internal/resolver"
)

var listConfigFlag string

var listCmd = &cobra.Command{
	Use:   "list [selectors...]",
	Short: "List discovered classes, arguments, and test methods",
	Long: `List runs discovery only, printing the resolved execution tree without
invoking any lifecycle method.

Examples:
  verifyica list
  verifyica list CalculatorTest`,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVar(&listConfigFlag, "config", "", "path to a JSON or YAML configuration document")
}

func listCommand(cmd *cobra.Command, args []string) error {
	var cfg config.Config
	if listConfigFlag != "" {
		loaded, err := config.Load(listConfigFlag)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "config error: %v\n", err)
			return exitWithCode(ExitConfigError)
		}
		cfg = loaded
	} else {
		cfg = config.Config{}
	}

	introspector := demo.Introspector{}
	defs, err := introspector.Introspect(selectorsFromArgs(args))
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "discovery failed: %v\n", err)
		return exitWithCode(ExitDiscoveryErr)
	}

	opts := resolver.Options{EngineArgumentParallelism: cfg.ArgumentParallelism()}
	if filename := cfg.FiltersFilename(); filename != "" {
		set, err := filter.Load(filename)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "filter error: %v\n", err)
			return exitWithCode(ExitConfigError)
		}
		opts.ClassFilter = set
	}

	tree, err := resolver.Resolve(defs, opts)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "discovery failed: %v\n", err)
		return exitWithCode(ExitDiscoveryErr)
	}

	out := cmd.OutOrStdout()
	for _, class := range tree.Classes() {
		fmt.Fprintf(out, "%s\n", class.TestClassName())
		for _, arg := range class.Arguments() {
			fmt.Fprintf(out, "  argument[%d] %s\n", arg.ArgumentIndex(), arg.Argument().Name())
			for _, method := range arg.Methods() {
				fmt.Fprintf(out, "    - %s\n", method.DisplayName())
			}
		}
	}

	return nil
}
