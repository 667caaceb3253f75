// Package commands provides the CLI commands for the go-dataflow tool.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gdf",
	Short: "go-dataflow - Constant propagation and dead code analysis for Java",
	Long: `go-dataflow runs intraprocedural dataflow analyses over Java method
bodies and reports code that can be removed.

Commands:
  methods     List the analyzable methods of a Java file
  cfg         Print the control flow graph of a method
  constants   Show constant propagation facts per statement
  liveness    Show live variables per statement
  deadcode    Report unreachable code and dead assignments
  warm        Pre-analyze a project into the report cache

Use "gdf [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig loads the layered configuration for a command run.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return conf, nil
}

// wantJSON reports whether a command should emit JSON, either because
// the flag was set or the config asks for it.
func wantJSON(cmd *cobra.Command, conf *config.Config) bool {
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return true
	}
	return conf.OutputFormat == config.OutputJSON
}

// newLogger configures the shared logger from config and flags.
func newLogger(cmd *cobra.Command, conf *config.Config) log.Logger {
	logger := log.Default()
	logger.SetLevel(log.ParseLevel(conf.LogLevel))
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose || conf.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Add subcommands
	RootCmd.AddCommand(methodsCmd)
	RootCmd.AddCommand(cfgCmd)
	RootCmd.AddCommand(constantsCmd)
	RootCmd.AddCommand(livenessCmd)
	RootCmd.AddCommand(deadcodeCmd)
	RootCmd.AddCommand(warmCmd)
}
