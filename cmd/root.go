package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "pagr",
	Short: "pagr aggregates a project into a single text file",
	Long: `pagr walks a project directory, prunes everything excluded by .gitignore,
.pagrignore and the built-in defaults, and writes the directory tree plus all
surviving file contents into one text artifact suitable as AI-assistant context.`,
	SilenceUsage: true,
}

// rootLogger is shared by all subcommands; set once in Execute.
var rootLogger *zap.Logger

// Execute adds all child commands to the root command and runs it.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootLogger = logger
	return RootCmd.Execute()
}
