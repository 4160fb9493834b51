package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"pagr/pkg/aggregate"
	"pagr/pkg/config"
	"pagr/pkg/logging"

	"github.com/spf13/cobra"
)

const defaultOutputName = "pagr_output.txt"
const defaultMaxFileSizeKB = 1024

var runFlags struct {
	output        string
	globalIgnore  string
	excludes      []string
	maxFileSizeKB int
	clipboard     bool
	tokens        bool
	model         string
	verbose       bool
}

// runCmd generates the directory tree and aggregated file contents for a
// project, honoring .gitignore and .pagrignore rules.
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Aggregate a project directory into a single text file",
	Long: `Generates a directory tree and aggregates file contents from the given
project path (default: the current directory). Files excluded by .gitignore,
.pagrignore, the global ignore file or the built-in defaults are omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := "."
		if len(args) == 1 {
			projectPath = args[0]
		}

		logger := rootLogger
		if runFlags.verbose {
			var err error
			logger, err = logging.Setup(true, "pagr")
			if err != nil {
				return fmt.Errorf("failed to initialize verbose logger: %w", err)
			}
		}

		cfg, err := config.Load("")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		runArgs := buildArguments(cmd, cfg, projectPath)

		if err := aggregate.Run(cmd.Context(), runArgs, logger); err != nil {
			return err
		}

		fmt.Printf("Successfully generated output to %s\n", runArgs.Output)
		return nil
	},
}

// buildArguments merges configuration defaults with explicit flags; a flag
// the user set always wins over the config file.
func buildArguments(cmd *cobra.Command, cfg config.Config, projectPath string) aggregate.Arguments {
	runArgs := aggregate.Arguments{
		Path:          projectPath,
		Output:        runFlags.output,
		GlobalIgnore:  runFlags.globalIgnore,
		ExtraExcludes: append(append([]string{}, cfg.Exclude...), runFlags.excludes...),
		MaxFileSizeKB: runFlags.maxFileSizeKB,
		Clipboard:     runFlags.clipboard,
		Tokens:        runFlags.tokens,
		Model:         runFlags.model,
		Verbose:       runFlags.verbose,
	}

	if runArgs.Output == "" {
		runArgs.Output = cfg.Output
	}
	if runArgs.Output == "" {
		runArgs.Output = defaultOutputPath()
	}
	if runArgs.GlobalIgnore == "" {
		runArgs.GlobalIgnore = cfg.GlobalIgnore
	}
	if !cmd.Flags().Changed("max-file-size") && cfg.MaxFileSizeKB != nil {
		runArgs.MaxFileSizeKB = *cfg.MaxFileSizeKB
	}
	if !cmd.Flags().Changed("clipboard") && cfg.Clipboard != nil {
		runArgs.Clipboard = *cfg.Clipboard
	}
	if !cmd.Flags().Changed("tokens") && cfg.Tokens.Enabled != nil {
		runArgs.Tokens = *cfg.Tokens.Enabled
	}
	if runArgs.Model == "" {
		runArgs.Model = cfg.Tokens.Model
	}

	return runArgs
}

// defaultOutputPath places the artifact in the user's Downloads directory,
// falling back to the working directory when that cannot be determined.
func defaultOutputPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultOutputName
	}
	downloads := filepath.Join(home, "Downloads")
	if info, err := os.Stat(downloads); err != nil || !info.IsDir() {
		return defaultOutputName
	}
	return filepath.Join(downloads, defaultOutputName)
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "", "Path to the output text file (default: pagr_output.txt in Downloads)")
	runCmd.Flags().StringVar(&runFlags.globalIgnore, "global-ignore", "", "Path to the per-user global ignore file")
	runCmd.Flags().StringArrayVarP(&runFlags.excludes, "exclude", "e", nil, "Additional ignore pattern (repeatable)")
	runCmd.Flags().IntVar(&runFlags.maxFileSizeKB, "max-file-size", defaultMaxFileSizeKB, "Skip content of files larger than this many KB (0 = no limit)")
	runCmd.Flags().BoolVarP(&runFlags.clipboard, "clipboard", "c", false, "Also copy the output to the system clipboard")
	runCmd.Flags().BoolVarP(&runFlags.tokens, "tokens", "t", false, "Log an estimated token count for the output")
	runCmd.Flags().StringVar(&runFlags.model, "model", "", "Tokenizer model for --tokens (default: cl100k_base)")
	runCmd.Flags().BoolVarP(&runFlags.verbose, "verbose", "v", false, "Enable debug logging")

	RootCmd.AddCommand(runCmd)
}
