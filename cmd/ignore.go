package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

// ignoreCmd opens the project's .pagrignore file in an editor, creating it
// first if it does not exist.
var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Open the .pagrignore file in an editor",
	Long: `Opens the .pagrignore file in the current directory for editing,
creating an empty one if it does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		ignorePath := filepath.Join(cwd, ".pagrignore")

		if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
			if err := os.WriteFile(ignorePath, nil, 0o644); err != nil {
				return fmt.Errorf("failed to create %s: %w", ignorePath, err)
			}
			fmt.Printf("Created %s\n", ignorePath)
		} else if err != nil {
			return fmt.Errorf("failed to access %s: %w", ignorePath, err)
		}

		if err := launchEditor(ignorePath); err != nil {
			return fmt.Errorf("failed to open %s in an editor: %w", ignorePath, err)
		}
		return nil
	},
}

// launchEditor opens path with $EDITOR when set, otherwise with the
// platform's file-association command.
func launchEditor(path string) error {
	if editor := os.Getenv("EDITOR"); editor != "" {
		cmd := exec.Command(editor, path)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("notepad", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}

func init() {
	RootCmd.AddCommand(ignoreCmd)
}
