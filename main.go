package main

import (
	"log"
	"os"
	"strings"

	"pagr/cmd"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger, err := zap.NewProduction(zap.Fields(
		zap.String("appName", "pagr"),
	))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := cmd.Execute(logger); err != nil {
		logger.Fatal("pagr execution failed", zap.Error(err))
	}

	// Syncing a non-file stderr returns "invalid argument" on some platforms;
	// only sync when stderr can actually receive it.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
