package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/usestring/harmirror/internal/config"
	"github.com/usestring/harmirror/internal/har"
	"github.com/usestring/harmirror/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// The argument check runs before anything else so a bad
	// invocation cannot touch the input file.
	if len(args) != 1 {
		fmt.Println("Usage: harclean <input_har_file>")
		return 1
	}

	cfg := config.Load()
	cleanup, err := logging.Setup(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cleanup()

	path := args[0]
	urls, err := har.CleanFile(path)
	if err != nil {
		slog.Error("cleaning capture failed", "file", path, "error", err)
		return 1
	}

	slog.Info("cleaned capture", "file", path, "urls", len(urls))
	return 0
}
