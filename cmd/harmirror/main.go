package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/usestring/harmirror/internal/config"
	"github.com/usestring/harmirror/internal/logging"
	"github.com/usestring/harmirror/internal/mirror"
	"github.com/usestring/harmirror/internal/registry"
)

const version = "0.1.0"

type exitCode int

const (
	exitOK exitCode = iota
	exitUsage
	exitRuntime
)

func main() {
	os.Exit(int(run(os.Args[1:])))
}

func run(args []string) exitCode {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		return exitRuntime
	}

	cfg := config.Load()
	cleanup, err := logging.Setup(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
	defer cleanup()

	if len(args) < 1 {
		printHelp()
		return exitUsage
	}

	switch cmd := args[0]; cmd {
	case "fetch":
		return runFetch(cfg, args[1:])
	case "versions":
		return runVersions(cfg)
	case "version", "--version", "-v":
		fmt.Println(version)
		return exitOK
	case "help", "--help", "-h":
		printHelp()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printHelp()
		return exitUsage
	}
}

func runFetch(cfg *config.Config, args []string) exitCode {
	fs := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	dest := fs.String("dest", "", "Destination directory (default <home>/mirrors/<version>)")
	workers := fs.IntP("workers", "w", cfg.FetchWorkers, "Concurrent downloads")
	retries := fs.Int("retries", cfg.FetchRetries, "Attempts per file")
	force := fs.BoolP("force", "f", false, "Mirror into a non-empty directory and refetch completed versions")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		return fail("loading version registry", err)
	}

	requested := "latest"
	if fs.NArg() > 0 {
		requested = fs.Arg(0)
	}
	ver := reg.Resolve(requested)

	destDir := *dest
	if destDir == "" {
		destDir = cfg.MirrorDir(ver)
	}

	if !*force {
		if mirror.Completed(destDir) {
			fmt.Printf("version %s is already mirrored at %s\n", ver, destDir)
			return exitOK
		}
		if err := mirror.EnsureEmptyDir(destDir); err != nil {
			return fail("checking destination", err)
		}
	}

	f := mirror.New(
		mirror.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
		mirror.WithUserAgent("harmirror/"+version),
		mirror.WithWorkers(*workers),
		mirror.WithRetries(*retries),
		mirror.WithRetryDelay(cfg.FetchRetryDelay),
	)

	report, err := f.Run(ctx, mirror.RunOptions{
		Version:      ver,
		BaseURL:      reg.BaseURL(ver, cfg.BaseURL),
		ManifestPath: reg.ManifestPath(ver, cfg.HarDir()),
		DestDir:      destDir,
	})
	if err != nil {
		if report != nil {
			fmt.Println(report.Summary())
		}
		return fail("mirror run failed", err)
	}

	fmt.Println(report.Summary())
	fmt.Printf("version %s mirrored to %s\n", ver, destDir)
	return exitOK
}

func runVersions(cfg *config.Config) exitCode {
	reg, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		return fail("loading version registry", err)
	}

	for _, v := range reg.List() {
		if v == reg.Latest {
			fmt.Printf("%s (latest)\n", v)
		} else {
			fmt.Println(v)
		}
	}
	return exitOK
}

// fail logs a runtime failure, surfacing the error code when the
// error carries one.
func fail(msg string, err error) exitCode {
	var coded *mirror.CodedError
	if errors.As(err, &coded) {
		slog.Error(msg, "code", coded.Code, "error", err)
	} else {
		slog.Error(msg, "error", err)
	}
	return exitRuntime
}

func printHelp() {
	fmt.Println("harmirror keeps local mirrors of PolyTrack web builds")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  harmirror fetch [version] [--dest DIR] [--workers N] [--retries N] [--force]")
	fmt.Println("  harmirror versions")
	fmt.Println("  harmirror version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  harmirror fetch")
	fmt.Println("  harmirror fetch 0.5.2 --dest ./polytrack")
	fmt.Println("  harmirror versions")
}
