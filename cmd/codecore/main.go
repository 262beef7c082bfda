// Command codecore edits one file in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/codecore/internal/app"
	"github.com/dshills/codecore/internal/renderer/backend"
)

// Version information, set with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codecore: %v\n", err)
		return 1
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "codecore: terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "codecore: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "codecore: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags returns the options, or false when the command only printed
// information.
func parseFlags() (app.Options, bool) {
	var (
		opts        app.Options
		showVersion bool
		noWatch     bool
	)
	flag.StringVar(&opts.ConfigPath, "config", "", "configuration file (default: user config dir)")
	flag.StringVar(&opts.ConfigPath, "c", "", "configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flag.BoolVar(&noWatch, "no-watch", false, "do not reload configuration and languages on change")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: codecore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Keys: Ctrl+S save, Ctrl+Q quit, Ctrl+Z/Ctrl+Y undo/redo,\n")
		fmt.Fprintf(os.Stderr, "      Ctrl+D next occurrence, Ctrl+K then C/U/B comment.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("codecore %s (%s)\n", version, commit)
		return opts, false
	}
	if noWatch {
		watch := false
		opts.Watch = &watch
	}
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "codecore: only one file can be opened; ignoring the rest")
	}
	opts.File = flag.Arg(0)
	return opts, true
}
