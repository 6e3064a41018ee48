// ABOUTME: CLI entry point for betterprompt: list, show, invoke, stream, gen, config, version
// ABOUTME: Cobra root with persistent flags layered over file and environment settings

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/betterprompt-go/internal/termfix"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitCancelled is the conventional exit status after SIGINT.
const exitCancelled = 130

// options holds the global CLI flags.
type options struct {
	// APIURL overrides the platform base URL.
	APIURL string
	// Token overrides the internal call token.
	Token string
	// Timeout bounds each call.
	Timeout time.Duration
	// Proxy routes requests through an HTTP proxy.
	Proxy string
	// Render selects auto, markdown, or plain output.
	Render string
	// LogLevel sets the diagnostic log level.
	LogLevel string
	// Verbose is shorthand for --log-level debug.
	Verbose bool
	// Stub answers from a YAML fixture instead of the network.
	Stub string

	// projectRoot is where .betterprompt.yaml is looked up; empty means the
	// working directory.
	projectRoot string
}

func main() {
	root := newRootCommand(&options{})
	if err := root.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// newRootCommand builds the command tree around opts.
func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "betterprompt",
		Short:         "Invoke and stream prompts hosted on a BetterPrompt platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	applyFlags(root.PersistentFlags(), opts)

	root.AddCommand(listCommand(opts))
	root.AddCommand(showCommand(opts))
	root.AddCommand(invokeCommand(opts))
	root.AddCommand(streamCommand(opts))
	root.AddCommand(genCommand(opts))
	root.AddCommand(configCommand(opts))
	root.AddCommand(versionCommand())
	return root
}

// applyFlags defines the flags shared by every subcommand.
func applyFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.APIURL, "api-url", "", "Platform base URL")
	flags.StringVar(&opts.Token, "token", "", "Internal call token")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "Per-call timeout (e.g. 30s)")
	flags.StringVar(&opts.Proxy, "proxy", "", "HTTP proxy URL")
	flags.StringVar(&opts.Render, "render", "", "Output rendering (auto|markdown|plain)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flags.BoolVar(&opts.Verbose, "verbose", false, "Same as --log-level debug")
	flags.StringVar(&opts.Stub, "stub", "", "Answer from a YAML fixture instead of the network")
}

// reportedError marks a failure the command already showed to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reportError prints err unless it was already shown and returns the exit status.
func reportError(w io.Writer, err error) int {
	var rep reportedError
	switch {
	case errors.Is(err, betterprompt.ErrCancelled):
		fmt.Fprintln(w, "cancelled")
		return exitCancelled
	case errors.As(err, &rep):
		return 1
	default:
		fmt.Fprintf(w, "error: %v\n", err)
		return 1
	}
}
