// ABOUTME: Per-command setup: merged settings, log level, output styles, and the Prompter
// ABOUTME: Flags the user set win over config files and the environment

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mauromedda/betterprompt-go/internal/config"
	"github.com/mauromedda/betterprompt-go/internal/display"
	bplog "github.com/mauromedda/betterprompt-go/internal/log"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/stub"
)

// runEnv is what a subcommand needs to talk to the platform and the terminal.
type runEnv struct {
	settings *config.Settings
	prompter betterprompt.Prompter
	out      io.Writer
	errOut   io.Writer
	tty      bool
	styles   display.Styles
}

// setup resolves settings and builds the Prompter for cmd.
func setup(cmd *cobra.Command, opts *options) (*runEnv, error) {
	s, err := resolveSettings(cmd, opts)
	if err != nil {
		return nil, err
	}
	level, err := bplog.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	bplog.SetLevel(level)
	bplog.SetOutput(cmd.ErrOrStderr())

	p, err := newPrompter(s, opts.Stub)
	if err != nil {
		return nil, err
	}

	env := &runEnv{
		settings: s,
		prompter: p,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		styles:   display.PlainStyles(),
	}
	if display.IsTerminal(env.out) {
		env.tty = true
		env.styles = display.DefaultStyles()
	}
	return env, nil
}

// resolveSettings loads config files and the environment, then applies the
// flags that were set on the command line.
func resolveSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	root := opts.projectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}

	s, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		s.APIURL = opts.APIURL
	}
	if flags.Changed("token") {
		s.APIToken = opts.Token
	}
	if flags.Changed("timeout") {
		s.Timeout = opts.Timeout
	}
	if flags.Changed("proxy") {
		s.Proxy = opts.Proxy
	}
	if flags.Changed("render") {
		s.Render = opts.Render
	}
	if flags.Changed("log-level") {
		s.LogLevel = opts.LogLevel
	}
	if opts.Verbose {
		s.LogLevel = "debug"
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newPrompter returns a stub when a fixture is given, otherwise a live client.
func newPrompter(s *config.Settings, fixture string) (betterprompt.Prompter, error) {
	if fixture != "" {
		cfg, err := loadStubConfig(fixture)
		if err != nil {
			return nil, err
		}
		bplog.Debug("using stub fixture %s", fixture)
		return stub.New(cfg), nil
	}

	if s.APIURL == "" {
		return nil, errors.New("no API URL configured: set --api-url, " + config.EnvAPIURL +
			", or api_url in " + config.GlobalConfigFile())
	}

	opts := []betterprompt.Option{
		betterprompt.WithBaseURL(s.APIURL),
		betterprompt.WithHeader("User-Agent", "betterprompt-cli/"+version),
	}
	if s.APIToken != "" {
		opts = append(opts, betterprompt.WithToken(s.APIToken))
	}
	if s.Proxy != "" {
		opts = append(opts, betterprompt.WithProxy(s.Proxy))
	}
	return betterprompt.New(opts...)
}

// markdown reports whether responses are rendered as markdown.
func (e *runEnv) markdown() bool {
	switch e.settings.Render {
	case config.RenderMarkdown:
		return true
	case config.RenderPlain:
		return false
	default:
		return e.tty
	}
}

func (e *runEnv) printer() *display.Printer {
	return display.NewPrinter(e.out, e.errOut, display.PrinterConfig{
		Markdown: e.markdown(),
		Width:    display.Width(e.out),
		Styles:   e.styles,
	})
}
