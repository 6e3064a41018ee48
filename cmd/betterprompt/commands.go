// ABOUTME: Subcommands: list, show, invoke, stream, gen, config, version
// ABOUTME: stream uses the Bubble Tea view on a terminal and the line printer otherwise

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mauromedda/betterprompt-go/internal/codegen"
	"github.com/mauromedda/betterprompt-go/internal/config"
	"github.com/mauromedda/betterprompt-go/internal/display"
	bplog "github.com/mauromedda/betterprompt-go/internal/log"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

func listCommand(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List the prompts published by the platform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			prompts, err := env.prompter.Schemas(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				prompts = filterPrompts(prompts, args[0])
			}

			if asJSON {
				enc := json.NewEncoder(env.out)
				enc.SetIndent("", "  ")
				return enc.Encode(prompts)
			}
			if len(prompts) == 0 {
				fmt.Fprintln(env.errOut, "no prompts")
				return nil
			}
			return display.Table(env.out, prompts, display.Width(env.out), env.styles)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print schemas as JSON")
	return cmd
}

// filterPrompts keeps prompts whose slug or name contains filter, ignoring case.
func filterPrompts(prompts []betterprompt.PromptSchema, filter string) []betterprompt.PromptSchema {
	filter = strings.ToLower(filter)
	var out []betterprompt.PromptSchema
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Slug), filter) || strings.Contains(strings.ToLower(p.Name), filter) {
			out = append(out, p)
		}
	}
	return out
}

func showCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Describe one prompt and its context variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			prompts, err := env.prompter.Schemas(cmd.Context())
			if err != nil {
				return err
			}
			p, err := betterprompt.FindPrompt(prompts, args[0])
			if err != nil {
				return err
			}

			st := env.styles
			fmt.Fprintf(env.out, "%s %s\n", st.Header.Render(p.Name), st.Muted.Render("("+p.Slug+")"))
			if p.Description != "" {
				fmt.Fprintf(env.out, "\n%s\n", p.Description)
			}
			for _, group := range []struct {
				title string
				vars  []betterprompt.Variable
			}{
				{"Required variables", p.RequiredContextVariables},
				{"Optional variables", p.OptionalContextVariables},
			} {
				if len(group.vars) == 0 {
					continue
				}
				fmt.Fprintf(env.out, "\n%s\n", st.Header.Render(group.title))
				for _, v := range group.vars {
					line := "  " + st.Accent.Render(v.Name)
					if v.Description != "" {
						line += "  " + v.Description
					}
					fmt.Fprintln(env.out, line)
				}
			}
			return nil
		},
	}
}

func addRequestFlags(cmd *cobra.Command, rf *requestFlags) {
	cmd.Flags().StringArrayVar(&rf.vars, "var", nil, "Context variable key=value (repeatable; key=@file reads a file)")
	cmd.Flags().StringVar(&rf.userPrompt, "user-prompt", "", "Free text appended to the prompt (- reads stdin)")
	cmd.Flags().BoolVar(&rf.check, "check", false, "Verify required variables against the prompt schema first")
}

func invokeCommand(opts *options) *cobra.Command {
	var rf requestFlags
	cmd := &cobra.Command{
		Use:   "invoke <slug>",
		Short: "Run a prompt and print the complete response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			req, err := rf.buildRequest(args[0], cmd.InOrStdin(), env)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if rf.check {
				if err := checkRequest(ctx, env.prompter, req); err != nil {
					return err
				}
			}

			text, err := env.prompter.Invoke(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return betterprompt.ErrCancelled
				}
				return err
			}
			env.printer().Result(text)
			return nil
		},
	}
	addRequestFlags(cmd, &rf)
	return cmd
}

func streamCommand(opts *options) *cobra.Command {
	var rf requestFlags
	cmd := &cobra.Command{
		Use:   "stream <slug>",
		Short: "Run a prompt and show the response as it streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			req, err := rf.buildRequest(args[0], cmd.InOrStdin(), env)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if rf.check {
				if err := checkRequest(ctx, env.prompter, req); err != nil {
					return err
				}
			}

			var res betterprompt.Result
			if env.tty {
				res, err = streamView(ctx, env, req)
			} else {
				res, err = streamLines(ctx, env, req)
			}
			if err != nil {
				return err
			}
			if res.Implicit {
				bplog.Info("session %s ended without a done event", res.SessionID)
			}
			return nil
		},
	}
	addRequestFlags(cmd, &rf)
	return cmd
}

// streamLines writes chunks as they arrive.
func streamLines(ctx context.Context, env *runEnv, req betterprompt.Request) (betterprompt.Result, error) {
	p := env.printer()
	task := env.prompter.Stream(ctx, req, p.Callbacks())
	return waitStream(task)
}

// streamView runs the Bubble Tea status view until the stream ends or the
// user cancels it.
func streamView(ctx context.Context, env *runEnv, req betterprompt.Request) (betterprompt.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var md *display.MarkdownRenderer
	if env.markdown() {
		md = display.NewMarkdownRenderer("")
	}
	model := display.NewStreamModel(req.Slug, md, env.styles, cancel)
	prog := tea.NewProgram(model, tea.WithOutput(env.out))

	task := env.prompter.Stream(ctx, req, display.StreamCallbacks(prog))
	if _, err := prog.Run(); err != nil {
		task.Cancel()
		return betterprompt.Result{}, fmt.Errorf("running stream view: %w", err)
	}
	return waitStream(task)
}

// waitStream waits for task. Stream failures were already shown through
// OnError, so they come back as reportedError.
func waitStream(task *betterprompt.Task) (betterprompt.Result, error) {
	res, err := task.Wait(context.Background())
	if err == nil || errors.Is(err, betterprompt.ErrCancelled) {
		return res, err
	}
	var apiErr *betterprompt.APIError
	if errors.As(err, &apiErr) {
		return res, reportedError{err: err}
	}
	return res, err
}

func genCommand(opts *options) *cobra.Command {
	var (
		pkg   string
		out   string
		slugs []string
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate typed Go wrappers for the platform's prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			prompts, err := env.prompter.Schemas(cmd.Context())
			if err != nil {
				return err
			}
			if len(slugs) > 0 {
				selected := make([]betterprompt.PromptSchema, 0, len(slugs))
				for _, slug := range slugs {
					p, err := betterprompt.FindPrompt(prompts, slug)
					if err != nil {
						return err
					}
					selected = append(selected, p)
				}
				prompts = selected
			}

			src, err := codegen.Generate(pkg, prompts)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err := env.out.Write(src)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			if err := os.WriteFile(out, src, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(env.errOut, "wrote %s (%d prompts)\n", out, len(prompts))
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "prompts", "Package name of the generated file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringSliceVar(&slugs, "slug", nil, "Only generate these prompts")
	return cmd
}

func configCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.Explain(s))
			return nil
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "betterprompt %s (%s) built %s\n", version, commit, date)
		},
	}
}
