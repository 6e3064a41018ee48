// ABOUTME: Builds a betterprompt.Request from --var pairs and --user-prompt
// ABOUTME: key=@path reads a value from a file; --user-prompt - reads stdin

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

// requestFlags are the flags shared by invoke and stream.
type requestFlags struct {
	vars       []string
	userPrompt string
	check      bool
}

// parseVars turns key=value pairs into context variables. A value starting
// with @ names a file whose contents become the value.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: want key=value", pair)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile && path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading --var %s: %w", key, err)
			}
			value = string(data)
		}
		vars[key] = value
	}
	return vars, nil
}

// buildRequest assembles the request for slug.
func (f requestFlags) buildRequest(slug string, stdin io.Reader, env *runEnv) (betterprompt.Request, error) {
	vars, err := parseVars(f.vars)
	if err != nil {
		return betterprompt.Request{}, err
	}

	userPrompt := f.userPrompt
	if userPrompt == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return betterprompt.Request{}, fmt.Errorf("reading user prompt from stdin: %w", err)
		}
		userPrompt = strings.TrimRight(string(data), "\n")
	}

	return betterprompt.Request{
		Slug:             slug,
		ContextVariables: vars,
		UserPrompt:       userPrompt,
		Timeout:          env.settings.Timeout,
	}, nil
}

// checkRequest verifies that the prompt exists and that its required
// variables are set.
func checkRequest(ctx context.Context, p betterprompt.Prompter, req betterprompt.Request) error {
	prompts, err := p.Schemas(ctx)
	if err != nil {
		return err
	}
	schema, err := betterprompt.FindPrompt(prompts, req.Slug)
	if err != nil {
		return err
	}
	return schema.Validate(req.ContextVariables)
}
