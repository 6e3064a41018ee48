// ABOUTME: Loads stub.Config from a YAML fixture for offline runs (--stub)
// ABOUTME: Variables may be written as bare names or as {name, description} maps

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
	"github.com/mauromedda/betterprompt-go/pkg/betterprompt/stub"
)

type stubFixture struct {
	Responses       map[string]string      `yaml:"responses"`
	DefaultResponse string                 `yaml:"default_response"`
	ChunkSize       int                    `yaml:"chunk_size"`
	Delay           time.Duration          `yaml:"delay"`
	OmitDone        bool                   `yaml:"omit_done"`
	Errors          map[string]stubFailure `yaml:"errors"`
	Prompts         []stubPrompt           `yaml:"prompts"`
}

type stubFailure struct {
	Code    int    `yaml:"code"`
	Status  string `yaml:"status"`
	Message string `yaml:"message"`
	After   int    `yaml:"after"`
}

type stubPrompt struct {
	Slug        string         `yaml:"slug"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Required    []stubVariable `yaml:"required"`
	Optional    []stubVariable `yaml:"optional"`
}

type stubVariable struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func (v *stubVariable) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v.Name = n.Value
		return nil
	}
	type plain stubVariable
	return n.Decode((*plain)(v))
}

// loadStubConfig reads a fixture file.
func loadStubConfig(path string) (stub.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stub.Config{}, fmt.Errorf("reading stub fixture: %w", err)
	}
	var f stubFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return stub.Config{}, fmt.Errorf("parsing stub fixture %s: %w", path, err)
	}
	return f.config(), nil
}

func (f stubFixture) config() stub.Config {
	cfg := stub.Config{
		Responses:       f.Responses,
		DefaultResponse: f.DefaultResponse,
		ChunkSize:       f.ChunkSize,
		Delay:           f.Delay,
		OmitDone:        f.OmitDone,
	}
	if len(f.Errors) > 0 {
		cfg.Errors = make(map[string]stub.Failure, len(f.Errors))
		for slug, e := range f.Errors {
			cfg.Errors[slug] = stub.Failure(e)
		}
	}
	for _, p := range f.Prompts {
		cfg.Schemas = append(cfg.Schemas, betterprompt.PromptSchema{
			Slug:                     p.Slug,
			Name:                     p.Name,
			Description:              p.Description,
			RequiredContextVariables: variables(p.Required),
			OptionalContextVariables: variables(p.Optional),
		})
	}
	return cfg
}

func variables(vs []stubVariable) []betterprompt.Variable {
	out := make([]betterprompt.Variable, len(vs))
	for i, v := range vs {
		out[i] = betterprompt.Variable(v)
	}
	return out
}
