// ABOUTME: Settings loading: defaults, global YAML, project YAML, then environment
// ABOUTME: Later layers override earlier ones field by field; flags are applied by the CLI

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Render modes for streamed output.
const (
	RenderAuto     = "auto"
	RenderMarkdown = "markdown"
	RenderPlain    = "plain"
)

// Environment variables read by Load.
const (
	EnvAPIURL   = "BETTERPROMPT_API_URL"
	EnvAPIToken = "BETTERPROMPT_API_TOKEN"
	EnvTimeout  = "BETTERPROMPT_TIMEOUT"
	EnvProxy    = "BETTERPROMPT_PROXY"
	EnvLogLevel = "BETTERPROMPT_LOG_LEVEL"
)

// Settings holds the merged configuration.
type Settings struct {
	APIURL   string        `yaml:"api_url,omitempty"`
	APIToken string        `yaml:"api_token,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Proxy    string        `yaml:"proxy,omitempty"`
	Render   string        `yaml:"render,omitempty"`
	LogLevel string        `yaml:"log_level,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Render:   RenderAuto,
		LogLevel: "warn",
	}
}

// Load reads and merges global and project-local settings, then applies the
// environment. Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	return load(GlobalConfigFile(), ProjectConfigFile(projectRoot), os.LookupEnv)
}

func load(globalPath, projectPath string, lookup func(string) (string, bool)) (*Settings, error) {
	global, err := loadFile(globalPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(projectPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(Defaults(), global), project)
	if err := applyEnv(merged, lookup); err != nil {
		return nil, err
	}
	ResolveEnvVars(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays the non-zero fields of top onto base.
func merge(base, top *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if top == nil {
		return base
	}

	result := *base

	if top.APIURL != "" {
		result.APIURL = top.APIURL
	}
	if top.APIToken != "" {
		result.APIToken = top.APIToken
	}
	if top.Timeout != 0 {
		result.Timeout = top.Timeout
	}
	if top.Proxy != "" {
		result.Proxy = top.Proxy
	}
	if top.Render != "" {
		result.Render = top.Render
	}
	if top.LogLevel != "" {
		result.LogLevel = top.LogLevel
	}

	return &result
}

// applyEnv overrides s with the BETTERPROMPT_* variables that are set.
func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		s.APIURL = v
	}
	if v, ok := lookup(EnvAPIToken); ok {
		s.APIToken = v
	}
	if v, ok := lookup(EnvProxy); ok && v != "" {
		s.Proxy = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		s.Timeout = d
	}
	return nil
}

// Validate checks values that cannot be fixed up silently.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Render) {
	case RenderAuto, RenderMarkdown, RenderPlain:
		s.Render = strings.ToLower(s.Render)
	default:
		return fmt.Errorf("invalid render mode %q (want auto, markdown, or plain)", s.Render)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", s.Timeout)
	}
	return nil
}
