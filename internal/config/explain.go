// ABOUTME: Human-readable rendering of effective configuration
// ABOUTME: Used by the "config" CLI subcommand; the token is masked

package config

import (
	"fmt"
	"strings"
)

// Explain renders a human-readable summary of the effective settings.
func Explain(s *Settings) string {
	if s == nil {
		s = &Settings{}
	}

	var b strings.Builder

	b.WriteString("=== API ===\n")
	if s.APIURL != "" {
		fmt.Fprintf(&b, "  URL:      %s\n", s.APIURL)
	}
	if s.APIToken != "" {
		fmt.Fprintf(&b, "  Token:    %s\n", MaskToken(s.APIToken))
	}
	if s.Timeout != 0 {
		fmt.Fprintf(&b, "  Timeout:  %s\n", s.Timeout)
	}
	if s.Proxy != "" {
		fmt.Fprintf(&b, "  Proxy:    %s\n", s.Proxy)
	}
	b.WriteString("\n")

	b.WriteString("=== Output ===\n")
	if s.Render != "" {
		fmt.Fprintf(&b, "  Render:   %s\n", s.Render)
	}
	if s.LogLevel != "" {
		fmt.Fprintf(&b, "  LogLevel: %s\n", s.LogLevel)
	}
	b.WriteString("\n")

	b.WriteString("=== Files ===\n")
	fmt.Fprintf(&b, "  Global:   %s\n", GlobalConfigFile())
	fmt.Fprintf(&b, "  Project:  %s\n", projectFileName)

	return b.String()
}

// MaskToken keeps the last four characters of a token.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
