// ABOUTME: Tests for human-readable config explanation rendering
// ABOUTME: Covers empty settings and token masking

package config

import (
	"strings"
	"testing"
	"time"
)

func TestExplain_EmptySettings(t *testing.T) {
	t.Parallel()

	result := Explain(nil)
	if !strings.Contains(result, "=== API ===") || !strings.Contains(result, "=== Output ===") {
		t.Errorf("Explain missing section headers:\n%s", result)
	}
}

func TestExplain_FullSettings(t *testing.T) {
	t.Parallel()

	s := &Settings{
		APIURL:   "https://platform.example.com",
		APIToken: "super-secret-1234",
		Timeout:  2 * time.Minute,
		Proxy:    "http://proxy:3128",
		Render:   RenderPlain,
		LogLevel: "debug",
	}
	result := Explain(s)

	for _, want := range []string{"https://platform.example.com", "********1234", "2m0s", "http://proxy:3128", "plain", "debug"} {
		if !strings.Contains(result, want) {
			t.Errorf("Explain missing %q:\n%s", want, result)
		}
	}
	if strings.Contains(result, "super-secret") {
		t.Error("Explain leaked the token")
	}
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":          "",
		"abc":       "***",
		"abcd":      "****",
		"abcdefghi": "********fghi",
	}
	for in, want := range tests {
		if got := MaskToken(in); got != want {
			t.Errorf("MaskToken(%q) = %q, want %q", in, got, want)
		}
	}
}
