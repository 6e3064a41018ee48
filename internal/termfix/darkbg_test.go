// ABOUTME: Tests for COLORFGBG background detection
// ABOUTME: Table of common terminal values

package termfix

import "testing"

func TestDarkBackground(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"15;0", true},
		{"0;15", false},
		{"12;default;8", true},
		{"0;default;7", false},
		{"garbage", true},
	}
	for _, tt := range tests {
		if got := darkBackground(tt.in); got != tt.want {
			t.Errorf("darkBackground(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
