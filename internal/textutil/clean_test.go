package textutil

import (
	"strings"
	"testing"
)

func TestCleanFeedText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"html", "<p>Fed raises <b>rates</b></p>", "Fed raises rates"},
		{"whitespace", "  a \n\t b  ", "a b"},
		{"nbsp", "a\u00a0b", "a b"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanFeedText(tc.in); got != tc.want {
				t.Fatalf("CleanFeedText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("hello", 3); got != "hel" {
		t.Fatalf("expected hel, got %q", got)
	}
	if got := Truncate("hello", 10); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if got := Truncate("hello", 0); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestDescribeSecret(t *testing.T) {
	t.Parallel()

	if got := DescribeSecret(""); got != "(unset)" {
		t.Fatalf("unexpected unset rendering: %q", got)
	}

	got := DescribeSecret("super-secret-key")
	if strings.Contains(got, "super") {
		t.Fatalf("secret leaked into description: %q", got)
	}
	if !strings.Contains(got, "len=16") {
		t.Fatalf("expected length hint, got %q", got)
	}
}
