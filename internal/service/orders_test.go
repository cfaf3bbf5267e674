package service

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeReason(t *testing.T) {
	if got := sanitizeReason(nil); got != "" {
		t.Fatalf("nil reason: got %q", got)
	}

	short := "передумал"
	if got := sanitizeReason(&short); got != short {
		t.Fatalf("short reason must pass through: got %q", got)
	}

	long := strings.Repeat("x", 600)
	if got := sanitizeReason(&long); len(got) != 500 {
		t.Fatalf("ascii truncation: got len %d", len(got))
	}

	// обрезка не должна разрывать многобайтовую руну: «ж» двухбайтовая,
	// граница 500 приходится на её середину
	cyr := strings.Repeat("x", 499) + strings.Repeat("ж", 10)
	got := sanitizeReason(&cyr)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated reason is not valid utf-8: %q", got)
	}
	if len(got) != 499 {
		t.Fatalf("expected cut at rune boundary 499, got len %d", len(got))
	}
}
