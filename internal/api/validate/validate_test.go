package validate

import (
	"strings"
	"testing"
)

func TestNonEmpty(t *testing.T) {
	if err := NonEmpty("text", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range []string{"", "   ", "\t\n"} {
		if err := NonEmpty("text", v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestMaxLen(t *testing.T) {
	if err := MaxLen("description", nil, 10); err != nil {
		t.Fatalf("nil should pass: %v", err)
	}
	short := "ok"
	if err := MaxLen("description", &short, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long := strings.Repeat("x", 11)
	if err := MaxLen("description", &long, 10); err == nil {
		t.Fatal("expected error for over-limit value")
	}
}
