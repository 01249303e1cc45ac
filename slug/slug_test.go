package slug

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in  string
		exp string
	}{
		{"Introduction to Systems Programming", "introduction-to-systems-programming"},
		{"  Go: The   Complete Guide  ", "go-the-complete-guide"},
		{"Café & Crème brûlée", "cafe-creme-brulee"},
		{"snake_case stays", "snake_case-stays"},
		{"--already-slugged--", "already-slugged"},
		{"Тест", ""},
	}

	for _, tt := range tests {
		if got := Make(tt.in); got != tt.exp {
			t.Errorf("Make(%q): expected %q, got %q", tt.in, tt.exp, got)
		}
	}
}

func TestUniqueFreeBase(t *testing.T) {
	got, err := Unique(context.Background(), "go-basics", 3, func(ctx context.Context, s string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "go-basics" {
		t.Fatalf("expected base slug, got %q", got)
	}
}

func TestUniqueCollision(t *testing.T) {
	taken := map[string]bool{"go-basics": true}
	calls := 0

	got, err := Unique(context.Background(), "go-basics", 5, func(ctx context.Context, s string) (bool, error) {
		calls++
		return taken[s], nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if !regexp.MustCompile(`^go-basics-[0-9a-z]{6}$`).MatchString(got) {
		t.Fatalf("expected suffixed slug, got %q", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 existence checks, got %d", calls)
	}
}

func TestUniqueExhausted(t *testing.T) {
	_, err := Unique(context.Background(), "busy", 3, func(ctx context.Context, s string) (bool, error) {
		return true, nil
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestUniqueEmptyBase(t *testing.T) {
	got, err := Unique(context.Background(), "", 3, func(ctx context.Context, s string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got == "" || strings.Contains(got, " ") {
		t.Fatalf("expected a random token, got %q", got)
	}
}

func TestUniqueLookupError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Unique(context.Background(), "x", 3, func(ctx context.Context, s string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
