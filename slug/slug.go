// Package slug derives URL-safe identifiers from titles and keeps them unique.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/irsalhamdi/course-catalog/random"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxAttempts bounds Unique when no limit is given.
const DefaultMaxAttempts = 10

var ErrExhausted = errors.New("no free slug found")

var (
	invalid   = regexp.MustCompile(`[^\w\s-]`)
	separator = regexp.MustCompile(`[-\s]+`)
)

var fold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make lowercases s, strips accents and anything that is not a letter, digit,
// underscore or hyphen, and joins words with single hyphens.
//
//	Make("Introduction to Systems Programming") // "introduction-to-systems-programming"
//	Make("Café  & Crème!")                      // "cafe-creme"
func Make(s string) string {
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	out := invalid.ReplaceAllString(strings.ToLower(ascii), "")
	out = separator.ReplaceAllString(out, "-")
	return strings.Trim(out, "-_")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if it is free, otherwise base suffixed with a random
// token, trying at most maxAttempts candidates.
func Unique(ctx context.Context, base string, maxAttempts int, exists ExistsFunc) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if base == "" {
		base = random.SlugToken()
	}

	candidate := base
	for i := 0; i < maxAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug[%s]: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = WithSuffix(base)
	}

	return "", fmt.Errorf("%w for base[%s] after %d attempts", ErrExhausted, base, maxAttempts)
}

// WithSuffix appends a fresh random token to base.
func WithSuffix(base string) string {
	return base + "-" + random.SlugToken()
}
