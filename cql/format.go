package cql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// DateLayout is the layout of date-only literals.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the layout of date-time literals.
	DateTimeLayout = "2006-01-02 15:04"
)

// offsetPattern matches relative offsets such as "-4w", "+1d" or "-1w 2d".
var offsetPattern = regexp.MustCompile(`^[+-]?\d+[ywdhm]( [+-]?\d+[ywdhm])*$`)

// Quote renders s as a CQL string literal. Backslashes and double quotes are
// escaped. Empty strings and control characters are rejected.
func Quote(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyValue
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrControlCharacter, s)
		}
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String(), nil
}

// Unquote parses a literal produced by Quote back into its value.
func Unquote(literal string) (string, error) {
	if len(literal) < 2 || literal[0] != '"' || literal[len(literal)-1] != '"' {
		return "", fmt.Errorf("%w: %s", ErrMalformedLiteral, literal)
	}
	body := literal[1 : len(literal)-1]
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '\\':
			i++
			if i == len(body) || (body[i] != '"' && body[i] != '\\') {
				return "", fmt.Errorf("%w: dangling escape in %s", ErrMalformedLiteral, literal)
			}
			sb.WriteByte(body[i])
		case '"':
			return "", fmt.Errorf("%w: unescaped quote in %s", ErrMalformedLiteral, literal)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

func formatTime(t time.Time, layout string) (string, error) {
	if t.IsZero() {
		return "", ErrEmptyValue
	}
	return Quote(t.Format(layout))
}

func formatID(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: id must be positive, got %d", ErrInvalidArgument, id)
	}
	return strconv.FormatInt(id, 10), nil
}

func validateOffset(offset string) error {
	if !offsetPattern.MatchString(offset) {
		return fmt.Errorf("%w: %q", ErrInvalidOffset, offset)
	}
	return nil
}

// formatList renders each value and joins them as "(a, b, c)".
func formatList[T any](values []T, render func(T) (string, error)) (string, error) {
	if len(values) == 0 {
		return "", ErrEmptyList
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range values {
		lit, err := render(v)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(lit)
	}
	sb.WriteByte(')')
	return sb.String(), nil
}
