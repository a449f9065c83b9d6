// Package service holds the validation and orchestration layer between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"blogly/internal/models"
	"blogly/internal/observability"
)

const maxNameLen = 50

// finish ends span and records a failed call.
func finish(ctx context.Context, span *observability.Span, service, method string, err error) {
	if err != nil {
		observability.LogServiceError(ctx, service, method, models.ErrorCode(err), err)
	}
	span.End(err)
}

// requireText trims value and fails with ConstraintViolation when the result
// is empty or, for maxLen > 0, longer than maxLen characters.
func requireText(field, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", models.NewConstraintViolation(field + " is required")
	}
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		return "", models.NewConstraintViolation(fmt.Sprintf("%s too long (max %d characters)", field, maxLen))
	}
	return v, nil
}

// NormalizeTagNames trims every name, drops blanks and keeps the first
// occurrence of each distinct name.
func NormalizeTagNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
