package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors into a single actionable
// message naming the offending field in its JSON form.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := snakeCase(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "min":
				return "invalid request: " + field + " is below the minimum length of " + fe.Param()
			case "max":
				return "invalid request: " + field + " exceeds maximum of " + fe.Param()
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "lte":
				return "invalid request: " + field + " must be at most " + fe.Param()
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// snakeCase maps a Go struct field name to its JSON field name, keeping
// initialisms like "ID" as one word.
func snakeCase(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			startsWord := i > 0 &&
				(!unicode.IsUpper(rs[i-1]) || (i+1 < len(rs) && !unicode.IsUpper(rs[i+1])))
			if startsWord {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
