package utils

import (
	"strconv"
	"strings"

	"band-backend/apperrors"
)

// FormBool is the result of parsing an optional boolean form field.
type FormBool struct {
	Value   bool
	Present bool
}

// Or returns the parsed value, or def when the field was absent.
func (b FormBool) Or(def bool) bool {
	if !b.Present {
		return def
	}
	return b.Value
}

// ParseFormBool accepts true/false, 1/0 and on/off in any case. An empty
// value is reported as absent.
func ParseFormBool(field, raw string) (FormBool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return FormBool{}, nil
	case "true", "1", "on":
		return FormBool{Value: true, Present: true}, nil
	case "false", "0", "off":
		return FormBool{Value: false, Present: true}, nil
	default:
		return FormBool{}, apperrors.Validation(field + " must be true or false")
	}
}

// ParseOptionalInt returns (value, present). Empty input is absent.
func ParseOptionalInt(field, raw string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperrors.Validation(field + " must be a whole number")
	}
	return n, true, nil
}

// ParseID parses a positive numeric path id.
func ParseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
