// Package intake turns loosely keyed API input into subscription records and
// drives subscribers through their status transitions.
package intake

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawInput is a request body as decoded from JSON or form data.
type RawInput map[string]interface{}

// Input is a normalized request body: upper-cased trimmed keys, trimmed
// string values.
type Input map[string]string

// Get returns the value for key and whether the key was sent at all.
func (in Input) Get(key string) (string, bool) {
	v, ok := in[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (in Input) Value(key string) string {
	return in[key]
}

// Normalize canonicalizes raw so that callers may send EMAIL, Email or email
// interchangeably.
func Normalize(raw RawInput) Input {
	input := make(Input, len(raw))
	for key, value := range raw {
		input[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(stringify(value))
	}
	return input
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []string:
		return strings.Join(v, ",")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

var truthyPattern = regexp.MustCompile(`(?i)^(yes|true|1)$`)

// IsTruthy is the flag rule: yes, true or 1 in any case.
func IsTruthy(value string) bool {
	return truthyPattern.MatchString(value)
}

// IsFalsyForVisibility is the option/visibility rule: false, no, 0 or empty.
// It is not the negation of IsTruthy: "maybe" is neither truthy nor falsy.
func IsFalsyForVisibility(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "no", "0", "":
		return true
	default:
		return false
	}
}

// EncodeOption maps an option input to its stored form: "" for falsy values,
// "1" for anything else.
func EncodeOption(value string) string {
	if IsFalsyForVisibility(value) {
		return ""
	}
	return "1"
}
