package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses every run of other characters into a
// single underscore.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

// 🏷️ MergeTag returns the upper-case merge tag for a field name
func MergeTag(name string) string {
	slug := Slugify(name)
	if slug == "" {
		return ""
	}
	return "MERGE_" + strings.ToUpper(slug)
}

// FieldColumn returns the custom_fields key a new field stores its values under
func FieldColumn(name, code string) string {
	return "custom_" + Slugify(name) + "_" + strings.ToLower(code)
}
