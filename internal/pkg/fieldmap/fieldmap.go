// Package fieldmap resolves field names against record maps without caring
// about case, spaces or underscores. The source data's column naming is
// inconsistent ("Client Deadline", client_deadline and clientdeadline are the
// same logical field), so every lookup goes through a normalized key.
package fieldmap

import "strings"

// Normalize lowercases a field name and strips spaces and underscores.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Key returns the actual map key matching target insensitively, or "" if the
// map has no such field.
func Key(row map[string]interface{}, target string) string {
	want := Normalize(target)
	for k := range row {
		if Normalize(k) == want {
			return k
		}
	}
	return ""
}

// Value returns the value for target, resolved insensitively. Missing fields
// yield nil.
func Value(row map[string]interface{}, target string) interface{} {
	if k := Key(row, target); k != "" {
		return row[k]
	}
	return nil
}
