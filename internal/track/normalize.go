package track

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// NormalizeName canonicalizes a raw track name to title case so that the
// same host recorded under "alice", "ALICE" or "Alice " maps to one
// artifact.
func NormalizeName(raw string) string {
	return titleCaser.String(strings.TrimSpace(raw))
}

// NameFromPath derives a track name from a source file path: the base
// name without extension, optionally normalized.
func NameFromPath(path string, normalize bool) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if normalize {
		return NormalizeName(name)
	}
	return strings.TrimSpace(name)
}
