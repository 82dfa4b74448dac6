// Package coursecode derives canonical course codes such as "CSC-121" or
// "ENG-111A" from free-text section identifiers.
package coursecode

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`[A-Z]{3}-\d{3}[A-Z]?`)

// Extract returns the first course code embedded in a section identifier
// ("CSC-121-001" yields "CSC-121"). The second result is false when the
// identifier holds no code.
func Extract(sectionName string) (string, bool) {
	code := pattern.FindString(sectionName)
	if code == "" {
		return "", false
	}
	return code, true
}

// ExtractAny is Extract for loosely typed inputs such as spreadsheet cells.
// Anything that is not a string is treated as having no code.
func ExtractAny(value interface{}) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return Extract(s)
}

// Match returns the codes that contain the upper-cased query, preserving
// the order of codes.
func Match(codes []string, query string) []string {
	needle := strings.ToUpper(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var matches []string
	for _, code := range codes {
		if strings.Contains(code, needle) {
			matches = append(matches, code)
		}
	}
	return matches
}

// Compact removes dashes and lower-cases a code for use in file names
// ("CSC-121" becomes "csc121").
func Compact(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "-", ""))
}
