// internal/utils/text.go
package utils

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// committeeCodePatterns are tried in order; the first capture from the first
// matching pattern wins. Committee codes on congressional sites are short
// all-caps acronyms (HSGAC, SASC), but any all-caps word will match, so the
// result is advisory only.
var committeeCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{2,6})\b`),
	regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,5})\b`),
}

// datePatterns are tried in order. Results are grouped by pattern, not by
// position in the input text.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`),
	regexp.MustCompile(`\b(\w+\s+\d{1,2},\s+\d{4})\b`),
}

// CleanText collapses every run of whitespace to a single space and trims
// the result. Empty input yields "".
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ExtractCommitteeCode scans text for a short all-caps acronym and returns
// the first match, or "" when nothing matches.
func ExtractCommitteeCode(text string) string {
	for _, re := range committeeCodePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractDatePatterns returns all date-shaped substrings in text. Matches
// are ordered pattern-first: every MM/DD/YYYY hit precedes every MM-DD-YYYY
// hit regardless of where each appears in the text.
func ExtractDatePatterns(text string) []string {
	var dates []string
	for _, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			dates = append(dates, m[1])
		}
	}
	return dates
}
