// internal/utils/text_test.go
package utils

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"already clean", "Committee on Armed Services", "Committee on Armed Services"},
		{"collapses spaces", "Hearing   on    Oversight", "Hearing on Oversight"},
		{"collapses newlines and tabs", "Full\n\tCommittee\n Markup", "Full Committee Markup"},
		{"trims edges", "  \n Budget Hearing \t ", "Budget Hearing"},
		{"whitespace only", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.text); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractCommitteeCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"acronym in parens", "Committee on Homeland Security (HSGAC) schedule", "HSGAC"},
		{"first acronym wins", "SASC and HELP joint hearing", "SASC"},
		{"no acronym", "Committee on the Judiciary", ""},
		{"single letter ignored", "A hearing on farm policy", ""},
		// Any all-caps word matches; the result is advisory only.
		{"unrelated caps word matches", "WATCH LIVE: hearing on appropriations", "WATCH"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCommitteeCode(tt.text); got != tt.want {
				t.Errorf("ExtractCommitteeCode(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractDatePatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "slash form",
			text: "Hearing scheduled for 03/15/2024 in Room 2118",
			want: []string{"03/15/2024"},
		},
		{
			name: "dash form",
			text: "Rescheduled to 4-02-2024",
			want: []string{"4-02-2024"},
		},
		{
			name: "month name form",
			text: "Held on January 9, 2024 at 10am",
			want: []string{"January 9, 2024"},
		},
		{
			name: "no dates",
			text: "Witness list to be announced",
			want: nil,
		},
		{
			// Results group by pattern, not by position in the text: the
			// slash date is reported first even though it appears second.
			name: "pattern-major ordering",
			text: "Originally March 1, 2024, moved to 03/08/2024",
			want: []string{"03/08/2024", "March 1, 2024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDatePatterns(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractDatePatterns(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
