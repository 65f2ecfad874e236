// internal/utils/urls_test.go
package utils

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		baseURL string
		want    string
	}{
		{
			name:    "absolute URL unchanged",
			rawURL:  "https://www.house.gov/committees",
			baseURL: "",
			want:    "https://www.house.gov/committees",
		},
		{
			name:    "relative resolved against base",
			rawURL:  "/hearings/markup-2024",
			baseURL: "https://energycommerce.house.gov",
			want:    "https://energycommerce.house.gov/hearings/markup-2024",
		},
		{
			name:    "relative without base left alone",
			rawURL:  "/hearings",
			baseURL: "",
			want:    "/hearings",
		},
		{
			name:    "fragment stripped",
			rawURL:  "https://www.senate.gov/committees/#membership",
			baseURL: "",
			want:    "https://www.senate.gov/committees/",
		},
		{
			name:    "fragment stripped after resolution",
			rawURL:  "hearings#video",
			baseURL: "https://judiciary.senate.gov/",
			want:    "https://judiciary.senate.gov/hearings",
		},
		{
			name:    "empty input yields empty output",
			rawURL:  "",
			baseURL: "https://www.house.gov",
			want:    "",
		},
		{
			name:    "absolute URL not re-resolved",
			rawURL:  "https://www.youtube.com/watch?v=abc",
			baseURL: "https://www.house.gov",
			want:    "https://www.youtube.com/watch?v=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.rawURL, tt.baseURL)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q, %q) = %q, want %q", tt.rawURL, tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		rawURL string
		want   bool
	}{
		{"https://www.senate.gov", true},
		{"http://agriculture.house.gov/hearings", true},
		{"/relative/path", false},
		{"www.house.gov", false},
		{"", false},
		{"mailto:clerk@house.gov", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := IsValidURL(tt.rawURL); got != tt.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.rawURL, got, tt.want)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://energycommerce.house.gov/hearings", "energycommerce.house.gov"},
		{"http://www.senate.gov:8080/committees", "www.senate.gov:8080"},
		{"/no/host", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.rawURL); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
