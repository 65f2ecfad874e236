// internal/report/report.go

// Package report aggregates the catalog into platform and player
// distributions and writes them out as JSON, Markdown, or an Excel
// workbook.
package report

import (
	"fmt"
	"time"

	"github.com/capitolscrape/congressvideo/internal/database"
)

// CommitteeSummary is one committee's row in the report, with its hearing
// and detection counts.
type CommitteeSummary struct {
	Name          string `json:"name"`
	Chamber       string `json:"chamber"`
	CommitteeCode string `json:"committee_code,omitempty"`
	OfficialURL   string `json:"official_url"`
	Hearings      int    `json:"hearings"`
	VideoFormats  int    `json:"video_formats"`
}

// Analysis is the full aggregated view of the catalog.
type Analysis struct {
	GeneratedAt        time.Time          `json:"generated_at"`
	Stats              database.Stats     `json:"stats"`
	PlayerTypes        map[string]int     `json:"player_types"`
	HearingsWithVideo  int                `json:"hearings_with_video"`
	VideoCoverage      float64            `json:"video_coverage"`
	DeepInspectionNeed int                `json:"needs_deep_inspection"`
	Committees         []CommitteeSummary `json:"committees"`
}

// Analyze reads the whole catalog and computes distributions. Coverage is
// the share of hearings with at least one detected format.
func Analyze(db *database.DB) (*Analysis, error) {
	stats, err := db.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	committees, err := db.GetCommittees("")
	if err != nil {
		return nil, fmt.Errorf("failed to load committees: %w", err)
	}
	hearings, err := db.GetHearings(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load hearings: %w", err)
	}
	formats, err := db.GetVideoFormats(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load video formats: %w", err)
	}

	analysis := &Analysis{
		GeneratedAt: time.Now(),
		Stats:       *stats,
		PlayerTypes: make(map[string]int),
	}

	hearingsWithVideo := make(map[int64]bool)
	formatsByHearing := make(map[int64]int)
	for _, vf := range formats {
		analysis.PlayerTypes[vf.PlayerType]++
		hearingsWithVideo[vf.HearingID] = true
		formatsByHearing[vf.HearingID]++
		if vf.StreamingURL == "" {
			analysis.DeepInspectionNeed++
		}
	}
	analysis.HearingsWithVideo = len(hearingsWithVideo)
	if len(hearings) > 0 {
		analysis.VideoCoverage = float64(analysis.HearingsWithVideo) / float64(len(hearings))
	}

	hearingsByCommittee := make(map[int64][]database.Hearing)
	for _, h := range hearings {
		if h.CommitteeID.Valid {
			hearingsByCommittee[h.CommitteeID.Int64] = append(hearingsByCommittee[h.CommitteeID.Int64], h)
		}
	}

	for _, c := range committees {
		summary := CommitteeSummary{
			Name:          c.Name,
			Chamber:       c.Chamber,
			CommitteeCode: c.CommitteeCode,
			OfficialURL:   c.OfficialURL,
		}
		for _, h := range hearingsByCommittee[c.ID] {
			summary.Hearings++
			summary.VideoFormats += formatsByHearing[h.ID]
		}
		analysis.Committees = append(analysis.Committees, summary)
	}

	return analysis, nil
}
