// internal/report/report_test.go
package report

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/capitolscrape/congressvideo/internal/database"
)

func seededDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite3", Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	committeeID, err := db.InsertCommittee(&database.Committee{
		Name:          "Energy and Commerce",
		Chamber:       database.ChamberHouse,
		OfficialURL:   "https://energycommerce.house.gov",
		CommitteeCode: "ENERGYCOMMERCE",
	})
	if err != nil {
		t.Fatalf("InsertCommittee failed: %v", err)
	}

	withVideo, err := db.InsertHearing(&database.Hearing{
		CommitteeID: sql.NullInt64{Int64: committeeID, Valid: true},
		Title:       "Data Privacy Oversight",
		HearingURL:  "https://energycommerce.house.gov/hearings/privacy",
		Status:      database.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("InsertHearing failed: %v", err)
	}
	if _, err := db.InsertHearing(&database.Hearing{
		CommitteeID: sql.NullInt64{Int64: committeeID, Valid: true},
		Title:       "Broadband Deployment",
		HearingURL:  "https://energycommerce.house.gov/hearings/broadband",
		Status:      database.StatusScheduled,
	}); err != nil {
		t.Fatalf("InsertHearing failed: %v", err)
	}

	inserts := []database.VideoFormat{
		{HearingID: withVideo, Platform: "youtube", PlayerType: "embedded", VideoID: "abc123", StreamingURL: "https://www.youtube.com/embed/abc123"},
		{HearingID: withVideo, Platform: "jwplayer", PlayerType: "javascript"},
	}
	for i := range inserts {
		if _, err := db.InsertVideoFormat(&inserts[i]); err != nil {
			t.Fatalf("InsertVideoFormat failed: %v", err)
		}
	}

	return db
}

func TestAnalyze(t *testing.T) {
	analysis, err := Analyze(seededDB(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Stats.TotalHearings != 2 {
		t.Errorf("total hearings = %d, want 2", analysis.Stats.TotalHearings)
	}
	if analysis.HearingsWithVideo != 1 {
		t.Errorf("hearings with video = %d, want 1", analysis.HearingsWithVideo)
	}
	if analysis.VideoCoverage != 0.5 {
		t.Errorf("coverage = %v, want 0.5", analysis.VideoCoverage)
	}
	if analysis.PlayerTypes["embedded"] != 1 || analysis.PlayerTypes["javascript"] != 1 {
		t.Errorf("player types = %v", analysis.PlayerTypes)
	}
	// The jwplayer detection has no streaming URL.
	if analysis.DeepInspectionNeed != 1 {
		t.Errorf("needs deep inspection = %d, want 1", analysis.DeepInspectionNeed)
	}

	if len(analysis.Committees) != 1 {
		t.Fatalf("got %d committee summaries, want 1", len(analysis.Committees))
	}
	c := analysis.Committees[0]
	if c.Hearings != 2 || c.VideoFormats != 2 {
		t.Errorf("committee summary = %+v", c)
	}
}

func TestWriteJSON(t *testing.T) {
	analysis, err := Analyze(seededDB(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON(analysis, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var decoded Analysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Stats.TotalVideoFormats != 2 {
		t.Errorf("decoded total video formats = %d, want 2", decoded.Stats.TotalVideoFormats)
	}
}

func TestWriteMarkdown(t *testing.T) {
	analysis, err := Analyze(seededDB(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.md")
	if err := WriteMarkdown(analysis, path); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Congress Video Format Index - Analysis Report",
		"| House | 1 |",
		"| Youtube | 1 |",
		"| Energy and Commerce | house | ENERGYCOMMERCE | 2 | 2 |",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteExcel(t *testing.T) {
	db := seededDB(t)
	analysis, err := Analyze(db)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	formats, err := db.GetVideoFormats(0)
	if err != nil {
		t.Fatalf("GetVideoFormats failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteExcel(analysis, formats, path); err != nil {
		t.Fatalf("WriteExcel failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Summary": false, "Committees": false, "Video Formats": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("workbook missing sheet %q (have %v)", name, sheets)
		}
	}

	name, err := f.GetCellValue("Committees", "A2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if name != "Energy and Commerce" {
		t.Errorf("committee cell = %q, want Energy and Commerce", name)
	}

	platform, err := f.GetCellValue("Video Formats", "B2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if platform != "youtube" {
		t.Errorf("platform cell = %q, want youtube", platform)
	}
}
