// internal/report/writers.go
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/capitolscrape/congressvideo/internal/database"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// WriteJSON writes the analysis as indented JSON.
func WriteJSON(analysis *Analysis, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(analysis); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the analysis as a Markdown report.
func WriteMarkdown(analysis *Analysis, path string) error {
	var b strings.Builder

	b.WriteString("# Congress Video Format Index - Analysis Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", analysis.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Database Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Committees**: %d\n", analysis.Stats.TotalCommittees)
	fmt.Fprintf(&b, "- **Total Subcommittees**: %d\n", analysis.Stats.TotalSubcommittees)
	fmt.Fprintf(&b, "- **Total Hearings**: %d\n", analysis.Stats.TotalHearings)
	fmt.Fprintf(&b, "- **Total Video Formats**: %d\n", analysis.Stats.TotalVideoFormats)
	fmt.Fprintf(&b, "- **Hearings With Video**: %d (%.1f%%)\n\n",
		analysis.HearingsWithVideo, analysis.VideoCoverage*100)

	b.WriteString("## Committees by Chamber\n\n")
	b.WriteString("| Chamber | Count |\n|---------|-------|\n")
	for _, chamber := range sortedKeys(analysis.Stats.CommitteesByChamber) {
		fmt.Fprintf(&b, "| %s | %d |\n", titleCaser.String(chamber), analysis.Stats.CommitteesByChamber[chamber])
	}
	b.WriteString("\n")

	if len(analysis.Stats.FormatsByPlatform) > 0 {
		b.WriteString("## Video Formats by Platform\n\n")
		b.WriteString("| Platform | Count |\n|----------|-------|\n")
		for _, platform := range sortedKeys(analysis.Stats.FormatsByPlatform) {
			fmt.Fprintf(&b, "| %s | %d |\n", titleCaser.String(platform), analysis.Stats.FormatsByPlatform[platform])
		}
		b.WriteString("\n")
	}

	if len(analysis.PlayerTypes) > 0 {
		b.WriteString("## Player Types\n\n")
		b.WriteString("| Player Type | Count |\n|-------------|-------|\n")
		for _, pt := range sortedKeys(analysis.PlayerTypes) {
			fmt.Fprintf(&b, "| %s | %d |\n", pt, analysis.PlayerTypes[pt])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Committees\n\n")
	b.WriteString("| Committee | Chamber | Code | Hearings | Video Formats |\n")
	b.WriteString("|-----------|---------|------|----------|---------------|\n")
	for _, c := range analysis.Committees {
		code := c.CommitteeCode
		if code == "" {
			code = "N/A"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d |\n", c.Name, c.Chamber, code, c.Hearings, c.VideoFormats)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// excelHeaderStyle builds the bold header style used on every sheet.
func excelHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
}

// WriteExcel writes the analysis plus the underlying catalog as a
// workbook: a summary sheet, a committee sheet, and a video format sheet.
func WriteExcel(analysis *Analysis, formats []database.VideoFormat, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	style, err := excelHeaderStyle(f)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	summary := f.GetSheetName(0)
	if summary != "Summary" {
		f.SetSheetName(summary, "Summary")
		summary = "Summary"
	}
	if err := writeSummarySheet(f, summary, style, analysis); err != nil {
		return err
	}
	if err := writeCommitteeSheet(f, style, analysis.Committees); err != nil {
		return err
	}
	if err := writeFormatSheet(f, style, formats); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, style int, analysis *Analysis) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Generated", analysis.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Committees", analysis.Stats.TotalCommittees},
		{"Total Subcommittees", analysis.Stats.TotalSubcommittees},
		{"Total Hearings", analysis.Stats.TotalHearings},
		{"Total Video Formats", analysis.Stats.TotalVideoFormats},
		{"Hearings With Video", analysis.HearingsWithVideo},
		{"Video Coverage", fmt.Sprintf("%.1f%%", analysis.VideoCoverage*100)},
		{"Needs Deep Inspection", analysis.DeepInspectionNeed},
	}
	for _, platform := range sortedKeys(analysis.Stats.FormatsByPlatform) {
		rows = append(rows, []interface{}{"Platform: " + platform, analysis.Stats.FormatsByPlatform[platform]})
	}
	for _, pt := range sortedKeys(analysis.PlayerTypes) {
		rows = append(rows, []interface{}{"Player Type: " + pt, analysis.PlayerTypes[pt]})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func writeCommitteeSheet(f *excelize.File, style int, committees []CommitteeSummary) error {
	const sheet = "Committees"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Name", "Chamber", "Code", "Official URL", "Hearings", "Video Formats"}}
	for _, c := range committees {
		rows = append(rows, []interface{}{c.Name, c.Chamber, c.CommitteeCode, c.OfficialURL, c.Hearings, c.VideoFormats})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", "D", 45)
}

func writeFormatSheet(f *excelize.File, style int, formats []database.VideoFormat) error {
	const sheet = "Video Formats"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Hearing ID", "Platform", "Player Type", "Video ID", "Streaming URL"}}
	for _, vf := range formats {
		rows = append(rows, []interface{}{vf.HearingID, vf.Platform, vf.PlayerType, vf.VideoID, vf.StreamingURL})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetColWidth(sheet, "E", "E", 50)
}

// writeRows fills a sheet row by row starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
