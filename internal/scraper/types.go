// internal/scraper/types.go

// Package scraper walks House and Senate committee sites and feeds each
// hearing page to the video format detector. The drivers own site
// structure and network concerns; detection itself stays pure.
package scraper

import (
	"context"
	"database/sql"
	"time"

	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/detector"
)

// CommitteeScraper is implemented per chamber. Both drivers share the
// fetch client and the detector; they differ only in how each chamber's
// site lays out its committee and hearing listings.
type CommitteeScraper interface {
	Chamber() string
	CommitteesURL() string
	ScrapeCommittees(ctx context.Context) ([]database.Committee, error)
	ScrapeSubcommittees(ctx context.Context, committee *database.Committee) ([]database.Subcommittee, error)
	ScrapeHearings(ctx context.Context, committee *database.Committee, sub *database.Subcommittee) ([]database.Hearing, error)
	ScrapeHearingVideo(ctx context.Context, hearing *database.Hearing) ([]database.VideoFormat, error)
}

// Result accumulates everything one full scrape found, plus a log row per
// phase. When the orchestrator has a store, rows are persisted as they are
// discovered and carry their assigned IDs here.
type Result struct {
	Committees    []database.Committee
	Subcommittees []database.Subcommittee
	Hearings      []database.Hearing
	VideoFormats  []database.VideoFormat
	Logs          []database.ScrapeLog
}

// hearingDateLayout is the only date form parsed into a real timestamp;
// the other extracted shapes are kept as advisory strings.
const hearingDateLayout = "1/2/2006"

// detectedToVideoFormat copies a transient detection into the persisted
// shape. The detector carries no hearing context, so the hearing ID is
// attached here. YouTube detections keep their canonical URL compositions
// in the technical details column.
func detectedToVideoFormat(hearingID int64, df detector.DetectedFormat) database.VideoFormat {
	vf := database.VideoFormat{
		HearingID:    hearingID,
		Platform:     string(df.Platform),
		VideoID:      df.VideoID,
		EmbedCode:    df.EmbedCode,
		StreamingURL: df.StreamingURL,
		PlayerType:   string(df.PlayerType),
	}

	if df.Platform == detector.PlatformYouTube {
		vf.SetTechnicalDetails(map[string]interface{}{
			"embed_url": df.EmbedURL,
			"watch_url": df.WatchURL,
		})
	}

	return vf
}

// parseHearingDate parses the first extracted date string against the
// MM/DD/YYYY layout. Anything unparseable leaves the field null rather
// than failing the hearing.
func parseHearingDate(dates []string) sql.NullTime {
	if len(dates) == 0 {
		return sql.NullTime{}
	}
	t, err := time.Parse(hearingDateLayout, dates[0])
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
