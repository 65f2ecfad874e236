// internal/scraper/house.go
package scraper

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/detector"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

const (
	houseBaseURL       = "https://www.house.gov"
	houseCommitteesURL = "https://www.house.gov/committees"
)

// houseSubdomainRe pulls the committee code out of a committee's own
// subdomain (energycommerce.house.gov -> ENERGYCOMMERCE).
var houseSubdomainRe = regexp.MustCompile(`https?://([^.]+)\.house\.gov`)

// houseSkipWords filter out navigation links on the committees index that
// would otherwise look like committees.
var houseSkipWords = []string{"home", "skip", "search", "view", "house.gov"}

// hearingKeywords mark a link as a hearing, markup, or meeting page.
var hearingKeywords = []string{"hearing", "markup", "meeting"}

// HouseScraper walks www.house.gov. House committees live on their own
// subdomains, so the committee index is a list of external links rather
// than a structured table.
type HouseScraper struct {
	client *Client
	log    utils.Logger
}

// NewHouseScraper creates a House scraper using the given fetch client.
func NewHouseScraper(client *Client, log utils.Logger) *HouseScraper {
	return &HouseScraper{
		client: client,
		log:    log.WithField("chamber", database.ChamberHouse),
	}
}

func (s *HouseScraper) Chamber() string       { return database.ChamberHouse }
func (s *HouseScraper) CommitteesURL() string { return houseCommitteesURL }

// ScrapeCommittees collects the committee list from the House committees
// index, deduplicated by official URL.
func (s *HouseScraper) ScrapeCommittees(ctx context.Context) ([]database.Committee, error) {
	doc, err := s.client.FetchDocument(ctx, houseCommitteesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch House committees index: %w", err)
	}

	committees := parseHouseCommittees(doc)
	s.log.Infof("found %d House committees", len(committees))
	return committees, nil
}

// parseHouseCommittees extracts committees from the index document.
func parseHouseCommittees(doc *goquery.Document) []database.Committee {
	seen := make(map[string]bool)
	var committees []database.Committee

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := utils.CleanText(sel.Text())

		if !strings.Contains(href, ".house.gov") || len(text) <= 3 {
			return
		}
		lowered := strings.ToLower(text)
		for _, skip := range houseSkipWords {
			if strings.Contains(lowered, skip) {
				return
			}
		}

		name := strings.TrimSpace(strings.ReplaceAll(text, "(link is external)", ""))
		if name == "" {
			return
		}

		committeeURL := utils.NormalizeURL(href, houseBaseURL)
		if seen[committeeURL] {
			return
		}
		seen[committeeURL] = true

		code := ""
		if m := houseSubdomainRe.FindStringSubmatch(href); m != nil {
			code = strings.ToUpper(m[1])
		}

		committees = append(committees, database.Committee{
			Name:          name,
			Chamber:       database.ChamberHouse,
			OfficialURL:   committeeURL,
			CommitteeCode: code,
			Description:   "House Committee on " + name,
		})
	})

	return committees
}

// ScrapeSubcommittees collects subcommittee links from a committee's site.
func (s *HouseScraper) ScrapeSubcommittees(ctx context.Context, committee *database.Committee) ([]database.Subcommittee, error) {
	doc, err := s.client.FetchDocument(ctx, committee.OfficialURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch committee page %s: %w", committee.OfficialURL, err)
	}
	return scrapeSubcommitteeLinks(doc, committee, houseBaseURL, "House"), nil
}

// ScrapeHearings collects hearing links from a committee or subcommittee
// page.
func (s *HouseScraper) ScrapeHearings(ctx context.Context, committee *database.Committee, sub *database.Subcommittee) ([]database.Hearing, error) {
	targetURL := committee.OfficialURL
	if sub != nil {
		targetURL = sub.OfficialURL
	}

	doc, err := s.client.FetchDocument(ctx, targetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hearings page %s: %w", targetURL, err)
	}
	return scrapeHearingLinks(doc, committee, sub, houseBaseURL), nil
}

// ScrapeHearingVideo fetches a hearing page and runs format detection,
// attaching the hearing's ID to every record.
func (s *HouseScraper) ScrapeHearingVideo(ctx context.Context, hearing *database.Hearing) ([]database.VideoFormat, error) {
	return scrapeHearingVideo(ctx, s.client, hearing)
}

// scrapeSubcommitteeLinks is shared by both chambers: subcommittee pages
// are link-scraped the same way on House and Senate sites.
func scrapeSubcommitteeLinks(doc *goquery.Document, committee *database.Committee, baseURL, chamberLabel string) []database.Subcommittee {
	var subs []database.Subcommittee

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := utils.CleanText(sel.Text())
		if text == "" {
			return
		}
		if !strings.Contains(strings.ToLower(href), "subcommittee") &&
			!strings.Contains(strings.ToLower(text), "subcommittee") {
			return
		}

		name := strings.TrimSpace(strings.ReplaceAll(text, "Subcommittee on ", ""))
		name = strings.TrimSpace(strings.ReplaceAll(name, "Subcommittee", ""))
		if name == "" || committee.ID == 0 {
			return
		}

		subs = append(subs, database.Subcommittee{
			Name:              name,
			ParentCommitteeID: committee.ID,
			OfficialURL:       utils.NormalizeURL(href, baseURL),
			SubcommitteeCode:  utils.ExtractCommitteeCode(text),
			Description:       chamberLabel + " " + text,
		})
	})

	return subs
}

// scrapeHearingLinks is shared by both chambers: hearing listings are
// identified by keywords in the link target.
func scrapeHearingLinks(doc *goquery.Document, committee *database.Committee, sub *database.Subcommittee, baseURL string) []database.Hearing {
	var hearings []database.Hearing

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := utils.CleanText(sel.Text())
		if text == "" {
			return
		}

		lowered := strings.ToLower(href)
		matched := false
		for _, kw := range hearingKeywords {
			if strings.Contains(lowered, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}

		title := text
		if len(title) > 200 {
			title = title[:200]
		}

		h := database.Hearing{
			CommitteeID: sql.NullInt64{Int64: committee.ID, Valid: committee.ID != 0},
			Title:       title,
			HearingDate: parseHearingDate(utils.ExtractDatePatterns(text)),
			HearingURL:  utils.NormalizeURL(href, baseURL),
			Status:      database.StatusScheduled,
		}
		if sub != nil {
			h.SubcommitteeID = sql.NullInt64{Int64: sub.ID, Valid: sub.ID != 0}
		}
		hearings = append(hearings, h)
	})

	return hearings
}

// scrapeHearingVideo fetches the hearing page and converts detections into
// persistable rows.
func scrapeHearingVideo(ctx context.Context, client *Client, hearing *database.Hearing) ([]database.VideoFormat, error) {
	doc, err := client.FetchDocument(ctx, hearing.HearingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hearing page %s: %w", hearing.HearingURL, err)
	}
	return DetectHearingFormats(doc, hearing.HearingURL, hearing.ID), nil
}

// DetectHearingFormats runs format detection over a hearing page document
// and stamps each record with the hearing's ID.
func DetectHearingFormats(doc *goquery.Document, pageURL string, hearingID int64) []database.VideoFormat {
	detected := detector.Detect(doc, pageURL)

	formats := make([]database.VideoFormat, 0, len(detected))
	for _, df := range detected {
		formats = append(formats, detectedToVideoFormat(hearingID, df))
	}
	return formats
}
