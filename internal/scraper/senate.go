// internal/scraper/senate.go
package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

const (
	senateBaseURL       = "https://www.senate.gov"
	senateCommitteesURL = "https://www.senate.gov/committees/"
)

var senateSubdomainRe = regexp.MustCompile(`https?://([^.]+)\.senate\.gov`)

// SenateScraper walks www.senate.gov. Unlike the House index, the Senate
// publishes its committees in a structured table with chair and ranking
// member columns.
type SenateScraper struct {
	client *Client
	log    utils.Logger
}

// NewSenateScraper creates a Senate scraper using the given fetch client.
func NewSenateScraper(client *Client, log utils.Logger) *SenateScraper {
	return &SenateScraper{
		client: client,
		log:    log.WithField("chamber", database.ChamberSenate),
	}
}

func (s *SenateScraper) Chamber() string       { return database.ChamberSenate }
func (s *SenateScraper) CommitteesURL() string { return senateCommitteesURL }

// ScrapeCommittees parses the Senate committees table. Chair and ranking
// member names from the second and third columns enrich the description.
func (s *SenateScraper) ScrapeCommittees(ctx context.Context) ([]database.Committee, error) {
	doc, err := s.client.FetchDocument(ctx, senateCommitteesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Senate committees index: %w", err)
	}

	committees := parseSenateCommittees(doc)
	s.log.Infof("found %d Senate committees", len(committees))
	return committees, nil
}

// parseSenateCommittees extracts committees from the first table of the
// index document, skipping the header row.
func parseSenateCommittees(doc *goquery.Document) []database.Committee {
	var committees []database.Committee

	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// header row
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		link := cells.Eq(0).Find("a[href]").First()
		href, ok := link.Attr("href")
		name := utils.CleanText(link.Text())
		if !ok || href == "" || len(name) < 3 {
			return
		}

		committees = append(committees, database.Committee{
			Name:          name,
			Chamber:       database.ChamberSenate,
			OfficialURL:   utils.NormalizeURL(href, senateBaseURL),
			CommitteeCode: senateCommitteeCode(href, name),
			Description:   senateCommitteeDescription(name, cells),
		})
	})

	return committees
}

// ScrapeSubcommittees collects subcommittee links from a committee's site.
func (s *SenateScraper) ScrapeSubcommittees(ctx context.Context, committee *database.Committee) ([]database.Subcommittee, error) {
	doc, err := s.client.FetchDocument(ctx, committee.OfficialURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch committee page %s: %w", committee.OfficialURL, err)
	}
	return scrapeSubcommitteeLinks(doc, committee, senateBaseURL, "Senate"), nil
}

// ScrapeHearings collects hearing links from a committee or subcommittee
// page.
func (s *SenateScraper) ScrapeHearings(ctx context.Context, committee *database.Committee, sub *database.Subcommittee) ([]database.Hearing, error) {
	targetURL := committee.OfficialURL
	if sub != nil {
		targetURL = sub.OfficialURL
	}

	doc, err := s.client.FetchDocument(ctx, targetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hearings page %s: %w", targetURL, err)
	}
	return scrapeHearingLinks(doc, committee, sub, senateBaseURL), nil
}

// ScrapeHearingVideo fetches a hearing page and runs format detection.
func (s *SenateScraper) ScrapeHearingVideo(ctx context.Context, hearing *database.Hearing) ([]database.VideoFormat, error) {
	return scrapeHearingVideo(ctx, s.client, hearing)
}

// senateCommitteeCode derives a code from the committee's subdomain, or
// falls back to the initials of the first three words of its name.
func senateCommitteeCode(href, name string) string {
	if !strings.Contains(href, "senate.gov") {
		return ""
	}
	if m := senateSubdomainRe.FindStringSubmatch(href); m != nil {
		return strings.ToUpper(m[1])
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return ""
	}
	if len(words) > 3 {
		words = words[:3]
	}
	var code strings.Builder
	for _, w := range words {
		code.WriteByte(w[0])
	}
	return strings.ToUpper(code.String())
}

// senateCommitteeDescription builds a description, appending chair and
// ranking member names when the table carries them.
func senateCommitteeDescription(name string, cells *goquery.Selection) string {
	desc := "Senate Committee on " + name

	if cells.Length() > 1 {
		if chair := utils.CleanText(cells.Eq(1).Find("a").First().Text()); chair != "" {
			desc += " - Chair: " + chair
		}
	}
	if cells.Length() > 2 {
		if ranking := utils.CleanText(cells.Eq(2).Find("a").First().Text()); ranking != "" {
			desc += " - Ranking Member: " + ranking
		}
	}
	return desc
}
