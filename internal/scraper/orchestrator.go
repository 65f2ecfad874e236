// internal/scraper/orchestrator.go
package scraper

import (
	"context"
	"time"

	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

// Scrape type labels recorded in scrape logs.
const (
	ScrapeTypeCommittee       = "committee"
	ScrapeTypeCommitteeDetail = "committee_detail"
	ScrapeTypeVideo           = "video"
	ScrapeTypeFull            = "full_scrape"
)

// DefaultHearingSampleLimit caps how many hearings get a video pass in one
// run, so a full committee walk does not hammer every hearing page.
const DefaultHearingSampleLimit = 10

// Store persists records as the walk discovers them, assigning each its
// database ID in place. Subcommittees need their parent committee's ID
// and video formats need their hearing's ID, so persistence has to happen
// mid-walk rather than at the end.
type Store interface {
	SaveCommittee(c *database.Committee) error
	SaveSubcommittee(s *database.Subcommittee) error
	SaveHearing(h *database.Hearing) error
	SaveVideoFormat(vf *database.VideoFormat) error
	SaveScrapeLog(l *database.ScrapeLog) error
}

// dbStore adapts the database layer to the Store interface.
type dbStore struct {
	db *database.DB
}

// NewDBStore wraps a database handle for use by the orchestrator.
func NewDBStore(db *database.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) SaveCommittee(c *database.Committee) error {
	id, err := s.db.InsertCommittee(c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *dbStore) SaveSubcommittee(sub *database.Subcommittee) error {
	id, err := s.db.InsertSubcommittee(sub)
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

func (s *dbStore) SaveHearing(h *database.Hearing) error {
	id, err := s.db.InsertHearing(h)
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (s *dbStore) SaveVideoFormat(vf *database.VideoFormat) error {
	id, err := s.db.InsertVideoFormat(vf)
	if err != nil {
		return err
	}
	vf.ID = id
	return nil
}

func (s *dbStore) SaveScrapeLog(l *database.ScrapeLog) error {
	id, err := s.db.InsertScrapeLog(l)
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// Orchestrator drives one chamber scraper through the full walk:
// committees, their subcommittees, hearings for both, then a sampled
// video-format pass. Failures of one committee or hearing are logged and
// do not abort the run.
type Orchestrator struct {
	scraper CommitteeScraper
	store   Store
	log     utils.Logger

	// HearingSampleLimit bounds the video pass; <= 0 means unlimited.
	HearingSampleLimit int
}

// NewOrchestrator wires a chamber scraper to an orchestrator. A nil store
// keeps the walk in memory; records then carry no database IDs and the
// video pass is skipped for hearings without one.
func NewOrchestrator(scraper CommitteeScraper, store Store, log utils.Logger) *Orchestrator {
	return &Orchestrator{
		scraper:            scraper,
		store:              store,
		log:                log.WithField("chamber", scraper.Chamber()),
		HearingSampleLimit: DefaultHearingSampleLimit,
	}
}

// ScrapeAll runs the full walk and returns everything found along with a
// scrape log row per phase. Only a failure of the initial committee index
// fetch aborts; every later failure is recorded and skipped.
func (o *Orchestrator) ScrapeAll(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	committees, err := o.scraper.ScrapeCommittees(ctx)
	if err != nil {
		o.appendLog(result, failLog(o.scraper.CommitteesURL(), ScrapeTypeFull, err, start))
		return result, err
	}
	if o.store != nil {
		for i := range committees {
			if err := o.store.SaveCommittee(&committees[i]); err != nil {
				o.log.Warnf("failed to save committee %s: %v", committees[i].Name, err)
			}
		}
	}
	result.Committees = committees
	o.appendLog(result, successLog(o.scraper.CommitteesURL(), ScrapeTypeCommittee, len(committees), start))

	for i := range result.Committees {
		o.scrapeCommitteeDetail(ctx, result, &result.Committees[i])
	}

	o.scrapeVideoSample(ctx, result)

	o.log.Infof("scrape complete: %d committees, %d subcommittees, %d hearings, %d video formats",
		len(result.Committees), len(result.Subcommittees), len(result.Hearings), len(result.VideoFormats))
	return result, nil
}

// scrapeCommitteeDetail walks one committee's subcommittees and hearings.
func (o *Orchestrator) scrapeCommitteeDetail(ctx context.Context, result *Result, committee *database.Committee) {
	committeeStart := time.Now()

	subs, err := o.scraper.ScrapeSubcommittees(ctx, committee)
	if err != nil {
		o.log.Warnf("subcommittee scrape failed for %s: %v", committee.Name, err)
		o.appendLog(result, failLog(committee.OfficialURL, ScrapeTypeCommitteeDetail, err, committeeStart))
		return
	}
	for i := range subs {
		if o.store != nil {
			if err := o.store.SaveSubcommittee(&subs[i]); err != nil {
				o.log.Warnf("failed to save subcommittee %s: %v", subs[i].Name, err)
				continue
			}
		}
		result.Subcommittees = append(result.Subcommittees, subs[i])
	}

	hearings, err := o.scraper.ScrapeHearings(ctx, committee, nil)
	if err != nil {
		o.log.Warnf("hearing scrape failed for %s: %v", committee.Name, err)
		o.appendLog(result, failLog(committee.OfficialURL, ScrapeTypeCommitteeDetail, err, committeeStart))
		return
	}
	o.saveHearings(result, hearings)

	for i := range subs {
		sub := &subs[i]
		subHearings, err := o.scraper.ScrapeHearings(ctx, committee, sub)
		if err != nil {
			o.log.Warnf("hearing scrape failed for subcommittee %s: %v", sub.Name, err)
			continue
		}
		o.saveHearings(result, subHearings)
	}

	o.appendLog(result, successLog(committee.OfficialURL, ScrapeTypeCommitteeDetail, len(subs)+len(hearings), committeeStart))
}

// scrapeVideoSample runs format detection over at most HearingSampleLimit
// hearings, logging each page separately.
func (o *Orchestrator) scrapeVideoSample(ctx context.Context, result *Result) {
	hearings := result.Hearings
	if o.HearingSampleLimit > 0 && len(hearings) > o.HearingSampleLimit {
		hearings = hearings[:o.HearingSampleLimit]
	}

	for i := range hearings {
		hearing := &hearings[i]
		if o.store != nil && hearing.ID == 0 {
			continue
		}
		hearingStart := time.Now()

		formats, err := o.scraper.ScrapeHearingVideo(ctx, hearing)
		if err != nil {
			o.log.Warnf("video scrape failed for %s: %v", hearing.HearingURL, err)
			o.appendLog(result, failLog(hearing.HearingURL, ScrapeTypeVideo, err, hearingStart))
			continue
		}
		for j := range formats {
			if o.store != nil {
				if err := o.store.SaveVideoFormat(&formats[j]); err != nil {
					o.log.Warnf("failed to save video format for %s: %v", hearing.HearingURL, err)
					continue
				}
			}
			result.VideoFormats = append(result.VideoFormats, formats[j])
		}
		o.appendLog(result, successLog(hearing.HearingURL, ScrapeTypeVideo, len(formats), hearingStart))
	}
}

// saveHearings persists and accumulates one page's hearing rows.
func (o *Orchestrator) saveHearings(result *Result, hearings []database.Hearing) {
	for i := range hearings {
		if o.store != nil {
			if err := o.store.SaveHearing(&hearings[i]); err != nil {
				o.log.Warnf("failed to save hearing %q: %v", hearings[i].Title, err)
				continue
			}
		}
		result.Hearings = append(result.Hearings, hearings[i])
	}
}

// appendLog records a phase log row, persisting it when a store is set.
func (o *Orchestrator) appendLog(result *Result, l database.ScrapeLog) {
	if o.store != nil {
		if err := o.store.SaveScrapeLog(&l); err != nil {
			o.log.Warnf("failed to save scrape log for %s: %v", l.TargetURL, err)
		}
	}
	result.Logs = append(result.Logs, l)
}

func successLog(targetURL, scrapeType string, records int, start time.Time) database.ScrapeLog {
	return database.ScrapeLog{
		TargetURL:     targetURL,
		ScrapeType:    scrapeType,
		Status:        database.ScrapeSuccess,
		RecordsFound:  records,
		ScrapeSeconds: time.Since(start).Seconds(),
	}
}

func failLog(targetURL, scrapeType string, err error, start time.Time) database.ScrapeLog {
	return database.ScrapeLog{
		TargetURL:     targetURL,
		ScrapeType:    scrapeType,
		Status:        database.ScrapeFailed,
		ErrorMessage:  err.Error(),
		ScrapeSeconds: time.Since(start).Seconds(),
	}
}
