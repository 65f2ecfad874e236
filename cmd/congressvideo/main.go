// cmd/congressvideo/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/capitolscrape/congressvideo/internal/browser"
	"github.com/capitolscrape/congressvideo/internal/config"
	"github.com/capitolscrape/congressvideo/internal/database"
	"github.com/capitolscrape/congressvideo/internal/monitoring"
	"github.com/capitolscrape/congressvideo/internal/report"
	"github.com/capitolscrape/congressvideo/internal/scraper"
	"github.com/capitolscrape/congressvideo/internal/server"
	"github.com/capitolscrape/congressvideo/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "collect":
		run(runCollect)

	case "detect":
		run(runDetect)

	case "report":
		run(runReport)

	case "stats":
		run(runStats)

	case "serve":
		run(runServe)

	case "version", "--version", "-v":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// run loads configuration (the optional argument after the command names
// a YAML file) and executes one subcommand.
func run(fn func(cfg *config.Config, log utils.Logger) error) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))

	if err := fn(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if len(os.Args) > 2 {
		return config.LoadFromFile(os.Args[2])
	}
	return config.Default(), nil
}

func openDatabase(cfg *config.Config) (*database.DB, error) {
	return database.Open(database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
}

func newClient(cfg *config.Config) *scraper.Client {
	return scraper.NewClient(scraper.ClientConfig{
		Timeout:       cfg.Scraper.Timeout.Std(),
		RetryAttempts: cfg.Scraper.RetryAttempts,
		RetryDelay:    cfg.Scraper.RetryDelay.Std(),
		UserAgents:    cfg.Scraper.UserAgents,
		RateLimit:     cfg.Scraper.RateLimit,
		RateBurst:     cfg.Scraper.RateBurst,
	})
}

// runCollect walks the configured chambers and persists everything found.
func runCollect(cfg *config.Config, log utils.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := signalContext()
	client := newClient(cfg)
	metrics := monitoring.NewMetrics()
	store := scraper.NewDBStore(db)

	for _, chamber := range cfg.Scraper.Chambers {
		var chamberScraper scraper.CommitteeScraper
		switch chamber {
		case database.ChamberHouse:
			chamberScraper = scraper.NewHouseScraper(client, log)
		case database.ChamberSenate:
			chamberScraper = scraper.NewSenateScraper(client, log)
		default:
			return fmt.Errorf("unknown chamber: %s", chamber)
		}

		orch := scraper.NewOrchestrator(chamberScraper, store, log)
		orch.HearingSampleLimit = cfg.Scraper.HearingSampleLimit

		result, err := orch.ScrapeAll(ctx)
		if err != nil {
			log.Errorf("%s scrape failed: %v", chamber, err)
		}
		recordRunMetrics(metrics, chamber, result)
	}

	return nil
}

// recordRunMetrics converts one run's outcome into Prometheus counters.
func recordRunMetrics(metrics *monitoring.Metrics, chamber string, result *scraper.Result) {
	if result == nil {
		return
	}
	for _, l := range result.Logs {
		metrics.RecordScrapePhase(chamber, l.ScrapeType, l.ScrapeSeconds, l.Status == database.ScrapeFailed)
	}
	for _, vf := range result.VideoFormats {
		metrics.RecordFormat(vf.Platform, vf.PlayerType)
	}
	metrics.RecordHearings(chamber, len(result.Hearings))
}

// runDetect re-runs format detection over every stored hearing. With the
// browser enabled, detections without a streaming URL get a headless pass
// whose observed media requests are kept in the technical details.
func runDetect(cfg *config.Config, log utils.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	hearings, err := db.GetHearings(0, 0)
	if err != nil {
		return fmt.Errorf("failed to load hearings: %w", err)
	}

	ctx := signalContext()
	client := newClient(cfg)
	metrics := monitoring.NewMetrics()

	var inspector *browser.Inspector
	if cfg.Browser.Enabled {
		inspector, err = browser.NewInspector(&browser.Config{
			Enabled:   true,
			Headless:  cfg.Browser.Headless,
			Timeout:   cfg.Browser.Timeout.Std(),
			WaitDelay: cfg.Browser.WaitDelay.Std(),
		})
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer inspector.Close()
	}

	detected := 0
	for i := range hearings {
		hearing := &hearings[i]

		doc, err := client.FetchDocument(ctx, hearing.HearingURL)
		if err != nil {
			log.Warnf("failed to fetch %s: %v", hearing.HearingURL, err)
			continue
		}
		formats := scraper.DetectHearingFormats(doc, hearing.HearingURL, hearing.ID)

		for j := range formats {
			vf := &formats[j]
			if inspector != nil && vf.StreamingURL == "" {
				deepInspect(ctx, inspector, hearing.HearingURL, vf, log)
			}
			if _, err := db.InsertVideoFormat(vf); err != nil {
				log.Warnf("failed to save video format for %s: %v", hearing.HearingURL, err)
				metrics.RecordDBWrite("video_format", err)
				continue
			}
			metrics.RecordDBWrite("video_format", nil)
			metrics.RecordFormat(vf.Platform, vf.PlayerType)
			detected++
		}
	}

	log.Infof("detection complete: %d formats across %d hearings", detected, len(hearings))
	return nil
}

// deepInspect records rendered-page media requests on a format that the
// static pass could not resolve to a streaming URL.
func deepInspect(ctx context.Context, inspector *browser.Inspector, pageURL string, vf *database.VideoFormat, log utils.Logger) {
	inspection, err := inspector.Inspect(ctx, pageURL)
	if err != nil {
		log.Warnf("deep inspection failed for %s: %v", pageURL, err)
		return
	}
	if len(inspection.MediaRequests) == 0 {
		return
	}

	urls := make([]string, 0, len(inspection.MediaRequests))
	for _, mr := range inspection.MediaRequests {
		urls = append(urls, mr.URL)
	}
	if err := vf.SetTechnicalDetails(map[string]interface{}{
		"observed_media_urls": urls,
	}); err != nil {
		log.Warnf("failed to record media requests for %s: %v", pageURL, err)
	}
}

// runReport writes the JSON, Markdown, and Excel reports.
func runReport(cfg *config.Config, log utils.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	analysis, err := report.Analyze(db)
	if err != nil {
		return fmt.Errorf("failed to analyze catalog: %w", err)
	}
	formats, err := db.GetVideoFormats(0)
	if err != nil {
		return fmt.Errorf("failed to load video formats: %w", err)
	}

	for _, path := range []string{cfg.Report.JSONPath, cfg.Report.MarkdownPath, cfg.Report.ExcelPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
	}

	if err := report.WriteJSON(analysis, cfg.Report.JSONPath); err != nil {
		return err
	}
	if err := report.WriteMarkdown(analysis, cfg.Report.MarkdownPath); err != nil {
		return err
	}
	if err := report.WriteExcel(analysis, formats, cfg.Report.ExcelPath); err != nil {
		return err
	}

	log.Infof("reports written: %s, %s, %s",
		cfg.Report.JSONPath, cfg.Report.MarkdownPath, cfg.Report.ExcelPath)
	return nil
}

// runStats prints catalog totals and distributions.
func runStats(cfg *config.Config, log utils.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}

	fmt.Printf("Committees:     %d\n", stats.TotalCommittees)
	fmt.Printf("Subcommittees:  %d\n", stats.TotalSubcommittees)
	fmt.Printf("Hearings:       %d\n", stats.TotalHearings)
	fmt.Printf("Video formats:  %d\n", stats.TotalVideoFormats)

	if len(stats.CommitteesByChamber) > 0 {
		fmt.Println("\nCommittees by chamber:")
		for chamber, count := range stats.CommitteesByChamber {
			fmt.Printf("  %-8s %d\n", chamber, count)
		}
	}
	if len(stats.FormatsByPlatform) > 0 {
		fmt.Println("\nFormats by platform:")
		for platform, count := range stats.FormatsByPlatform {
			fmt.Printf("  %-10s %d\n", platform, count)
		}
	}
	return nil
}

// runServe starts the read-only stats API.
func runServe(cfg *config.Config, log utils.Logger) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	srv := server.New(db, log)
	log.Infof("listening on %s", cfg.Server.ListenAddress)
	return http.ListenAndServe(cfg.Server.ListenAddress, srv.Router())
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}

// printUsage displays help information.
func printUsage() {
	fmt.Println("congressvideo - Congressional Hearing Video Format Tracker")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  congressvideo collect [config.yaml]   Walk committee sites into the catalog")
	fmt.Println("  congressvideo detect [config.yaml]    Detect video formats for stored hearings")
	fmt.Println("  congressvideo report [config.yaml]    Write JSON, Markdown, and Excel reports")
	fmt.Println("  congressvideo stats [config.yaml]     Print catalog statistics")
	fmt.Println("  congressvideo serve [config.yaml]     Serve the read-only stats API")
	fmt.Println("  congressvideo version                 Show version information")
	fmt.Println("  congressvideo help                    Show this help message")
}

// printVersion displays version information.
func printVersion() {
	fmt.Printf("congressvideo %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
