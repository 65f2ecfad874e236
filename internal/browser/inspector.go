// internal/browser/inspector.go

// Package browser escalates format detection for hearing pages whose
// players are built by JavaScript. A headless Chrome pass renders the
// page, re-runs detection over the final DOM, and records the media
// requests the player actually issued.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/capitolscrape/congressvideo/internal/detector"
)

// Config controls the headless browser pass.
type Config struct {
	Enabled   bool
	Headless  bool
	Timeout   time.Duration
	WaitDelay time.Duration
	UserAgent string
}

// DefaultConfig returns a disabled-by-default configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   false,
		Headless:  true,
		Timeout:   60 * time.Second,
		WaitDelay: 5 * time.Second,
	}
}

// MediaRequest is one network response observed during rendering that
// looks like media: a manifest, a media file, or a video/audio MIME type.
type MediaRequest struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Kind     string `json:"kind"` // manifest, video_file, audio_file, media_stream
}

// Inspection is the outcome of one deep pass over a hearing page.
type Inspection struct {
	PageURL       string                    `json:"page_url"`
	Formats       []detector.DetectedFormat `json:"formats"`
	MediaRequests []MediaRequest            `json:"media_requests"`
}

// Inspector owns a headless Chrome allocator shared across inspections.
type Inspector struct {
	config   *Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewInspector starts a Chrome allocator. Callers must Close it.
func NewInspector(config *Config) (*Inspector, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.Enabled {
		return nil, fmt.Errorf("browser inspection is not enabled")
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // Required for Docker environments
	}
	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(config.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Inspector{
		config:   config,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Inspect renders a hearing page, captures its media traffic, and re-runs
// format detection over the rendered DOM. Script-driven players that hide
// from the static pass usually surface here.
func (i *Inspector) Inspect(ctx context.Context, pageURL string) (*Inspection, error) {
	tabCtx, cancelTab := chromedp.NewContext(i.allocCtx)
	defer cancelTab()

	timeout := i.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var (
		mu       sync.Mutex
		requests []MediaRequest
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		if mr, ok := classifyResponse(resp.Response.URL, resp.Response.MimeType); ok {
			mu.Lock()
			requests = append(requests, mr)
			mu.Unlock()
		}
	})

	tasks := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	}
	if i.config.WaitDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(i.config.WaitDelay))
	}
	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(tabCtx, tasks...); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	mu.Lock()
	observed := make([]MediaRequest, len(requests))
	copy(observed, requests)
	mu.Unlock()

	return &Inspection{
		PageURL:       pageURL,
		Formats:       detector.Detect(doc, pageURL),
		MediaRequests: observed,
	}, nil
}

// Close shuts the allocator down.
func (i *Inspector) Close() error {
	if i.cancel != nil {
		i.cancel()
	}
	return nil
}

// classifyResponse buckets a network response by URL extension first and
// MIME type second, mirroring how media traffic is triaged by hand.
func classifyResponse(rawURL, mimeType string) (MediaRequest, bool) {
	lowered := strings.ToLower(rawURL)
	mime := strings.ToLower(mimeType)

	kind := ""
	switch {
	case containsAny(lowered, ".m3u8", ".mpd", ".f4m"):
		kind = "manifest"
	case containsAny(lowered, ".mp4", ".webm", ".mov", ".avi"):
		kind = "video_file"
	case containsAny(lowered, ".mp3", ".aac", ".wav", ".m4a"):
		kind = "audio_file"
	case strings.Contains(mime, "video") || strings.Contains(mime, "audio"):
		kind = "media_stream"
	default:
		return MediaRequest{}, false
	}

	return MediaRequest{URL: rawURL, MimeType: mimeType, Kind: kind}, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
