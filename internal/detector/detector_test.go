// internal/detector/detector_test.go
package detector

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture HTML: %v", err)
	}
	return doc
}

func TestDetect_YouTubeIframe(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<iframe src="https://www.youtube.com/embed/abc123XYZ_-" width="560"></iframe>
	</body></html>`)

	formats := Detect(doc, "https://energycommerce.house.gov/hearings/1")

	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	f := formats[0]
	if f.Platform != PlatformYouTube {
		t.Errorf("platform = %q, want youtube", f.Platform)
	}
	if f.VideoID != "abc123XYZ_-" {
		t.Errorf("video ID = %q, want abc123XYZ_-", f.VideoID)
	}
	if f.PlayerType != PlayerEmbedded {
		t.Errorf("player type = %q, want embedded", f.PlayerType)
	}
	if f.StreamingURL != "https://www.youtube.com/embed/abc123XYZ_-" {
		t.Errorf("streaming URL = %q, want iframe src", f.StreamingURL)
	}
	if f.EmbedURL != "https://www.youtube.com/embed/abc123XYZ_-" {
		t.Errorf("embed URL = %q", f.EmbedURL)
	}
	if f.WatchURL != "https://www.youtube.com/watch?v=abc123XYZ_-" {
		t.Errorf("watch URL = %q", f.WatchURL)
	}
	if !strings.Contains(f.EmbedCode, "<iframe") {
		t.Errorf("embed code %q does not contain the iframe markup", f.EmbedCode)
	}
}

func TestDetect_VimeoIframe(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<iframe src="https://player.vimeo.com/video/76979871"></iframe>
	</body></html>`)

	formats := Detect(doc, "https://judiciary.senate.gov/hearings/2")

	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	f := formats[0]
	if f.Platform != PlatformVimeo || f.VideoID != "76979871" {
		t.Errorf("got %q/%q, want vimeo/76979871", f.Platform, f.VideoID)
	}
	if f.PlayerType != PlayerEmbedded {
		t.Errorf("player type = %q, want embedded", f.PlayerType)
	}
}

// YouTube is tried before Vimeo for each iframe, and only the first
// platform to match fires.
func TestDetect_FirstPlatformWins(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<iframe src="https://www.youtube.com/embed/first111"></iframe>
		<iframe src="https://vimeo.com/video/222"></iframe>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(formats))
	}
	if formats[0].Platform != PlatformYouTube {
		t.Errorf("formats[0].Platform = %q, want youtube", formats[0].Platform)
	}
	if formats[1].Platform != PlatformVimeo {
		t.Errorf("formats[1].Platform = %q, want vimeo", formats[1].Platform)
	}
}

func TestDetect_CustomIframeFallback(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"src containing video", "https://cdn.example.gov/video/player?id=9", 1},
		{"src containing stream", "https://live.example.gov/stream/44", 1},
		{"src containing media", "https://example.gov/media-embed/7", 1},
		{"no indicator at all", "https://www.example.gov/widgets/weather", 0},
		// The indicator test is case-sensitive by design; this is a
		// known-imprecise heuristic preserved as-is.
		{"uppercase Video does not match", "https://example.gov/Video/3", 0},
		// Over-match: "video" inside an unrelated analytics path still
		// counts. Accepted imprecision, flagged here rather than fixed.
		{"analytics url containing video", "https://analytics.example.com/track?page=video-index", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, `<html><body><iframe src="`+tt.src+`"></iframe></body></html>`)
			formats := Detect(doc, "")
			if len(formats) != tt.want {
				t.Fatalf("got %d formats, want %d", len(formats), tt.want)
			}
			if tt.want == 1 {
				f := formats[0]
				if f.Platform != PlatformCustom {
					t.Errorf("platform = %q, want custom", f.Platform)
				}
				if f.VideoID != "" {
					t.Errorf("video ID = %q, want empty", f.VideoID)
				}
				if f.PlayerType != PlayerEmbedded {
					t.Errorf("player type = %q, want embedded", f.PlayerType)
				}
				if f.StreamingURL != tt.src {
					t.Errorf("streaming URL = %q, want %q", f.StreamingURL, tt.src)
				}
			}
		})
	}
}

func TestDetect_NativeVideo(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<video src="https://example.gov/hearing.mp4" controls></video>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	f := formats[0]
	if f.Platform != PlatformHTML5 {
		t.Errorf("platform = %q, want html5", f.Platform)
	}
	if f.PlayerType != PlayerNative {
		t.Errorf("player type = %q, want native", f.PlayerType)
	}
	if f.StreamingURL != "https://example.gov/hearing.mp4" {
		t.Errorf("streaming URL = %q", f.StreamingURL)
	}
}

func TestDetect_VideoWithoutSrcSkipped(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<video controls><source src="https://example.gov/a.mp4"></video>
	</body></html>`)

	if formats := Detect(doc, ""); len(formats) != 0 {
		t.Fatalf("got %d formats, want 0 for <video> without src attribute", len(formats))
	}
}

func TestDetect_JWPlayerScript(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<div id="player"></div>
		<script>jwplayer("player").setup({file: "rtmp://hidden"});</script>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	f := formats[0]
	if f.Platform != PlatformJWPlayer {
		t.Errorf("platform = %q, want jwplayer", f.Platform)
	}
	if f.PlayerType != PlayerJavaScript {
		t.Errorf("player type = %q, want javascript", f.PlayerType)
	}
	if f.StreamingURL != "" {
		t.Errorf("streaming URL = %q, want empty for script-driven player", f.StreamingURL)
	}
	if !f.NeedsDeepInspection() {
		t.Error("script-driven detection should flag deep inspection")
	}
}

func TestDetect_VideoJSScript(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>var player = videojs('hearing-player');</script>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 1 || formats[0].Platform != PlatformVideoJS {
		t.Fatalf("got %+v, want one videojs record", formats)
	}
}

// Keyword matching is case-insensitive on the script content.
func TestDetect_ScriptKeywordCaseInsensitive(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>JWPlayer("p").setup({});</script>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 1 || formats[0].Platform != PlatformJWPlayer {
		t.Fatalf("got %+v, want one jwplayer record", formats)
	}
}

// jwplayer is checked before videojs; a script mentioning both yields a
// single jwplayer record.
func TestDetect_FirstScriptKeywordWins(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>videojs fallback; jwplayer("p").setup({});</script>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	if formats[0].Platform != PlatformJWPlayer {
		t.Errorf("platform = %q, want jwplayer", formats[0].Platform)
	}
}

func TestDetect_UnrelatedScriptIgnored(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>console.log("page analytics");</script>
		<script src="https://example.gov/app.js"></script>
	</body></html>`)

	if formats := Detect(doc, ""); len(formats) != 0 {
		t.Fatalf("got %d formats, want 0", len(formats))
	}
}

func TestDetect_EmptyDocument(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>No video on this hearing page.</p></body></html>`)

	if formats := Detect(doc, ""); len(formats) != 0 {
		t.Fatalf("got %d formats, want 0 for empty document", len(formats))
	}
}

// Output preserves groupwise order: iframe records, then native video
// records, then script records, regardless of document position.
func TestDetect_GroupwiseOrder(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<script>jwplayer("p").setup({});</script>
		<video src="https://example.gov/h.mp4"></video>
		<iframe src="https://www.youtube.com/embed/zzz999"></iframe>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 3 {
		t.Fatalf("got %d formats, want 3", len(formats))
	}
	wantOrder := []PlayerType{PlayerEmbedded, PlayerNative, PlayerJavaScript}
	for i, want := range wantOrder {
		if formats[i].PlayerType != want {
			t.Errorf("formats[%d].PlayerType = %q, want %q", i, formats[i].PlayerType, want)
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<iframe src="https://www.youtube.com/embed/repeat01"></iframe>
		<video src="https://example.gov/h.mp4"></video>
		<script>videojs('p');</script>
	</body></html>`)

	first := Detect(doc, "https://example.gov/hearing")
	second := Detect(doc, "https://example.gov/hearing")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated detection differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDetect_MixedPage(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<iframe src="https://www.youtube.com/embed/hear1234"></iframe>
		<iframe src="https://www.example.gov/schedule-widget"></iframe>
		<iframe src="https://stream.example.gov/stream/archive/55"></iframe>
		<video src="https://example.gov/backup.mp4"></video>
		<script>window.settings = {};</script>
		<script>jwplayer("live").setup({});</script>
	</body></html>`)

	formats := Detect(doc, "")

	if len(formats) != 4 {
		t.Fatalf("got %d formats, want 4", len(formats))
	}

	wantPlatforms := []Platform{PlatformYouTube, PlatformCustom, PlatformHTML5, PlatformJWPlayer}
	for i, want := range wantPlatforms {
		if formats[i].Platform != want {
			t.Errorf("formats[%d].Platform = %q, want %q", i, formats[i].Platform, want)
		}
	}
}
