// internal/detector/detector.go

// Package detector classifies the video streaming technology embedded in
// committee hearing pages. Committee sites share no schema: some embed
// YouTube or Vimeo iframes, some serve plain HTML5 video, and many drive a
// JWPlayer or Video.js instance from inline script with no observable
// source URL. Detection runs over already-fetched, already-parsed markup
// and degrades gracefully: anything with video evidence but no recognized
// platform becomes a "custom" record instead of an error.
package detector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// streamingIndicators is the substring fallback for iframes that match no
// known platform. Case-sensitive literals, inherited as-is: the heuristic
// both under- and over-matches (an analytics domain containing "video"
// will hit), and that imprecision is intentional best-effort behavior.
var streamingIndicators = []string{"video", "stream", "media"}

// scriptPlatforms maps player-library keywords to platforms, in the order
// they are tested. Only the first keyword to match fires for a given
// script element.
var scriptPlatforms = []struct {
	keyword  string
	platform Platform
}{
	{"jwplayer", PlatformJWPlayer},
	{"videojs", PlatformVideoJS},
}

// Detect scans a parsed hearing page for embedded video and returns every
// format found, in scan order: iframe-derived matches first, then native
// video elements, then script-derived matches. The order reflects the scan
// passes, not confidence. Detect is pure and never fails: malformed or
// attribute-less elements are skipped, and a page with no video evidence
// yields an empty slice. pageURL is retained for identifier context; the
// src values committee sites emit are already absolute in practice.
func Detect(doc *goquery.Document, pageURL string) []DetectedFormat {
	var formats []DetectedFormat

	formats = append(formats, scanIframes(doc)...)
	formats = append(formats, scanVideoElements(doc)...)
	formats = append(formats, scanScripts(doc)...)

	return formats
}

// scanIframes classifies iframe embeds. Platforms are tried in fixed order
// (YouTube before Vimeo) and the first hit wins. Iframes matching no
// platform fall through to the streaming-indicator substring check; those
// matching nothing at all are dropped silently.
func scanIframes(doc *goquery.Document) []DetectedFormat {
	var formats []DetectedFormat

	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}

		embedCode := outerHTML(sel)

		if match := IdentifyYouTube(src); match != nil {
			formats = append(formats, embeddedFormat(match, embedCode, src))
			return
		}
		if match := IdentifyVimeo(src); match != nil {
			formats = append(formats, embeddedFormat(match, embedCode, src))
			return
		}

		for _, indicator := range streamingIndicators {
			if strings.Contains(src, indicator) {
				formats = append(formats, DetectedFormat{
					Platform:     PlatformCustom,
					EmbedCode:    embedCode,
					StreamingURL: src,
					PlayerType:   PlayerEmbedded,
				})
				return
			}
		}
	})

	return formats
}

// scanVideoElements emits an html5 record for every <video> carrying a src.
// No further classification is attempted for native elements.
func scanVideoElements(doc *goquery.Document) []DetectedFormat {
	var formats []DetectedFormat

	doc.Find("video[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}

		formats = append(formats, DetectedFormat{
			Platform:     PlatformHTML5,
			EmbedCode:    outerHTML(sel),
			StreamingURL: src,
			PlayerType:   PlayerNative,
		})
	})

	return formats
}

// scanScripts looks for player-library keywords in inline script content.
// Static markup cannot yield a concrete source for script-driven players,
// so these records carry no streaming URL; the empty URL is the signal for
// the browser-driven deep inspection path.
func scanScripts(doc *goquery.Document) []DetectedFormat {
	var formats []DetectedFormat

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		content := sel.Text()
		if content == "" {
			return
		}

		lowered := strings.ToLower(content)
		for _, sp := range scriptPlatforms {
			if strings.Contains(lowered, sp.keyword) {
				formats = append(formats, DetectedFormat{
					Platform:   sp.platform,
					EmbedCode:  outerHTML(sel),
					PlayerType: PlayerJavaScript,
				})
				return
			}
		}
	})

	return formats
}

// embeddedFormat builds the record for an iframe whose src matched a
// platform identifier.
func embeddedFormat(match *PlatformMatch, embedCode, src string) DetectedFormat {
	return DetectedFormat{
		Platform:     match.Platform,
		VideoID:      match.VideoID,
		EmbedCode:    embedCode,
		StreamingURL: src,
		PlayerType:   PlayerEmbedded,
		EmbedURL:     match.EmbedURL,
		WatchURL:     match.WatchURL,
	}
}

// outerHTML serializes the element for the audit trail. Serialization
// failure degrades to an empty string; detection itself never errors.
func outerHTML(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return html
}
