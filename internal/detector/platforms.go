// internal/detector/platforms.go
package detector

import (
	"fmt"
	"regexp"
)

// PlatformMatch is the result of identifying a candidate string against a
// known platform's URL shapes.
type PlatformMatch struct {
	Platform Platform
	VideoID  string
	EmbedURL string
	WatchURL string
}

// platformPatterns holds the ordered URL shapes for one platform together
// with the canonical URL compositions for a captured video ID. Keeping the
// patterns as data rather than branching keeps the first-match-wins contract
// auditable per platform.
type platformPatterns struct {
	platform Platform
	patterns []*regexp.Regexp
	embedURL string // fmt verb receives the video ID
	watchURL string
}

// youtubePatterns are tried in order; an ID is one or more of [A-Za-z0-9_-].
// The nocookie variant is common on committee sites that care about
// third-party tracking.
var youtubePatterns = platformPatterns{
	platform: PlatformYouTube,
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube-nocookie\.com/embed/([a-zA-Z0-9_-]+)`),
	},
	embedURL: "https://www.youtube.com/embed/%s",
	watchURL: "https://www.youtube.com/watch?v=%s",
}

// vimeoPatterns are tried in order; Vimeo IDs are numeric.
var vimeoPatterns = platformPatterns{
	platform: PlatformVimeo,
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`vimeo\.com/video/(\d+)`),
		regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`),
		regexp.MustCompile(`vimeo\.com/(\d+)`),
	},
	embedURL: "https://player.vimeo.com/video/%s",
	watchURL: "https://vimeo.com/%s",
}

// identify runs a candidate string through one platform's pattern table.
// The first pattern to match wins; no match yields nil. Malformed input
// simply fails to match, it never errors.
func (pp platformPatterns) identify(candidate string) *PlatformMatch {
	for _, re := range pp.patterns {
		if m := re.FindStringSubmatch(candidate); m != nil {
			return &PlatformMatch{
				Platform: pp.platform,
				VideoID:  m[1],
				EmbedURL: fmt.Sprintf(pp.embedURL, m[1]),
				WatchURL: fmt.Sprintf(pp.watchURL, m[1]),
			}
		}
	}
	return nil
}

// IdentifyYouTube matches a candidate URL or embed fragment against the
// known YouTube URL shapes and returns the captured video ID with canonical
// embed and watch URLs, or nil when nothing matches.
func IdentifyYouTube(candidate string) *PlatformMatch {
	return youtubePatterns.identify(candidate)
}

// IdentifyVimeo is the Vimeo analogue of IdentifyYouTube.
func IdentifyVimeo(candidate string) *PlatformMatch {
	return vimeoPatterns.identify(candidate)
}
