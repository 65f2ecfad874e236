// internal/detector/types.go
package detector

// Platform identifies the video delivery technology serving a hearing
// recording. Unrecognized sources are classified as PlatformCustom rather
// than dropped.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformVimeo    Platform = "vimeo"
	PlatformJWPlayer Platform = "jwplayer"
	PlatformVideoJS  Platform = "videojs"
	PlatformHTML5    Platform = "html5"
	PlatformCustom   Platform = "custom"
)

// PlayerType is the coarse delivery mechanism observed in the markup.
type PlayerType string

const (
	// PlayerEmbedded means the video arrived via an iframe embed.
	PlayerEmbedded PlayerType = "embedded"
	// PlayerNative means a plain HTML5 <video> element with a src.
	PlayerNative PlayerType = "native"
	// PlayerJavaScript means a script-configured player whose source URL is
	// not observable in static markup.
	PlayerJavaScript PlayerType = "javascript"
)

// DetectedFormat is one video format found on a hearing page. Instances are
// created fresh per scan and never mutated; callers copy the fields they
// persist.
type DetectedFormat struct {
	// Platform is always set; pages with no recognizable signature yield
	// PlatformCustom records or nothing at all.
	Platform Platform `json:"platform"`

	// VideoID is the platform-native identifier. Empty when the platform has
	// no stable ID concept (custom embeds, script-driven players).
	VideoID string `json:"video_id,omitempty"`

	// EmbedCode is the serialized markup fragment that produced the match,
	// kept for audit and later manual reverse-engineering.
	EmbedCode string `json:"embed_code"`

	// StreamingURL is the best-known direct or embed URL for the media.
	// Empty when only inline script evidence was found, which signals that
	// deep inspection is needed to recover a concrete source.
	StreamingURL string `json:"streaming_url,omitempty"`

	// PlayerType is always set alongside Platform.
	PlayerType PlayerType `json:"player_type"`

	// EmbedURL and WatchURL are canonical compositions, populated only for
	// platforms that support them (YouTube, Vimeo).
	EmbedURL string `json:"embed_url,omitempty"`
	WatchURL string `json:"watch_url,omitempty"`
}

// NeedsDeepInspection reports whether this detection carries no concrete
// stream URL and should be escalated to browser-driven inspection.
func (f DetectedFormat) NeedsDeepInspection() bool {
	return f.StreamingURL == ""
}
