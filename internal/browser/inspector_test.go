// internal/browser/inspector_test.go
package browser

import "testing"

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		mimeType string
		wantKind string
		wantOK   bool
	}{
		{"hls manifest", "https://cdn.example.gov/hearing/playlist.m3u8", "application/vnd.apple.mpegurl", "manifest", true},
		{"dash manifest", "https://cdn.example.gov/hearing/stream.mpd", "application/dash+xml", "manifest", true},
		{"mp4 file", "https://cdn.example.gov/archive/hearing.MP4", "video/mp4", "video_file", true},
		{"audio file", "https://cdn.example.gov/archive/hearing.mp3", "audio/mpeg", "audio_file", true},
		{"media mime without extension", "https://cdn.example.gov/segment/0042", "video/mp2t", "media_stream", true},
		{"page html", "https://judiciary.senate.gov/hearings", "text/html", "", false},
		{"script", "https://cdn.example.gov/jwplayer.js", "application/javascript", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyResponse(tt.url, tt.mimeType)
			if ok != tt.wantOK {
				t.Fatalf("classifyResponse(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if ok && got.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
			}
		})
	}
}

func TestNewInspector_DisabledConfig(t *testing.T) {
	if _, err := NewInspector(&Config{Enabled: false}); err == nil {
		t.Fatal("expected error when inspection is disabled")
	}
}
