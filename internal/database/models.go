// internal/database/models.go
package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Chamber values accepted by the committees table.
const (
	ChamberHouse  = "house"
	ChamberSenate = "senate"
)

// Hearing status values.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Scrape log status values.
const (
	ScrapeSuccess = "success"
	ScrapeFailed  = "failed"
	ScrapePartial = "partial"
)

// Committee is a House or Senate committee record.
type Committee struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Chamber       string    `json:"chamber"`
	OfficialURL   string    `json:"official_url"`
	CommitteeCode string    `json:"committee_code,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Subcommittee belongs to a parent committee.
type Subcommittee struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ParentCommitteeID int64     `json:"parent_committee_id"`
	OfficialURL       string    `json:"official_url"`
	SubcommitteeCode  string    `json:"subcommittee_code,omitempty"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// Hearing is a committee or subcommittee proceeding. SubcommitteeID is null
// for full-committee hearings.
type Hearing struct {
	ID             int64         `json:"id"`
	CommitteeID    sql.NullInt64 `json:"committee_id"`
	SubcommitteeID sql.NullInt64 `json:"subcommittee_id"`
	Title          string        `json:"title"`
	HearingDate    sql.NullTime  `json:"hearing_date"`
	HearingURL     string        `json:"hearing_url"`
	VideoURL       string        `json:"video_url,omitempty"`
	IsLive         bool          `json:"is_live"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"created_at,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at,omitempty"`
}

// VideoFormat is a persisted detection result tied to a hearing. The
// detector populates platform, video ID, embed code, streaming URL, and
// player type; resolution, codec, protocol, and the JSON detail columns
// exist for later enrichment and are never written by detection.
type VideoFormat struct {
	ID                    int64     `json:"id"`
	HearingID             int64     `json:"hearing_id"`
	Platform              string    `json:"platform"`
	VideoID               string    `json:"video_id,omitempty"`
	EmbedCode             string    `json:"embed_code,omitempty"`
	StreamingURL          string    `json:"streaming_url,omitempty"`
	Resolution            string    `json:"resolution,omitempty"`
	Codec                 string    `json:"codec,omitempty"`
	StreamingProtocol     string    `json:"streaming_protocol,omitempty"`
	PlayerType            string    `json:"player_type,omitempty"`
	AccessibilityFeatures string    `json:"accessibility_features,omitempty"`
	TechnicalDetails      string    `json:"technical_details,omitempty"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
	UpdatedAt             time.Time `json:"updated_at,omitempty"`
}

// SetTechnicalDetails stores arbitrary enrichment data as a JSON column.
func (vf *VideoFormat) SetTechnicalDetails(details map[string]interface{}) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	vf.TechnicalDetails = string(data)
	return nil
}

// GetTechnicalDetails decodes the technical details JSON column. An empty
// column yields an empty map.
func (vf *VideoFormat) GetTechnicalDetails() (map[string]interface{}, error) {
	if vf.TechnicalDetails == "" {
		return map[string]interface{}{}, nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal([]byte(vf.TechnicalDetails), &details); err != nil {
		return nil, err
	}
	return details, nil
}

// ScrapeLog records one scraping phase for observability and replay.
type ScrapeLog struct {
	ID            int64     `json:"id"`
	TargetURL     string    `json:"target_url"`
	ScrapeType    string    `json:"scrape_type"`
	Status        string    `json:"status"`
	RecordsFound  int       `json:"records_found"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ScrapeSeconds float64   `json:"scrape_duration"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}
