// internal/database/database.go

// Package database persists the committee catalog: committees,
// subcommittees, hearings, the video formats detected for each hearing,
// and a log of scraping activity. SQLite is the default backend;
// PostgreSQL and MySQL are selectable by driver name for shared
// deployments.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Config selects the backing store.
type Config struct {
	Driver string `yaml:"driver"` // sqlite3 (default), postgres, mysql
	Path   string `yaml:"path"`   // sqlite3 database file
	DSN    string `yaml:"dsn"`    // postgres/mysql connection string
}

// DB wraps the SQL connection and owns the schema.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the configured backend, applies driver-specific
// connection settings, and creates the schema if it does not exist.
func Open(cfg Config) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite3"
	}

	var dsn string
	switch driver {
	case "sqlite3":
		path := cfg.Path
		if path == "" {
			path = "data/congress_video.db"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	case "postgres", "mysql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%s driver requires a DSN", driver)
		}
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		// SQLite works best with a single writer.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind converts ?-style placeholders to $N for the postgres driver.
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// serial returns the auto-increment primary key clause for the active
// driver.
func (db *DB) serial() string {
	switch db.driver {
	case "postgres":
		return "BIGSERIAL PRIMARY KEY"
	case "mysql":
		return "BIGINT PRIMARY KEY AUTO_INCREMENT"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

func (db *DB) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS committees (
			id ` + db.serial() + `,
			name TEXT NOT NULL,
			chamber TEXT NOT NULL CHECK(chamber IN ('house', 'senate')),
			official_url TEXT NOT NULL,
			committee_code TEXT,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS subcommittees (
			id ` + db.serial() + `,
			name TEXT NOT NULL,
			parent_committee_id BIGINT NOT NULL,
			official_url TEXT NOT NULL,
			subcommittee_code TEXT,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (parent_committee_id) REFERENCES committees (id)
		)`,
		`CREATE TABLE IF NOT EXISTS hearings (
			id ` + db.serial() + `,
			committee_id BIGINT,
			subcommittee_id BIGINT,
			title TEXT NOT NULL,
			hearing_date TIMESTAMP,
			hearing_url TEXT NOT NULL,
			video_url TEXT,
			is_live BOOLEAN DEFAULT FALSE,
			status TEXT DEFAULT 'scheduled' CHECK(status IN ('scheduled', 'live', 'completed', 'archived')),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (committee_id) REFERENCES committees (id),
			FOREIGN KEY (subcommittee_id) REFERENCES subcommittees (id)
		)`,
		`CREATE TABLE IF NOT EXISTS video_formats (
			id ` + db.serial() + `,
			hearing_id BIGINT NOT NULL,
			platform TEXT NOT NULL,
			video_id TEXT,
			embed_code TEXT,
			streaming_url TEXT,
			resolution TEXT,
			codec TEXT,
			streaming_protocol TEXT,
			player_type TEXT,
			accessibility_features TEXT,
			technical_details TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (hearing_id) REFERENCES hearings (id)
		)`,
		`CREATE TABLE IF NOT EXISTS scrape_logs (
			id ` + db.serial() + `,
			target_url TEXT NOT NULL,
			scrape_type TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('success', 'failed', 'partial')),
			records_found INTEGER DEFAULT 0,
			error_message TEXT,
			scrape_duration REAL DEFAULT 0.0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_committees_chamber ON committees(chamber)`,
		`CREATE INDEX IF NOT EXISTS idx_committees_code ON committees(committee_code)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_committees_name_chamber ON committees(name, chamber)`,
		`CREATE INDEX IF NOT EXISTS idx_subcommittees_parent ON subcommittees(parent_committee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hearings_committee ON hearings(committee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hearings_subcommittee ON hearings(subcommittee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hearings_date ON hearings(hearing_date)`,
		`CREATE INDEX IF NOT EXISTS idx_video_formats_hearing ON video_formats(hearing_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_formats_platform ON video_formats(platform)`,
		`CREATE INDEX IF NOT EXISTS idx_scrape_logs_type ON scrape_logs(scrape_type)`,
		`CREATE INDEX IF NOT EXISTS idx_scrape_logs_status ON scrape_logs(status)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// InsertCommittee inserts a committee and returns its ID. A committee that
// already exists (same name and chamber) returns the existing row's ID.
func (db *DB) InsertCommittee(c *Committee) (int64, error) {
	res, err := db.conn.Exec(db.rebind(`
		INSERT INTO committees (name, chamber, official_url, committee_code, description)
		VALUES (?, ?, ?, ?, ?)`),
		c.Name, c.Chamber, c.OfficialURL, c.CommitteeCode, c.Description)
	if err != nil {
		var id int64
		lookupErr := db.conn.QueryRow(db.rebind(`
			SELECT id FROM committees WHERE name = ? AND chamber = ?`),
			c.Name, c.Chamber).Scan(&id)
		if lookupErr == nil {
			return id, nil
		}
		return 0, fmt.Errorf("failed to insert committee %q: %w", c.Name, err)
	}
	return db.lastInsertID(res, "committees")
}

// InsertSubcommittee inserts a subcommittee and returns its ID.
func (db *DB) InsertSubcommittee(s *Subcommittee) (int64, error) {
	res, err := db.conn.Exec(db.rebind(`
		INSERT INTO subcommittees (name, parent_committee_id, official_url, subcommittee_code, description)
		VALUES (?, ?, ?, ?, ?)`),
		s.Name, s.ParentCommitteeID, s.OfficialURL, s.SubcommitteeCode, s.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to insert subcommittee %q: %w", s.Name, err)
	}
	return db.lastInsertID(res, "subcommittees")
}

// InsertHearing inserts a hearing and returns its ID.
func (db *DB) InsertHearing(h *Hearing) (int64, error) {
	res, err := db.conn.Exec(db.rebind(`
		INSERT INTO hearings (committee_id, subcommittee_id, title, hearing_date,
			hearing_url, video_url, is_live, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		h.CommitteeID, h.SubcommitteeID, h.Title, h.HearingDate,
		h.HearingURL, h.VideoURL, h.IsLive, h.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert hearing %q: %w", h.Title, err)
	}
	return db.lastInsertID(res, "hearings")
}

// InsertVideoFormat inserts a detected video format. The hearing ID must
// reference an existing hearing; records without one are rejected before
// they reach the database.
func (db *DB) InsertVideoFormat(vf *VideoFormat) (int64, error) {
	if vf.HearingID == 0 {
		return 0, fmt.Errorf("video format requires a hearing id")
	}
	res, err := db.conn.Exec(db.rebind(`
		INSERT INTO video_formats (hearing_id, platform, video_id, embed_code, streaming_url,
			resolution, codec, streaming_protocol, player_type,
			accessibility_features, technical_details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		vf.HearingID, vf.Platform, vf.VideoID, vf.EmbedCode, vf.StreamingURL,
		vf.Resolution, vf.Codec, vf.StreamingProtocol, vf.PlayerType,
		vf.AccessibilityFeatures, vf.TechnicalDetails)
	if err != nil {
		return 0, fmt.Errorf("failed to insert video format for hearing %d: %w", vf.HearingID, err)
	}
	return db.lastInsertID(res, "video_formats")
}

// InsertScrapeLog records one scraping phase.
func (db *DB) InsertScrapeLog(l *ScrapeLog) (int64, error) {
	res, err := db.conn.Exec(db.rebind(`
		INSERT INTO scrape_logs (target_url, scrape_type, status, records_found,
			error_message, scrape_duration)
		VALUES (?, ?, ?, ?, ?, ?)`),
		l.TargetURL, l.ScrapeType, l.Status, l.RecordsFound,
		l.ErrorMessage, l.ScrapeSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scrape log: %w", err)
	}
	return db.lastInsertID(res, "scrape_logs")
}

// lastInsertID resolves the new row's ID. The postgres driver does not
// support LastInsertId, so fall back to the sequence value.
func (db *DB) lastInsertID(res sql.Result, table string) (int64, error) {
	if db.driver == "postgres" {
		var id int64
		err := db.conn.QueryRow(fmt.Sprintf("SELECT currval(pg_get_serial_sequence('%s', 'id'))", table)).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve inserted id: %w", err)
		}
		return id, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve inserted id: %w", err)
	}
	return id, nil
}

// GetCommittees returns committees ordered by name, optionally filtered by
// chamber.
func (db *DB) GetCommittees(chamber string) ([]Committee, error) {
	query := `SELECT id, name, chamber, official_url, committee_code, description
		FROM committees`
	var args []interface{}
	if chamber != "" {
		query += ` WHERE chamber = ?`
		args = append(args, chamber)
	}
	query += ` ORDER BY name`

	rows, err := db.conn.Query(db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query committees: %w", err)
	}
	defer rows.Close()

	var committees []Committee
	for rows.Next() {
		var c Committee
		var code, desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Chamber, &c.OfficialURL, &code, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan committee: %w", err)
		}
		c.CommitteeCode = code.String
		c.Description = desc.String
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

// GetSubcommittees returns subcommittees, optionally filtered by parent
// committee.
func (db *DB) GetSubcommittees(parentID int64) ([]Subcommittee, error) {
	query := `SELECT id, name, parent_committee_id, official_url, subcommittee_code, description
		FROM subcommittees`
	var args []interface{}
	if parentID != 0 {
		query += ` WHERE parent_committee_id = ?`
		args = append(args, parentID)
	}
	query += ` ORDER BY name`

	rows, err := db.conn.Query(db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcommittees: %w", err)
	}
	defer rows.Close()

	var subs []Subcommittee
	for rows.Next() {
		var s Subcommittee
		var code, desc sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.ParentCommitteeID, &s.OfficialURL, &code, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan subcommittee: %w", err)
		}
		s.SubcommitteeCode = code.String
		s.Description = desc.String
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// GetHearings returns hearings newest-first, optionally filtered by
// committee or subcommittee. Committee filter wins when both are set.
func (db *DB) GetHearings(committeeID, subcommitteeID int64) ([]Hearing, error) {
	query := `SELECT id, committee_id, subcommittee_id, title, hearing_date,
		hearing_url, video_url, is_live, status FROM hearings`
	var args []interface{}
	if committeeID != 0 {
		query += ` WHERE committee_id = ?`
		args = append(args, committeeID)
	} else if subcommitteeID != 0 {
		query += ` WHERE subcommittee_id = ?`
		args = append(args, subcommitteeID)
	}
	query += ` ORDER BY hearing_date DESC`

	rows, err := db.conn.Query(db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hearings: %w", err)
	}
	defer rows.Close()

	var hearings []Hearing
	for rows.Next() {
		var h Hearing
		var videoURL sql.NullString
		if err := rows.Scan(&h.ID, &h.CommitteeID, &h.SubcommitteeID, &h.Title,
			&h.HearingDate, &h.HearingURL, &videoURL, &h.IsLive, &h.Status); err != nil {
			return nil, fmt.Errorf("failed to scan hearing: %w", err)
		}
		h.VideoURL = videoURL.String
		hearings = append(hearings, h)
	}
	return hearings, rows.Err()
}

// GetVideoFormats returns video formats, optionally filtered by hearing.
func (db *DB) GetVideoFormats(hearingID int64) ([]VideoFormat, error) {
	query := `SELECT id, hearing_id, platform, video_id, embed_code, streaming_url,
		resolution, codec, streaming_protocol, player_type,
		accessibility_features, technical_details FROM video_formats`
	var args []interface{}
	if hearingID != 0 {
		query += ` WHERE hearing_id = ?`
		args = append(args, hearingID)
	}

	rows, err := db.conn.Query(db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query video formats: %w", err)
	}
	defer rows.Close()

	var formats []VideoFormat
	for rows.Next() {
		var vf VideoFormat
		var videoID, embed, stream, res, codec, proto, player, access, tech sql.NullString
		if err := rows.Scan(&vf.ID, &vf.HearingID, &vf.Platform, &videoID, &embed, &stream,
			&res, &codec, &proto, &player, &access, &tech); err != nil {
			return nil, fmt.Errorf("failed to scan video format: %w", err)
		}
		vf.VideoID = videoID.String
		vf.EmbedCode = embed.String
		vf.StreamingURL = stream.String
		vf.Resolution = res.String
		vf.Codec = codec.String
		vf.StreamingProtocol = proto.String
		vf.PlayerType = player.String
		vf.AccessibilityFeatures = access.String
		vf.TechnicalDetails = tech.String
		formats = append(formats, vf)
	}
	return formats, rows.Err()
}

// Stats summarizes the catalog for reporting.
type Stats struct {
	TotalCommittees     int            `json:"total_committees"`
	TotalSubcommittees  int            `json:"total_subcommittees"`
	TotalHearings       int            `json:"total_hearings"`
	TotalVideoFormats   int            `json:"total_video_formats"`
	CommitteesByChamber map[string]int `json:"committees_by_chamber"`
	FormatsByPlatform   map[string]int `json:"formats_by_platform"`
}

// GetStats aggregates record counts and distributions.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		CommitteesByChamber: make(map[string]int),
		FormatsByPlatform:   make(map[string]int),
	}

	counts := map[string]*int{
		"committees":    &stats.TotalCommittees,
		"subcommittees": &stats.TotalSubcommittees,
		"hearings":      &stats.TotalHearings,
		"video_formats": &stats.TotalVideoFormats,
	}
	for table, dest := range counts {
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}

	if err := db.groupCount("SELECT chamber, COUNT(*) FROM committees GROUP BY chamber", stats.CommitteesByChamber); err != nil {
		return nil, err
	}
	if err := db.groupCount("SELECT platform, COUNT(*) FROM video_formats GROUP BY platform", stats.FormatsByPlatform); err != nil {
		return nil, err
	}

	return stats, nil
}

func (db *DB) groupCount(query string, dest map[string]int) error {
	rows, err := db.conn.Query(query)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		dest[key] = count
	}
	return rows.Err()
}
