// Package database persists computed GxG summary records in an embedded
// SQLite store, one row per (run, series, field).
package database

import (
	"database/sql"
	"fmt"
	"math"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tdmeij/Acequia/pkg/gxg"
)

// Client holds the connection to the SQLite summary store
type Client struct {
	db     *sql.DB
	dbPath string
	logger *zap.SugaredLogger
}

// StoredField is one persisted summary entry. Value is NULL for missing
// statistics and textual fields; Text is NULL for numeric fields.
type StoredField struct {
	Name  string
	Value sql.NullFloat64
	Text  sql.NullString
}

const schema = `
CREATE TABLE IF NOT EXISTS gxg_summaries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	series     TEXT NOT NULL,
	ref_level  TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      REAL,
	text       TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_gxg_summaries_series ON gxg_summaries(series, id);
`

// NewClient opens (creating if needed) the SQLite store at dbPath
func NewClient(dbPath string, logger *zap.SugaredLogger) (*Client, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Client{
		db:     db,
		dbPath: dbPath,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// SaveSummary stores every field of a summary record under the given run id
func (c *Client) SaveSummary(runID string, s *gxg.Summary) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO gxg_summaries (run_id, series, ref_level, field, value, text)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range s.Fields() {
		value := sql.NullFloat64{}
		text := sql.NullString{}
		if f.Text != "" {
			text = sql.NullString{String: f.Text, Valid: true}
		} else if !math.IsNaN(f.Value) {
			value = sql.NullFloat64{Float64: f.Value, Valid: true}
		}
		if _, err := stmt.Exec(runID, s.Series, string(s.RefLevel), f.Name, value, text); err != nil {
			return fmt.Errorf("failed to insert summary field %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Debugf("stored %d summary fields for series %s (run %s)", len(s.Fields()), s.Series, runID)
	return nil
}

// ListSeries returns the names of all series with stored summaries
func (c *Client) ListSeries() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT series FROM gxg_summaries ORDER BY series`)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan series name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetSummary returns the fields of the most recent stored summary for a
// series, or (nil, nil) when the series is unknown
func (c *Client) GetSummary(seriesName string) ([]StoredField, error) {
	rows, err := c.db.Query(
		`SELECT field, value, text FROM gxg_summaries
		 WHERE series = ?
		   AND run_id = (SELECT run_id FROM gxg_summaries WHERE series = ? ORDER BY id DESC LIMIT 1)
		 ORDER BY id`,
		seriesName, seriesName)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	var fields []StoredField
	for rows.Next() {
		var f StoredField
		if err := rows.Scan(&f.Name, &f.Value, &f.Text); err != nil {
			return nil, fmt.Errorf("failed to scan summary field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
