package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/krishimitra/server/internal/domain"
)

// ErrPostNotFound is returned when liking a post that does not exist.
var ErrPostNotFound = errors.New("forum post not found")

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		moisture REAL NOT NULL,
		temperature REAL NOT NULL,
		ph REAL NOT NULL,
		salinity REAL NOT NULL,
		water_quality REAL NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_recorded ON sensor_readings(recorded_at);

	CREATE TABLE IF NOT EXISTS device_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		threshold REAL NOT NULL,
		irrigation INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS forum_posts (
		post_id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		author TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		language TEXT NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON forum_posts(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendReading stores one sensor sample.
func (s *SQLiteStore) AppendReading(ctx context.Context, r *domain.SensorReading) error {
	query := `
	INSERT INTO sensor_readings (moisture, temperature, ph, salinity, water_quality, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.execWithRetry(ctx, query,
		r.Moisture, r.Temperature, r.PH, r.Salinity, r.WaterQuality, r.RecordedAt.Unix())
	if err != nil {
		return fmt.Errorf("append reading: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
	}
	return nil
}

func scanReading(row interface{ Scan(...any) error }) (*domain.SensorReading, error) {
	var r domain.SensorReading
	var recordedAt int64
	err := row.Scan(&r.ID, &r.Moisture, &r.Temperature, &r.PH, &r.Salinity, &r.WaterQuality, &recordedAt)
	if err != nil {
		return nil, err
	}
	r.RecordedAt = time.Unix(recordedAt, 0)
	return &r, nil
}

// LatestReading returns the most recent sample, or nil when none exists.
func (s *SQLiteStore) LatestReading(ctx context.Context) (*domain.SensorReading, error) {
	query := `
		SELECT id, moisture, temperature, ph, salinity, water_quality, recorded_at
		FROM sensor_readings ORDER BY recorded_at DESC, id DESC LIMIT 1`

	r, err := scanReading(s.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan reading row: %w", err)
	}
	return r, nil
}

// RecentReadings returns up to limit samples, newest first.
func (s *SQLiteStore) RecentReadings(ctx context.Context, limit int) ([]*domain.SensorReading, error) {
	query := `
		SELECT id, moisture, temperature, ph, salinity, water_quality, recorded_at
		FROM sensor_readings ORDER BY recorded_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []*domain.SensorReading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneReadings removes samples older than the retention window.
func (s *SQLiteStore) PruneReadings(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := s.execWithRetry(ctx, `DELETE FROM sensor_readings WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune readings: %w", err)
	}
	return res.RowsAffected()
}

const defaultThreshold = 40.0

// DeviceState returns the current device settings, creating defaults on
// first use.
func (s *SQLiteStore) DeviceState(ctx context.Context) (*domain.DeviceState, error) {
	query := `SELECT threshold, irrigation, updated_at FROM device_state WHERE id = 1`

	var st domain.DeviceState
	var irrigation int
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query).Scan(&st.Threshold, &irrigation, &updatedAt)
	if err == sql.ErrNoRows {
		st = domain.DeviceState{Threshold: defaultThreshold, UpdatedAt: time.Now()}
		_, insertErr := s.execWithRetry(ctx,
			`INSERT INTO device_state (id, threshold, irrigation, updated_at) VALUES (1, ?, 0, ?)`,
			st.Threshold, st.UpdatedAt.Unix())
		if insertErr != nil {
			return nil, fmt.Errorf("initialize device state: %w", insertErr)
		}
		return &st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan device state: %w", err)
	}

	st.Irrigation = irrigation != 0
	st.UpdatedAt = time.Unix(updatedAt, 0)
	return &st, nil
}

// SetThreshold updates the irrigation moisture threshold.
func (s *SQLiteStore) SetThreshold(ctx context.Context, threshold float64) error {
	if _, err := s.DeviceState(ctx); err != nil {
		return err
	}
	_, err := s.execWithRetry(ctx,
		`UPDATE device_state SET threshold = ?, updated_at = ? WHERE id = 1`,
		threshold, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set threshold: %w", err)
	}
	return nil
}

// SetIrrigation toggles irrigation.
func (s *SQLiteStore) SetIrrigation(ctx context.Context, on bool) error {
	if _, err := s.DeviceState(ctx); err != nil {
		return err
	}
	irrigation := 0
	if on {
		irrigation = 1
	}
	_, err := s.execWithRetry(ctx,
		`UPDATE device_state SET irrigation = ?, updated_at = ? WHERE id = 1`,
		irrigation, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set irrigation: %w", err)
	}
	return nil
}

// ListPosts returns up to limit forum posts, newest first.
func (s *SQLiteStore) ListPosts(ctx context.Context, limit int) ([]*domain.ForumPost, error) {
	query := `
		SELECT post_id, author_id, author, title, body, language, likes, created_at
		FROM forum_posts ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []*domain.ForumPost
	for rows.Next() {
		var p domain.ForumPost
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Body, &p.Language, &p.Likes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreatePost stores a new forum post.
func (s *SQLiteStore) CreatePost(ctx context.Context, p *domain.ForumPost) error {
	query := `
	INSERT INTO forum_posts (post_id, author_id, author, title, body, language, likes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.execWithRetry(ctx, query,
		p.ID, p.AuthorID, p.Author, p.Title, p.Body, p.Language, p.Likes, p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// LikePost increments a post's like counter.
func (s *SQLiteStore) LikePost(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `UPDATE forum_posts SET likes = likes + 1 WHERE post_id = ?`, id)
	if err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("like post rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// execWithRetry runs a write with exponential backoff on SQLITE_BUSY.
func (s *SQLiteStore) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	const maxRetries = 3
	baseDelay := 50 * time.Millisecond

	var res sql.Result
	var err error
	for i := 0; i < maxRetries; i++ {
		res, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		if !isBusyError(err) || i == maxRetries-1 {
			return nil, err
		}
		select {
		case <-time.After(baseDelay * time.Duration(1<<i)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}

// isBusyError checks for the SQLite concurrency errors that warrant retry.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
