package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/barkwatch/barkwatch/pkg/barkwatch/detect"
)

const DefaultDBFile = "barkwatch.sqlite3"

// DBClient persists detected events and processed-file records in SQLite.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// BarkEventRecord is the persisted form of one detected event.
type BarkEventRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Source      string    `gorm:"index:idx_event_source" json:"source"`
	StartSample int       `json:"start_samples"`
	EndSample   int       `json:"end_samples"`
	StartTime   time.Time `gorm:"index:idx_event_start" json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMs  int       `json:"duration_ms"`
	NumBarks    int       `json:"num_barks"`
	Date        string    `gorm:"index:idx_event_date;type:varchar(10)" json:"date"`
	CreatedAt   time.Time
}

// ProcessedFile records one source file the pipeline has fully handled.
type ProcessedFile struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Path        string `gorm:"uniqueIndex:idx_processed_path" json:"path"`
	MD5         string `gorm:"type:varchar(32)" json:"md5"`
	SizeBytes   int64  `json:"size_bytes"`
	NumEvents   int    `json:"num_events"`
	ProcessedAt time.Time
}

// NewDBClient opens (or creates) the SQLite database at dbPath and migrates
// the schema.
func NewDBClient(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&BarkEventRecord{}, &ProcessedFile{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

// SaveEvents stores detected events under their source identifier.
func (c *DBClient) SaveEvents(source string, events []detect.BarkEvent) error {
	if c == nil || c.DB == nil {
		return errors.New("db client is nil")
	}
	if len(events) == 0 {
		return nil
	}

	records := make([]BarkEventRecord, len(events))
	for i, ev := range events {
		records[i] = BarkEventRecord{
			Source:      source,
			StartSample: ev.StartSample,
			EndSample:   ev.EndSample,
			StartTime:   ev.StartTime,
			EndTime:     ev.EndTime,
			DurationMs:  int(ev.Duration.Milliseconds()),
			NumBarks:    ev.NumBarks,
			Date:        ev.Date.Format("2006-01-02"),
		}
	}
	if err := c.DB.Create(&records).Error; err != nil {
		return fmt.Errorf("saving %d events: %w", len(records), err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first. A limit of zero
// or less returns everything.
func (c *DBClient) ListEvents(limit int) ([]BarkEventRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New("db client is nil")
	}

	q := c.DB.Order("start_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var records []BarkEventRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return records, nil
}

// ListEventsBySource returns the events of one recording, oldest first.
func (c *DBClient) ListEventsBySource(source string) ([]BarkEventRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New("db client is nil")
	}

	var records []BarkEventRecord
	if err := c.DB.Where("source = ?", source).Order("start_sample ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing events for %s: %w", source, err)
	}
	return records, nil
}

// RecordProcessedFile marks a source file as handled.
func (c *DBClient) RecordProcessedFile(path, md5sum string, size int64, numEvents int) error {
	if c == nil || c.DB == nil {
		return errors.New("db client is nil")
	}

	rec := ProcessedFile{
		Path:        path,
		MD5:         md5sum,
		SizeBytes:   size,
		NumEvents:   numEvents,
		ProcessedAt: time.Now(),
	}
	if err := c.DB.Create(&rec).Error; err != nil {
		return fmt.Errorf("recording processed file %s: %w", path, err)
	}
	return nil
}

// IsProcessed reports whether a source file was already handled.
func (c *DBClient) IsProcessed(path string) (bool, error) {
	if c == nil || c.DB == nil {
		return false, errors.New("db client is nil")
	}

	var count int64
	if err := c.DB.Model(&ProcessedFile{}).Where("path = ?", path).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking processed file %s: %w", path, err)
	}
	return count > 0, nil
}

// Close releases the underlying connection pool.
func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
