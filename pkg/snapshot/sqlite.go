package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type snapshotRecord struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (snapshotRecord) TableName() string {
	return "snapshots"
}

// SQLite persists snapshots in a local SQLite file, the durable local
// key-value storage used in single-node deployments.
type SQLite struct {
	conn *gorm.DB
}

// NewSQLite opens (or creates) the database at path and ensures the
// snapshots table exists.
func NewSQLite(ctx context.Context, path string, logg *logger.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, fmt.Errorf("migrating snapshots table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "sqlite snapshot store ready")
	}

	return &SQLite{conn: conn}, nil
}

// Load returns the snapshot stored at key, or (nil, nil) when absent.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var record snapshotRecord
	err := s.conn.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// Save upserts the full snapshot for the key.
func (s *SQLite) Save(ctx context.Context, key string, value []byte) error {
	record := snapshotRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).
		Error
}

// Ping verifies the datasource is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
