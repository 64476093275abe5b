package cache

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ShardRecord is one shard's ledger entry: what revision of the
// workspace it was last indexed at, and when.
type ShardRecord struct {
	ProjectHash string `gorm:"primaryKey;type:varchar(64)"`
	ShardID     uint32 `gorm:"primaryKey"`
	Revision    uint64 `gorm:"not null"`
	UpdatedAt   time.Time
}

func (ShardRecord) TableName() string { return "shard_records" }

// Ledger is a small sqlite-backed table recording, per project and
// shard, the last revision successfully written to disk. Worker startup
// reads it to fill Hello.cached_index_info; the router does not consult
// it and sends a full IndexShard request on each shard's first attach.
type Ledger struct {
	db *gorm.DB
}

// OpenLedger opens (creating if absent) the sqlite ledger at path.
// Busy-timeout and WAL mode mirror the teacher's db.Open pragmas,
// needed here too since every worker process started with the same
// cache dir opens the same ledger file.
func OpenLedger(path string) (*Ledger, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cache: open ledger %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ShardRecord{}); err != nil {
		return nil, fmt.Errorf("cache: migrate ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// RecordShard upserts the revision a shard was last written at. Save
// alone won't do — GORM's Save issues an UPDATE whenever the primary
// key is non-zero, which silently affects zero rows for a shard that
// has never been recorded, so the first write for any shard needs an
// explicit ON CONFLICT upsert.
func (l *Ledger) RecordShard(projectHash string, shardID uint32, revision uint64) error {
	rec := ShardRecord{ProjectHash: projectHash, ShardID: shardID, Revision: revision, UpdatedAt: time.Now()}
	return l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_hash"}, {Name: "shard_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"revision", "updated_at"}),
	}).Create(&rec).Error
}

// ShardRevision returns the last recorded revision for a shard, or
// (0, false) if the ledger has no entry for it (a cold shard).
func (l *Ledger) ShardRevision(projectHash string, shardID uint32) (uint64, bool, error) {
	var rec ShardRecord
	err := l.db.Where("project_hash = ? AND shard_id = ?", projectHash, shardID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.Revision, true, nil
}

// IsWarm reports whether a shard's recorded revision equals
// expectedRevision. The router does not call it: a shard's first
// attach gets a full IndexShard whatever the worker reports.
func (l *Ledger) IsWarm(projectHash string, shardID uint32, expectedRevision uint64) (bool, error) {
	rev, ok, err := l.ShardRevision(projectHash, shardID)
	if err != nil || !ok {
		return false, err
	}
	return rev == expectedRevision, nil
}

// Close releases the underlying sqlite connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
