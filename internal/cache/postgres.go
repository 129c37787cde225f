package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"traderlens/internal/models"
)

// DBStore keeps cache entries in the analysis_cache table. Same semantics
// as FileStore; useful when several instances share one database.
type DBStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewDBStore(db *gorm.DB, ttl time.Duration) *DBStore {
	return &DBStore{db: db, ttl: ttl}
}

func (s *DBStore) Get(ctx context.Context, address string) (*Entry, bool, error) {
	var row models.AnalysisCache
	err := s.db.WithContext(ctx).First(&row, "address = ?", Key(address)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	entry := &Entry{
		Address:  row.Address,
		Payload:  []byte(row.Payload),
		CachedAt: row.CachedAt,
	}
	if entry.Expired(time.Now(), s.ttl) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (s *DBStore) Put(ctx context.Context, entry *Entry) error {
	row := models.AnalysisCache{
		Address:  Key(entry.Address),
		Payload:  []byte(entry.Payload),
		CachedAt: entry.CachedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (s *DBStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Where("cached_at < ?", now.Add(-s.ttl)).
		Delete(&models.AnalysisCache{})
	return int(res.RowsAffected), res.Error
}
