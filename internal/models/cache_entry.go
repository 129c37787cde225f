package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisCache is one cached analysis payload when the postgres cache
// backend is selected.
type AnalysisCache struct {
	Address  string         `gorm:"primaryKey;type:varchar(42)"`
	Payload  datatypes.JSON `gorm:"type:jsonb;not null"`
	CachedAt time.Time      `gorm:"type:timestamptz;not null;index"`
}

func (AnalysisCache) TableName() string {
	return "analysis_cache"
}
