package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema. Only recommendation replay records are stored; measurements never are.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&recommendationIdempotencyRecord{},
	)
}

// Schema mirrors the recommendations Postgres idempotency adapter.
type recommendationIdempotencyRecord struct {
	Key              string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash      string    `gorm:"column:request_hash;size:128"`
	RecommendationID string    `gorm:"column:recommendation_id;size:64"`
	Gender           string    `gorm:"column:gender;type:varchar(16)"`
	BodyFatPercent   float64   `gorm:"column:body_fat_percent"`
	Text             string    `gorm:"column:text;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (recommendationIdempotencyRecord) TableName() string { return "recommendation_idempotency_keys" }
