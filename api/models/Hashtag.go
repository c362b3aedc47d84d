package models

import (
	"time"

	"gorm.io/gorm"
)

// Hashtag scores are maintained by an external job; this service only reads them.
type Hashtag struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id" db:"id"`
	Tag           string    `gorm:"size:100;not null;uniqueIndex" json:"tag" db:"tag"`
	PostCount     int64     `gorm:"not null;default:0" json:"post_count" db:"post_count"`
	TrendingScore float64   `gorm:"not null;default:0;index" json:"trending_score" db:"trending_score"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

var HashtagColumns = []string{"id", "tag", "post_count", "trending_score", "updated_at"}

func FindTrendingHashtags(db *gorm.DB, limit int) ([]Hashtag, error) {
	hashtags := []Hashtag{}
	err := db.Order("trending_score DESC, tag ASC").Limit(limit).Find(&hashtags).Error
	return hashtags, err
}
