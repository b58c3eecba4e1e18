package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Activity

func (r *Repository) SaveActivity(a *Activity) error {
	return r.db.Create(a).Error
}

func (r *Repository) RecentActivity(limit int) ([]Activity, error) {
	var items []Activity
	err := r.db.Order("id DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *Repository) FailuresSince(since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&Activity{}).
		Where("outcome IN ? AND created_at >= ?", []string{"failed", "rolled_back"}, since).
		Count(&n).Error
	return n, err
}

// Snapshots

func (r *Repository) SaveSnapshot(s *JournalSnapshot) error {
	return r.db.Create(s).Error
}

// LatestSnapshot returns nil without an error when nothing was recorded yet.
func (r *Repository) LatestSnapshot() (*JournalSnapshot, error) {
	var s JournalSnapshot
	err := r.db.Order("id DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
