package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// SoilStore reads soil reports. Reports are written by an external
// ingestion path; the application never mutates them.
type SoilStore struct {
	db *gorm.DB
}

// NewSoilStore creates a new soil report store.
func NewSoilStore(store *Store) *SoilStore {
	return &SoilStore{db: store.DB}
}

// LatestByUser returns the most recent soil report for a user.
// Returns ErrNotFound when the user has no reports.
func (s *SoilStore) LatestByUser(ctx context.Context, userID int64) (*models.SoilReport, error) {
	var row SoilReport
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest soil report: %w", err)
	}
	return toModelSoilReport(&row), nil
}
