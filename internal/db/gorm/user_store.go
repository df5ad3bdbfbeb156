package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// UserStore provides account persistence.
type UserStore struct {
	db    *gorm.DB
	store *Store
}

// NewUserStore creates a new user store.
func NewUserStore(store *Store) *UserStore {
	return &UserStore{db: store.DB, store: store}
}

// Create inserts a new user. Returns ErrDuplicateMobile when the
// mobile number already has a row; the caller maps this to 409.
func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role != "" && !user.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", user.Role)
	}

	row := fromModelUser(user)
	row.ID = 0
	if row.Role == "" {
		row.Role = string(models.RoleUser)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	err := s.db.WithContext(ctx).Create(row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMobile
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toModelUser(row), nil
}

// GetByMobile looks up a user by mobile number. Returns ErrNotFound
// when no row matches.
func (s *UserStore) GetByMobile(ctx context.Context, mobileNumber string) (*models.User, error) {
	var row User
	err := s.db.WithContext(ctx).
		Where("mobile_number = ?", mobileNumber).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by mobile: %w", err)
	}
	return toModelUser(&row), nil
}

// GetByID looks up a user by primary key.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var row User
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return toModelUser(&row), nil
}

// ListOfficersByDistrict returns all agricultural officers registered
// in the given district. An empty slice means no officer is available.
func (s *UserStore) ListOfficersByDistrict(ctx context.Context, district string) ([]*models.User, error) {
	var rows []User
	err := s.db.WithContext(ctx).
		Where("district = ? AND role = ?", district, string(models.RoleAgriOfficer)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}

	officers := make([]*models.User, 0, len(rows))
	for i := range rows {
		officers = append(officers, toModelUser(&rows[i]))
	}
	return officers, nil
}
