package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/models"
)

func (r *GormRepo) CreateSweet(ctx context.Context, s *models.Sweet) error {
	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sweet name already exists", ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetSweet(ctx context.Context, id uuid.UUID) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sweet).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *GormRepo) ListSweets(ctx context.Context) ([]models.Sweet, error) {
	var sweets []models.Sweet
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) SaveSweet(ctx context.Context, s *models.Sweet) error {
	if err := r.DB.WithContext(ctx).Save(s).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sweet name already exists", ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *GormRepo) DeleteSweet(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Sweet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchSweets is the SQL fallback behind the search endpoint. Case-folded
// LIKE keeps it portable between postgres and the sqlite test driver.
func (r *GormRepo) SearchSweets(ctx context.Context, q string) ([]models.Sweet, error) {
	pattern := "%" + q + "%"
	var sweets []models.Sweet
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Order("created_at DESC").
		Find(&sweets).Error
	if err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) GetSweetsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sweet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sweets []models.Sweet
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&sweets).Error; err != nil {
		return nil, err
	}
	// keep the caller's (relevance) ordering
	byID := make(map[uuid.UUID]models.Sweet, len(sweets))
	for _, s := range sweets {
		byID[s.ID] = s
	}
	ordered := make([]models.Sweet, 0, len(sweets))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}
