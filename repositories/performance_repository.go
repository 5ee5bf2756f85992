package repositories

import (
	"context"

	"gorm.io/gorm"

	"band-backend/apperrors"
	"band-backend/models"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

func (r *PerformanceRepository) ListActive(ctx context.Context) ([]models.Performance, error) {
	performances := []models.Performance{}
	err := r.DB.WithContext(ctx).Where("active = ?", true).Order("event_date ASC, id ASC").Find(&performances).Error
	if err != nil {
		return nil, translate(err, "Performance")
	}
	return performances, nil
}

// ListAll returns every performance, newest date first.
func (r *PerformanceRepository) ListAll(ctx context.Context) ([]models.Performance, error) {
	performances := []models.Performance{}
	if err := r.DB.WithContext(ctx).Order("event_date DESC, id DESC").Find(&performances).Error; err != nil {
		return nil, translate(err, "Performance")
	}
	return performances, nil
}

func (r *PerformanceRepository) FindByID(ctx context.Context, id uint) (*models.Performance, error) {
	var performance models.Performance
	if err := r.DB.WithContext(ctx).First(&performance, id).Error; err != nil {
		return nil, translate(err, "Performance")
	}
	return &performance, nil
}

func (r *PerformanceRepository) Create(ctx context.Context, performance *models.Performance) error {
	return translate(r.DB.WithContext(ctx).Create(performance).Error, "Performance")
}

func (r *PerformanceRepository) Save(ctx context.Context, performance *models.Performance) error {
	return translate(r.DB.WithContext(ctx).Save(performance).Error, "Performance")
}

func (r *PerformanceRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Performance{}, id)
	if res.Error != nil {
		return translate(res.Error, "Performance")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Performance not found")
	}
	return nil
}
