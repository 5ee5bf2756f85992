package repositories

import (
	"context"

	"gorm.io/gorm"

	"band-backend/apperrors"
	"band-backend/models"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Admin{}).Count(&n).Error
	return n, translate(err, "Admin")
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	err := r.DB.WithContext(ctx).Create(admin).Error
	if IsDuplicateKey(err) {
		return apperrors.Validation("Username already exists")
	}
	return translate(err, "Admin")
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err, "Admin")
	}
	return &admin, nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, translate(err, "Admin")
	}
	return &admin, nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, translate(err, "Admin")
	}
	return &admin, nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error, "Admin")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Admin not found")
	}
	return nil
}
