package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"band-backend/models"
)

type ResetTokenRepository struct {
	DB *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) *ResetTokenRepository {
	return &ResetTokenRepository{DB: db}
}

// Replace drops any token held by the admin and stores the new one.
func (r *ResetTokenRepository) Replace(ctx context.Context, token *models.ResetToken) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", token.AdminID).Delete(&models.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	return translate(err, "Reset token")
}

func (r *ResetTokenRepository) FindByAdminID(ctx context.Context, adminID uint) (*models.ResetToken, error) {
	var token models.ResetToken
	if err := r.DB.WithContext(ctx).Where("admin_id = ?", adminID).First(&token).Error; err != nil {
		return nil, translate(err, "Reset token")
	}
	return &token, nil
}

func (r *ResetTokenRepository) DeleteByAdminID(ctx context.Context, adminID uint) error {
	err := r.DB.WithContext(ctx).Where("admin_id = ?", adminID).Delete(&models.ResetToken{}).Error
	return translate(err, "Reset token")
}

// DeleteCreatedBefore purges tokens issued before cutoff.
func (r *ResetTokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("created_at <= ?", cutoff).Delete(&models.ResetToken{})
	return res.RowsAffected, translate(res.Error, "Reset token")
}
