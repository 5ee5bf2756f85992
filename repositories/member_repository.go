package repositories

import (
	"context"

	"gorm.io/gorm"

	"band-backend/apperrors"
	"band-backend/models"
)

const memberOrdering = "display_order ASC, created_at ASC, id ASC"

type MemberRepository struct {
	DB *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

// List returns members ordered by display order then creation time.
func (r *MemberRepository) List(ctx context.Context, activeOnly bool) ([]models.Member, error) {
	q := r.DB.WithContext(ctx).Order(memberOrdering)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	members := []models.Member{}
	if err := q.Find(&members).Error; err != nil {
		return nil, translate(err, "Member")
	}
	return members, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.DB.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, translate(err, "Member")
	}
	return &member, nil
}

func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	return translate(r.DB.WithContext(ctx).Create(member).Error, "Member")
}

// Save writes every column, including zero values.
func (r *MemberRepository) Save(ctx context.Context, member *models.Member) error {
	return translate(r.DB.WithContext(ctx).Save(member).Error, "Member")
}

func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Member{}, id)
	if res.Error != nil {
		return translate(res.Error, "Member")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Member not found")
	}
	return nil
}
