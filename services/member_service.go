package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"

	"band-backend/apperrors"
	"band-backend/models"
	"band-backend/utils"
)

type MemberStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Member, error)
	FindByID(ctx context.Context, id uint) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Save(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
}

// MemberInput is a parsed create/update form.
type MemberInput struct {
	Name       string
	Instrument string
	Bio        string
	IsCaptain  utils.FormBool
	Active     utils.FormBool
	Order      *int
}

func (in MemberInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Instrument) == "" || strings.TrimSpace(in.Bio) == "" {
		return apperrors.Validation("Name, instrument and bio are required")
	}
	return nil
}

type MemberService struct {
	members MemberStore
	images  ImageStorage
}

func NewMemberService(members MemberStore, images ImageStorage) *MemberService {
	return &MemberService{members: members, images: images}
}

// sortMembers orders by display order, then creation time, then id.
func sortMembers(members []models.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// ListPublic returns active members in display order.
func (s *MemberService) ListPublic(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.List(ctx, true)
	if err != nil {
		return nil, err
	}
	sortMembers(members)
	return members, nil
}

// ListAll returns every member, including inactive ones, in display order.
func (s *MemberService) ListAll(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.List(ctx, false)
	if err != nil {
		return nil, err
	}
	sortMembers(members)
	return members, nil
}

func (s *MemberService) Get(ctx context.Context, id uint) (*models.Member, error) {
	return s.members.FindByID(ctx, id)
}

// Create requires an image. The file is written before the record; if the
// record write fails the file is removed again.
func (s *MemberService) Create(ctx context.Context, in MemberInput, image *multipart.FileHeader) (*models.Member, error) {
	if image == nil {
		return nil, apperrors.Validation("Image is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	ref, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:       strings.TrimSpace(in.Name),
		Instrument: strings.TrimSpace(in.Instrument),
		Bio:        in.Bio,
		Image:      ref,
		IsCaptain:  in.IsCaptain.Or(false),
		Order:      models.DefaultMemberOrder,
		Active:     in.Active.Or(true),
	}
	if in.Order != nil {
		member.Order = *in.Order
	}

	if err := s.members.Create(ctx, member); err != nil {
		removeQuietly(s.images, ref)
		return nil, err
	}
	return member, nil
}

// Update overwrites every field from the form. Flags absent from the form
// become false; order keeps its value when absent; the image is replaced
// only when a new file was uploaded.
func (s *MemberService) Update(ctx context.Context, id uint, in MemberInput, image *multipart.FileHeader) (*models.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	member.Name = strings.TrimSpace(in.Name)
	member.Instrument = strings.TrimSpace(in.Instrument)
	member.Bio = in.Bio
	member.IsCaptain = in.IsCaptain.Value
	member.Active = in.Active.Value
	if in.Order != nil {
		member.Order = *in.Order
	}

	oldImage := ""
	if image != nil {
		ref, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		oldImage, member.Image = member.Image, ref
	}

	if err := s.members.Save(ctx, member); err != nil {
		if oldImage != "" {
			removeQuietly(s.images, member.Image)
		}
		return nil, err
	}
	removeQuietly(s.images, oldImage)
	return member, nil
}

// Delete removes the record and then its image file.
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}
	removeQuietly(s.images, member.Image)
	return nil
}
