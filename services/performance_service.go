package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"band-backend/apperrors"
	"band-backend/models"
	"band-backend/utils"
)

type PerformanceStore interface {
	ListActive(ctx context.Context) ([]models.Performance, error)
	ListAll(ctx context.Context) ([]models.Performance, error)
	FindByID(ctx context.Context, id uint) (*models.Performance, error)
	Create(ctx context.Context, performance *models.Performance) error
	Save(ctx context.Context, performance *models.Performance) error
	Delete(ctx context.Context, id uint) error
}

// PerformanceInput is a parsed create/update form.
type PerformanceInput struct {
	Title       string
	Date        string
	Venue       string
	City        string
	Description string
	TicketLink  string
	Active      utils.FormBool
}

// PerformanceListing is the public split of active performances.
type PerformanceListing struct {
	Upcoming []models.Performance `json:"upcoming"`
	Previous []models.Performance `json:"previous"`
}

type PerformanceService struct {
	performances PerformanceStore
	images       ImageStorage
	loc          *time.Location
	now          func() time.Time
}

func NewPerformanceService(performances PerformanceStore, images ImageStorage, loc *time.Location, now func() time.Time) *PerformanceService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &PerformanceService{performances: performances, images: images, loc: loc, now: now}
}

// parse validates the required fields and the date.
func (s *PerformanceService) parse(in PerformanceInput) (EventTime, error) {
	for _, v := range []string{in.Title, in.Date, in.Venue, in.City, in.Description} {
		if strings.TrimSpace(v) == "" {
			return EventTime{}, apperrors.Validation("Title, date, venue, city and description are required")
		}
	}
	return ParseEventDate(in.Date, s.loc)
}

func (in PerformanceInput) apply(p *models.Performance, when EventTime) {
	p.Title = strings.TrimSpace(in.Title)
	p.Date = strings.TrimSpace(in.Date)
	p.EventDate = datatypes.Date(when.Time)
	p.Venue = strings.TrimSpace(in.Venue)
	p.City = strings.TrimSpace(in.City)
	p.Description = in.Description
	p.TicketLink = strings.TrimSpace(in.TicketLink)
}

type datedPerformance struct {
	when EventTime
	perf models.Performance
}

// ListPublic splits active performances into upcoming (soonest first) and
// previous (most recent first) relative to the current time.
func (s *PerformanceService) ListPublic(ctx context.Context) (*PerformanceListing, error) {
	performances, err := s.performances.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var upcoming, previous []datedPerformance
	for _, p := range performances {
		when, err := ParseEventDate(p.Date, s.loc)
		if err != nil {
			slog.Warn("skipping performance with unparseable date", "id", p.ID, "date", p.Date)
			continue
		}
		if when.IsUpcoming(now) {
			upcoming = append(upcoming, datedPerformance{when, p})
		} else {
			previous = append(previous, datedPerformance{when, p})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].when.Time.Before(upcoming[j].when.Time) })
	sort.SliceStable(previous, func(i, j int) bool { return previous[i].when.Time.After(previous[j].when.Time) })

	listing := &PerformanceListing{
		Upcoming: make([]models.Performance, 0, len(upcoming)),
		Previous: make([]models.Performance, 0, len(previous)),
	}
	for _, d := range upcoming {
		listing.Upcoming = append(listing.Upcoming, d.perf)
	}
	for _, d := range previous {
		listing.Previous = append(listing.Previous, d.perf)
	}
	return listing, nil
}

// ListAll returns every performance, latest date first.
func (s *PerformanceService) ListAll(ctx context.Context) ([]models.Performance, error) {
	return s.performances.ListAll(ctx)
}

func (s *PerformanceService) Get(ctx context.Context, id uint) (*models.Performance, error) {
	return s.performances.FindByID(ctx, id)
}

func (s *PerformanceService) Create(ctx context.Context, in PerformanceInput, image *multipart.FileHeader) (*models.Performance, error) {
	if image == nil {
		return nil, apperrors.Validation("Image is required")
	}
	when, err := s.parse(in)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.Save(image)
	if err != nil {
		return nil, err
	}

	performance := &models.Performance{Image: ref, Active: in.Active.Or(true)}
	in.apply(performance, when)
	if err := s.performances.Create(ctx, performance); err != nil {
		removeQuietly(s.images, ref)
		return nil, err
	}
	return performance, nil
}

// Update overwrites every field; an absent active flag becomes false and the
// image changes only when a new file was uploaded.
func (s *PerformanceService) Update(ctx context.Context, id uint, in PerformanceInput, image *multipart.FileHeader) (*models.Performance, error) {
	performance, err := s.performances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	when, err := s.parse(in)
	if err != nil {
		return nil, err
	}

	in.apply(performance, when)
	performance.Active = in.Active.Value

	oldImage := ""
	if image != nil {
		ref, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		oldImage, performance.Image = performance.Image, ref
	}

	if err := s.performances.Save(ctx, performance); err != nil {
		if oldImage != "" {
			removeQuietly(s.images, performance.Image)
		}
		return nil, err
	}
	removeQuietly(s.images, oldImage)
	return performance, nil
}

func (s *PerformanceService) Delete(ctx context.Context, id uint) error {
	performance, err := s.performances.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.performances.Delete(ctx, id); err != nil {
		return err
	}
	removeQuietly(s.images, performance.Image)
	return nil
}
