package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"band-backend/apperrors"
	"band-backend/models"
	"band-backend/testsupport"
	"band-backend/utils"
)

func titles(rows []models.Performance) string {
	out := make([]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.Title)
	}
	return strings.Join(out, ",")
}

func newTestPerformances(t *testing.T) (*PerformanceService, *testsupport.PerformanceStore) {
	t.Helper()
	store := testsupport.NewPerformanceStore()
	clock := newTestClock(testStart)
	images := NewImageStore(t.TempDir(), "/uploads", 5<<20)
	return NewPerformanceService(store, images, time.UTC, clock.Now), store
}

func performanceInput(title, date string) PerformanceInput {
	return PerformanceInput{Title: title, Date: date, Venue: "Blue Note", City: "Pune", Description: "Evening set"}
}

func TestListPublicPerformancesSplitsByDate(t *testing.T) {
	svc, _ := newTestPerformances(t)
	// testStart is 2025-03-14 18:30 UTC
	for _, in := range []PerformanceInput{
		performanceInput("Old", "2020-01-01"),
		performanceInput("Far", "2999-01-01"),
		performanceInput("Soon", "2025-04-01"),
		performanceInput("Today", "2025-03-14"),
		performanceInput("ThisMorning", "2025-03-14T10:00"),
		performanceInput("LastMonth", "February 20, 2025"),
	} {
		if _, err := svc.Create(t.Context(), in, fileHeader(t, testsupport.JPEG(8))); err != nil {
			t.Fatalf("Create %s: %v", in.Title, err)
		}
	}
	hidden := performanceInput("Hidden", "2026-01-01")
	hidden.Active = utils.FormBool{Value: false, Present: true}
	if _, err := svc.Create(t.Context(), hidden, fileHeader(t, testsupport.JPEG(8))); err != nil {
		t.Fatal(err)
	}

	listing, err := svc.ListPublic(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(listing.Upcoming); got != "Today,Soon,Far" {
		t.Errorf("upcoming = %s", got)
	}
	if got := titles(listing.Previous); got != "ThisMorning,LastMonth,Old" {
		t.Errorf("previous = %s", got)
	}
}

func TestListPublicPerformancesEmpty(t *testing.T) {
	svc, _ := newTestPerformances(t)
	listing, err := svc.ListPublic(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if listing.Upcoming == nil || listing.Previous == nil {
		t.Fatal("empty lists should not be nil")
	}
}

func TestCreatePerformanceValidation(t *testing.T) {
	svc, _ := newTestPerformances(t)
	img := fileHeader(t, testsupport.JPEG(8))

	if _, err := svc.Create(t.Context(), performanceInput("Gig", "next friday"), img); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("bad date: err = %v", err)
	}
	missing := performanceInput("Gig", "2025-05-01")
	missing.Venue = ""
	if _, err := svc.Create(t.Context(), missing, img); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing venue: err = %v", err)
	}
	if _, err := svc.Create(t.Context(), performanceInput("Gig", "2025-05-01"), nil); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing image: err = %v", err)
	}
}

func TestCreatePerformanceDefaults(t *testing.T) {
	svc, _ := newTestPerformances(t)
	p, err := svc.Create(t.Context(), performanceInput("Gig", "2025-05-01"), fileHeader(t, testsupport.JPEG(8)))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Active || p.TicketLink != "" {
		t.Fatalf("defaults: active=%v ticketLink=%q", p.Active, p.TicketLink)
	}
	if got := time.Time(p.EventDate).Format("2006-01-02"); got != "2025-05-01" {
		t.Fatalf("event date = %s", got)
	}

	hidden := performanceInput("Private", "2025-05-02")
	hidden.Active = utils.FormBool{Value: false, Present: true}
	p, err = svc.Create(t.Context(), hidden, fileHeader(t, testsupport.JPEG(8)))
	if err != nil {
		t.Fatal(err)
	}
	if p.Active {
		t.Fatal("explicit active=false must be kept on create")
	}
}

func TestUpdateAndDeletePerformance(t *testing.T) {
	svc, _ := newTestPerformances(t)
	p, err := svc.Create(t.Context(), performanceInput("Gig", "2025-05-01"), fileHeader(t, testsupport.JPEG(8)))
	if err != nil {
		t.Fatal(err)
	}

	in := performanceInput("Gig (moved)", "2025-06-01")
	in.TicketLink = "https://tickets.example/gig"
	updated, err := svc.Update(t.Context(), p.ID, in, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Gig (moved)" || updated.Date != "2025-06-01" || updated.Active || updated.Image != p.Image {
		t.Fatalf("updated = %+v", updated)
	}

	if err := svc.Delete(t.Context(), p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(t.Context(), p.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}

func TestParseEventDate(t *testing.T) {
	cases := map[string]bool{
		"2025-06-21":           true,
		"2025-06-21T20:00:00Z": false,
		"2025-06-21T20:00":     false,
		"2025-06-21 20:00:00":  false,
		"June 21, 2025":        true,
		"Jun 21, 2025":         true,
		"06/21/2025":           true,
	}
	for raw, dateOnly := range cases {
		got, err := ParseEventDate(raw, time.UTC)
		if err != nil {
			t.Errorf("ParseEventDate(%q): %v", raw, err)
			continue
		}
		if got.DateOnly != dateOnly {
			t.Errorf("ParseEventDate(%q).DateOnly = %v", raw, got.DateOnly)
		}
		if got.Time.Year() != 2025 || got.Time.Month() != time.June || got.Time.Day() != 21 {
			t.Errorf("ParseEventDate(%q) = %v", raw, got.Time)
		}
	}
	if _, err := ParseEventDate("21st of June", time.UTC); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}
