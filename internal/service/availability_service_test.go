package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/service"
	"campus/spacehub/internal/testfixtures"
)

func findSpace(t *testing.T, snapshot *service.AvailabilitySnapshot, id uuid.UUID) service.SpaceAvailability {
	t.Helper()
	for _, s := range snapshot.Spaces {
		if s.SpaceID == id {
			return s
		}
	}
	t.Fatalf("space %s missing from snapshot", id)
	return service.SpaceAvailability{}
}

func TestSnapshotStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	windowEnd := testfixtures.At(18, 0)
	closed := env.h.CreateSpace(t, testfixtures.WithUnavailability(testfixtures.At(9, 0), &windowEnd, "Painting"))
	busy := env.h.CreateSpace(t, testfixtures.WithCapacity(2, 1))
	shared := env.h.CreateSpace(t, testfixtures.WithCapacity(4, 1))

	mustBook(t)(env.book(t, uuid.New(), busy.ID, testfixtures.At(10, 0), testfixtures.At(11, 0)))
	mustBook(t)(env.book(t, uuid.New(), busy.ID, testfixtures.At(9, 30), testfixtures.At(10, 45)))
	mustBook(t)(env.bookGroup(t, uuid.New(), shared.ID, testfixtures.At(10, 0), testfixtures.At(12, 0), 3))

	at := testfixtures.At(10, 15)
	snapshot, err := env.availability.Snapshot(ctx, &at)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snapshot.Datetime.Equal(at) || len(snapshot.Spaces) != 3 {
		t.Fatalf("unexpected snapshot header %+v", snapshot)
	}

	got := findSpace(t, snapshot, closed.ID)
	if got.Status != model.AvailabilityUnavailable || got.Reason != "Painting" {
		t.Fatalf("closed space: %+v", got)
	}

	got = findSpace(t, snapshot, busy.ID)
	if got.Status != model.AvailabilityOccupied || got.NextAvailable == nil || !got.NextAvailable.Equal(testfixtures.At(10, 45)) {
		t.Fatalf("busy space: %+v", got)
	}

	got = findSpace(t, snapshot, shared.ID)
	if got.Status != model.AvailabilityAvailable || got.AvailableSeats == nil || *got.AvailableSeats != 1 || *got.TotalSeats != 4 {
		t.Fatalf("shared space: %+v", got)
	}
}

func TestSnapshotUsesClockWhenInstantOmitted(t *testing.T) {
	env := newTestEnv(t)
	env.h.CreateSpace(t)

	snapshot, err := env.availability.Snapshot(context.Background(), nil)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snapshot.Datetime.Equal(testfixtures.ReferenceTime()) {
		t.Fatalf("datetime = %v, want %v", snapshot.Datetime, testfixtures.ReferenceTime())
	}
}

func TestSnapshotOpenEndedWindowStaysUnavailable(t *testing.T) {
	env := newTestEnv(t)
	space := env.h.CreateSpace(t, testfixtures.WithUnavailability(testfixtures.At(9, 0), nil, ""))

	later := testfixtures.At(9, 0).AddDate(0, 6, 0)
	snapshot, err := env.availability.Snapshot(context.Background(), &later)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	got := findSpace(t, snapshot, space.ID)
	if got.Status != model.AvailabilityUnavailable || got.Reason != "Maintenance" {
		t.Fatalf("open-ended window: %+v", got)
	}
}

func TestSnapshotToleratesZeroCapacityRow(t *testing.T) {
	env := newTestEnv(t)
	broken := env.h.CreateSpace(t)
	// Written around Space.Validate, as an external registry could.
	if err := env.h.DB.Model(&model.Space{}).Where("id = ?", broken.ID).Update("capacity", 0).Error; err != nil {
		t.Fatalf("zero capacity: %v", err)
	}

	at := testfixtures.At(10, 0)
	snapshot, err := env.availability.Snapshot(context.Background(), &at)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	got := findSpace(t, snapshot, broken.ID)
	if got.Status != model.AvailabilityOccupied || got.NextAvailable != nil {
		t.Fatalf("zero-capacity space: %+v", got)
	}
}

func TestSpaceDayGrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	space := env.h.CreateSpace(t)
	mustBook(t)(env.book(t, uuid.New(), space.ID, testfixtures.At(9, 0), testfixtures.At(10, 30)))

	day, err := env.availability.SpaceDay(ctx, space.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("SpaceDay: %v", err)
	}
	if len(day.Slots) != 14 || day.Slots[0].Time != "08:00" || day.Slots[13].Time != "21:00" {
		t.Fatalf("unexpected slot layout %+v", day.Slots)
	}
	for _, slot := range day.Slots {
		want := model.AvailabilityAvailable
		if slot.Time == "09:00" || slot.Time == "10:00" {
			want = model.AvailabilityOccupied
		}
		if slot.Status != want {
			t.Errorf("slot %s = %s, want %s", slot.Time, slot.Status, want)
		}
	}
}

func TestSpaceDayGridMaintenance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wholeStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wholeEnd := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	closed := env.h.CreateSpace(t, testfixtures.WithUnavailability(wholeStart, &wholeEnd, "Renovation"))

	partEnd := testfixtures.At(12, 0)
	partial := env.h.CreateSpace(t, testfixtures.WithUnavailability(testfixtures.At(9, 0), &partEnd, ""))

	day, err := env.availability.SpaceDay(ctx, closed.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("SpaceDay: %v", err)
	}
	for _, slot := range day.Slots {
		if slot.Status != model.AvailabilityUnavailable {
			t.Fatalf("slot %s = %s during whole-day maintenance", slot.Time, slot.Status)
		}
	}

	day, err = env.availability.SpaceDay(ctx, partial.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("SpaceDay: %v", err)
	}
	for _, slot := range day.Slots {
		if slot.Status == model.AvailabilityUnavailable {
			t.Fatalf("partial window must not close slot %s", slot.Time)
		}
	}
}

func TestSpaceDayErrors(t *testing.T) {
	env := newTestEnv(t)
	space := env.h.CreateSpace(t)

	for _, date := range []string{"02-03-2026", "2026-3-2", "2026-02-30", ""} {
		_, err := env.availability.SpaceDay(context.Background(), space.ID, date)
		expectErr(t, err, service.ErrInvalidDateFormat)
	}

	_, err := env.availability.SpaceDay(context.Background(), uuid.New(), "2026-03-02")
	expectErr(t, err, service.ErrSpaceNotFound)
}

func TestParseDatetime(t *testing.T) {
	got, err := service.ParseDatetime("2026-03-02T10:00:00+02:00")
	if err != nil {
		t.Fatalf("ParseDatetime: %v", err)
	}
	if !got.Equal(testfixtures.At(8, 0)) || got.Location() != time.UTC {
		t.Fatalf("unexpected instant %v", got)
	}

	if got, err := service.ParseDatetime(""); got != nil || err != nil {
		t.Fatalf("empty input = %v, %v", got, err)
	}

	_, err = service.ParseDatetime("tomorrow")
	expectErr(t, err, service.ErrInvalidDatetime)
}
