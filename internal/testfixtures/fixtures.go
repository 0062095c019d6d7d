package testfixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
)

var spaceCounter uint64

// Monday 2 March 2026, 08:00 UTC.
var referenceTime = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// At returns hh:mm UTC on the reference day.
func At(hour, minute int) time.Time {
	y, m, d := referenceTime.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// SpaceOption configures a generated space.
type SpaceOption func(*model.Space)

func WithCapacity(capacity, minCapacity int) SpaceOption {
	return func(s *model.Space) {
		s.Capacity = capacity
		s.MinCapacity = minCapacity
	}
}

func WithType(t model.SpaceType) SpaceOption {
	return func(s *model.Space) { s.Type = t }
}

func WithName(name string) SpaceOption {
	return func(s *model.Space) { s.Name = name }
}

func WithFloor(floorID uuid.UUID) SpaceOption {
	return func(s *model.Space) { s.FloorID = &floorID }
}

func WithEquipment(items ...string) SpaceOption {
	return func(s *model.Space) { s.Equipment = items }
}

// WithUnavailability sets a maintenance window; a nil end leaves it open-ended.
func WithUnavailability(start time.Time, end *time.Time, reason string) SpaceOption {
	return func(s *model.Space) {
		s.AvailabilityStatus = model.AvailabilityUnavailable
		st := start.UTC()
		s.UnavailabilityStart = &st
		if end != nil {
			e := end.UTC()
			s.UnavailabilityEnd = &e
		}
		if reason != "" {
			s.UnavailabilityReason = &reason
		}
	}
}

// NewSpace returns an unsaved desk with capacity 1 unless overridden.
func NewSpace(opts ...SpaceOption) *model.Space {
	idx := atomic.AddUint64(&spaceCounter, 1)
	space := &model.Space{
		ID:                 uuid.New(),
		Name:               fmt.Sprintf("Space %03d", idx),
		Type:               model.SpaceTypeDesk,
		Capacity:           1,
		MinCapacity:        1,
		AvailabilityStatus: model.AvailabilityAvailable,
	}
	for _, opt := range opts {
		opt(space)
	}
	return space
}

// CreateSpace persists a new space through the harness repositories.
func (h *SQLiteHarness) CreateSpace(tb testing.TB, opts ...SpaceOption) *model.Space {
	tb.Helper()
	space := NewSpace(opts...)
	if err := h.Repositories.Spaces.Create(context.Background(), space); err != nil {
		tb.Fatalf("create space: %v", err)
	}
	return space
}

// CreateFloor persists a floor in the given building.
func (h *SQLiteHarness) CreateFloor(tb testing.TB, name, building string) *model.Floor {
	tb.Helper()
	floor := &model.Floor{Name: name, Building: building}
	if err := h.Repositories.Floors.Create(context.Background(), floor); err != nil {
		tb.Fatalf("create floor: %v", err)
	}
	return floor
}

// CreateReservation inserts a confirmed reservation directly, bypassing admission checks.
func (h *SQLiteHarness) CreateReservation(tb testing.TB, spaceID, userID uuid.UUID, start, end time.Time, seats int) *model.Reservation {
	tb.Helper()
	reservation := &model.Reservation{
		SpaceID:   spaceID,
		UserID:    userID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    model.ReservationConfirmed,
		SeatCount: seats,
	}
	if err := h.Repositories.Reservations.Create(context.Background(), reservation); err != nil {
		tb.Fatalf("create reservation: %v", err)
	}
	return reservation
}
