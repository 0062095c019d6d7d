package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

type SpaceAvailability struct {
	SpaceID        uuid.UUID                `json:"space_id"`
	Name           string                   `json:"name"`
	Status         model.AvailabilityStatus `json:"status"`
	Reason         string                   `json:"reason,omitempty"`
	NextAvailable  *time.Time               `json:"next_available,omitempty"`
	AvailableSeats *int                     `json:"available_seats,omitempty"`
	TotalSeats     *int                     `json:"total_seats,omitempty"`
}

type AvailabilitySnapshot struct {
	Datetime time.Time           `json:"datetime"`
	Spaces   []SpaceAvailability `json:"spaces"`
}

type SlotAvailability struct {
	Time   string                   `json:"time"`
	Status model.AvailabilityStatus `json:"status"`
}

type DayAvailability struct {
	SpaceID uuid.UUID          `json:"space_id"`
	Date    string             `json:"date"`
	Slots   []SlotAvailability `json:"slots"`
}

type AvailabilityService interface {
	// Snapshot reports every space's status at the instant, or now when at is nil.
	Snapshot(ctx context.Context, at *time.Time) (*AvailabilitySnapshot, error)
	// SpaceDay builds the hourly grid of one space for a YYYY-MM-DD date.
	SpaceDay(ctx context.Context, spaceID uuid.UUID, date string) (*DayAvailability, error)
}

type availabilityService struct {
	repos repository.Repositories
	opts  Options
}

func NewAvailabilityService(repos repository.Repositories, opts Options) AvailabilityService {
	return &availabilityService{repos: repos, opts: opts.withDefaults()}
}

// ParseDatetime parses an RFC 3339 instant; an empty string means "now".
func ParseDatetime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDatetime, raw)
	}
	t = t.UTC()
	return &t, nil
}

func (s *availabilityService) Snapshot(ctx context.Context, at *time.Time) (*AvailabilitySnapshot, error) {
	t := s.opts.now()
	if at != nil {
		t = at.UTC()
	}

	spaces, err := s.repos.Spaces.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	covering, err := s.repos.Reservations.ListCovering(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("list covering reservations: %w", err)
	}
	bySpace := make(map[uuid.UUID][]model.Reservation, len(spaces))
	for _, r := range covering {
		bySpace[r.SpaceID] = append(bySpace[r.SpaceID], r)
	}

	result := make([]SpaceAvailability, 0, len(spaces))
	for i := range spaces {
		result = append(result, s.project(&spaces[i], bySpace[spaces[i].ID], t))
	}
	return &AvailabilitySnapshot{Datetime: t, Spaces: result}, nil
}

func (s *availabilityService) project(space *model.Space, covering []model.Reservation, t time.Time) SpaceAvailability {
	view := SpaceAvailability{SpaceID: space.ID, Name: space.Name}

	if space.UnavailableAt(t) {
		view.Status = model.AvailabilityUnavailable
		view.Reason = space.Reason()
		return view
	}

	occupied := booking.SeatsAt(covering, t, s.opts.SeatAccounting)
	if occupied >= space.Capacity {
		view.Status = model.AvailabilityOccupied
		// A zero-capacity row has nothing covering it and no next opening.
		if len(covering) > 0 {
			next := covering[0].EndTime
			for _, r := range covering[1:] {
				if r.EndTime.Before(next) {
					next = r.EndTime
				}
			}
			view.NextAvailable = &next
		}
		return view
	}

	free, total := space.Capacity-occupied, space.Capacity
	view.Status = model.AvailabilityAvailable
	view.AvailableSeats = &free
	view.TotalSeats = &total
	return view
}

func (s *availabilityService) SpaceDay(ctx context.Context, spaceID uuid.UUID, date string) (*DayAvailability, error) {
	day, err := booking.ParseDate(date, s.opts.Location)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDate) {
			return nil, ErrInvalidDateFormat
		}
		return nil, err
	}

	space, err := s.repos.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, notFound(err, ErrSpaceNotFound, "load space")
	}

	dayStart, dayEnd := booking.DayBounds(day)
	reservations, err := s.repos.Reservations.ListOverlapping(ctx, space.ID, booking.Interval{Start: dayStart, End: dayEnd.Add(time.Nanosecond)})
	if err != nil {
		return nil, fmt.Errorf("list day reservations: %w", err)
	}

	slots, err := booking.DaySlots(day, s.opts.OpenHour, s.opts.CloseHour)
	if err != nil {
		return nil, err
	}

	unavailable := space.UnavailableThroughout(dayStart, dayEnd)
	grid := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		status := model.AvailabilityAvailable
		switch {
		case unavailable:
			status = model.AvailabilityUnavailable
		case anyOverlap(reservations, slot.Interval):
			status = model.AvailabilityOccupied
		}
		grid = append(grid, SlotAvailability{Time: slot.Label, Status: status})
	}
	return &DayAvailability{SpaceID: space.ID, Date: date, Slots: grid}, nil
}

func anyOverlap(reservations []model.Reservation, iv booking.Interval) bool {
	for _, r := range reservations {
		if r.Window().Overlaps(iv) {
			return true
		}
	}
	return false
}

var _ AvailabilityService = (*availabilityService)(nil)
