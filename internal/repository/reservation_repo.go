package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
)

type ReservationFilter struct {
	UserID     *uuid.UUID
	SpaceID    *uuid.UUID
	Status     *model.ReservationStatus
	StartsFrom *time.Time // start_time >= StartsFrom
	StartsTo   *time.Time // start_time <= StartsTo
	EndsBy     *time.Time // end_time <= EndsBy
}

// SpaceReservationCount is one row of a per-space reservation tally.
type SpaceReservationCount struct {
	SpaceID          uuid.UUID
	ReservationCount int64
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	// GetByID loads the reservation with its space and participants.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// GetByIDForUpdate is GetByID with the reservation row locked.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	GetByToken(ctx context.Context, token string) (*model.Reservation, error)
	// ListOverlapping returns confirmed reservations on the space intersecting iv.
	ListOverlapping(ctx context.Context, spaceID uuid.UUID, iv booking.Interval) ([]model.Reservation, error)
	// FindUserOverlap returns a confirmed reservation of the user intersecting iv, or nil.
	FindUserOverlap(ctx context.Context, userID uuid.UUID, iv booking.Interval) (*model.Reservation, error)
	// ListCovering returns confirmed reservations with start <= t < end.
	ListCovering(ctx context.Context, t time.Time) ([]model.Reservation, error)
	// ListByUser orders by start time, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter ReservationFilter, page Page) ([]model.Reservation, int64, error)
	// List orders by creation time, newest first.
	List(ctx context.Context, filter ReservationFilter, page Page) ([]model.Reservation, int64, error)
	// UpdateStatus persists status and cancellation columns only.
	UpdateStatus(ctx context.Context, reservation *model.Reservation) error
	// CompleteEnded moves confirmed reservations that ended at or before now to completed.
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
	// CountActive counts confirmed reservations that have not ended by now.
	CountActive(ctx context.Context, now time.Time) (int64, error)
	// CountStartingBetween counts confirmed reservations starting in [from, to).
	CountStartingBetween(ctx context.Context, from, to time.Time) (int64, error)
	// CountConfirmedBySpace tallies confirmed reservations per space, busiest first.
	CountConfirmedBySpace(ctx context.Context) ([]SpaceReservationCount, error)
	// CountDistinctUsers counts users holding at least one reservation of any status.
	CountDistinctUsers(ctx context.Context) (int64, error)
}
