package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
	"campus/spacehub/pkg/crypto"
)

// CreateReservationInput is a booking request. GroupSize is only read for group bookings.
type CreateReservationInput struct {
	UserID    uuid.UUID
	SpaceID   uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Kind      model.ReservationKind
	GroupSize *int
	Notes     string
}

// ListReservationsInput filters a user's own reservations.
type ListReservationsInput struct {
	Page      int
	Limit     int
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// AdminListInput filters the reservation ledger.
type AdminListInput struct {
	Page     int
	Limit    int
	Status   string
	SpaceID  *uuid.UUID
	UserID   *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

type ReservationPage struct {
	Items []model.Reservation
	Page  int
	Limit int
	Total int64
}

// ReservationDetails is a reservation plus the invitation link of a group booking.
type ReservationDetails struct {
	*model.Reservation
	InvitationLink string `json:"invitation_link,omitempty"`
}

type InvitationInfo struct {
	Token     string    `json:"token"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CancellationInfo struct {
	CancelledBy model.CancelledBy `json:"cancelled_by"`
	Reason      *string           `json:"reason,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

type AdminReservationDetails struct {
	*model.Reservation
	InvitationInfo   *InvitationInfo   `json:"invitation_info"`
	CancellationInfo *CancellationInfo `json:"cancellation_info"`
}

type ReservationStats struct {
	TotalSpaces        int64 `json:"total_spaces"`
	ActiveReservations int64 `json:"active_reservations"`
	TodayBookings      int64 `json:"today_bookings"`
}

type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput) (*ReservationDetails, error)
	List(ctx context.Context, userID uuid.UUID, in ListReservationsInput) (*ReservationPage, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Reservation, error)
	Cancel(ctx context.Context, id, userID uuid.UUID) (*model.Reservation, error)
	RemoveParticipant(ctx context.Context, reservationID, participantID, requesterID uuid.UUID) (*model.Reservation, error)

	AdminList(ctx context.Context, in AdminListInput) (*ReservationPage, error)
	AdminGet(ctx context.Context, id uuid.UUID) (*AdminReservationDetails, error)
	AdminCancel(ctx context.Context, id uuid.UUID, reason, notes string) (*model.Reservation, error)
	Stats(ctx context.Context) (*ReservationStats, error)
}

type reservationService struct {
	repos  repository.Repositories
	uow    repository.UnitOfWork
	locker repository.Locker
	opts   Options
	logger *zap.Logger
}

func NewReservationService(
	repos repository.Repositories,
	uow repository.UnitOfWork,
	locker repository.Locker,
	opts Options,
	logger *zap.Logger,
) ReservationService {
	return &reservationService{
		repos:  repos,
		uow:    uow,
		locker: locker,
		opts:   opts.withDefaults(),
		logger: nopIfNil(logger),
	}
}

const adminDefaultLimit = 50

func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) (*ReservationDetails, error) {
	switch in.Kind {
	case "":
		in.Kind = model.KindIndividual
	case model.KindIndividual, model.KindGroup:
	default:
		return nil, ErrInvalidKind
	}

	// Space and user locks close the check-then-insert window for both seat and double-booking rules.
	unlock, err := acquire(ctx, s.locker, spaceKey(in.SpaceID), userKey(in.UserID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *model.Reservation
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		// 1. Space must exist
		space, err := repos.Spaces.GetByIDForUpdate(ctx, in.SpaceID)
		if err != nil {
			return notFound(err, ErrSpaceNotFound, "load space")
		}

		// 2. start < end
		iv, err := booking.NewInterval(in.StartTime.UTC(), in.EndTime.UTC())
		if err != nil {
			return ErrInvalidTimeRange
		}

		// 3. Group size within [minCapacity, capacity]
		requested := 1
		if in.Kind == model.KindGroup {
			switch booking.CheckGroupSize(in.GroupSize, space.MinCapacity, space.Capacity) {
			case booking.GroupSizeMissing:
				return ErrGroupSizeRequired
			case booking.GroupSizeBelowMinimum:
				return fmt.Errorf("%w: this room requires at least %d participants", ErrInsufficientGroupSize, space.MinCapacity)
			case booking.GroupSizeAboveCapacity:
				return fmt.Errorf("%w: this room has a maximum capacity of %d", ErrExceedsMaxCapacity, space.Capacity)
			}
			requested = *in.GroupSize
		}

		// 4. Seat capacity over the requested window
		overlapping, err := repos.Reservations.ListOverlapping(ctx, space.ID, iv)
		if err != nil {
			return fmt.Errorf("list overlapping reservations: %w", err)
		}
		occupied := booking.OccupiedSeats(overlapping, iv, s.opts.SeatAccounting)
		if !booking.Fits(occupied, requested, space.Capacity) {
			return fmt.Errorf("%w: %d of %d seats taken", ErrSeatsExhausted, occupied, space.Capacity)
		}

		// 5. The user holds nothing else at this time
		clash, err := repos.Reservations.FindUserOverlap(ctx, in.UserID, iv)
		if err != nil {
			return fmt.Errorf("check user overlap: %w", err)
		}
		if clash != nil {
			return ErrUserDoubleBooked
		}

		// 6. Persist reservation and, for groups, the organizer
		now := s.opts.now()
		reservation := &model.Reservation{
			SpaceID:   space.ID,
			UserID:    in.UserID,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Status:    model.ReservationConfirmed,
			SeatCount: requested,
			Notes:     strings.TrimSpace(in.Notes),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if in.Kind == model.KindGroup {
			token, err := crypto.GenerateInvitationToken()
			if err != nil {
				return fmt.Errorf("generate invitation token: %w", err)
			}
			reservation.InvitationToken = &token
		}
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		if reservation.IsGroup() {
			organizer := &model.Participant{
				ReservationID: reservation.ID,
				UserID:        in.UserID,
				Role:          model.RoleOrganizer,
				Status:        model.ParticipantConfirmed,
				CreatedAt:     now,
			}
			if err := repos.Participants.Create(ctx, organizer); err != nil {
				return fmt.Errorf("create organizer: %w", err)
			}
		}

		created, err = repos.Reservations.GetByID(ctx, reservation.ID)
		if err != nil {
			return fmt.Errorf("reload reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", created.ID.String()),
		zap.String("space_id", created.SpaceID.String()),
		zap.String("user_id", created.UserID.String()),
		zap.String("kind", string(created.Kind())),
		zap.Int("seats", created.SeatCount),
	)

	details := &ReservationDetails{Reservation: created}
	if created.IsGroup() {
		details.InvitationLink = s.opts.InvitationLink(*created.InvitationToken)
	}
	return details, nil
}

func parseStatus(raw string) (*model.ReservationStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := model.ReservationStatus(strings.ToLower(raw))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, raw)
	}
	return &status, nil
}

func (s *reservationService) List(ctx context.Context, userID uuid.UUID, in ListReservationsInput) (*ReservationPage, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	page := repository.Page{Number: in.Page, Size: in.Limit}.Normalize()
	filter := repository.ReservationFilter{
		Status:     status,
		StartsFrom: in.StartDate,
		EndsBy:     in.EndDate,
	}

	items, total, err := s.repos.Reservations.ListByUser(ctx, userID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return &ReservationPage{Items: items, Page: page.Number, Limit: page.Size, Total: total}, nil
}

func (s *reservationService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound, "load reservation")
	}
	if reservation.UserID != userID {
		return nil, ErrNotOwner
	}
	return reservation, nil
}

// cancellable enforces confirmed -> cancelled as the only cancel transition.
func cancellable(reservation *model.Reservation) error {
	switch reservation.Status {
	case model.ReservationCancelled:
		return ErrAlreadyCancelled
	case model.ReservationCompleted:
		return ErrCannotCancelCompleted
	}
	return nil
}

func (s *reservationService) Cancel(ctx context.Context, id, userID uuid.UUID) (*model.Reservation, error) {
	return s.cancel(ctx, id, func(reservation *model.Reservation) error {
		if reservation.UserID != userID {
			return ErrNotOwner
		}
		if err := cancellable(reservation); err != nil {
			return err
		}
		by := model.CancelledByUser
		reservation.CancelledBy = &by
		return nil
	})
}

func (s *reservationService) AdminCancel(ctx context.Context, id uuid.UUID, reason, notes string) (*model.Reservation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.cancel(ctx, id, func(reservation *model.Reservation) error {
		if err := cancellable(reservation); err != nil {
			return err
		}
		by := model.CancelledByAdmin
		reservation.CancelledBy = &by
		reservation.CancellationReason = &reason
		if notes = strings.TrimSpace(notes); notes != "" {
			reservation.CancellationNotes = &notes
		}
		return nil
	})
}

func (s *reservationService) cancel(ctx context.Context, id uuid.UUID, apply func(*model.Reservation) error) (*model.Reservation, error) {
	unlock, err := acquire(ctx, s.locker, reservationKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *model.Reservation
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		reservation, err := repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrReservationNotFound, "load reservation")
		}
		if err := apply(reservation); err != nil {
			return err
		}

		reservation.Status = model.ReservationCancelled
		reservation.UpdatedAt = s.opts.now()
		if err := repos.Reservations.UpdateStatus(ctx, reservation); err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		updated = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", updated.ID.String()),
		zap.String("cancelled_by", string(*updated.CancelledBy)),
	)
	return updated, nil
}

func (s *reservationService) RemoveParticipant(ctx context.Context, reservationID, participantID, requesterID uuid.UUID) (*model.Reservation, error) {
	unlock, err := acquire(ctx, s.locker, reservationKey(reservationID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *model.Reservation
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		reservation, err := repos.Reservations.GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return notFound(err, ErrReservationNotFound, "load reservation")
		}
		if !reservation.IsGroup() {
			return ErrNotGroupReservation
		}

		organizer := reservation.Organizer()
		if organizer == nil {
			return ErrOrganizerMissing
		}
		if organizer.UserID != requesterID {
			return ErrNotOrganizer
		}

		target := reservation.FindParticipant(participantID)
		if target == nil {
			return ErrParticipantNotFound
		}
		if target.Role == model.RoleOrganizer {
			return ErrCannotRemoveOrganizer
		}

		if err := repos.Participants.Delete(ctx, target.ID); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		updated, err = repos.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("reload reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant removed",
		zap.String("reservation_id", reservationID.String()),
		zap.String("participant_id", participantID.String()),
	)
	return updated, nil
}

func (s *reservationService) AdminList(ctx context.Context, in AdminListInput) (*ReservationPage, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.Limit == 0 {
		in.Limit = adminDefaultLimit
	}
	page := repository.Page{Number: in.Page, Size: in.Limit}.Normalize()
	filter := repository.ReservationFilter{
		UserID:     in.UserID,
		SpaceID:    in.SpaceID,
		Status:     status,
		StartsFrom: in.DateFrom,
		StartsTo:   in.DateTo,
	}

	items, total, err := s.repos.Reservations.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return &ReservationPage{Items: items, Page: page.Number, Limit: page.Size, Total: total}, nil
}

func (s *reservationService) AdminGet(ctx context.Context, id uuid.UUID) (*AdminReservationDetails, error) {
	reservation, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound, "load reservation")
	}

	details := &AdminReservationDetails{Reservation: reservation}
	if reservation.IsGroup() {
		details.InvitationInfo = &InvitationInfo{
			Token:     *reservation.InvitationToken,
			Link:      s.opts.InvitationLink(*reservation.InvitationToken),
			CreatedAt: reservation.CreatedAt,
			ExpiresAt: reservation.CreatedAt.Add(s.opts.InvitationTTL),
		}
	}
	if reservation.CancelledBy != nil {
		details.CancellationInfo = &CancellationInfo{
			CancelledBy: *reservation.CancelledBy,
			Reason:      reservation.CancellationReason,
			Notes:       reservation.CancellationNotes,
		}
	}
	return details, nil
}

func (s *reservationService) Stats(ctx context.Context) (*ReservationStats, error) {
	now := s.opts.now()
	dayStart, _ := booking.DayBounds(now.In(s.opts.Location))

	spaces, err := s.repos.Spaces.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count spaces: %w", err)
	}
	active, err := s.repos.Reservations.CountActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("count active reservations: %w", err)
	}
	today, err := s.repos.Reservations.CountStartingBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("count today's bookings: %w", err)
	}
	return &ReservationStats{TotalSpaces: spaces, ActiveReservations: active, TodayBookings: today}, nil
}

var _ ReservationService = (*reservationService)(nil)

