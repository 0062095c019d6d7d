package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

// InvitationSnapshot is the public view of a group reservation behind a token.
type InvitationSnapshot struct {
	Token               string             `json:"token"`
	Reservation         *model.Reservation `json:"reservation"`
	InvitationCreatedAt time.Time          `json:"invitation_created_at"`
	ExpiresAt           time.Time          `json:"expires_at"`
	IsValid             bool               `json:"is_valid"`
	CanJoin             bool               `json:"can_join"`
}

type InvitationService interface {
	Validate(ctx context.Context, token string) (*InvitationSnapshot, error)
	Join(ctx context.Context, token string, userID uuid.UUID) (*model.Reservation, error)
}

type invitationService struct {
	repos  repository.Repositories
	uow    repository.UnitOfWork
	locker repository.Locker
	opts   Options
	logger *zap.Logger
}

func NewInvitationService(
	repos repository.Repositories,
	uow repository.UnitOfWork,
	locker repository.Locker,
	opts Options,
	logger *zap.Logger,
) InvitationService {
	return &invitationService{
		repos:  repos,
		uow:    uow,
		locker: locker,
		opts:   opts.withDefaults(),
		logger: nopIfNil(logger),
	}
}

// lookup resolves a token and rejects it once the validity window has passed.
func (s *invitationService) lookup(ctx context.Context, token string) (*model.Reservation, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	reservation, err := s.repos.Reservations.GetByToken(ctx, token)
	if err != nil {
		return nil, notFound(err, ErrTokenNotFound, "load invitation")
	}
	if s.expired(reservation) {
		return nil, ErrTokenExpired
	}
	return reservation, nil
}

func (s *invitationService) expired(reservation *model.Reservation) bool {
	return booking.InvitationExpired(reservation.CreatedAt, s.opts.now(), s.opts.InvitationTTL)
}

func capacityOf(reservation *model.Reservation) int {
	if reservation.Space == nil {
		return 0
	}
	return reservation.Space.Capacity
}

func (s *invitationService) Validate(ctx context.Context, token string) (*InvitationSnapshot, error) {
	reservation, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	isValid := reservation.Status == model.ReservationConfirmed
	return &InvitationSnapshot{
		Token:               token,
		Reservation:         reservation,
		InvitationCreatedAt: reservation.CreatedAt,
		ExpiresAt:           reservation.CreatedAt.Add(s.opts.InvitationTTL),
		IsValid:             isValid,
		CanJoin:             isValid && len(reservation.Participants) < capacityOf(reservation),
	}, nil
}

func (s *invitationService) Join(ctx context.Context, token string, userID uuid.UUID) (*model.Reservation, error) {
	// Resolve the reservation first so the lock is keyed like other participant-set writers.
	found, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	unlock, err := acquire(ctx, s.locker, reservationKey(found.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *model.Reservation
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		// 1. Re-read under lock; expiry is checked again against fresh state
		reservation, err := repos.Reservations.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return notFound(err, ErrTokenNotFound, "load reservation")
		}
		if s.expired(reservation) {
			return ErrTokenExpired
		}

		// 2. Only confirmed reservations accept members
		if reservation.Status != model.ReservationConfirmed {
			return ErrReservationInactive
		}

		// 3. Membership and capacity
		if reservation.HasParticipant(userID) {
			return ErrAlreadyJoined
		}
		if len(reservation.Participants) >= capacityOf(reservation) {
			return ErrReservationFull
		}

		participant := &model.Participant{
			ReservationID: reservation.ID,
			UserID:        userID,
			Role:          model.RoleParticipant,
			Status:        model.ParticipantConfirmed,
			CreatedAt:     s.opts.now(),
		}
		if err := repos.Participants.Create(ctx, participant); err != nil {
			return fmt.Errorf("create participant: %w", err)
		}

		updated, err = repos.Reservations.GetByID(ctx, reservation.ID)
		if err != nil {
			return fmt.Errorf("reload reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("participant joined",
		zap.String("reservation_id", updated.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("participants", len(updated.Participants)),
	)
	return updated, nil
}

var _ InvitationService = (*invitationService)(nil)
