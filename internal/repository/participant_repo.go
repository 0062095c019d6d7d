package repository

import (
	"context"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *model.Participant) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Participant, error)
	CountByReservation(ctx context.Context, reservationID uuid.UUID) (int64, error)
}
