package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus/spacehub/internal/model"
)

type pgParticipantRepository struct {
	db *gorm.DB
}

func NewPGParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *pgParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Participant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pgParticipantRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]model.Participant, error) {
	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *pgParticipantRepository) CountByReservation(ctx context.Context, reservationID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("reservation_id = ?", reservationID).
		Count(&n).Error
	return n, err
}
