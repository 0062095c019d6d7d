package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
)

type pgReservationRepository struct {
	db *gorm.DB
}

func NewPGReservationRepository(db *gorm.DB) ReservationRepository {
	return &pgReservationRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Space").Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *pgReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(reservation).Error
}

func (r *pgReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := withDetails(r.db.WithContext(ctx)).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *pgReservationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := withDetails(forUpdate(r.db.WithContext(ctx))).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *pgReservationRepository) GetByToken(ctx context.Context, token string) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := withDetails(r.db.WithContext(ctx)).First(&reservation, "invitation_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *pgReservationRepository) ListOverlapping(ctx context.Context, spaceID uuid.UUID, iv booking.Interval) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND status = ?", spaceID, model.ReservationConfirmed).
		Where("start_time < ? AND end_time > ?", iv.End.UTC(), iv.Start.UTC()).
		Order("start_time ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *pgReservationRepository) FindUserOverlap(ctx context.Context, userID uuid.UUID, iv booking.Interval) (*model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.ReservationConfirmed).
		Where("start_time < ? AND end_time > ?", iv.End.UTC(), iv.Start.UTC()).
		Order("start_time ASC").
		Limit(1).
		Find(&reservations).Error
	if err != nil || len(reservations) == 0 {
		return nil, err
	}
	return &reservations[0], nil
}

func (r *pgReservationRepository) ListCovering(ctx context.Context, t time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ReservationConfirmed).
		Where("start_time <= ? AND end_time > ?", t.UTC(), t.UTC()).
		Order("end_time ASC").
		Find(&reservations).Error
	return reservations, err
}

func applyReservationFilter(query *gorm.DB, filter ReservationFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.SpaceID != nil {
		query = query.Where("space_id = ?", *filter.SpaceID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartsFrom != nil {
		query = query.Where("start_time >= ?", filter.StartsFrom.UTC())
	}
	if filter.StartsTo != nil {
		query = query.Where("start_time <= ?", filter.StartsTo.UTC())
	}
	if filter.EndsBy != nil {
		query = query.Where("end_time <= ?", filter.EndsBy.UTC())
	}
	return query
}

func (r *pgReservationRepository) list(ctx context.Context, filter ReservationFilter, page Page, order string) ([]model.Reservation, int64, error) {
	query := applyReservationFilter(r.db.WithContext(ctx).Model(&model.Reservation{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []model.Reservation
	err := withDetails(query).Scopes(paginate(page)).Order(order).Find(&reservations).Error
	return reservations, total, err
}

func (r *pgReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ReservationFilter, page Page) ([]model.Reservation, int64, error) {
	filter.UserID = &userID
	return r.list(ctx, filter, page, "start_time DESC")
}

func (r *pgReservationRepository) List(ctx context.Context, filter ReservationFilter, page Page) ([]model.Reservation, int64, error) {
	return r.list(ctx, filter, page, "created_at DESC")
}

func (r *pgReservationRepository) UpdateStatus(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).
		Model(reservation).
		Select("status", "cancelled_by", "cancellation_reason", "cancellation_notes", "updated_at").
		Updates(reservation).Error
}

func (r *pgReservationRepository) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status = ? AND end_time <= ?", model.ReservationConfirmed, now.UTC()).
		Update("status", model.ReservationCompleted)
	return result.RowsAffected, result.Error
}

func (r *pgReservationRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status = ? AND end_time >= ?", model.ReservationConfirmed, now.UTC()).
		Count(&n).Error
	return n, err
}

func (r *pgReservationRepository) CountStartingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status = ? AND start_time >= ? AND start_time < ?", model.ReservationConfirmed, from.UTC(), to.UTC()).
		Count(&n).Error
	return n, err
}

func (r *pgReservationRepository) CountConfirmedBySpace(ctx context.Context) ([]SpaceReservationCount, error) {
	var rows []SpaceReservationCount
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Select("space_id, COUNT(*) AS reservation_count").
		Where("status = ?", model.ReservationConfirmed).
		Group("space_id").
		Order("reservation_count DESC, space_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *pgReservationRepository) CountDistinctUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}
