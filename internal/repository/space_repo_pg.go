package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus/spacehub/internal/model"
)

type pgSpaceRepository struct {
	db *gorm.DB
}

func NewPGSpaceRepository(db *gorm.DB) SpaceRepository {
	return &pgSpaceRepository{db: db}
}

func (r *pgSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *pgSpaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Space, error) {
	var space model.Space
	if err := r.db.WithContext(ctx).Preload("Floor").First(&space, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *pgSpaceRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Space, error) {
	var space model.Space
	if err := forUpdate(r.db.WithContext(ctx)).First(&space, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *pgSpaceRepository) List(ctx context.Context, filter SpaceFilter, page Page) ([]model.Space, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Space{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FloorID != nil {
		query = query.Where("floor_id = ?", *filter.FloorID)
	}
	if filter.MinCapacity != nil {
		query = query.Where("capacity >= ?", *filter.MinCapacity)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	// Equipment lives in a JSON column, so it is matched after loading and paged in memory.
	if len(filter.Equipment) > 0 {
		var candidates []model.Space
		if err := query.Preload("Floor").Order("name ASC").Find(&candidates).Error; err != nil {
			return nil, 0, err
		}
		matched := candidates[:0]
		for _, space := range candidates {
			if space.HasEquipment(filter.Equipment) {
				matched = append(matched, space)
			}
		}
		return pageSlice(matched, page), int64(len(matched)), nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var spaces []model.Space
	err := query.Scopes(paginate(page)).Preload("Floor").Order("name ASC").Find(&spaces).Error
	return spaces, total, err
}

func (r *pgSpaceRepository) ListAll(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	err := r.db.WithContext(ctx).Preload("Floor").Order("name ASC").Find(&spaces).Error
	return spaces, err
}

func (r *pgSpaceRepository) Update(ctx context.Context, space *model.Space) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(space).Error
}

func (r *pgSpaceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Space{}).Count(&n).Error
	return n, err
}

func (r *pgSpaceRepository) ReleaseExpiredUnavailability(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Space{}).
		Where("availability_status = ? AND unavailability_end IS NOT NULL AND unavailability_end <= ?", model.AvailabilityUnavailable, now.UTC()).
		Updates(map[string]interface{}{
			"availability_status":   model.AvailabilityAvailable,
			"unavailability_reason": nil,
			"unavailability_start":  nil,
			"unavailability_end":    nil,
		})
	return result.RowsAffected, result.Error
}
