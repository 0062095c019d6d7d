package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus/spacehub/internal/model"
)

type pgFloorRepository struct {
	db *gorm.DB
}

func NewPGFloorRepository(db *gorm.DB) FloorRepository {
	return &pgFloorRepository{db: db}
}

func (r *pgFloorRepository) Create(ctx context.Context, floor *model.Floor) error {
	return r.db.WithContext(ctx).Create(floor).Error
}

func (r *pgFloorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Floor, error) {
	var floor model.Floor
	if err := r.db.WithContext(ctx).First(&floor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &floor, nil
}

func (r *pgFloorRepository) List(ctx context.Context, building string) ([]model.Floor, error) {
	query := r.db.WithContext(ctx).Model(&model.Floor{})
	if b := strings.TrimSpace(building); b != "" {
		query = query.Where("building = ?", b)
	}
	var floors []model.Floor
	err := query.Order("name ASC").Find(&floors).Error
	return floors, err
}

func (r *pgFloorRepository) Update(ctx context.Context, floor *model.Floor) error {
	return r.db.WithContext(ctx).Save(floor).Error
}
