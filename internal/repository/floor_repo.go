package repository

import (
	"context"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
)

type FloorRepository interface {
	Create(ctx context.Context, floor *model.Floor) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Floor, error)
	// List orders by name; an empty building lists every floor.
	List(ctx context.Context, building string) ([]model.Floor, error)
	Update(ctx context.Context, floor *model.Floor) error
}
