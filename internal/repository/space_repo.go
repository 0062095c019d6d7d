package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/model"
)

type SpaceFilter struct {
	Type        *model.SpaceType
	FloorID     *uuid.UUID
	MinCapacity *int
	Search      string
	// Equipment lists items a space must all carry.
	Equipment []string
}

type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	// GetByID loads the space with its floor.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Space, error)
	// GetByIDForUpdate row-locks the space until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Space, error)
	List(ctx context.Context, filter SpaceFilter, page Page) ([]model.Space, int64, error)
	// ListAll loads every space with its floor, ordered by name.
	ListAll(ctx context.Context) ([]model.Space, error)
	Update(ctx context.Context, space *model.Space) error
	Count(ctx context.Context) (int64, error)
	// ReleaseExpiredUnavailability clears maintenance windows that ended at or before now.
	ReleaseExpiredUnavailability(ctx context.Context, now time.Time) (int64, error)
}
