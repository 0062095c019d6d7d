package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

type FloorInput struct {
	Name     string
	Building string
	SVGPath  string
}

// FloorUpdate applies only the non-nil fields.
type FloorUpdate struct {
	Name     *string
	Building *string
	SVGPath  *string
}

type FloorService interface {
	Create(ctx context.Context, in FloorInput) (*model.Floor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Floor, error)
	// List returns floors ordered by name, optionally limited to one building.
	List(ctx context.Context, building string) ([]model.Floor, error)
	Update(ctx context.Context, id uuid.UUID, in FloorUpdate) (*model.Floor, error)
}

type floorService struct {
	floors repository.FloorRepository
	logger *zap.Logger
}

func NewFloorService(floors repository.FloorRepository, logger *zap.Logger) FloorService {
	return &floorService{floors: floors, logger: nopIfNil(logger)}
}

func checkFloor(floor *model.Floor) error {
	if floor.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFloor)
	}
	if floor.Building == "" {
		return fmt.Errorf("%w: building is required", ErrInvalidFloor)
	}
	return nil
}

func (s *floorService) Create(ctx context.Context, in FloorInput) (*model.Floor, error) {
	floor := &model.Floor{
		Name:     strings.TrimSpace(in.Name),
		Building: strings.TrimSpace(in.Building),
		SVGPath:  strings.TrimSpace(in.SVGPath),
	}
	if err := checkFloor(floor); err != nil {
		return nil, err
	}
	if err := s.floors.Create(ctx, floor); err != nil {
		return nil, fmt.Errorf("create floor: %w", err)
	}
	s.logger.Info("floor created", zap.String("floor_id", floor.ID.String()), zap.String("building", floor.Building))
	return floor, nil
}

func (s *floorService) Get(ctx context.Context, id uuid.UUID) (*model.Floor, error) {
	floor, err := s.floors.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFloorNotFound, "load floor")
	}
	return floor, nil
}

func (s *floorService) List(ctx context.Context, building string) ([]model.Floor, error) {
	floors, err := s.floors.List(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	return floors, nil
}

func (s *floorService) Update(ctx context.Context, id uuid.UUID, in FloorUpdate) (*model.Floor, error) {
	floor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		floor.Name = strings.TrimSpace(*in.Name)
	}
	if in.Building != nil {
		floor.Building = strings.TrimSpace(*in.Building)
	}
	if in.SVGPath != nil {
		floor.SVGPath = strings.TrimSpace(*in.SVGPath)
	}
	if err := checkFloor(floor); err != nil {
		return nil, err
	}
	if err := s.floors.Update(ctx, floor); err != nil {
		return nil, fmt.Errorf("update floor: %w", err)
	}
	return floor, nil
}

var _ FloorService = (*floorService)(nil)
