package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

type SpaceInput struct {
	Name        string
	Type        model.SpaceType
	Description string
	Capacity    int
	MinCapacity int
	FloorID     *uuid.UUID
	Equipment   []string
}

// SpaceUpdate applies only the non-nil fields.
type SpaceUpdate struct {
	Name        *string
	Type        *model.SpaceType
	Description *string
	Capacity    *int
	MinCapacity *int
	FloorID     *uuid.UUID
	Equipment   *[]string
}

type ListSpacesInput struct {
	Page        int
	Limit       int
	Type        string
	FloorID     *uuid.UUID
	MinCapacity *int
	Search      string
	Equipment   []string
}

type SpacePage struct {
	Items []model.Space
	Page  int
	Limit int
	Total int64
}

type SpaceService interface {
	Create(ctx context.Context, in SpaceInput) (*model.Space, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Space, error)
	List(ctx context.Context, in ListSpacesInput) (*SpacePage, error)
	Update(ctx context.Context, id uuid.UUID, in SpaceUpdate) (*model.Space, error)
	// MarkUnavailable opens a maintenance window; a nil end leaves it open until MarkAvailable.
	MarkUnavailable(ctx context.Context, id uuid.UUID, reason string, start time.Time, end *time.Time) (*model.Space, error)
	MarkAvailable(ctx context.Context, id uuid.UUID) (*model.Space, error)
}

type spaceService struct {
	repos  repository.Repositories
	uow    repository.UnitOfWork
	locker repository.Locker
	logger *zap.Logger
}

func NewSpaceService(repos repository.Repositories, uow repository.UnitOfWork, locker repository.Locker, logger *zap.Logger) SpaceService {
	return &spaceService{repos: repos, uow: uow, locker: locker, logger: nopIfNil(logger)}
}

func validSpaceType(t model.SpaceType) bool {
	return t == model.SpaceTypeDesk || t == model.SpaceTypeGroupRoom
}

func checkSpace(space *model.Space) error {
	if strings.TrimSpace(space.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpace)
	}
	if !validSpaceType(space.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSpace, space.Type)
	}
	if err := space.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpace, err)
	}
	return nil
}

// normalizeEquipment trims items and drops blanks; the result is never nil.
func normalizeEquipment(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *spaceService) checkFloorExists(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.repos.Floors.GetByID(ctx, *id); err != nil {
		return notFound(err, ErrFloorNotFound, "load floor")
	}
	return nil
}

func (s *spaceService) Create(ctx context.Context, in SpaceInput) (*model.Space, error) {
	if in.Type == "" {
		in.Type = model.SpaceTypeDesk
	}
	if in.MinCapacity == 0 {
		in.MinCapacity = 1
	}
	space := &model.Space{
		Name:               strings.TrimSpace(in.Name),
		Type:               in.Type,
		Description:        in.Description,
		Capacity:           in.Capacity,
		MinCapacity:        in.MinCapacity,
		FloorID:            in.FloorID,
		Equipment:          normalizeEquipment(in.Equipment),
		AvailabilityStatus: model.AvailabilityAvailable,
	}
	if err := checkSpace(space); err != nil {
		return nil, err
	}
	if err := s.checkFloorExists(ctx, space.FloorID); err != nil {
		return nil, err
	}
	if err := s.repos.Spaces.Create(ctx, space); err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}
	s.logger.Info("space created", zap.String("space_id", space.ID.String()), zap.Int("capacity", space.Capacity))
	return space, nil
}

func (s *spaceService) Get(ctx context.Context, id uuid.UUID) (*model.Space, error) {
	space, err := s.repos.Spaces.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSpaceNotFound, "load space")
	}
	return space, nil
}

func (s *spaceService) List(ctx context.Context, in ListSpacesInput) (*SpacePage, error) {
	filter := repository.SpaceFilter{
		FloorID:     in.FloorID,
		MinCapacity: in.MinCapacity,
		Search:      in.Search,
		Equipment:   normalizeEquipment(in.Equipment),
	}
	if in.Type != "" {
		t := model.SpaceType(in.Type)
		if !validSpaceType(t) {
			return nil, fmt.Errorf("%w: unknown space type %q", ErrInvalidFilter, in.Type)
		}
		filter.Type = &t
	}
	page := repository.Page{Number: in.Page, Size: in.Limit}.Normalize()

	items, total, err := s.repos.Spaces.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return &SpacePage{Items: items, Page: page.Number, Limit: page.Size, Total: total}, nil
}

// mutate edits a space under its booking lock so capacity never shifts mid-admission.
func (s *spaceService) mutate(ctx context.Context, id uuid.UUID, apply func(*model.Space) error) (*model.Space, error) {
	unlock, err := acquire(ctx, s.locker, spaceKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *model.Space
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		space, err := repos.Spaces.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrSpaceNotFound, "load space")
		}
		if err := apply(space); err != nil {
			return err
		}
		if err := repos.Spaces.Update(ctx, space); err != nil {
			return fmt.Errorf("update space: %w", err)
		}
		updated = space
		return nil
	})
	return updated, err
}

func (s *spaceService) Update(ctx context.Context, id uuid.UUID, in SpaceUpdate) (*model.Space, error) {
	if err := s.checkFloorExists(ctx, in.FloorID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(space *model.Space) error {
		if in.Name != nil {
			space.Name = strings.TrimSpace(*in.Name)
		}
		if in.Type != nil {
			space.Type = *in.Type
		}
		if in.Description != nil {
			space.Description = *in.Description
		}
		if in.Capacity != nil {
			space.Capacity = *in.Capacity
		}
		if in.MinCapacity != nil {
			space.MinCapacity = *in.MinCapacity
		}
		if in.FloorID != nil {
			space.FloorID = in.FloorID
		}
		if in.Equipment != nil {
			space.Equipment = normalizeEquipment(*in.Equipment)
		}
		return checkSpace(space)
	})
}

func (s *spaceService) MarkUnavailable(ctx context.Context, id uuid.UUID, reason string, start time.Time, end *time.Time) (*model.Space, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidSpace)
	}
	start = start.UTC()
	if end != nil {
		e := end.UTC()
		if e.Before(start) {
			return nil, fmt.Errorf("%w: unavailability ends before it starts", ErrInvalidTimeRange)
		}
		end = &e
	}

	space, err := s.mutate(ctx, id, func(space *model.Space) error {
		space.AvailabilityStatus = model.AvailabilityUnavailable
		space.UnavailabilityStart = &start
		space.UnavailabilityEnd = end
		space.UnavailabilityReason = nil
		if r := strings.TrimSpace(reason); r != "" {
			space.UnavailabilityReason = &r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("space marked unavailable", zap.String("space_id", id.String()), zap.String("reason", space.Reason()))
	return space, nil
}

func (s *spaceService) MarkAvailable(ctx context.Context, id uuid.UUID) (*model.Space, error) {
	space, err := s.mutate(ctx, id, func(space *model.Space) error {
		space.AvailabilityStatus = model.AvailabilityAvailable
		space.UnavailabilityStart = nil
		space.UnavailabilityEnd = nil
		space.UnavailabilityReason = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("space marked available", zap.String("space_id", id.String()))
	return space, nil
}

var _ SpaceService = (*spaceService)(nil)
