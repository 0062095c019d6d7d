package repository

import (
	"context"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects one page of a listing; zero values fall back to defaults.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to 1-based numbering and [1, MaxPageSize] sizes.
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	switch {
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	case p.Size <= 0:
		p.Size = DefaultPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Repositories bundles the repositories sharing one connection or transaction.
type Repositories struct {
	Floors       FloorRepository
	Spaces       SpaceRepository
	Reservations ReservationRepository
	Participants ParticipantRepository
}

// UnitOfWork runs fn inside a single transaction; fn's error rolls it back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
