package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewPGRepositories binds all repositories to db, which may be a transaction.
func NewPGRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Floors:       NewPGFloorRepository(db),
		Spaces:       NewPGSpaceRepository(db),
		Reservations: NewPGReservationRepository(db),
		Participants: NewPGParticipantRepository(db),
	}
}

type pgUnitOfWork struct {
	db *gorm.DB
}

func NewPGUnitOfWork(db *gorm.DB) UnitOfWork {
	return &pgUnitOfWork{db: db}
}

func (u *pgUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPGRepositories(tx))
	})
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect has row locks.
// SQLite serializes writers on the database file instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func paginate(page Page) func(db *gorm.DB) *gorm.DB {
	page = page.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Size)
	}
}

func pageSlice[T any](items []T, page Page) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

var (
	_ UnitOfWork            = (*pgUnitOfWork)(nil)
	_ FloorRepository       = (*pgFloorRepository)(nil)
	_ SpaceRepository       = (*pgSpaceRepository)(nil)
	_ ReservationRepository = (*pgReservationRepository)(nil)
	_ ParticipantRepository = (*pgParticipantRepository)(nil)
)
