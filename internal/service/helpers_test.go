package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
	"campus/spacehub/internal/service"
	"campus/spacehub/internal/testfixtures"
)

type testEnv struct {
	h            *testfixtures.SQLiteHarness
	clock        *testfixtures.Clock
	opts         service.Options
	reservations service.ReservationService
	invitations  service.InvitationService
	availability service.AvailabilityService
	spaces       service.SpaceService
}

func newTestEnv(t *testing.T, tweak ...func(*service.Options)) *testEnv {
	t.Helper()

	h := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(time.Time{})
	opts := service.Options{
		SeatAccounting: booking.SeatsDeclared,
		InvitationTTL:  30 * 24 * time.Hour,
		BaseURL:        "https://spaces.example.edu/",
		Location:       time.UTC,
		OpenHour:       8,
		CloseHour:      22,
		Now:            clock.NowFunc(),
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	locker := repository.NewMemoryLocker(10 * time.Second)

	return &testEnv{
		h:            h,
		clock:        clock,
		opts:         opts,
		reservations: service.NewReservationService(h.Repositories, h.UnitOfWork, locker, opts, nil),
		invitations:  service.NewInvitationService(h.Repositories, h.UnitOfWork, locker, opts, nil),
		availability: service.NewAvailabilityService(h.Repositories, opts),
		spaces:       service.NewSpaceService(h.Repositories, h.UnitOfWork, locker, nil),
	}
}

func intPtr(n int) *int { return &n }

func (e *testEnv) book(t *testing.T, userID, spaceID uuid.UUID, start, end time.Time) (*service.ReservationDetails, error) {
	t.Helper()
	return e.reservations.Create(context.Background(), service.CreateReservationInput{
		UserID:    userID,
		SpaceID:   spaceID,
		StartTime: start,
		EndTime:   end,
		Kind:      model.KindIndividual,
	})
}

func (e *testEnv) bookGroup(t *testing.T, userID, spaceID uuid.UUID, start, end time.Time, size int) (*service.ReservationDetails, error) {
	t.Helper()
	return e.reservations.Create(context.Background(), service.CreateReservationInput{
		UserID:    userID,
		SpaceID:   spaceID,
		StartTime: start,
		EndTime:   end,
		Kind:      model.KindGroup,
		GroupSize: &size,
	})
}

// mustBook wraps a booking call: mustBook(t)(env.book(...)).
func mustBook(t *testing.T) func(*service.ReservationDetails, error) *service.ReservationDetails {
	return func(res *service.ReservationDetails, err error) *service.ReservationDetails {
		t.Helper()
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}
		return res
	}
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
