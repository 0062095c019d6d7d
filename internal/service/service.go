package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/repository"
)

// Options carries the tunables shared by the booking services.
type Options struct {
	SeatAccounting booking.SeatAccounting
	InvitationTTL  time.Duration
	// BaseURL prefixes invitation links: <BaseURL>/invite/<token>.
	BaseURL   string
	Location  *time.Location
	OpenHour  int
	CloseHour int
	Now       func() time.Time
}

const defaultInvitationTTL = 30 * 24 * time.Hour

func (o Options) withDefaults() Options {
	if o.SeatAccounting == "" {
		o.SeatAccounting = booking.SeatsDeclared
	}
	if o.InvitationTTL <= 0 {
		o.InvitationTTL = defaultInvitationTTL
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.OpenHour == 0 && o.CloseHour == 0 {
		o.OpenHour, o.CloseHour = 8, 22
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return o
}

func (o Options) now() time.Time {
	return o.Now().UTC()
}

// InvitationLink builds the shareable URL for a group reservation token.
func (o Options) InvitationLink(token string) string {
	return fmt.Sprintf("%s/invite/%s", o.BaseURL, token)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// acquire takes the application locks; a wait timeout surfaces as ErrBookingInProgress.
func acquire(ctx context.Context, locker repository.Locker, keys ...string) (repository.Unlock, error) {
	unlock, err := locker.Acquire(ctx, keys...)
	if err != nil {
		if errors.Is(err, repository.ErrLockTimeout) {
			return nil, ErrBookingInProgress
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return unlock, nil
}

// notFound maps gorm's missing-row error onto the given sentinel.
func notFound(err error, sentinel *Error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

func spaceKey(id fmt.Stringer) string       { return "space:" + id.String() }
func userKey(id fmt.Stringer) string        { return "user:" + id.String() }
func reservationKey(id fmt.Stringer) string { return "reservation:" + id.String() }
