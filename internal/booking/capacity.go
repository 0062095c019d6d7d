package booking

import (
	"fmt"
	"time"
)

// SeatAccounting selects how an existing reservation is charged against capacity.
type SeatAccounting string

const (
	// SeatsDeclared charges each reservation its declared seat count (group size, or 1).
	SeatsDeclared SeatAccounting = "seats"
	// SeatsLegacy charges every reservation exactly one seat regardless of group size.
	SeatsLegacy SeatAccounting = "legacy"
)

func ParseSeatAccounting(s string) (SeatAccounting, error) {
	switch SeatAccounting(s) {
	case SeatsDeclared, SeatsLegacy:
		return SeatAccounting(s), nil
	case "":
		return SeatsDeclared, nil
	}
	return "", fmt.Errorf("unknown seat accounting %q", s)
}

// Charge returns the seats a reservation with the given declared count consumes.
func (a SeatAccounting) Charge(declared int) int {
	if a == SeatsLegacy || declared < 1 {
		return 1
	}
	return declared
}

// Occupant is anything holding seats over an interval.
type Occupant interface {
	Window() Interval
	Seats() int
}

// OccupiedSeats sums the seats of occupants whose window overlaps iv.
func OccupiedSeats[T Occupant](occupants []T, iv Interval, accounting SeatAccounting) int {
	total := 0
	for _, o := range occupants {
		if o.Window().Overlaps(iv) {
			total += accounting.Charge(o.Seats())
		}
	}
	return total
}

// SeatsAt sums the seats of occupants covering instant t.
func SeatsAt[T Occupant](occupants []T, t time.Time, accounting SeatAccounting) int {
	total := 0
	for _, o := range occupants {
		if o.Window().Contains(t) {
			total += accounting.Charge(o.Seats())
		}
	}
	return total
}

// Fits reports whether requested more seats fit next to occupied ones.
func Fits(occupied, requested, capacity int) bool {
	return occupied+requested <= capacity
}

// GroupSizeViolation describes why a group size is outside [min, max].
type GroupSizeViolation int

const (
	GroupSizeOK GroupSizeViolation = iota
	GroupSizeMissing
	GroupSizeBelowMinimum
	GroupSizeAboveCapacity
)

// CheckGroupSize validates minSize <= size <= maxSize. A nil size is missing.
func CheckGroupSize(size *int, minSize, maxSize int) GroupSizeViolation {
	switch {
	case size == nil || *size < 1:
		return GroupSizeMissing
	case *size < minSize:
		return GroupSizeBelowMinimum
	case *size > maxSize:
		return GroupSizeAboveCapacity
	}
	return GroupSizeOK
}

// InvitationExpired reports now - createdAt > ttl. Exactly ttl old is still valid.
func InvitationExpired(createdAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(createdAt) > ttl
}
