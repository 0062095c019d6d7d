package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus/spacehub/internal/booking"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

type CancelledBy string

const (
	CancelledByUser  CancelledBy = "user"
	CancelledByAdmin CancelledBy = "admin"
)

type ReservationKind string

const (
	KindIndividual ReservationKind = "individual"
	KindGroup      ReservationKind = "group"
)

// Reservation books a space for [StartTime, EndTime). Group reservations carry an
// invitation token and own their participant list.
type Reservation struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SpaceID            uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservations_space_window,priority:1" json:"space_id"`
	UserID             uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservations_user_window,priority:1" json:"user_id"`
	StartTime          time.Time         `gorm:"not null;index:idx_reservations_space_window,priority:2;index:idx_reservations_user_window,priority:2" json:"start_time"`
	EndTime            time.Time         `gorm:"not null;index:idx_reservations_space_window,priority:3;index:idx_reservations_user_window,priority:3" json:"end_time"`
	Status             ReservationStatus `gorm:"type:varchar(16);not null;default:'confirmed';index:idx_reservations_space_window,priority:4;index:idx_reservations_user_window,priority:4" json:"status"`
	SeatCount          int               `gorm:"not null;default:1" json:"seat_count"`
	Notes              string            `gorm:"type:text" json:"notes,omitempty"`
	InvitationToken    *string           `gorm:"type:varchar(64);uniqueIndex" json:"invitation_token,omitempty"`
	CancelledBy        *CancelledBy      `gorm:"type:varchar(16)" json:"cancelled_by,omitempty"`
	CancellationReason *string           `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`
	CancellationNotes  *string           `gorm:"type:text" json:"cancellation_notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	Space        *Space        `gorm:"foreignKey:SpaceID" json:"space,omitempty"`
	Participants []Participant `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }

func (r *Reservation) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsGroup reports whether the reservation was booked as a group.
func (r *Reservation) IsGroup() bool {
	return r.InvitationToken != nil && *r.InvitationToken != ""
}

func (r *Reservation) Kind() ReservationKind {
	if r.IsGroup() {
		return KindGroup
	}
	return KindIndividual
}

// Organizer returns the organizer participant, if loaded.
func (r *Reservation) Organizer() *Participant {
	for i := range r.Participants {
		if r.Participants[i].Role == RoleOrganizer {
			return &r.Participants[i]
		}
	}
	return nil
}

// HasParticipant reports whether userID is already on the participant list.
func (r *Reservation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// FindParticipant looks a participant up by its row id.
func (r *Reservation) FindParticipant(id uuid.UUID) *Participant {
	for i := range r.Participants {
		if r.Participants[i].ID == id {
			return &r.Participants[i]
		}
	}
	return nil
}

// Window returns the booked half-open interval.
func (r Reservation) Window() booking.Interval {
	return booking.Interval{Start: r.StartTime, End: r.EndTime}
}

// Seats returns the declared seat count.
func (r Reservation) Seats() int {
	return r.SeatCount
}
