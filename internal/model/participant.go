package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRole string

const (
	RoleOrganizer   ParticipantRole = "organizer"
	RoleParticipant ParticipantRole = "participant"
)

type ParticipantStatus string

const ParticipantConfirmed ParticipantStatus = "confirmed"

type Participant struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_participants_reservation_user,priority:1" json:"reservation_id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_participants_reservation_user,priority:2" json:"user_id"`
	Role          ParticipantRole   `gorm:"type:varchar(16);not null" json:"role"`
	Status        ParticipantStatus `gorm:"type:varchar(16);not null;default:'confirmed'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (Participant) TableName() string { return "participants" }

func (p *Participant) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
