package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpaceType string

const (
	SpaceTypeDesk      SpaceType = "desk"
	SpaceTypeGroupRoom SpaceType = "group-room"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
	AvailabilityOccupied    AvailabilityStatus = "OCCUPIED"
)

var (
	ErrCapacityInvalid    = errors.New("capacity must be at least 1")
	ErrMinCapacityInvalid = errors.New("min capacity must be between 1 and capacity")
)

// Space is a bookable room or desk. It is owned by the admin side and read-only to bookings.
type Space struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string             `gorm:"type:varchar(128);not null" json:"name"`
	Type                 SpaceType          `gorm:"type:varchar(32);not null;default:'desk'" json:"type"`
	Description          string             `gorm:"type:text" json:"description,omitempty"`
	FloorID              *uuid.UUID         `gorm:"type:uuid;index" json:"floor_id,omitempty"`
	Floor                *Floor             `gorm:"foreignKey:FloorID;constraint:OnDelete:SET NULL" json:"floor,omitempty"`
	Equipment            []string           `gorm:"serializer:json;type:text" json:"equipment"`
	Capacity             int                `gorm:"not null;default:1" json:"capacity"`
	MinCapacity          int                `gorm:"not null;default:1" json:"min_capacity"`
	AvailabilityStatus   AvailabilityStatus `gorm:"type:varchar(16);not null;default:'AVAILABLE'" json:"availability_status"`
	UnavailabilityStart  *time.Time         `json:"unavailability_start,omitempty"`
	UnavailabilityEnd    *time.Time         `gorm:"index" json:"unavailability_end,omitempty"`
	UnavailabilityReason *string            `gorm:"type:varchar(255)" json:"unavailability_reason,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

func (Space) TableName() string { return "spaces" }

func (s *Space) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Validate enforces capacity >= min capacity >= 1.
func (s *Space) Validate() error {
	if s.Capacity < 1 {
		return ErrCapacityInvalid
	}
	if s.MinCapacity < 1 || s.MinCapacity > s.Capacity {
		return ErrMinCapacityInvalid
	}
	return nil
}

// UnavailableAt reports whether t falls inside the maintenance window.
// Both bounds are inclusive; a window without an end is open-ended.
func (s *Space) UnavailableAt(t time.Time) bool {
	if s.UnavailabilityStart == nil {
		return false
	}
	if t.Before(*s.UnavailabilityStart) {
		return false
	}
	return s.UnavailabilityEnd == nil || !t.After(*s.UnavailabilityEnd)
}

// UnavailableThroughout reports whether the whole of [from, to] lies inside the maintenance window.
func (s *Space) UnavailableThroughout(from, to time.Time) bool {
	return s.UnavailableAt(from) && s.UnavailableAt(to)
}

// Reason returns the stored unavailability reason or a generic one.
func (s *Space) Reason() string {
	if s.UnavailabilityReason != nil && *s.UnavailabilityReason != "" {
		return *s.UnavailabilityReason
	}
	return "Maintenance"
}

// HasEquipment reports whether every required item is listed, ignoring case and surrounding space.
func (s *Space) HasEquipment(required []string) bool {
	have := make(map[string]struct{}, len(s.Equipment))
	for _, item := range s.Equipment {
		have[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	for _, item := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(item))]; !ok {
			return false
		}
	}
	return true
}
