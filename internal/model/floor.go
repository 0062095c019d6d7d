package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Floor groups spaces inside a building. SVGPath points at the floor plan asset.
type Floor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Building  string    `gorm:"type:varchar(128);not null;index" json:"building"`
	SVGPath   string    `gorm:"type:varchar(255)" json:"svg_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Floor) TableName() string { return "floors" }

func (f *Floor) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
