package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementUnit is shared reference data ("g", "kg", "cup"). Names are
// unique; ingredients and recipe lines reference units by id.
type MeasurementUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:256;uniqueIndex;not null" json:"name"`
}

func (m *MeasurementUnit) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Ingredient names are not unique; identity is the primary key. The default
// unit, when set, is inherited by recipe lines that omit an explicit unit.
type Ingredient struct {
	ID                       uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
	Name                     string           `gorm:"size:256;not null;index" json:"name"`
	DefaultMeasurementUnitID *uuid.UUID       `gorm:"type:uuid" json:"default_measurement_unit_id,omitempty"`
	DefaultMeasurementUnit   *MeasurementUnit `gorm:"foreignKey:DefaultMeasurementUnitID;constraint:OnDelete:SET NULL" json:"default_measurement_unit,omitempty"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
