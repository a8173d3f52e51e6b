package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pantry item sources.
const (
	PantrySourceManual  = "manual"
	PantrySourceBarcode = "barcode"
	PantrySourceReceipt = "receipt"
)

type PantryItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	HouseholdID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"household_id"`
	IngredientID *uuid.UUID     `gorm:"type:uuid;index" json:"ingredient_id,omitempty"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Quantity     float64        `gorm:"not null;default:1" json:"quantity"`
	Unit         string         `gorm:"size:20" json:"unit"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	Source       string         `gorm:"size:20;not null;default:'manual'" json:"source"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}

func (p *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
