package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TherapeuticProtocol is an admin-curated diet protocol (e.g. low-FODMAP).
type TherapeuticProtocol struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`
	Name        string               `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	Targets     []ProtocolTarget     `gorm:"foreignKey:ProtocolID" json:"targets,omitempty"`
	Supplements []ProtocolSupplement `gorm:"foreignKey:ProtocolID" json:"supplements,omitempty"`
	Rules       []ProtocolRule       `gorm:"foreignKey:ProtocolID" json:"rules,omitempty"`
}

func (TherapeuticProtocol) TableName() string {
	return "therapeutic_protocols"
}

// ProtocolTarget is a nutrient target within a protocol.
type ProtocolTarget struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProtocolID uuid.UUID `gorm:"type:uuid;not null;index" json:"protocol_id"`
	Nutrient   string    `gorm:"size:50;not null" json:"nutrient"`
	MinAmount  *float64  `json:"min_amount,omitempty"`
	MaxAmount  *float64  `json:"max_amount,omitempty"`
	Unit       string    `gorm:"size:20;not null" json:"unit"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProtocolTarget) TableName() string {
	return "protocol_targets"
}

type ProtocolSupplement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProtocolID uuid.UUID `gorm:"type:uuid;not null;index" json:"protocol_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Dose       string    `gorm:"size:50" json:"dose"`
	Timing     string    `gorm:"size:50" json:"timing"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProtocolSupplement) TableName() string {
	return "protocol_supplements"
}

// ProtocolRule is a term-level rule contributed to the guardrail ruleset of
// every household the protocol is assigned to.
type ProtocolRule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProtocolID uuid.UUID `gorm:"type:uuid;not null;index" json:"protocol_id"`
	Term       string    `gorm:"size:100;not null" json:"term"`
	Action     string    `gorm:"size:20;not null" json:"action"`
	Priority   int       `gorm:"not null;default:50" json:"priority"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProtocolRule) TableName() string {
	return "protocol_rules"
}

// HouseholdProtocol assigns a protocol to a household.
type HouseholdProtocol struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_household_protocol" json:"household_id"`
	ProtocolID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_household_protocol" json:"protocol_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (HouseholdProtocol) TableName() string {
	return "household_protocols"
}

func (p *TherapeuticProtocol) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (t *ProtocolTarget) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (s *ProtocolSupplement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (r *ProtocolRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (hp *HouseholdProtocol) BeforeCreate(tx *gorm.DB) error {
	if hp.ID == uuid.Nil {
		hp.ID = uuid.New()
	}
	return nil
}
