package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rule actions shared by every guardrail source.
const (
	RuleActionAvoid  = "avoid"
	RuleActionLimit  = "limit"
	RuleActionSwap   = "swap"
	RuleActionPrefer = "prefer"
)

// DietCategoryConstraint is a category-level constraint on a diet category
// (e.g. avoid everything in "processed meats" for a cardiac diet).
type DietCategoryConstraint struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DietCategory string         `gorm:"size:50;not null;index" json:"diet_category"`
	Category     string         `gorm:"size:50;not null" json:"category"`
	Action       string         `gorm:"size:20;not null" json:"action"`
	Priority     int            `gorm:"not null;default:10" json:"priority"`
	Note         string         `gorm:"type:text" json:"note"`
}

func (DietCategoryConstraint) TableName() string {
	return "diet_category_constraints"
}

// RecipeAdaptationRule is a term-level rule that suggests swapping or
// dropping an ingredient term when adapting a recipe to a diet category.
type RecipeAdaptationRule struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DietCategory string         `gorm:"size:50;not null;index" json:"diet_category"`
	Term         string         `gorm:"size:100;not null" json:"term"`
	Replacement  string         `gorm:"size:100" json:"replacement"`
	Action       string         `gorm:"size:20;not null" json:"action"`
	Priority     int            `gorm:"not null;default:10" json:"priority"`
}

func (RecipeAdaptationRule) TableName() string {
	return "recipe_adaptation_rules"
}

// HouseholdAvoidRule is a household-specific term to avoid, configured by
// the household itself. Severity runs 1 (mild) to 5 (strict).
type HouseholdAvoidRule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	HouseholdID uuid.UUID      `gorm:"type:uuid;not null;index" json:"household_id"`
	Term        string         `gorm:"size:100;not null" json:"term"`
	Reason      string         `gorm:"type:text" json:"reason"`
	Severity    int            `gorm:"not null;check:severity >= 1 AND severity <= 5" json:"severity"`
}

func (HouseholdAvoidRule) TableName() string {
	return "household_avoid_rules"
}

func (c *DietCategoryConstraint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (r *RecipeAdaptationRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *HouseholdAvoidRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
