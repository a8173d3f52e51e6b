package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal slots within a plan day.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
)

type MealPlan struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	HouseholdID uuid.UUID      `gorm:"type:uuid;not null;index" json:"household_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	NumDays     int            `gorm:"not null" json:"num_days"`
	StartDate   time.Time      `json:"start_date"`
	Meals       []PlannedMeal  `gorm:"foreignKey:PlanID" json:"meals,omitempty"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

// PlannedMeal is one meal slot on one day of a plan. Day is 1-based.
type PlannedMeal struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_plan_day_slot" json:"plan_id"`
	Day      int        `gorm:"not null;uniqueIndex:idx_plan_day_slot" json:"day"`
	Slot     string     `gorm:"size:20;not null;uniqueIndex:idx_plan_day_slot" json:"slot"`
	MealName string     `gorm:"size:255;not null" json:"meal_name"`
	RecipeID *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`
}

func (PlannedMeal) TableName() string {
	return "planned_meals"
}

// GeneratorSettings holds the per-household knobs the plan generator and the
// variety scorecard read: the repeat window and the weekly variety minimums.
// A zero minimum disables that bucket, so the columns carry no defaults;
// fallbacks for households that never saved settings live in the services.
type GeneratorSettings struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"household_id"`
	RepeatWindowDays     int       `gorm:"not null" json:"repeat_window_days"`
	MinVegetablesPerWeek int       `gorm:"not null" json:"min_vegetables_per_week"`
	MinFruitsPerWeek     int       `gorm:"not null" json:"min_fruits_per_week"`
	MinProteinsPerWeek   int       `gorm:"not null" json:"min_proteins_per_week"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (GeneratorSettings) TableName() string {
	return "generator_settings"
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (m *PlannedMeal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (s *GeneratorSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
