package types

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	HouseholdName string `json:"household_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type IngredientRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	Category       string  `json:"category" binding:"max=50"`
	NevoCode       *int    `json:"nevo_code"`
	KcalPer100g    float64 `json:"kcal_per_100g" binding:"min=0"`
	ProteinPer100g float64 `json:"protein_per_100g" binding:"min=0"`
	CarbsPer100g   float64 `json:"carbs_per_100g" binding:"min=0"`
	FatPer100g     float64 `json:"fat_per_100g" binding:"min=0"`
	FiberPer100g   float64 `json:"fiber_per_100g" binding:"min=0"`
}

type StoreProductRequest struct {
	Barcode     string  `json:"barcode" binding:"required,min=8,max=14"`
	Name        string  `json:"name" binding:"required,max=255"`
	Brand       string  `json:"brand" binding:"max=100"`
	PackageSize float64 `json:"package_size" binding:"min=0"`
	PackageUnit string  `json:"package_unit" binding:"max=20"`
	RetailerSKU string  `json:"retailer_sku" binding:"max=50"`
}

type PantryItemRequest struct {
	IngredientID *uuid.UUID `json:"ingredient_id"`
	Name         string     `json:"name" binding:"required,max=255"`
	Quantity     float64    `json:"quantity" binding:"min=0"`
	Unit         string     `json:"unit" binding:"max=20"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Source       string     `json:"source" binding:"omitempty,oneof=manual barcode receipt"`
}

type MealPlanRequest struct {
	Name      string             `json:"name" binding:"required,max=100"`
	NumDays   int                `json:"num_days" binding:"required,min=1,max=14"`
	StartDate time.Time          `json:"start_date"`
	Meals     []PlannedMealEntry `json:"meals" binding:"dive"`
}

type PlannedMealEntry struct {
	Day      int        `json:"day" binding:"required,min=1"`
	Slot     string     `json:"slot" binding:"required,oneof=breakfast lunch dinner"`
	MealName string     `json:"meal_name" binding:"required,max=255"`
	RecipeID *uuid.UUID `json:"recipe_id"`
}

type GeneratorSettingsRequest struct {
	RepeatWindowDays     int `json:"repeat_window_days" binding:"required,min=1,max=14"`
	MinVegetablesPerWeek int `json:"min_vegetables_per_week" binding:"min=0"`
	MinFruitsPerWeek     int `json:"min_fruits_per_week" binding:"min=0"`
	MinProteinsPerWeek   int `json:"min_proteins_per_week" binding:"min=0"`
}

type AvoidRuleRequest struct {
	Term     string `json:"term" binding:"required,max=100"`
	Reason   string `json:"reason"`
	Severity int    `json:"severity" binding:"required,min=1,max=5"`
}

type ProtocolRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type ProtocolTargetRequest struct {
	Nutrient  string   `json:"nutrient" binding:"required,max=50"`
	MinAmount *float64 `json:"min_amount"`
	MaxAmount *float64 `json:"max_amount"`
	Unit      string   `json:"unit" binding:"required,max=20"`
}

type ProtocolSupplementRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Dose   string `json:"dose" binding:"max=50"`
	Timing string `json:"timing" binding:"max=50"`
}

type ProtocolRuleRequest struct {
	Term     string `json:"term" binding:"required,max=100"`
	Action   string `json:"action" binding:"required,oneof=avoid limit prefer swap"`
	Priority int    `json:"priority" binding:"min=0,max=1000"`
	Note     string `json:"note"`
}

type ConstraintRequest struct {
	DietCategory string `json:"diet_category" binding:"required,max=50"`
	Category     string `json:"category" binding:"required,max=50"`
	Action       string `json:"action" binding:"required,oneof=avoid limit prefer swap"`
	Priority     int    `json:"priority" binding:"min=0,max=1000"`
	Note         string `json:"note"`
}

type AdaptationRuleRequest struct {
	DietCategory string `json:"diet_category" binding:"required,max=50"`
	Term         string `json:"term" binding:"required,max=100"`
	Replacement  string `json:"replacement" binding:"max=100"`
	Action       string `json:"action" binding:"required,oneof=avoid limit prefer swap"`
	Priority     int    `json:"priority" binding:"min=0,max=1000"`
}

type RecipeRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Description  string   `json:"description"`
	Category     string   `json:"category" binding:"max=50"`
	ImageURL     string   `json:"image_url" binding:"omitempty,url"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1"`
	Instructions []string `json:"instructions"`
	Calories     float64  `json:"calories" binding:"min=0"`
	Protein      float64  `json:"protein" binding:"min=0"`
	Carbs        float64  `json:"carbs" binding:"min=0"`
	Fat          float64  `json:"fat" binding:"min=0"`
}
