package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/nutricoach/nutricoach-backend/config"
	"github.com/nutricoach/nutricoach-backend/internal/database"
	"github.com/nutricoach/nutricoach-backend/internal/models"
)

// Seeds a development database with an admin account, a demo household and
// a starter set of catalog entries and guardrail rules.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	household := models.Household{Name: "Demo Household"}
	if err := db.Where("name = ?", household.Name).FirstOrCreate(&household).Error; err != nil {
		log.Fatalf("Failed to seed household: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpassword123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Name:         "Admin",
		Email:        "admin@nutricoach.local",
		PasswordHash: string(hash),
		IsAdmin:      true,
		HouseholdID:  household.ID,
	}
	if err := db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	ingredients := []models.Ingredient{
		{Name: "broccoli", DisplayName: "Broccoli", Category: "vegetable", KcalPer100g: 34, ProteinPer100g: 2.8, CarbsPer100g: 7, FatPer100g: 0.4, FiberPer100g: 2.6},
		{Name: "chicken breast", DisplayName: "Chicken breast", Category: "meat", KcalPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6},
		{Name: "brown rice", DisplayName: "Brown rice", Category: "grain", KcalPer100g: 111, ProteinPer100g: 2.6, CarbsPer100g: 23, FatPer100g: 0.9, FiberPer100g: 1.8},
		{Name: "apple", DisplayName: "Apple", Category: "fruit", KcalPer100g: 52, ProteinPer100g: 0.3, CarbsPer100g: 14, FatPer100g: 0.2, FiberPer100g: 2.4},
		{Name: "salmon", DisplayName: "Salmon", Category: "fish", KcalPer100g: 208, ProteinPer100g: 20, CarbsPer100g: 0, FatPer100g: 13},
	}
	for i := range ingredients {
		if err := db.Where("name = ?", ingredients[i].Name).FirstOrCreate(&ingredients[i]).Error; err != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", ingredients[i].Name, err)
		}
	}

	constraints := []models.DietCategoryConstraint{
		{DietCategory: "low sodium", Category: "processed meats", Action: models.RuleActionAvoid, Priority: 20, Note: "High sodium content"},
		{DietCategory: "low sodium", Category: "canned soups", Action: models.RuleActionLimit, Priority: 10},
		{DietCategory: "diabetic", Category: "sweets", Action: models.RuleActionAvoid, Priority: 20},
	}
	for i := range constraints {
		err := db.Where("diet_category = ? AND category = ?", constraints[i].DietCategory, constraints[i].Category).
			FirstOrCreate(&constraints[i]).Error
		if err != nil {
			log.Fatalf("Failed to seed constraint: %v", err)
		}
	}

	adaptations := []models.RecipeAdaptationRule{
		{DietCategory: "diabetic", Term: "sugar", Replacement: "stevia", Action: models.RuleActionSwap, Priority: 15},
		{DietCategory: "low sodium", Term: "soy sauce", Replacement: "low-sodium soy sauce", Action: models.RuleActionSwap, Priority: 15},
	}
	for i := range adaptations {
		err := db.Where("diet_category = ? AND term = ?", adaptations[i].DietCategory, adaptations[i].Term).
			FirstOrCreate(&adaptations[i]).Error
		if err != nil {
			log.Fatalf("Failed to seed adaptation rule: %v", err)
		}
	}

	log.Println("Seed data applied successfully")
	log.Println("Admin login: admin@nutricoach.local / adminpassword123")
}
