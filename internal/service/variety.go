package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
)

// IngredientBucket is the coarse classification the scorecard counts.
type IngredientBucket string

const (
	BucketVegetable IngredientBucket = "vegetable"
	BucketFruit     IngredientBucket = "fruit"
	BucketProtein   IngredientBucket = "protein"
	BucketOther     IngredientBucket = "other"
)

// Keyword sets used for substring classification of ingredient names.
var (
	vegetableTerms = []string{
		"broccoli", "spinach", "kale", "carrot", "zucchini", "courgette",
		"pepper", "paprika", "tomato", "cucumber", "lettuce", "cabbage",
		"cauliflower", "leek", "onion", "mushroom", "green bean", "pea",
		"beet", "pumpkin", "squash", "eggplant", "aubergine", "endive",
		"asparagus", "celery", "fennel", "radish", "sprout",
	}
	fruitTerms = []string{
		"apple", "banana", "orange", "pear", "grape", "berry", "berries",
		"strawberry", "blueberry", "raspberry", "mango", "pineapple",
		"kiwi", "melon", "peach", "plum", "apricot", "cherry", "lemon",
		"lime", "grapefruit", "fig", "date", "pomegranate",
	}
	proteinTerms = []string{
		"chicken", "beef", "pork", "lamb", "turkey", "fish", "salmon",
		"cod", "tuna", "shrimp", "egg", "tofu", "tempeh", "lentil",
		"chickpea", "bean", "quinoa", "yogurt", "cheese", "nut", "seitan",
	}
)

func matchesAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// ClassifyIngredient buckets a single ingredient line by case-insensitive
// substring membership. Vegetables are checked first, then fruits, then
// proteins, so "tomato" stays a vegetable even in a fruit salad.
func ClassifyIngredient(name string) IngredientBucket {
	lower := strings.ToLower(name)
	switch {
	case matchesAny(lower, vegetableTerms):
		return BucketVegetable
	case matchesAny(lower, fruitTerms):
		return BucketFruit
	case matchesAny(lower, proteinTerms):
		return BucketProtein
	}
	return BucketOther
}

// ClassifyAll returns every bucket the name matches. A free-text meal name
// describes a whole dish ("broccoli chicken stir-fry"), so unlike a single
// ingredient line it can count toward several buckets at once.
func ClassifyAll(name string) []IngredientBucket {
	lower := strings.ToLower(name)
	var buckets []IngredientBucket
	if matchesAny(lower, vegetableTerms) {
		buckets = append(buckets, BucketVegetable)
	}
	if matchesAny(lower, fruitTerms) {
		buckets = append(buckets, BucketFruit)
	}
	if matchesAny(lower, proteinTerms) {
		buckets = append(buckets, BucketProtein)
	}
	return buckets
}

// ScaledTarget scales a weekly minimum down to a plan shorter than a week:
// max(1, ceil(base * numDays / 7)). Plans of a week or longer keep the
// configured target.
func ScaledTarget(base, numDays int) int {
	if base <= 0 {
		return 0
	}
	if numDays >= 7 {
		return base
	}
	scaled := (base*numDays + 6) / 7
	if scaled < 1 {
		return 1
	}
	return scaled
}

// EffectiveRepeatWindow clamps the configured repeat window to the plan length.
func EffectiveRepeatWindow(base, numDays int) int {
	if base > numDays {
		return numDays
	}
	return base
}

// MaxRepeatWithinDays returns the highest count of any single meal name
// inside any sliding window of the given size over the per-day meal lists.
func MaxRepeatWithinDays(mealsByDay [][]string, window int) int {
	if window <= 0 || len(mealsByDay) == 0 {
		return 0
	}
	if window > len(mealsByDay) {
		window = len(mealsByDay)
	}

	max := 0
	for start := 0; start+window <= len(mealsByDay); start++ {
		counts := make(map[string]int)
		for day := start; day < start+window; day++ {
			for _, meal := range mealsByDay[day] {
				key := strings.ToLower(strings.TrimSpace(meal))
				if key == "" {
					continue
				}
				counts[key]++
				if counts[key] > max {
					max = counts[key]
				}
			}
		}
	}
	return max
}

// BucketScore compares the distinct count in one bucket against its target.
type BucketScore struct {
	Bucket   IngredientBucket `json:"bucket"`
	Distinct int              `json:"distinct"`
	Target   int              `json:"target"`
	Met      bool             `json:"met"`
}

// Scorecard is the variety report for one meal plan.
type Scorecard struct {
	PlanID        uuid.UUID     `json:"plan_id"`
	NumDays       int           `json:"num_days"`
	RepeatWindow  int           `json:"repeat_window"`
	MaxRepeat     int           `json:"max_repeat"`
	RepeatOK      bool          `json:"repeat_ok"`
	WorstOffender string        `json:"worst_offender,omitempty"`
	Buckets       []BucketScore `json:"buckets"`
}

// VarietyService computes scorecards for stored meal plans.
type VarietyService struct {
	db *gorm.DB
}

func NewVarietyService(db *gorm.DB) *VarietyService {
	return &VarietyService{db: db}
}

// ScorePlan loads a plan, its meals and linked recipes, and computes the
// variety scorecard against the household's generator settings.
func (s *VarietyService) ScorePlan(ctx context.Context, planID uuid.UUID) (*Scorecard, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).Preload("Meals").First(&plan, "id = ?", planID).Error; err != nil {
		return nil, err
	}

	settings, err := s.settingsFor(ctx, plan.HouseholdID)
	if err != nil {
		return nil, err
	}

	mealsByDay := make([][]string, plan.NumDays)
	distinct := map[IngredientBucket]map[string]bool{
		BucketVegetable: {},
		BucketFruit:     {},
		BucketProtein:   {},
	}

	for _, meal := range plan.Meals {
		if meal.Day < 1 || meal.Day > plan.NumDays {
			continue
		}
		mealsByDay[meal.Day-1] = append(mealsByDay[meal.Day-1], meal.MealName)

		lines, freeText := s.ingredientsFor(ctx, meal)
		for _, ing := range lines {
			key := strings.ToLower(strings.TrimSpace(ing))
			if freeText {
				// A dish name may name vegetables and proteins at once.
				for _, bucket := range ClassifyAll(ing) {
					distinct[bucket][key] = true
				}
				continue
			}
			if set, ok := distinct[ClassifyIngredient(ing)]; ok {
				set[key] = true
			}
		}
	}

	window := EffectiveRepeatWindow(settings.RepeatWindowDays, plan.NumDays)
	maxRepeat := MaxRepeatWithinDays(mealsByDay, window)

	card := &Scorecard{
		PlanID:       plan.ID,
		NumDays:      plan.NumDays,
		RepeatWindow: window,
		MaxRepeat:    maxRepeat,
		RepeatOK:     maxRepeat <= 1,
		Buckets: []BucketScore{
			bucketScore(BucketVegetable, len(distinct[BucketVegetable]), ScaledTarget(settings.MinVegetablesPerWeek, plan.NumDays)),
			bucketScore(BucketFruit, len(distinct[BucketFruit]), ScaledTarget(settings.MinFruitsPerWeek, plan.NumDays)),
			bucketScore(BucketProtein, len(distinct[BucketProtein]), ScaledTarget(settings.MinProteinsPerWeek, plan.NumDays)),
		},
	}
	if maxRepeat > 1 {
		card.WorstOffender = worstOffender(mealsByDay, window)
	}
	return card, nil
}

func bucketScore(b IngredientBucket, distinct, target int) BucketScore {
	return BucketScore{Bucket: b, Distinct: distinct, Target: target, Met: distinct >= target}
}

// ingredientsFor returns the ingredient lines behind a planned meal and
// whether they are free text. Meals linked to a recipe use the recipe's
// ingredient lines; free-text meals fall back to the meal name, which is a
// whole dish rather than a single ingredient.
func (s *VarietyService) ingredientsFor(ctx context.Context, meal models.PlannedMeal) ([]string, bool) {
	if meal.RecipeID == nil {
		return []string{meal.MealName}, true
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", *meal.RecipeID).Error; err != nil {
		return []string{meal.MealName}, true
	}
	return recipe.Ingredients, false
}

func (s *VarietyService) settingsFor(ctx context.Context, householdID uuid.UUID) (*models.GeneratorSettings, error) {
	var settings models.GeneratorSettings
	err := s.db.WithContext(ctx).Where("household_id = ?", householdID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		// Fallback for households that never saved settings.
		return &models.GeneratorSettings{
			HouseholdID:          householdID,
			RepeatWindowDays:     3,
			MinVegetablesPerWeek: 7,
			MinFruitsPerWeek:     7,
			MinProteinsPerWeek:   4,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load generator settings: %w", err)
	}
	return &settings, nil
}

func worstOffender(mealsByDay [][]string, window int) string {
	if window <= 0 || len(mealsByDay) == 0 {
		return ""
	}
	if window > len(mealsByDay) {
		window = len(mealsByDay)
	}
	best, bestCount := "", 0
	for start := 0; start+window <= len(mealsByDay); start++ {
		counts := make(map[string]int)
		for day := start; day < start+window; day++ {
			for _, meal := range mealsByDay[day] {
				key := strings.ToLower(strings.TrimSpace(meal))
				if key == "" {
					continue
				}
				counts[key]++
				if counts[key] > bestCount {
					bestCount = counts[key]
					best = key
				}
			}
		}
	}
	return best
}
