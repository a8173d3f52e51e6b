package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     NormalizeName(req.Category),
		ImageURL:     req.ImageURL,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		CreatedBy:    userID,
	}
	recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Description)

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}

	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Description = req.Description
	recipe.Category = NormalizeName(req.Category)
	recipe.ImageURL = req.ImageURL
	recipe.Ingredients = req.Ingredients
	recipe.Instructions = req.Instructions
	recipe.Calories = req.Calories
	recipe.Protein = req.Protein
	recipe.Carbs = req.Carbs
	recipe.Fat = req.Fat
	recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Description)

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&recipe).Error
}

// SearchOptions filters a recipe search.
type SearchOptions struct {
	Query    string
	Category string
	Exclude  []string
}

// SearchRecipes lists recipes matching the options. On Postgres a search
// query also orders results by embedding similarity; elsewhere it falls
// back to a keyword LIKE.
func (s *RecipeService) SearchRecipes(ctx context.Context, opts SearchOptions) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx)

	if opts.Query != "" {
		like := "%" + strings.ToLower(opts.Query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(opts.Query)
			query = query.
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like, like).
				Clauses(clause.OrderBy{
					Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
				})
		} else {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	if opts.Category != "" {
		query = query.Where("category = ?", NormalizeName(opts.Category))
	}

	for _, term := range opts.Exclude {
		like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(ingredients::text) NOT LIKE ?", like)
		} else {
			query = query.Where("LOWER(ingredients) NOT LIKE ?", like)
		}
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
