package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

var ErrMealOutOfRange = errors.New("planned meal day is outside the plan")

// MealPlanService owns meal plans and the per-household generator settings.
type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

func (s *MealPlanService) CreatePlan(ctx context.Context, householdID uuid.UUID, req *types.MealPlanRequest) (*models.MealPlan, error) {
	for _, entry := range req.Meals {
		if entry.Day < 1 || entry.Day > req.NumDays {
			return nil, ErrMealOutOfRange
		}
	}

	plan := models.MealPlan{
		HouseholdID: householdID,
		Name:        strings.TrimSpace(req.Name),
		NumDays:     req.NumDays,
		StartDate:   req.StartDate,
	}
	for _, entry := range req.Meals {
		plan.Meals = append(plan.Meals, models.PlannedMeal{
			Day:      entry.Day,
			Slot:     entry.Slot,
			MealName: strings.TrimSpace(entry.MealName),
			RecipeID: entry.RecipeID,
		})
	}

	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *MealPlanService) GetPlan(ctx context.Context, householdID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC, slot ASC")
		}).
		Where("id = ? AND household_id = ?", planID, householdID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *MealPlanService) ListPlans(ctx context.Context, householdID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	err := s.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("start_date DESC, created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *MealPlanService) DeletePlan(ctx context.Context, householdID, planID uuid.UUID) error {
	plan, err := s.GetPlan(ctx, householdID, planID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("plan_id = ?", plan.ID).Delete(&models.PlannedMeal{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(plan).Error
}

// GetSettings returns the household's generator settings, falling back to
// defaults when none are stored yet.
func (s *MealPlanService) GetSettings(ctx context.Context, householdID uuid.UUID) (*models.GeneratorSettings, error) {
	var settings models.GeneratorSettings
	err := s.db.WithContext(ctx).Where("household_id = ?", householdID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return &models.GeneratorSettings{
			HouseholdID:          householdID,
			RepeatWindowDays:     3,
			MinVegetablesPerWeek: 7,
			MinFruitsPerWeek:     7,
			MinProteinsPerWeek:   4,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertSettings writes the household's generator settings, creating the
// row on first use.
func (s *MealPlanService) UpsertSettings(ctx context.Context, householdID uuid.UUID, req *types.GeneratorSettingsRequest) (*models.GeneratorSettings, error) {
	var settings models.GeneratorSettings
	err := s.db.WithContext(ctx).Where("household_id = ?", householdID).First(&settings).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	settings.HouseholdID = householdID
	settings.RepeatWindowDays = req.RepeatWindowDays
	settings.MinVegetablesPerWeek = req.MinVegetablesPerWeek
	settings.MinFruitsPerWeek = req.MinFruitsPerWeek
	settings.MinProteinsPerWeek = req.MinProteinsPerWeek

	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
