package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

// RulesService administers the stored guardrail sources: diet-category
// constraints, recipe adaptation rules and household avoid-rules.
type RulesService struct {
	db *gorm.DB
}

func NewRulesService(db *gorm.DB) *RulesService {
	return &RulesService{db: db}
}

func (s *RulesService) CreateConstraint(ctx context.Context, req *types.ConstraintRequest) (*models.DietCategoryConstraint, error) {
	constraint := models.DietCategoryConstraint{
		DietCategory: NormalizeName(req.DietCategory),
		Category:     NormalizeName(req.Category),
		Action:       req.Action,
		Priority:     req.Priority,
		Note:         req.Note,
	}
	if constraint.Priority == 0 {
		constraint.Priority = 10
	}
	if err := s.db.WithContext(ctx).Create(&constraint).Error; err != nil {
		return nil, err
	}
	return &constraint, nil
}

func (s *RulesService) UpdateConstraint(ctx context.Context, id uuid.UUID, req *types.ConstraintRequest) (*models.DietCategoryConstraint, error) {
	var constraint models.DietCategoryConstraint
	if err := s.db.WithContext(ctx).First(&constraint, "id = ?", id).Error; err != nil {
		return nil, err
	}

	constraint.DietCategory = NormalizeName(req.DietCategory)
	constraint.Category = NormalizeName(req.Category)
	constraint.Action = req.Action
	constraint.Priority = req.Priority
	constraint.Note = req.Note

	if err := s.db.WithContext(ctx).Save(&constraint).Error; err != nil {
		return nil, err
	}
	return &constraint, nil
}

func (s *RulesService) DeleteConstraint(ctx context.Context, id uuid.UUID) error {
	var constraint models.DietCategoryConstraint
	if err := s.db.WithContext(ctx).First(&constraint, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&constraint).Error
}

func (s *RulesService) ListConstraints(ctx context.Context, dietCategory string) ([]models.DietCategoryConstraint, error) {
	query := s.db.WithContext(ctx).Order("priority DESC, category ASC")
	if dietCategory != "" {
		query = query.Where("diet_category = ?", NormalizeName(dietCategory))
	}

	var constraints []models.DietCategoryConstraint
	if err := query.Find(&constraints).Error; err != nil {
		return nil, err
	}
	return constraints, nil
}

func (s *RulesService) CreateAdaptationRule(ctx context.Context, req *types.AdaptationRuleRequest) (*models.RecipeAdaptationRule, error) {
	rule := models.RecipeAdaptationRule{
		DietCategory: NormalizeName(req.DietCategory),
		Term:         NormalizeName(req.Term),
		Replacement:  NormalizeName(req.Replacement),
		Action:       req.Action,
		Priority:     req.Priority,
	}
	if rule.Priority == 0 {
		rule.Priority = 10
	}
	if err := s.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RulesService) UpdateAdaptationRule(ctx context.Context, id uuid.UUID, req *types.AdaptationRuleRequest) (*models.RecipeAdaptationRule, error) {
	var rule models.RecipeAdaptationRule
	if err := s.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}

	rule.DietCategory = NormalizeName(req.DietCategory)
	rule.Term = NormalizeName(req.Term)
	rule.Replacement = NormalizeName(req.Replacement)
	rule.Action = req.Action
	rule.Priority = req.Priority

	if err := s.db.WithContext(ctx).Save(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RulesService) DeleteAdaptationRule(ctx context.Context, id uuid.UUID) error {
	var rule models.RecipeAdaptationRule
	if err := s.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&rule).Error
}

func (s *RulesService) ListAdaptationRules(ctx context.Context, dietCategory string) ([]models.RecipeAdaptationRule, error) {
	query := s.db.WithContext(ctx).Order("priority DESC, term ASC")
	if dietCategory != "" {
		query = query.Where("diet_category = ?", NormalizeName(dietCategory))
	}

	var rules []models.RecipeAdaptationRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *RulesService) CreateAvoidRule(ctx context.Context, householdID uuid.UUID, req *types.AvoidRuleRequest) (*models.HouseholdAvoidRule, error) {
	rule := models.HouseholdAvoidRule{
		HouseholdID: householdID,
		Term:        NormalizeName(req.Term),
		Reason:      strings.TrimSpace(req.Reason),
		Severity:    req.Severity,
	}
	if err := s.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RulesService) UpdateAvoidRule(ctx context.Context, householdID, ruleID uuid.UUID, req *types.AvoidRuleRequest) (*models.HouseholdAvoidRule, error) {
	var rule models.HouseholdAvoidRule
	if err := s.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", ruleID, householdID).
		First(&rule).Error; err != nil {
		return nil, err
	}

	rule.Term = NormalizeName(req.Term)
	rule.Reason = strings.TrimSpace(req.Reason)
	rule.Severity = req.Severity

	if err := s.db.WithContext(ctx).Save(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *RulesService) DeleteAvoidRule(ctx context.Context, householdID, ruleID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", ruleID, householdID).
		Delete(&models.HouseholdAvoidRule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *RulesService) ListAvoidRules(ctx context.Context, householdID uuid.UUID) ([]models.HouseholdAvoidRule, error) {
	var rules []models.HouseholdAvoidRule
	err := s.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("term ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
