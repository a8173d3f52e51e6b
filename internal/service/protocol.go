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

var ErrProtocolExists = errors.New("protocol with that name already exists")

// ProtocolService owns the therapeutic protocols and their child tables.
type ProtocolService struct {
	db *gorm.DB
}

func NewProtocolService(db *gorm.DB) *ProtocolService {
	return &ProtocolService{db: db}
}

func (s *ProtocolService) CreateProtocol(ctx context.Context, req *types.ProtocolRequest) (*models.TherapeuticProtocol, error) {
	name := strings.TrimSpace(req.Name)

	var existing models.TherapeuticProtocol
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrProtocolExists
	}

	protocol := models.TherapeuticProtocol{
		Name:        name,
		Description: req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&protocol).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (s *ProtocolService) GetProtocol(ctx context.Context, id uuid.UUID) (*models.TherapeuticProtocol, error) {
	var protocol models.TherapeuticProtocol
	err := s.db.WithContext(ctx).
		Preload("Targets").
		Preload("Supplements").
		Preload("Rules").
		First(&protocol, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (s *ProtocolService) UpdateProtocol(ctx context.Context, id uuid.UUID, req *types.ProtocolRequest) (*models.TherapeuticProtocol, error) {
	var protocol models.TherapeuticProtocol
	if err := s.db.WithContext(ctx).First(&protocol, "id = ?", id).Error; err != nil {
		return nil, err
	}

	protocol.Name = strings.TrimSpace(req.Name)
	protocol.Description = req.Description

	if err := s.db.WithContext(ctx).Save(&protocol).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (s *ProtocolService) DeleteProtocol(ctx context.Context, id uuid.UUID) error {
	var protocol models.TherapeuticProtocol
	if err := s.db.WithContext(ctx).First(&protocol, "id = ?", id).Error; err != nil {
		return err
	}

	for _, child := range []interface{}{
		&models.ProtocolTarget{}, &models.ProtocolSupplement{}, &models.ProtocolRule{},
	} {
		if err := s.db.WithContext(ctx).Where("protocol_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Where("protocol_id = ?", id).Delete(&models.HouseholdProtocol{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&protocol).Error
}

func (s *ProtocolService) ListProtocols(ctx context.Context) ([]models.TherapeuticProtocol, error) {
	var protocols []models.TherapeuticProtocol
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

func (s *ProtocolService) AddTarget(ctx context.Context, protocolID uuid.UUID, req *types.ProtocolTargetRequest) (*models.ProtocolTarget, error) {
	if err := s.db.WithContext(ctx).First(&models.TherapeuticProtocol{}, "id = ?", protocolID).Error; err != nil {
		return nil, err
	}

	target := models.ProtocolTarget{
		ProtocolID: protocolID,
		Nutrient:   NormalizeName(req.Nutrient),
		MinAmount:  req.MinAmount,
		MaxAmount:  req.MaxAmount,
		Unit:       strings.TrimSpace(req.Unit),
	}
	if err := s.db.WithContext(ctx).Create(&target).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

func (s *ProtocolService) DeleteTarget(ctx context.Context, protocolID, targetID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND protocol_id = ?", targetID, protocolID).
		Delete(&models.ProtocolTarget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ProtocolService) AddSupplement(ctx context.Context, protocolID uuid.UUID, req *types.ProtocolSupplementRequest) (*models.ProtocolSupplement, error) {
	if err := s.db.WithContext(ctx).First(&models.TherapeuticProtocol{}, "id = ?", protocolID).Error; err != nil {
		return nil, err
	}

	supplement := models.ProtocolSupplement{
		ProtocolID: protocolID,
		Name:       strings.TrimSpace(req.Name),
		Dose:       strings.TrimSpace(req.Dose),
		Timing:     strings.TrimSpace(req.Timing),
	}
	if err := s.db.WithContext(ctx).Create(&supplement).Error; err != nil {
		return nil, err
	}
	return &supplement, nil
}

func (s *ProtocolService) DeleteSupplement(ctx context.Context, protocolID, supplementID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND protocol_id = ?", supplementID, protocolID).
		Delete(&models.ProtocolSupplement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ProtocolService) AddRule(ctx context.Context, protocolID uuid.UUID, req *types.ProtocolRuleRequest) (*models.ProtocolRule, error) {
	if err := s.db.WithContext(ctx).First(&models.TherapeuticProtocol{}, "id = ?", protocolID).Error; err != nil {
		return nil, err
	}

	rule := models.ProtocolRule{
		ProtocolID: protocolID,
		Term:       NormalizeName(req.Term),
		Action:     req.Action,
		Priority:   req.Priority,
		Note:       req.Note,
	}
	if rule.Priority == 0 {
		rule.Priority = 50
	}
	if err := s.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *ProtocolService) DeleteRule(ctx context.Context, protocolID, ruleID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND protocol_id = ?", ruleID, protocolID).
		Delete(&models.ProtocolRule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignToHousehold links a protocol to a household so its rules join the
// household's guardrail ruleset. Assigning twice is a no-op.
func (s *ProtocolService) AssignToHousehold(ctx context.Context, protocolID, householdID uuid.UUID) error {
	if err := s.db.WithContext(ctx).First(&models.TherapeuticProtocol{}, "id = ?", protocolID).Error; err != nil {
		return err
	}

	var existing models.HouseholdProtocol
	err := s.db.WithContext(ctx).
		Where("protocol_id = ? AND household_id = ?", protocolID, householdID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	assignment := models.HouseholdProtocol{ProtocolID: protocolID, HouseholdID: householdID}
	return s.db.WithContext(ctx).Create(&assignment).Error
}

func (s *ProtocolService) UnassignFromHousehold(ctx context.Context, protocolID, householdID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("protocol_id = ? AND household_id = ?", protocolID, householdID).
		Delete(&models.HouseholdProtocol{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
