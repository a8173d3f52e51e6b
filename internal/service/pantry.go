package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

// PantryService owns a household's pantry items.
type PantryService struct {
	db *gorm.DB
}

func NewPantryService(db *gorm.DB) *PantryService {
	return &PantryService{db: db}
}

func (s *PantryService) AddItem(ctx context.Context, householdID uuid.UUID, req *types.PantryItemRequest) (*models.PantryItem, error) {
	source := req.Source
	if source == "" {
		source = models.PantrySourceManual
	}

	item := models.PantryItem{
		HouseholdID:  householdID,
		IngredientID: req.IngredientID,
		Name:         strings.TrimSpace(req.Name),
		Quantity:     req.Quantity,
		Unit:         strings.TrimSpace(req.Unit),
		ExpiresAt:    req.ExpiresAt,
		Source:       source,
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PantryService) GetItem(ctx context.Context, householdID, itemID uuid.UUID) (*models.PantryItem, error) {
	var item models.PantryItem
	if err := s.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", itemID, householdID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PantryService) UpdateItem(ctx context.Context, householdID, itemID uuid.UUID, req *types.PantryItemRequest) (*models.PantryItem, error) {
	item, err := s.GetItem(ctx, householdID, itemID)
	if err != nil {
		return nil, err
	}

	item.IngredientID = req.IngredientID
	item.Name = strings.TrimSpace(req.Name)
	item.Quantity = req.Quantity
	item.Unit = strings.TrimSpace(req.Unit)
	item.ExpiresAt = req.ExpiresAt
	if req.Source != "" {
		item.Source = req.Source
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PantryService) DeleteItem(ctx context.Context, householdID, itemID uuid.UUID) error {
	item, err := s.GetItem(ctx, householdID, itemID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// ListItems returns a household's pantry, soonest expiry first, items
// without an expiry date last.
func (s *PantryService) ListItems(ctx context.Context, householdID uuid.UUID) ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := s.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("expires_at ASC NULLS LAST, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
