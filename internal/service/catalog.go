package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

var (
	ErrIngredientExists = errors.New("ingredient with that name already exists")
	ErrProductExists    = errors.New("product with that barcode already exists")
	ErrNotLinked        = errors.New("product is not linked to that ingredient")
)

// CatalogService owns the ingredient and store-product tables.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// NormalizeName produces the stored form of a catalog name: trimmed,
// inner whitespace collapsed, lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (s *CatalogService) CreateIngredient(ctx context.Context, req *types.IngredientRequest) (*models.Ingredient, error) {
	normalized := NormalizeName(req.Name)

	var existing models.Ingredient
	if err := s.db.WithContext(ctx).Where("name = ?", normalized).First(&existing).Error; err == nil {
		return nil, ErrIngredientExists
	}

	ing := models.Ingredient{
		Name:           normalized,
		DisplayName:    strings.TrimSpace(req.Name),
		Category:       NormalizeName(req.Category),
		NevoCode:       req.NevoCode,
		KcalPer100g:    req.KcalPer100g,
		ProteinPer100g: req.ProteinPer100g,
		CarbsPer100g:   req.CarbsPer100g,
		FatPer100g:     req.FatPer100g,
		FiberPer100g:   req.FiberPer100g,
	}
	if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *CatalogService) UpdateIngredient(ctx context.Context, id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	ing.Name = NormalizeName(req.Name)
	ing.DisplayName = strings.TrimSpace(req.Name)
	ing.Category = NormalizeName(req.Category)
	ing.NevoCode = req.NevoCode
	ing.KcalPer100g = req.KcalPer100g
	ing.ProteinPer100g = req.ProteinPer100g
	ing.CarbsPer100g = req.CarbsPer100g
	ing.FatPer100g = req.FatPer100g
	ing.FiberPer100g = req.FiberPer100g

	if err := s.db.WithContext(ctx).Save(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *CatalogService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&ing).Error
}

// ListIngredients returns ingredients, optionally filtered by a name
// substring and category, ordered by name.
func (s *CatalogService) ListIngredients(ctx context.Context, search, category string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+NormalizeName(search)+"%")
	}
	if category != "" {
		query = query.Where("category = ?", NormalizeName(category))
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *types.StoreProductRequest) (*models.StoreProduct, error) {
	barcode := strings.TrimSpace(req.Barcode)

	var existing models.StoreProduct
	if err := s.db.WithContext(ctx).Where("barcode = ?", barcode).First(&existing).Error; err == nil {
		return nil, ErrProductExists
	}

	product := models.StoreProduct{
		Barcode:     barcode,
		Name:        strings.TrimSpace(req.Name),
		Brand:       strings.TrimSpace(req.Brand),
		PackageSize: req.PackageSize,
		PackageUnit: strings.TrimSpace(req.PackageUnit),
		RetailerSKU: strings.TrimSpace(req.RetailerSKU),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.StoreProduct, error) {
	var product models.StoreProduct
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) GetProductByBarcode(ctx context.Context, barcode string) (*models.StoreProduct, error) {
	var product models.StoreProduct
	if err := s.db.WithContext(ctx).Where("barcode = ?", strings.TrimSpace(barcode)).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *types.StoreProductRequest) (*models.StoreProduct, error) {
	var product models.StoreProduct
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}

	product.Barcode = strings.TrimSpace(req.Barcode)
	product.Name = strings.TrimSpace(req.Name)
	product.Brand = strings.TrimSpace(req.Brand)
	product.PackageSize = req.PackageSize
	product.PackageUnit = strings.TrimSpace(req.PackageUnit)
	product.RetailerSKU = strings.TrimSpace(req.RetailerSKU)

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var product models.StoreProduct
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&product).Error
}

func (s *CatalogService) ListProducts(ctx context.Context, search string) ([]models.StoreProduct, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}

	var products []models.StoreProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SetProductImage stores the uploaded photo URL on a product.
func (s *CatalogService) SetProductImage(ctx context.Context, id uuid.UUID, url string) error {
	return s.db.WithContext(ctx).
		Model(&models.StoreProduct{}).
		Where("id = ?", id).
		Update("image_url", url).Error
}

// LinkProduct associates a store product with a catalog ingredient.
// Linking twice is a no-op.
func (s *CatalogService) LinkProduct(ctx context.Context, ingredientID, productID uuid.UUID) error {
	if err := s.db.WithContext(ctx).First(&models.Ingredient{}, "id = ?", ingredientID).Error; err != nil {
		return fmt.Errorf("ingredient lookup failed: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&models.StoreProduct{}, "id = ?", productID).Error; err != nil {
		return fmt.Errorf("product lookup failed: %w", err)
	}

	var existing models.IngredientProduct
	err := s.db.WithContext(ctx).
		Where("ingredient_id = ? AND product_id = ?", ingredientID, productID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	link := models.IngredientProduct{IngredientID: ingredientID, ProductID: productID}
	return s.db.WithContext(ctx).Create(&link).Error
}

func (s *CatalogService) UnlinkProduct(ctx context.Context, ingredientID, productID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("ingredient_id = ? AND product_id = ?", ingredientID, productID).
		Delete(&models.IngredientProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotLinked
	}
	return nil
}

// LinkedProducts returns the store products linked to an ingredient.
func (s *CatalogService) LinkedProducts(ctx context.Context, ingredientID uuid.UUID) ([]models.StoreProduct, error) {
	var products []models.StoreProduct
	err := s.db.WithContext(ctx).
		Joins("JOIN ingredient_products ON ingredient_products.product_id = store_products.id").
		Where("ingredient_products.ingredient_id = ?", ingredientID).
		Order("store_products.name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
