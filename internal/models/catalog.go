package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry, optionally backed by a NEVO dataset row.
// Name is stored trimmed and lower-cased; DisplayName keeps the admin's casing.
type Ingredient struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	DisplayName    string         `gorm:"size:255;not null" json:"display_name"`
	Category       string         `gorm:"size:50" json:"category"`
	NevoCode       *int           `gorm:"uniqueIndex" json:"nevo_code,omitempty"`
	KcalPer100g    float64        `json:"kcal_per_100g"`
	ProteinPer100g float64        `json:"protein_per_100g"`
	CarbsPer100g   float64        `json:"carbs_per_100g"`
	FatPer100g     float64        `json:"fat_per_100g"`
	FiberPer100g   float64        `json:"fiber_per_100g"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// StoreProduct is a retailer product, identified by its EAN barcode.
type StoreProduct struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Barcode     string         `gorm:"size:14;not null;uniqueIndex" json:"barcode"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Brand       string         `gorm:"size:100" json:"brand"`
	PackageSize float64        `json:"package_size"`
	PackageUnit string         `gorm:"size:20" json:"package_unit"`
	RetailerSKU string         `gorm:"size:50" json:"retailer_sku"`
	ImageURL    string         `gorm:"size:255" json:"image_url"`
}

func (StoreProduct) TableName() string {
	return "store_products"
}

func (p *StoreProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IngredientProduct links a store product to the catalog ingredient it contains.
type IngredientProduct struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ingredient_product" json:"ingredient_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ingredient_product" json:"product_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (IngredientProduct) TableName() string {
	return "ingredient_products"
}

func (ip *IngredientProduct) BeforeCreate(tx *gorm.DB) error {
	if ip.ID == uuid.Nil {
		ip.ID = uuid.New()
	}
	return nil
}
