package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
)

// NevoRow is one entry of the Dutch food-composition dataset export.
type NevoRow struct {
	Code      int     `json:"nevo_code"`
	Name      string  `json:"name"`
	FoodGroup string  `json:"food_group"`
	Kcal      float64 `json:"energy_kcal"`
	Protein   float64 `json:"protein_g"`
	Carbs     float64 `json:"carbohydrates_g"`
	Fat       float64 `json:"fat_g"`
	Fiber     float64 `json:"fibre_g"`
}

// NevoImportResult summarizes one import run.
type NevoImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// NevoService imports the NEVO reference dataset into the ingredient catalog.
type NevoService struct {
	db         *gorm.DB
	client     *http.Client
	datasetURL string
	cron       *cron.Cron
}

func NewNevoService(db *gorm.DB, datasetURL string) *NevoService {
	return &NevoService{
		db:         db,
		client:     &http.Client{Timeout: 60 * time.Second},
		datasetURL: datasetURL,
	}
}

// ImportRows upserts dataset rows into the ingredients table, keyed by NEVO
// code. Rows without a code or name are skipped.
func (s *NevoService) ImportRows(ctx context.Context, rows []NevoRow) (*NevoImportResult, error) {
	result := &NevoImportResult{}

	for _, row := range rows {
		if row.Code == 0 || row.Name == "" {
			result.Skipped++
			continue
		}

		code := row.Code
		var existing models.Ingredient
		err := s.db.WithContext(ctx).Where("nevo_code = ?", code).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			ing := models.Ingredient{
				Name:           NormalizeName(row.Name),
				DisplayName:    row.Name,
				Category:       NormalizeName(row.FoodGroup),
				NevoCode:       &code,
				KcalPer100g:    row.Kcal,
				ProteinPer100g: row.Protein,
				CarbsPer100g:   row.Carbs,
				FatPer100g:     row.Fat,
				FiberPer100g:   row.Fiber,
			}
			if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
				return nil, fmt.Errorf("failed to create ingredient for NEVO code %d: %w", code, err)
			}
			result.Created++
		case err != nil:
			return nil, err
		default:
			existing.Name = NormalizeName(row.Name)
			existing.DisplayName = row.Name
			existing.Category = NormalizeName(row.FoodGroup)
			existing.KcalPer100g = row.Kcal
			existing.ProteinPer100g = row.Protein
			existing.CarbsPer100g = row.Carbs
			existing.FatPer100g = row.Fat
			existing.FiberPer100g = row.Fiber
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to update ingredient for NEVO code %d: %w", code, err)
			}
			result.Updated++
		}
	}

	return result, nil
}

// Refresh downloads the dataset export and imports it.
func (s *NevoService) Refresh(ctx context.Context) (*NevoImportResult, error) {
	if s.datasetURL == "" {
		return nil, fmt.Errorf("NEVO dataset URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.datasetURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download NEVO dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NEVO dataset download returned status %d", resp.StatusCode)
	}

	var rows []NevoRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode NEVO dataset: %w", err)
	}

	return s.ImportRows(ctx, rows)
}

// StartNightlyRefresh schedules a refresh every night at 03:00.
func (s *NevoService) StartNightlyRefresh() {
	s.cron = cron.New()
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := s.Refresh(ctx)
		if err != nil {
			log.Printf("NEVO refresh failed: %v", err)
			return
		}
		log.Printf("NEVO refresh done: %d created, %d updated, %d skipped",
			result.Created, result.Updated, result.Skipped)
	})
	if err != nil {
		log.Printf("Failed to schedule NEVO refresh: %v", err)
		return
	}
	s.cron.Start()
}

// StopNightlyRefresh stops the scheduler.
func (s *NevoService) StopNightlyRefresh() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
