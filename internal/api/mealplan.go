package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/middleware"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

type MealPlanHandler struct {
	mealPlanService *service.MealPlanService
	varietyService  *service.VarietyService
	authService     *service.AuthService
}

func NewMealPlanHandler(mealPlanService *service.MealPlanService, varietyService *service.VarietyService, authService *service.AuthService) *MealPlanHandler {
	return &MealPlanHandler{
		mealPlanService: mealPlanService,
		varietyService:  varietyService,
		authService:     authService,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/meal-plans")
	plans.Use(middleware.AuthMiddleware(h.authService))
	{
		plans.GET("", h.ListPlans)
		plans.POST("", h.CreatePlan)
		plans.GET("/:id", h.GetPlan)
		plans.DELETE("/:id", h.DeletePlan)
		plans.GET("/:id/scorecard", h.GetScorecard)
	}

	settings := router.Group("/generator-settings")
	settings.Use(middleware.AuthMiddleware(h.authService))
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpsertSettings)
	}
}

func (h *MealPlanHandler) CreatePlan(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	var req types.MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.mealPlanService.CreatePlan(c.Request.Context(), hhID, &req)
	if err != nil {
		if errors.Is(err, service.ErrMealOutOfRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meal plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	plan, err := h.mealPlanService.GetPlan(c.Request.Context(), hhID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal plan not found"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	plans, err := h.mealPlanService.ListPlans(c.Request.Context(), hhID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meal plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	if err := h.mealPlanService.DeletePlan(c.Request.Context(), hhID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete meal plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meal plan deleted", "id": id})
}

// GetScorecard returns the variety scorecard for a plan.
func (h *MealPlanHandler) GetScorecard(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	// Plan ownership is enforced before scoring.
	if _, err := h.mealPlanService.GetPlan(c.Request.Context(), hhID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal plan not found"})
		return
	}

	card, err := h.varietyService.ScorePlan(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute scorecard"})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *MealPlanHandler) GetSettings(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	settings, err := h.mealPlanService.GetSettings(c.Request.Context(), hhID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *MealPlanHandler) UpsertSettings(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	var req types.GeneratorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.mealPlanService.UpsertSettings(c.Request.Context(), hhID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
