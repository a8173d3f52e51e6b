package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/middleware"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

// GuardrailsHandler serves the household ruleset and household avoid-rules.
type GuardrailsHandler struct {
	guardrailsService *service.GuardrailsService
	rulesService      *service.RulesService
	authService       *service.AuthService
}

func NewGuardrailsHandler(guardrailsService *service.GuardrailsService, rulesService *service.RulesService, authService *service.AuthService) *GuardrailsHandler {
	return &GuardrailsHandler{
		guardrailsService: guardrailsService,
		rulesService:      rulesService,
		authService:       authService,
	}
}

func (h *GuardrailsHandler) RegisterRoutes(router *gin.RouterGroup) {
	guardrails := router.Group("/guardrails")
	guardrails.Use(middleware.AuthMiddleware(h.authService))
	{
		guardrails.GET("/ruleset", h.GetRuleset)
		guardrails.GET("/avoid-rules", h.ListAvoidRules)
		guardrails.POST("/avoid-rules", h.CreateAvoidRule)
		guardrails.PUT("/avoid-rules/:id", h.UpdateAvoidRule)
		guardrails.DELETE("/avoid-rules/:id", h.DeleteAvoidRule)
	}
}

// GetRuleset returns the household's assembled guardrail ruleset, highest
// priority first.
func (h *GuardrailsHandler) GetRuleset(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	var dietCategories []string
	if cats := c.Query("diet"); cats != "" {
		dietCategories = strings.Split(cats, ",")
	}

	rules, err := h.guardrailsService.AssembleRuleset(c.Request.Context(), hhID, dietCategories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble ruleset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *GuardrailsHandler) CreateAvoidRule(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	var req types.AvoidRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.rulesService.CreateAvoidRule(c.Request.Context(), hhID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create avoid rule"})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *GuardrailsHandler) UpdateAvoidRule(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var req types.AvoidRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.rulesService.UpdateAvoidRule(c.Request.Context(), hhID, id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "avoid rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avoid rule"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *GuardrailsHandler) DeleteAvoidRule(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.rulesService.DeleteAvoidRule(c.Request.Context(), hhID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "avoid rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete avoid rule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "avoid rule deleted", "id": id})
}

func (h *GuardrailsHandler) ListAvoidRules(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	rules, err := h.rulesService.ListAvoidRules(c.Request.Context(), hhID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch avoid rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}
