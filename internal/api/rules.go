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

// RulesHandler manages the admin-curated guardrail sources: diet-category
// constraints and recipe adaptation rules.
type RulesHandler struct {
	rulesService *service.RulesService
	authService  *service.AuthService
}

func NewRulesHandler(rulesService *service.RulesService, authService *service.AuthService) *RulesHandler {
	return &RulesHandler{rulesService: rulesService, authService: authService}
}

func (h *RulesHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/rules")
	rules.Use(middleware.AuthMiddleware(h.authService))
	{
		rules.GET("/constraints", h.ListConstraints)
		rules.GET("/adaptations", h.ListAdaptationRules)

		admin := rules.Group("")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/constraints", h.CreateConstraint)
			admin.PUT("/constraints/:id", h.UpdateConstraint)
			admin.DELETE("/constraints/:id", h.DeleteConstraint)

			admin.POST("/adaptations", h.CreateAdaptationRule)
			admin.PUT("/adaptations/:id", h.UpdateAdaptationRule)
			admin.DELETE("/adaptations/:id", h.DeleteAdaptationRule)
		}
	}
}

func (h *RulesHandler) ListConstraints(c *gin.Context) {
	constraints, err := h.rulesService.ListConstraints(c.Request.Context(), c.Query("diet"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch constraints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"constraints": constraints})
}

func (h *RulesHandler) CreateConstraint(c *gin.Context) {
	var req types.ConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	constraint, err := h.rulesService.CreateConstraint(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create constraint"})
		return
	}
	c.JSON(http.StatusCreated, constraint)
}

func (h *RulesHandler) UpdateConstraint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid constraint id"})
		return
	}

	var req types.ConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	constraint, err := h.rulesService.UpdateConstraint(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "constraint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update constraint"})
		return
	}
	c.JSON(http.StatusOK, constraint)
}

func (h *RulesHandler) DeleteConstraint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid constraint id"})
		return
	}

	if err := h.rulesService.DeleteConstraint(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "constraint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete constraint"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "constraint deleted", "id": id})
}

func (h *RulesHandler) ListAdaptationRules(c *gin.Context) {
	rules, err := h.rulesService.ListAdaptationRules(c.Request.Context(), c.Query("diet"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch adaptation rules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *RulesHandler) CreateAdaptationRule(c *gin.Context) {
	var req types.AdaptationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.rulesService.CreateAdaptationRule(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create adaptation rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *RulesHandler) UpdateAdaptationRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var req types.AdaptationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.rulesService.UpdateAdaptationRule(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "adaptation rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update adaptation rule"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *RulesHandler) DeleteAdaptationRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.rulesService.DeleteAdaptationRule(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "adaptation rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete adaptation rule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "adaptation rule deleted", "id": id})
}
