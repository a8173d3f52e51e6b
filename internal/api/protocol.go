package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/middleware"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

// ProtocolHandler exposes therapeutic protocols. Editing is admin-only;
// households browse the catalog and assign protocols to themselves.
type ProtocolHandler struct {
	protocolService *service.ProtocolService
	authService     *service.AuthService
}

func NewProtocolHandler(protocolService *service.ProtocolService, authService *service.AuthService) *ProtocolHandler {
	return &ProtocolHandler{protocolService: protocolService, authService: authService}
}

func (h *ProtocolHandler) RegisterRoutes(router *gin.RouterGroup) {
	protocols := router.Group("/protocols")
	protocols.Use(middleware.AuthMiddleware(h.authService))
	{
		protocols.GET("", h.ListProtocols)
		protocols.GET("/:id", h.GetProtocol)
		protocols.POST("/:id/assign", h.AssignProtocol)
		protocols.DELETE("/:id/assign", h.UnassignProtocol)

		admin := protocols.Group("")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("", h.CreateProtocol)
			admin.PUT("/:id", h.UpdateProtocol)
			admin.DELETE("/:id", h.DeleteProtocol)

			admin.POST("/:id/targets", h.AddTarget)
			admin.DELETE("/:id/targets/:target_id", h.DeleteTarget)
			admin.POST("/:id/supplements", h.AddSupplement)
			admin.DELETE("/:id/supplements/:supplement_id", h.DeleteSupplement)
			admin.POST("/:id/rules", h.AddRule)
			admin.DELETE("/:id/rules/:rule_id", h.DeleteRule)
		}
	}
}

func (h *ProtocolHandler) ListProtocols(c *gin.Context) {
	protocols, err := h.protocolService.ListProtocols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protocols"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"protocols": protocols})
}

func (h *ProtocolHandler) GetProtocol(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	protocol, err := h.protocolService.GetProtocol(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protocol"})
		return
	}
	c.JSON(http.StatusOK, protocol)
}

func (h *ProtocolHandler) CreateProtocol(c *gin.Context) {
	var req types.ProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	protocol, err := h.protocolService.CreateProtocol(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrProtocolExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create protocol"})
		return
	}
	c.JSON(http.StatusCreated, protocol)
}

func (h *ProtocolHandler) UpdateProtocol(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	var req types.ProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	protocol, err := h.protocolService.UpdateProtocol(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update protocol"})
		return
	}
	c.JSON(http.StatusOK, protocol)
}

func (h *ProtocolHandler) DeleteProtocol(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	if err := h.protocolService.DeleteProtocol(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete protocol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "protocol deleted", "id": id})
}

func (h *ProtocolHandler) AddTarget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	var req types.ProtocolTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.protocolService.AddTarget(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add target"})
		return
	}
	c.JSON(http.StatusCreated, target)
}

func (h *ProtocolHandler) DeleteTarget(c *gin.Context) {
	h.deleteChild(c, "target_id", "target", h.protocolService.DeleteTarget)
}

func (h *ProtocolHandler) AddSupplement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	var req types.ProtocolSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplement, err := h.protocolService.AddSupplement(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add supplement"})
		return
	}
	c.JSON(http.StatusCreated, supplement)
}

func (h *ProtocolHandler) DeleteSupplement(c *gin.Context) {
	h.deleteChild(c, "supplement_id", "supplement", h.protocolService.DeleteSupplement)
}

func (h *ProtocolHandler) AddRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	var req types.ProtocolRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.protocolService.AddRule(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *ProtocolHandler) DeleteRule(c *gin.Context) {
	h.deleteChild(c, "rule_id", "rule", h.protocolService.DeleteRule)
}

// deleteChild factors the shared protocol-id + child-id delete shape.
func (h *ProtocolHandler) deleteChild(c *gin.Context, param, kind string, del func(ctx context.Context, protocolID, childID uuid.UUID) error) {
	protocolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}
	childID, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + kind + " id"})
		return
	}

	if err := del(c.Request.Context(), protocolID, childID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete " + kind})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": kind + " deleted", "id": childID})
}

func (h *ProtocolHandler) AssignProtocol(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	if err := h.protocolService.AssignToHousehold(c.Request.Context(), id, hhID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign protocol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "protocol assigned", "protocol_id": id})
}

func (h *ProtocolHandler) UnassignProtocol(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid protocol id"})
		return
	}

	if err := h.protocolService.UnassignFromHousehold(c.Request.Context(), id, hhID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "protocol not assigned"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unassign protocol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "protocol unassigned", "protocol_id": id})
}
