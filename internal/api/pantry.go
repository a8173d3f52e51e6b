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

type PantryHandler struct {
	pantryService   *service.PantryService
	barcodeService  *service.BarcodeService
	retailerService *service.RetailerService
	authService     *service.AuthService
	barcodeLimiter  *middleware.RateLimiter
	retailerLimiter *middleware.RateLimiter
}

func NewPantryHandler(pantryService *service.PantryService, barcodeService *service.BarcodeService, retailerService *service.RetailerService, authService *service.AuthService, barcodeLimiter, retailerLimiter *middleware.RateLimiter) *PantryHandler {
	return &PantryHandler{
		pantryService:   pantryService,
		barcodeService:  barcodeService,
		retailerService: retailerService,
		authService:     authService,
		barcodeLimiter:  barcodeLimiter,
		retailerLimiter: retailerLimiter,
	}
}

func (h *PantryHandler) RegisterRoutes(router *gin.RouterGroup) {
	pantry := router.Group("/pantry")
	pantry.Use(middleware.AuthMiddleware(h.authService))
	{
		pantry.GET("/items", h.ListItems)
		pantry.POST("/items", h.AddItem)
		pantry.GET("/items/:id", h.GetItem)
		pantry.PUT("/items/:id", h.UpdateItem)
		pantry.DELETE("/items/:id", h.DeleteItem)
	}

	barcode := pantry.Group("/barcode")
	if h.barcodeLimiter != nil {
		barcode.Use(h.barcodeLimiter.RateLimitMiddleware())
	}
	barcode.GET("/:ean", h.LookupBarcode)

	search := pantry.Group("/retailer-search")
	if h.retailerLimiter != nil {
		search.Use(h.retailerLimiter.RateLimitMiddleware())
	}
	search.GET("", h.SearchRetailer)
}

func householdID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("household_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return val.(uuid.UUID), true
}

func (h *PantryHandler) AddItem(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	var req types.PantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.pantryService.AddItem(c.Request.Context(), hhID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add pantry item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *PantryHandler) GetItem(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.pantryService.GetItem(c.Request.Context(), hhID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pantry item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *PantryHandler) UpdateItem(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req types.PantryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.pantryService.UpdateItem(c.Request.Context(), hhID, id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pantry item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update pantry item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *PantryHandler) DeleteItem(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := h.pantryService.DeleteItem(c.Request.Context(), hhID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pantry item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete pantry item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "pantry item deleted", "id": id})
}

func (h *PantryHandler) ListItems(c *gin.Context) {
	hhID, ok := householdID(c)
	if !ok {
		return
	}

	items, err := h.pantryService.ListItems(c.Request.Context(), hhID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pantry items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PantryHandler) LookupBarcode(c *gin.Context) {
	ean := c.Param("ean")
	if len(ean) < 8 || len(ean) > 14 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid barcode"})
		return
	}

	product, err := h.barcodeService.Lookup(c.Request.Context(), ean)
	if err != nil {
		var rateErr *service.RateLimitedError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no product found for barcode"})
		case errors.As(err, &rateErr):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "product lookup service is rate limiting us",
				"retry_after": int(rateErr.RetryAfter.Seconds()),
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "product lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *PantryHandler) SearchRetailer(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	products, err := h.retailerService.Search(c.Request.Context(), query)
	if err != nil {
		var rateErr *service.RateLimitedError
		if errors.As(err, &rateErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "retailer search is rate limiting us",
				"retry_after": int(rateErr.RetryAfter.Seconds()),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "retailer search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
