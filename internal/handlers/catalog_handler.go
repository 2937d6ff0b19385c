package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/models"
	"github.com/rahhaltours/admin-backend/internal/services"
)

// CatalogHandler handles city and catalog item CRUD. The item routes
// share one handler; the collection comes from the path.
type CatalogHandler struct {
	catalogSvc *services.CatalogService
	auditSvc   *services.AuditService
	logger     *logrus.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc *services.CatalogService, auditSvc *services.AuditService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, auditSvc: auditSvc, logger: logger}
}

// ListCities returns all cities.
func (h *CatalogHandler) ListCities(c *gin.Context) {
	cities, err := h.catalogSvc.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// CreateCity creates a city.
func (h *CatalogHandler) CreateCity(c *gin.Context) {
	var req models.CityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	city, err := h.catalogSvc.CreateCity(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", "city", city.ID)
	c.JSON(http.StatusCreated, gin.H{"city": city})
}

// UpdateCity applies a city update.
func (h *CatalogHandler) UpdateCity(c *gin.Context) {
	id := c.Param("id")
	var req models.CityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	city, err := h.catalogSvc.UpdateCity(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "update", "city", id)
	c.JSON(http.StatusOK, gin.H{"city": city})
}

// DeleteCity removes a city.
func (h *CatalogHandler) DeleteCity(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalogSvc.DeleteCity(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "delete", "city", id)
	c.JSON(http.StatusOK, gin.H{"message": "City deleted"})
}

// ListItems returns one catalog collection, optionally filtered by
// cityId.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	collection := c.Param("collection")
	items, err := h.catalogSvc.ListItems(c.Request.Context(), collection, c.Query("cityId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateItem creates a catalog item.
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	collection := c.Param("collection")
	var req models.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalogSvc.CreateItem(c.Request.Context(), collection, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "create", collection, item.ID)
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem applies a catalog item update.
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	collection := c.Param("collection")
	id := c.Param("id")
	var req models.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalogSvc.UpdateItem(c.Request.Context(), collection, id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "update", collection, id)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes a catalog item.
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	collection := c.Param("collection")
	id := c.Param("id")
	if err := h.catalogSvc.DeleteItem(c.Request.Context(), collection, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	recordAudit(c, h.auditSvc, "delete", collection, id)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
