package handlers

import (
	"net/http"

	"hesabyar/internal/models"
	"hesabyar/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentHandler serves the minimal document protocol other instances
// point their RemoteStore at: GET reads the stored document (seeding a
// default when none exists), PUT replaces it unconditionally. There is
// no partial-update verb, no versioning, and no authentication; the
// protocol is deliberately as dumb as a single table row.
type DocumentHandler struct {
	gateway store.Gateway
	logger  *zap.Logger
}

// NewDocumentHandler wraps a gateway, typically the MySQL DBStore.
func NewDocumentHandler(gateway store.Gateway, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{gateway: gateway, logger: logger}
}

// Get returns the stored document, or the seeded default for a fresh host.
func (h *DocumentHandler) Get(c *gin.Context) {
	data, err := h.gateway.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Put overwrites the single stored document, creating it if absent.
// Last write wins; two concurrent writers silently overwrite each other.
func (h *DocumentHandler) Put(c *gin.Context) {
	var data models.AppData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document body"})
		return
	}

	if err := h.gateway.Save(c.Request.Context(), data); err != nil {
		h.logger.Error("failed to replace document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document replaced"})
}
