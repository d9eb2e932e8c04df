package handlers

import (
	"io"
	"net/http"

	"hesabyar/internal/backup"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// --- GET: /api/backup ---
// Exports the whole document as a downloadable snapshot file.
func (h *Handler) ExportBackup(c *gin.Context) {
	description := c.Query("description")
	snap := backup.Export(h.container.Snapshot(), description)

	c.Header("Content-Disposition", `attachment; filename="hesabyar-backup.json"`)
	c.JSON(http.StatusOK, snap)
}

// --- POST: /api/backup/restore ---
// Replaces the whole document from an uploaded snapshot. The file is
// validated first; a malformed or incomplete file leaves the current
// state exactly as it was.
func (h *Handler) RestoreBackup(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read backup file"})
		return
	}

	snap, err := backup.Parse(raw)
	if err != nil {
		h.logger.Warn("backup restore rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	persisted := h.container.Replace(c.Request.Context(), snap.Restore())
	h.logger.Info("document restored from backup",
		zap.Int("schema_version", snap.SchemaVersion),
		zap.Bool("persisted", persisted),
	)

	c.JSON(http.StatusOK, gin.H{"message": "Backup restored successfully", "persisted": persisted})
}
