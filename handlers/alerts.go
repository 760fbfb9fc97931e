package handlers

import (
	"net/http"

	"github.com/bryanherdianto/penyelamat-pangan/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AlertsHandler struct {
	db *gorm.DB
}

func NewAlertsHandler(db *gorm.DB) *AlertsHandler {
	return &AlertsHandler{db: db}
}

func (h *AlertsHandler) GetAlerts(c *gin.Context) {
	w := ParseTimeWindow(c)

	query := w.Apply(h.db.Model(&models.SpoilageAlert{}))
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var rows []models.SpoilageAlert
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > w.Limit
	if hasMore {
		rows = rows[:w.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = cursorFor(rows[len(rows)-1].TS)
	}

	c.JSON(http.StatusOK, PageResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore})
}
