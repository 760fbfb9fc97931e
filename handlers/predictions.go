package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bryanherdianto/penyelamat-pangan/models"
	"github.com/bryanherdianto/penyelamat-pangan/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PredictionsHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewPredictionsHandler(db *gorm.DB, cache *services.CacheService) *PredictionsHandler {
	return &PredictionsHandler{db: db, cache: cache}
}

func (h *PredictionsHandler) GetPredictions(c *gin.Context) {
	w := ParseTimeWindow(c)

	modelVersion := c.Query("model_version")
	cacheKey := fmt.Sprintf("predictions:%s:%s", modelVersion, w.cacheSuffix())

	var cached PageResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := w.Apply(h.db.Model(&models.Prediction{}))
	if modelVersion != "" {
		query = query.Where("model_version = ?", modelVersion)
	}

	var rows []models.Prediction
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

	resp := PageResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
