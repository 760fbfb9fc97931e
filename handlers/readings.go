package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/bryanherdianto/penyelamat-pangan/models"
	"github.com/bryanherdianto/penyelamat-pangan/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReadingsHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewReadingsHandler(db *gorm.DB, cache *services.CacheService) *ReadingsHandler {
	return &ReadingsHandler{db: db, cache: cache}
}

func (h *ReadingsHandler) GetReadings(c *gin.Context) {
	w := ParseTimeWindow(c)
	cacheKey := fmt.Sprintf("readings:%s", w.cacheSuffix())

	var cached PageResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var rows []models.SensorReading
	if err := w.Apply(h.db.Model(&models.SensorReading{})).Find(&rows).Error; err != nil {
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
	go h.cache.Set(context.Background(), cacheKey, resp, 5*time.Second)

	c.JSON(http.StatusOK, resp)
}

func (h *ReadingsHandler) GetLatest(c *gin.Context) {
	var latest models.SensorReading
	err := h.db.Order("ts DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"message": "No data available yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, latest)
}

type readingAggregates struct {
	TotalRecords int64    `gorm:"column:total_records"`
	AvgTempC     *float64 `gorm:"column:avg_temp_c"`
	MinTempC     *float64 `gorm:"column:min_temp_c"`
	MaxTempC     *float64 `gorm:"column:max_temp_c"`
	AvgHumidity  *float64 `gorm:"column:avg_humidity"`
	AvgCO2       *float64 `gorm:"column:avg_co2"`
}

func (h *ReadingsHandler) GetStats(c *gin.Context) {
	var agg readingAggregates
	err := h.db.Model(&models.SensorReading{}).
		Select("COUNT(id) AS total_records, " +
			"AVG(temperature_c) AS avg_temp_c, " +
			"MIN(temperature_c) AS min_temp_c, " +
			"MAX(temperature_c) AS max_temp_c, " +
			"AVG(humidity) AS avg_humidity, " +
			"AVG(ppm_co2) AS avg_co2").
		Scan(&agg).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if agg.TotalRecords == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No data available yet"})
		return
	}

	var first, last models.SensorReading
	if err := h.db.Order("ts ASC").First(&first).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	if err := h.db.Order("ts DESC").First(&last).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_records": agg.TotalRecords,
		"temperature": gin.H{
			"average_celsius": round2(agg.AvgTempC),
			"min_celsius":     round2(agg.MinTempC),
			"max_celsius":     round2(agg.MaxTempC),
		},
		"humidity": gin.H{
			"average_percent": round2(agg.AvgHumidity),
		},
		"co2": gin.H{
			"average_ppm": round2(agg.AvgCO2),
		},
		"time_range": gin.H{
			"first_reading": first.TS.Format(time.RFC3339Nano),
			"last_reading":  last.TS.Format(time.RFC3339Nano),
		},
	})
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
