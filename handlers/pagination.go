package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Readings land roughly once per second, so a page defaults to a few
// minutes of data and caps near a quarter hour.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// TimeWindow is the cursor state for walking a time-series table
// newest first: before pages backwards, since bounds how far back.
type TimeWindow struct {
	Limit  int
	Before *time.Time
	Since  *time.Time
}

type PageResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

func ParseTimeWindow(c *gin.Context) TimeWindow {
	w := TimeWindow{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			w.Limit = l
		}
	}
	if w.Limit > MaxLimit {
		w.Limit = MaxLimit
	}

	w.Before = timeParam(c, "before")
	w.Since = timeParam(c, "since")
	return w
}

func timeParam(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Apply narrows a query to the window, fetching one extra row so the
// caller can tell whether another page exists.
func (w TimeWindow) Apply(query *gorm.DB) *gorm.DB {
	q := query.Order("ts DESC").Limit(w.Limit + 1)
	if w.Before != nil {
		q = q.Where("ts < ?", *w.Before)
	}
	if w.Since != nil {
		q = q.Where("ts >= ?", *w.Since)
	}
	return q
}

func cursorFor(ts time.Time) string {
	return ts.Format(time.RFC3339Nano)
}

func (w TimeWindow) cacheSuffix() string {
	before, since := "", ""
	if w.Before != nil {
		before = cursorFor(*w.Before)
	}
	if w.Since != nil {
		since = cursorFor(*w.Since)
	}
	return strconv.Itoa(w.Limit) + ":" + before + ":" + since
}
