package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanherdianto/penyelamat-pangan/config"

	"github.com/gin-gonic/gin"
)

// ModelHandler forwards prediction traffic to the predictor's HTTP
// surface so API clients never need direct access to it.
type ModelHandler struct {
	baseURL string
	httpc   *http.Client
}

func NewModelHandler(cfg config.ModelConfig) *ModelHandler {
	return &ModelHandler{
		baseURL: strings.TrimRight(cfg.ServiceURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *ModelHandler) Predict(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	url := fmt.Sprintf("%s/predict", h.baseURL)
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build upstream request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	h.relay(c, req)
}

func (h *ModelHandler) Info(c *gin.Context) {
	url := fmt.Sprintf("%s/model/info", h.baseURL)
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build upstream request"})
		return
	}

	h.relay(c, req)
}

func (h *ModelHandler) relay(c *gin.Context, req *http.Request) {
	resp, err := h.httpc.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "model service unreachable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "model service response truncated"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, body)
}
