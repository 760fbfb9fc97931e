package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/bryanherdianto/penyelamat-pangan/inference"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type predictRequest struct {
	MQ135Values    []float64 `json:"mq135_values"`
	MQ3Values      []float64 `json:"mq3_values"`
	MiCS5524Values []float64 `json:"mics5524_values"`
}

type predictResponse struct {
	ClassificationText string  `json:"classification_text"`
	ClassificationProb float64 `json:"classification_prob"`
	Confidence         float64 `json:"confidence"`
	RSLHours           float64 `json:"rsl_hours"`
	Status             string  `json:"status"`
}

func serveHTTP(addr string, holder *modelHolder) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(holder))
	mux.HandleFunc("/model/info", modelInfoHandler(holder))
	mux.HandleFunc("/predict", predictHandler(holder))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("model service listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("model service failed: %v", err)
	}
}

func healthHandler(holder *modelHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		model := holder.get()
		status := "healthy"
		if model == nil {
			status = "model_not_loaded"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       status,
			"model_loaded": model != nil,
		})
	}
}

func modelInfoHandler(holder *modelHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		model := holder.get()
		if model == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "model not loaded"})
			return
		}
		writeJSON(w, http.StatusOK, model.Info())
	}
}

func predictHandler(holder *modelHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		requestsServed.Inc()

		model := holder.get()
		if model == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "model not loaded"})
			return
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if len(req.MQ135Values) != inference.SequenceLength ||
			len(req.MQ3Values) != inference.SequenceLength ||
			len(req.MiCS5524Values) != inference.SequenceLength {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "all sensor lists must have exactly 10 values",
			})
			return
		}

		result, err := model.PredictFromSensors(req.MQ135Values, req.MQ3Values, req.MiCS5524Values)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "prediction error: " + err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, predictResponse{
			ClassificationText: result.ClassificationText,
			ClassificationProb: result.ClassificationProb,
			Confidence:         result.Confidence,
			RSLHours:           result.RSLHours,
			Status:             "success",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
