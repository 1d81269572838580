package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/reviewtrust/gateway/internal/orchestrator"
	"github.com/reviewtrust/gateway/pkg/models"
)

type analyzeRequest struct {
	ProductURL   string `json:"product_url"`
	ForceRefresh bool   `json:"force_refresh"`
}

type analyzeResponse struct {
	Status                string                `json:"status"`
	Cached                bool                  `json:"cached"`
	Timestamp             time.Time             `json:"timestamp"`
	SchemaVersion         string                `json:"schema_version"`
	TrustScore            int                   `json:"trust_score"`
	FakeReviewsPercentage float64               `json:"fake_reviews_percentage"`
	RiskLevel             string                `json:"risk_level"`
	ScoreBreakdown        models.ScoreBreakdown `json:"score_breakdown"`
	KeyInsights           []models.Insight      `json:"key_insights"`
	TotalReviewsAnalyzed  int                   `json:"total_reviews_analyzed"`
	Recommendation        string                `json:"recommendation"`
	Confidence            float64               `json:"confidence"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductURL == "" {
		s.respondError(w, http.StatusBadRequest, "product_url is required")
		return
	}

	result, err := s.orchestrator.Analyze(r.Context(), req.ProductURL, req.ForceRefresh)
	if err != nil {
		s.respondOrchestratorError(w, err)
		return
	}

	if result.Cached {
		s.metrics.cacheHitsTotal.Inc()
	} else {
		s.metrics.cacheMissesTotal.Inc()
	}
	s.metrics.trustScoreHist.Observe(float64(result.Report.TrustScore))

	report := result.Report
	s.respond(w, http.StatusOK, analyzeResponse{
		Status:                "success",
		Cached:                result.Cached,
		Timestamp:             time.Now().UTC(),
		SchemaVersion:         report.SchemaVersion,
		TrustScore:            report.TrustScore,
		FakeReviewsPercentage: report.FakeReviewsPercentage,
		RiskLevel:             report.RiskLevel,
		ScoreBreakdown:        report.ScoreBreakdown,
		KeyInsights:           report.Insights,
		TotalReviewsAnalyzed:  report.TotalReviewsAnalyzed,
		Recommendation:        report.Recommendation,
		Confidence:            report.Confidence,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "service is healthy",
		Data: map[string]interface{}{
			"schema_version": models.SchemaVersion,
			"timestamp":      time.Now().UTC(),
		},
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "review trust gateway",
	})
}

func (s *Server) respond(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respond(w, statusCode, models.APIResponse{Success: false, Error: message})
}

// respondOrchestratorError maps an orchestrator.Error's Kind to the HTTP
// status that best matches its failure mode.
func (s *Server) respondOrchestratorError(w http.ResponseWriter, err error) {
	var orchErr *orchestrator.Error
	if !errors.As(err, &orchErr) {
		s.respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	switch orchErr.Kind {
	case orchestrator.KindInvalidInput:
		s.respondError(w, http.StatusBadRequest, orchErr.Error())
	case orchestrator.KindRateLimited:
		s.respondError(w, http.StatusTooManyRequests, orchErr.Error())
	case orchestrator.KindUpstreamUnavailable, orchestrator.KindAnalyzerFailure:
		s.respondError(w, http.StatusBadGateway, orchErr.Error())
	case orchestrator.KindDependencyDegraded:
		s.respondError(w, http.StatusOK, orchErr.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, orchErr.Error())
	}
}
