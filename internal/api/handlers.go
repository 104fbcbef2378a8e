package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nba-qa-workers/internal/archive"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/observability"
	"nba-qa-workers/internal/models"
)

const readinessTimeout = 2 * time.Second

type handler struct {
	pipeline  Pipeline
	analyzer  Analyzer
	archive   AnswerStore
	obs       *observability.Observability
	readiness map[string]ReadinessCheck
	version   string
	logger    logger.Logger
}

type QuestionRequest struct {
	Question  string `json:"question" binding:"required,max=1000"`
	RequestID string `json:"requestId" binding:"max=128"`
}

type AnswerResponse struct {
	RequestID  string              `json:"requestId"`
	Answer     string              `json:"answer"`
	Confidence float64             `json:"confidence"`
	Intent     models.Intent       `json:"intent"`
	Context    string              `json:"context"`
	Sources    []models.Provenance `json:"sources"`
	ArchiveKey string              `json:"archiveKey,omitempty"`
}

func (h *handler) bindQuestion(c *gin.Context) (QuestionRequest, bool) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return req, false
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: question is blank"})
		return req, false
	}
	return req, true
}

// answer handles POST /api/v1/answer
func (h *handler) answer(c *gin.Context) {
	req, ok := h.bindQuestion(c)
	if !ok {
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx := c.Request.Context()
	res := h.pipeline.Compose(ctx, req.Question)

	resp := AnswerResponse{
		RequestID:  requestID,
		Answer:     res.Answer.Text,
		Confidence: res.Answer.Confidence,
		Intent:     res.Analysis.Intent,
		Context:    res.Answer.Context,
		Sources:    res.Answer.Sources,
	}
	if resp.Sources == nil {
		resp.Sources = []models.Provenance{}
	}

	if h.archive != nil {
		key, err := h.archive.Save(ctx, archive.Entry{
			RequestID: requestID,
			Question:  req.Question,
			Intent:    res.Analysis.Intent,
			Answer:    res.Answer,
		})
		if err != nil {
			h.logger.Warn("answer not archived", map[string]interface{}{
				"requestId": requestID,
				"error":     err.Error(),
			})
		}
		resp.ArchiveKey = key
	}

	h.obs.RecordQuestion(ctx, "answer", resp.Confidence > 0)
	c.JSON(http.StatusOK, resp)
}

// details handles POST /api/v1/answer/details
func (h *handler) details(c *gin.Context) {
	req, ok := h.bindQuestion(c)
	if !ok {
		return
	}
	d := h.pipeline.AnswerWithDetails(c.Request.Context(), req.Question)
	if d.Sources == nil {
		d.Sources = []models.Provenance{}
	}
	h.obs.RecordQuestion(c.Request.Context(), "details", d.Inference != nil)
	c.JSON(http.StatusOK, d)
}

// analyze handles POST /api/v1/analyze
func (h *handler) analyze(c *gin.Context) {
	req, ok := h.bindQuestion(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.analyzer.Analyze(req.Question))
}

// getAnswer handles GET /api/v1/answers/:requestId
func (h *handler) getAnswer(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Answer archive is disabled"})
		return
	}

	requestID := c.Param("requestId")
	entry, err := h.archive.Load(c.Request.Context(), requestID)
	if errors.Is(err, archive.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found: " + requestID})
		return
	}
	if err != nil {
		h.logger.Error("archive lookup failed", map[string]interface{}{
			"requestId": requestID,
			"error":     err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load answer"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (h *handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.readiness))
	status, code := "ready", http.StatusOK
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
