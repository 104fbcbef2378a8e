// Package inference calls the extractive question-answering service.
package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nba-qa-workers/internal/common/config"
	httpclient "nba-qa-workers/internal/common/http"
	"nba-qa-workers/internal/common/metrics"
)

const DefaultModel = "deepset/roberta-base-squad2"

var (
	ErrInferenceTimeout = errors.New("INFERENCE_TIMEOUT")
	ErrInferenceFailed  = errors.New("INFERENCE_FAILED")
)

// Span is an answer extracted from the supplied context.
type Span struct {
	Text       string  `json:"answer"`
	Confidence float64 `json:"score"`
}

type Inferencer interface {
	AnswerSpan(ctx context.Context, question, contextText string) (Span, error)
}

type spanRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Model    string `json:"model"`
}

type Client struct {
	http  *httpclient.Client
	model string
}

func NewClient(cfg config.InferenceAPIConfig) *Client {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		http: httpclient.NewClient(cfg.BaseURL, httpclient.Options{
			Timeout:    config.GetDuration(cfg.Timeout),
			MaxRetries: cfg.MaxRetries,
			Headers:    headers,
		}),
		model: model,
	}
}

func (c *Client) AnswerSpan(ctx context.Context, question, contextText string) (Span, error) {
	var span Span
	err := c.http.PostJSON(ctx, "/answer-span", spanRequest{
		Question: question,
		Context:  contextText,
		Model:    c.model,
	}, &span)
	if err != nil {
		if errors.Is(err, httpclient.ErrRequestTimeout) {
			metrics.InferenceRequests.WithLabelValues("timeout").Inc()
			return Span{}, ErrInferenceTimeout
		}
		metrics.InferenceRequests.WithLabelValues("error").Inc()
		return Span{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	if strings.TrimSpace(span.Text) == "" {
		metrics.InferenceRequests.WithLabelValues("empty").Inc()
		return Span{}, fmt.Errorf("%w: empty answer span", ErrInferenceFailed)
	}

	span.Confidence = clamp(span.Confidence)
	metrics.InferenceRequests.WithLabelValues("success").Inc()
	return span, nil
}

func clamp(score float64) float64 {
	switch {
	case score < 0 || score != score:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
