// internal/workers/qa/analyze-question/handler.go
package analyzequestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "nba-qa-workers/internal/common/errors"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/metrics"
	"nba-qa-workers/internal/common/validation"
	"nba-qa-workers/internal/models"
)

const TaskType = "analyze-question"

var ErrInvalidQuestion = errors.New("INVALID_QUESTION")

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "minLength": 1, "maxLength": 1000}
	}
}`)

type Analyzer interface {
	Analyze(question string) models.QuestionAnalysis
}

type Handler struct {
	config   *Config
	analyzer Analyzer
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, analyzer Analyzer, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		analyzer: analyzer,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	result, err := inputSchema.ValidateJSON(job.Variables)
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	case !result.Valid:
		err = fmt.Errorf("%w: %s", ErrInvalidQuestion, strings.Join(result.GetErrorMessages(), "; "))
	default:
		if uerr := json.Unmarshal([]byte(job.Variables), &input); uerr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidQuestion, uerr)
		}
	}
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is blank", ErrInvalidQuestion)
	}

	analysis := h.analyzer.Analyze(question)

	h.logger.Info("question analyzed", map[string]interface{}{
		"intent":     string(analysis.Intent),
		"people":     len(analysis.Entities.People),
		"teams":      len(analysis.Entities.Teams),
		"confidence": analysis.Confidence,
	})

	return &Output{
		Intent:     analysis.Intent,
		Entities:   analysis.Entities,
		Confidence: analysis.Confidence,
	}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	var stdErr *apperrors.StandardError
	if errors.Is(err, ErrInvalidQuestion) {
		stdErr = apperrors.NewInvalidQuestionError(err.Error())
	} else {
		stdErr = apperrors.Normalize(err)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
