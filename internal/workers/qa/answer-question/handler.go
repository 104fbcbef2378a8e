// internal/workers/qa/answer-question/handler.go
package answerquestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"nba-qa-workers/internal/archive"
	apperrors "nba-qa-workers/internal/common/errors"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/metrics"
	"nba-qa-workers/internal/common/validation"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/qa/composer"
)

const TaskType = "answer-question"

var (
	ErrInvalidQuestion = errors.New("INVALID_QUESTION")
	ErrJobTimeout      = errors.New("JOB_TIMEOUT")
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question":  {"type": "string", "minLength": 1, "maxLength": 1000},
		"requestId": {"type": "string", "maxLength": 128}
	}
}`)

type Pipeline interface {
	Compose(ctx context.Context, question string) composer.Result
}

type Archiver interface {
	Save(ctx context.Context, entry archive.Entry) (string, error)
}

type Handler struct {
	config   *Config
	pipeline Pipeline
	archive  Archiver
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandler builds the handler. archiver may be nil when no archive is configured.
func NewHandler(config *Config, pipeline Pipeline, archiver Archiver, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		pipeline: pipeline,
		archive:  archiver,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	return h.completeJob(client, job, output)
}

func parseInput(variables string) (*Input, error) {
	result, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuestion, strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is blank", ErrInvalidQuestion)
	}

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	res := h.pipeline.Compose(ctx, question)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ErrJobTimeout
	}

	output := &Output{
		RequestID:  requestID,
		Answer:     res.Answer.Text,
		Confidence: res.Answer.Confidence,
		Intent:     res.Analysis.Intent,
		Sources:    res.Answer.Sources,
	}
	if output.Sources == nil {
		output.Sources = []models.Provenance{}
	}

	if h.archive != nil {
		key, err := h.archive.Save(ctx, archive.Entry{
			RequestID: requestID,
			Question:  question,
			Intent:    res.Analysis.Intent,
			Answer:    res.Answer,
		})
		if err != nil {
			stdErr := apperrors.NewArchiveWriteFailedError(err)
			h.logger.Warn("answer not archived", map[string]interface{}{
				"requestId": requestID,
				"errorCode": string(stdErr.Code),
				"error":     stdErr.Details,
			})
		}
		output.ArchiveKey = key
	}

	h.logger.Info("question answered", map[string]interface{}{
		"requestId":  requestID,
		"intent":     string(output.Intent),
		"path":       res.Path,
		"confidence": output.Confidence,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
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

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

// failJob sends on a fresh context; the job context may already be expired.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := toStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidQuestion):
		return apperrors.NewInvalidQuestionError(err.Error())
	case errors.Is(err, ErrJobTimeout):
		return apperrors.NewJobTimeoutError(TaskType)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
