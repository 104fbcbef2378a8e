// Package composer runs the question answering pipeline end to end and
// chooses between direct formatting and span inference.
package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "nba-qa-workers/internal/common/errors"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/metrics"
	"nba-qa-workers/internal/inference"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/qa/synthesis"
)

const (
	NoDataAnswer      = "I couldn't find relevant NBA data to answer this question. Please try asking about specific players, teams, or games."
	NoInferenceAnswer = "Could not generate answer"

	directConfidence   = 0.95
	fallbackConfidence = 0.5
	fallbackRunes      = 200
)

// Answer paths, also used as the qa_answers_total path label.
const (
	PathNoData       = "no_data"
	PathLeadersTable = "leaders_table"
	PathDirectScore  = "direct_score"
	PathInference    = "inference"
	PathFallback     = "fallback"
)

type Understander interface {
	Analyze(question string) models.QuestionAnalysis
}

type Retriever interface {
	Dispatch(ctx context.Context, analysis models.QuestionAnalysis) models.RecordSet
}

type Renderer interface {
	Synthesize(set models.RecordSet, question string) models.SynthesizedContext
}

type Composer struct {
	analyzer   Understander
	retriever  Retriever
	renderer   Renderer
	inferencer inference.Inferencer
	logger     logger.Logger
}

// New builds a Composer. A nil inferencer makes every inference attempt fall
// back to the narrative prefix.
func New(analyzer Understander, retriever Retriever, renderer Renderer, inferencer inference.Inferencer, log logger.Logger) *Composer {
	return &Composer{
		analyzer:   analyzer,
		retriever:  retriever,
		renderer:   renderer,
		inferencer: inferencer,
		logger:     log.With(map[string]interface{}{"component": "composer"}),
	}
}

// Result is an Answer together with the analysis that produced it.
type Result struct {
	Answer   models.Answer
	Analysis models.QuestionAnalysis
	Path     string
}

// Details is the diagnostic view of one question.
type Details struct {
	Question   string                  `json:"question"`
	Analysis   models.QuestionAnalysis `json:"analysis"`
	RecordKind models.RecordKind       `json:"nba_data_type"`
	Context    string                  `json:"context"`
	Sources    []models.Provenance     `json:"sources"`
	Inference  *inference.Span         `json:"qa_result"`
	Answer     string                  `json:"answer"`
	Confidence float64                 `json:"confidence"`
}

func (c *Composer) Answer(ctx context.Context, question string) models.Answer {
	return c.Compose(ctx, question).Answer
}

func (c *Composer) Compose(ctx context.Context, question string) Result {
	analysis, set, sc := c.run(ctx, question)

	res := Result{
		Analysis: analysis,
		Answer: models.Answer{
			Context: sc.Narrative,
			Sources: sc.Provenance,
			Records: set,
		},
	}

	switch {
	case sc.Narrative == "" || sc.Narrative == synthesis.NoDataSentence:
		res.Answer.Text = NoDataAnswer
		res.Answer.Context = ""
		res.Answer.Sources = nil
		res.Path = PathNoData

	case analysis.Intent == models.IntentRankedLeaders &&
		analysis.Entities.TopN != nil &&
		set.Kind == models.KindLeagueLeaders:
		res.Answer.Text, res.Answer.Confidence = leadersTable(set.Leaders)
		res.Path = PathLeadersTable

	case directScoreApplies(analysis, set):
		res.Answer.Text = directScore(*set.Games[0].Score, question)
		res.Answer.Confidence = directConfidence
		res.Path = PathDirectScore

	default:
		res.Answer.Text, res.Answer.Confidence, res.Path = c.infer(ctx, question, sc.Narrative)
	}

	metrics.QAAnswers.WithLabelValues(string(analysis.Intent), res.Path).Inc()
	c.logger.Info("question answered", map[string]interface{}{
		"intent":     string(analysis.Intent),
		"recordKind": string(set.Kind),
		"path":       res.Path,
		"confidence": res.Answer.Confidence,
		"sources":    len(res.Answer.Sources),
		"skipped":    len(set.Skipped),
	})
	return res
}

// AnswerWithDetails always consults the inferencer when a narrative exists,
// regardless of intent.
func (c *Composer) AnswerWithDetails(ctx context.Context, question string) Details {
	analysis, set, sc := c.run(ctx, question)

	d := Details{
		Question:   question,
		Analysis:   analysis,
		RecordKind: set.Kind,
		Context:    sc.Narrative,
		Sources:    sc.Provenance,
		Answer:     NoInferenceAnswer,
	}
	if sc.Narrative == "" {
		return d
	}

	span, err := c.span(ctx, question, sc.Narrative)
	if err != nil {
		c.logger.Warn("inference failed", map[string]interface{}{"error": err.Error()})
		return d
	}
	d.Inference = &span
	d.Answer = span.Text
	d.Confidence = span.Confidence
	return d
}

func (c *Composer) run(ctx context.Context, question string) (models.QuestionAnalysis, models.RecordSet, models.SynthesizedContext) {
	start := time.Now()
	analysis := c.analyzer.Analyze(question)
	observeStage("analyze", start)

	start = time.Now()
	set := c.retriever.Dispatch(ctx, analysis)
	observeStage("retrieve", start)

	start = time.Now()
	sc := c.renderer.Synthesize(set, question)
	observeStage("synthesize", start)

	return analysis, set, sc
}

func (c *Composer) infer(ctx context.Context, question, narrative string) (string, float64, string) {
	span, err := c.span(ctx, question, narrative)
	if err != nil {
		c.logger.Warn("inference failed, falling back to narrative prefix", map[string]interface{}{
			"errorCode": string(inferenceError(err).Code),
			"error":     err.Error(),
		})
		return truncate(narrative, fallbackRunes), fallbackConfidence, PathFallback
	}
	return span.Text, span.Confidence, PathInference
}

func inferenceError(err error) *apperrors.StandardError {
	if errors.Is(err, inference.ErrInferenceTimeout) {
		return apperrors.NewInferenceTimeoutError()
	}
	return apperrors.NewInferenceFailedError(err)
}

func (c *Composer) span(ctx context.Context, question, narrative string) (inference.Span, error) {
	if c.inferencer == nil {
		return inference.Span{}, fmt.Errorf("%w: no inference service configured", inference.ErrInferenceFailed)
	}
	start := time.Now()
	defer observeStage("infer", start)
	return c.inferencer.AnswerSpan(ctx, question, narrative)
}

func observeStage(stage string, start time.Time) {
	metrics.QAStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func directScoreApplies(analysis models.QuestionAnalysis, set models.RecordSet) bool {
	return analysis.Intent == models.IntentGameResult &&
		analysis.Entities.Temporal.Last &&
		set.Kind == models.KindGameData &&
		len(set.Games) > 0 &&
		set.Games[0].Score != nil
}

func directScore(s models.DirectScore, question string) string {
	if strings.Contains(strings.ToLower(question), "score") {
		return fmt.Sprintf("%s %d, %s %d", s.TeamName, s.TeamScore, s.OpponentName, s.OpponentScore)
	}
	outcome := "lost"
	if s.Won() {
		outcome = "won"
	}
	return fmt.Sprintf("%s %s %d-%d", s.TeamName, outcome, s.TeamScore, s.OpponentScore)
}

func leadersTable(list *models.LeaderList) (string, float64) {
	if list == nil || len(list.Leaders) == 0 {
		return synthesis.NoLeadersSentence, 0
	}

	lines := []string{
		fmt.Sprintf("%-6s %-20s %s", "Rank", "Player Name", list.StatAbbrev),
		strings.Repeat("-", 50),
	}
	for _, l := range list.Leaders {
		lines = append(lines, fmt.Sprintf("%-6d %-20s %s",
			l.Rank, l.PlayerName, synthesis.FormatStatValue(list.StatAbbrev, l.Value)))
	}
	return strings.Join(lines, "\n"), directConfidence
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
