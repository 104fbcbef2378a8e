// internal/workers/qa/analyze-question/handler_test.go
package analyzequestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/common/config"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/qa/analyzer"
)

func newTestHandler(t *testing.T) *Handler {
	cat := catalog.New(
		[]models.Person{
			{ID: 2544, FullName: "LeBron James", FirstName: "LeBron", LastName: "James"},
			{ID: 201142, FullName: "Kevin Durant", FirstName: "Kevin", LastName: "Durant"},
		},
		[]models.Team{{ID: 1610612747, FullName: "Los Angeles Lakers", Abbreviation: "LAL", Nickname: "Lakers", City: "Los Angeles"}},
	)
	return NewHandler(&Config{Timeout: time.Second}, analyzer.New(cat), logger.NewTestLogger(t))
}

func TestExecute_Comparison(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Question: "Compare LeBron James vs Kevin Durant in points"})

	require.NoError(t, err)
	assert.Equal(t, models.IntentComparison, out.Intent)
	require.Len(t, out.Entities.People, 2)
	assert.Equal(t, int64(2544), out.Entities.People[0].ID)
	assert.Greater(t, out.Confidence, 0.0)
}

func TestExecute_General(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Question: "Hello there"})

	require.NoError(t, err)
	assert.Equal(t, models.IntentGeneral, out.Intent)
	assert.Empty(t, out.Entities.People)
}

func TestExecute_BlankQuestion(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Question: "\t "})
	assert.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestInputSchema(t *testing.T) {
	valid, err := inputSchema.ValidateJSON(`{"question":"Who won?"}`)
	require.NoError(t, err)
	assert.True(t, valid.Valid)

	missing, err := inputSchema.ValidateJSON(`{}`)
	require.NoError(t, err)
	assert.False(t, missing.Valid)
	assert.True(t, missing.HasErrors("question"))
}

func TestNewConfig(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewConfig(config.WorkerConfig{}).Timeout)
	assert.Equal(t, 2*time.Second, NewConfig(config.WorkerConfig{Timeout: 2000}).Timeout)
}
