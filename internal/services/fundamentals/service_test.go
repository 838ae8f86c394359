package fundamentals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcnlabs/folio/internal/common"
	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

type mockWarehouse struct {
	scores    map[string]models.ScoreRow
	err       error
	requested []string
}

func (m *mockWarehouse) GetLatestScores(_ context.Context, symbols []string) (map[string]models.ScoreRow, error) {
	m.requested = symbols
	return m.scores, m.err
}

func (m *mockWarehouse) GetDailyMetrics(context.Context, string) (*models.DailyMetricsRow, error) {
	return nil, interfaces.ErrNoData
}

func (m *mockWarehouse) GetLastTwoCloses(context.Context, string) (models.ClosePoint, models.ClosePoint, error) {
	return models.ClosePoint{}, models.ClosePoint{}, interfaces.ErrNoData
}

func (m *mockWarehouse) GetDailyCloses(context.Context, string, time.Time, time.Time) ([]models.ClosePoint, error) {
	return nil, nil
}

func (m *mockWarehouse) GetWeeklyOHLC(context.Context, string, time.Time, time.Time) ([]models.WeeklyBar, error) {
	return nil, nil
}

func (m *mockWarehouse) Ping(context.Context) error { return nil }
func (m *mockWarehouse) Close() error               { return nil }

func ptr(v float64) *float64 { return &v }

func TestGetLatestScores(t *testing.T) {
	wh := &mockWarehouse{
		scores: map[string]models.ScoreRow{
			"AAPL": {Symbol: "AAPL", Value: ptr(6.5), Growth: ptr(8.0), Quality: ptr(9.1)},
			"MSFT": {Symbol: "MSFT", Value: ptr(5.0), Momentum: ptr(7.2)},
		},
	}

	svc := NewService(wh, common.NewSilentLogger())

	report, err := svc.GetLatestScores(context.Background(), []string{"aapl", "GHOST", "MSFT.US"})
	require.NoError(t, err)

	// The warehouse sees the exchange-qualified form.
	assert.Equal(t, []string{"AAPL.US", "GHOST.US", "MSFT.US"}, wh.requested)
	assert.Equal(t, ScoreColumns, report.ScoreColumns)

	require.Len(t, report.Data, 3)
	assert.Equal(t, "AAPL", report.Data[0].Symbol)
	require.NotNil(t, report.Data[0].Value)
	assert.Equal(t, 6.5, *report.Data[0].Value)

	// Missing coverage renders as a nil-score row, preserving input order.
	assert.Equal(t, "GHOST", report.Data[1].Symbol)
	assert.Nil(t, report.Data[1].Value)
	assert.Nil(t, report.Data[1].Momentum)

	assert.Equal(t, "MSFT", report.Data[2].Symbol)
	require.NotNil(t, report.Data[2].Momentum)
	assert.Equal(t, 7.2, *report.Data[2].Momentum)
}

func TestGetLatestScoresInvalidInput(t *testing.T) {
	svc := NewService(&mockWarehouse{}, common.NewSilentLogger())

	_, err := svc.GetLatestScores(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))

	_, err = svc.GetLatestScores(context.Background(), []string{"AAPL", "  "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
}

func TestGetLatestScoresWarehouseError(t *testing.T) {
	wh := &mockWarehouse{err: errors.New("connection reset")}
	svc := NewService(wh, common.NewSilentLogger())

	_, err := svc.GetLatestScores(context.Background(), []string{"AAPL"})
	assert.Error(t, err)
}
