package oee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pcp-backend/internal/storage"
)

type MockMetricsStorage struct {
	mock.Mock
}

func (m *MockMetricsStorage) GetRunMetrics(ctx context.Context, start, end time.Time, sectorID, machineID *int64) ([]*storage.RunMetricsRow, error) {
	args := m.Called(ctx, start, end, sectorID, machineID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	rows, ok := args.Get(0).([]*storage.RunMetricsRow)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.RunMetricsRow, got %T", args.Get(0))
	}

	return rows, args.Error(1)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCompute_EmptyWindow(t *testing.T) {
	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*storage.RunMetricsRow{}, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-01"), day("2024-03-07"), nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, res.Availability)
	assert.Equal(t, 0.0, res.Performance)
	assert.Equal(t, 100.0, res.Quality)
	assert.Equal(t, 0.0, res.OEE)
	assert.Equal(t, 0.0, res.CostOEE)
	assert.Equal(t, 0.0, res.CostExtra)
	assert.Equal(t, 0.0, res.ProductiveHours)
	assert.Empty(t, res.Details)
}

func TestCompute_SingleRun(t *testing.T) {
	// One slot, target 60/h, 10 min availability loss, 50 produced with 5 scrap.
	rows := []*storage.RunMetricsRow{
		{
			RunID:           1,
			SectorID:        2,
			MachineID:       3,
			Date:            day("2024-03-04"),
			TargetRate:      60,
			AvailabilityMin: 10,
			Produced:        50,
			Scrap:           5,
		},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-04"), nil, nil)

	assert.NoError(t, err)
	assert.InDelta(t, 83.33, res.Availability, 0.01)
	assert.Equal(t, 100.0, res.Performance)
	assert.Equal(t, 90.0, res.Quality)
	assert.InDelta(t, 75.0, res.OEE, 0.01)
	assert.Equal(t, 1.0, res.ProductiveHours)
	assert.Len(t, res.Details, 1)
}

func TestCompute_ClosedRunContributesNothing(t *testing.T) {
	rows := []*storage.RunMetricsRow{
		{RunID: 1, TargetRate: 60, Produced: 30},
		{RunID: 2, Closed: true, TargetRate: 60, RegisteredMin: 45, AvailabilityMin: 30, PerformanceMin: 15, MachineHourlyCost: 120},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-05"), nil, nil)

	assert.NoError(t, err)
	// Only the open run plans time; the closed one brings no losses and no cost.
	assert.Equal(t, 1.0, res.ProductiveHours)
	assert.Equal(t, 100.0, res.Availability)
	assert.Equal(t, 100.0, res.Performance)
	assert.Equal(t, 0.0, res.CostOEE)
	assert.Len(t, res.Details, 2)
}

func TestCompute_RegisteredStopShrinksDenominator(t *testing.T) {
	rows := []*storage.RunMetricsRow{
		{RunID: 1, TargetRate: 60, RegisteredMin: 20, AvailabilityMin: 10, Produced: 40},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-04"), nil, nil)

	assert.NoError(t, err)
	// 60 planned - 20 registered = 40; (40-10)/40.
	assert.InDelta(t, 75.0, res.Availability, 0.01)
	assert.InDelta(t, float64(40)/60, res.ProductiveHours, 0.0001)
}

func TestCompute_RegisteredStopSwallowsWholeSlot(t *testing.T) {
	// Registered stoppage eats the full planned hour: defined zero, not NaN.
	rows := []*storage.RunMetricsRow{
		{RunID: 1, TargetRate: 60, RegisteredMin: 60},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-04"), nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, res.Availability)
	assert.Equal(t, 0.0, res.Performance)
	assert.Equal(t, 100.0, res.Quality)
	assert.Equal(t, 0.0, res.OEE)
}

func TestCompute_PerformanceLoss(t *testing.T) {
	rows := []*storage.RunMetricsRow{
		{RunID: 1, TargetRate: 120, PerformanceMin: 15, Produced: 100, MachineHourlyCost: 60},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-04"), nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 100.0, res.Availability)
	assert.InDelta(t, 75.0, res.Performance, 0.01)
	// 60/h machine losing 15 min.
	assert.InDelta(t, 15.0, res.CostOEE, 0.001)
}

func TestCompute_MoreStoppageNeverHelps(t *testing.T) {
	service := func(rows []*storage.RunMetricsRow) *MetricsService {
		mockStorage := new(MockMetricsStorage)
		mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(rows, nil)
		return NewMetricsService(mockStorage)
	}

	sweeps := []struct {
		name string
		row  func(loss float64) *storage.RunMetricsRow
		pct  func(res *Result) float64
	}{
		{
			// Registered stops shrink the availability denominator while the
			// 10 fixed loss minutes stay, so availability keeps dropping.
			name: "registered",
			row: func(loss float64) *storage.RunMetricsRow {
				return &storage.RunMetricsRow{RunID: 1, TargetRate: 60, RegisteredMin: loss, AvailabilityMin: 10, Produced: 40}
			},
			pct: func(res *Result) float64 { return res.Availability },
		},
		{
			name: "availability",
			row: func(loss float64) *storage.RunMetricsRow {
				return &storage.RunMetricsRow{RunID: 1, TargetRate: 60, AvailabilityMin: loss, Produced: 40}
			},
			pct: func(res *Result) float64 { return res.Availability },
		},
		{
			name: "performance",
			row: func(loss float64) *storage.RunMetricsRow {
				return &storage.RunMetricsRow{RunID: 1, TargetRate: 60, PerformanceMin: loss, Produced: 40}
			},
			pct: func(res *Result) float64 { return res.Performance },
		},
	}

	for _, sweep := range sweeps {
		prev := 101.0
		for _, loss := range []float64{0, 5, 15, 30, 45} {
			res, err := service([]*storage.RunMetricsRow{sweep.row(loss)}).Compute(context.Background(), day("2024-03-04"), day("2024-03-04"), nil, nil)
			assert.NoError(t, err)
			assert.LessOrEqual(t, sweep.pct(res), prev, "%s loss=%v", sweep.name, loss)
			prev = sweep.pct(res)
		}
	}
}

func TestCompute_ExtraCostPassthrough(t *testing.T) {
	rows := []*storage.RunMetricsRow{
		{RunID: 1, TargetRate: 60, Produced: 10, ExtraCost: 35.5},
		{RunID: 2, TargetRate: 60, Produced: 20, ExtraCost: 14.5},
	}

	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(rows, nil)

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-05"), nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 50.0, res.CostExtra)
}

func TestCompute_StorageError(t *testing.T) {
	mockStorage := new(MockMetricsStorage)
	mockStorage.On("GetRunMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	service := NewMetricsService(mockStorage)

	res, err := service.Compute(context.Background(), day("2024-03-04"), day("2024-03-05"), nil, nil)

	assert.Error(t, err)
	assert.Nil(t, res)
}
