package adherence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pcp-backend/internal/storage"
)

type MockPlanningStorage struct {
	mock.Mock
}

func (m *MockPlanningStorage) GetPlanningEntries(ctx context.Context) ([]*storage.PlanningEntry, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	entries, ok := args.Get(0).([]*storage.PlanningEntry)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.PlanningEntry, got %T", args.Get(0))
	}

	return entries, args.Error(1)
}

func (m *MockPlanningStorage) GetDownCounts(ctx context.Context) ([]*storage.DownCountRecord, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	baixas, ok := args.Get(0).([]*storage.DownCountRecord)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.DownCountRecord, got %T", args.Get(0))
	}

	return baixas, args.Error(1)
}

func (m *MockPlanningStorage) GetPullFlowWorkOrders(ctx context.Context) ([]*storage.WorkOrder, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	orders, ok := args.Get(0).([]*storage.WorkOrder)
	if !ok {
		return nil, fmt.Errorf("expected []*storage.WorkOrder, got %T", args.Get(0))
	}

	return orders, args.Error(1)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newService(entries []*storage.PlanningEntry, baixas []*storage.DownCountRecord) *PlanningService {
	mockStorage := new(MockPlanningStorage)
	mockStorage.On("GetPlanningEntries", mock.Anything).Return(entries, nil)
	mockStorage.On("GetDownCounts", mock.Anything).Return(baixas, nil)
	return NewPlanningService(mockStorage)
}

func TestWeeklyAdherence_PlannedAndUnplanned(t *testing.T) {
	// W1 planned in 2024-W10 for 100; 80 confirmed against it plus 20 of
	// untracked production in the same week.
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 100},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-07"), Qty: 80},
		{WorkOrderNumber: "W9", Date: day("2024-03-07"), Qty: 20},
	}

	rows, err := newService(entries, baixas).WeeklyAdherence(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "2024-W10", rows[0].YearWeek)
	assert.Equal(t, 100.0, rows[0].PlannedQty)
	assert.Equal(t, 80.0, rows[0].ExecutedQty)
	assert.Equal(t, 100.0, rows[0].TotalConfirmedQty)
	assert.Equal(t, 20.0, rows[0].UnplannedQty)
	assert.Equal(t, 80.0, rows[0].AdherencePct)
}

func TestWeeklyAdherence_AdjustmentExcluded(t *testing.T) {
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 100},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-06"), Qty: 500, Adjustment: true},
	}

	rows, err := newService(entries, baixas).WeeklyAdherence(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].ExecutedQty)
	assert.Equal(t, 0.0, rows[0].TotalConfirmedQty)
	assert.Equal(t, 0.0, rows[0].AdherencePct)
}

func TestWeeklyAdherence_LateBaixaDoesNotCountBack(t *testing.T) {
	// Planned in W10, confirmed in W11: W10 stays at zero and the W11
	// confirmation is untracked there (W1 was not planned in W11).
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 100},
		{WorkOrderNumber: "W2", TargetDate: day("2024-03-12"), PlannedQty: 50},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-12"), Qty: 100},
	}

	rows, err := newService(entries, baixas).WeeklyAdherence(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "2024-W10", rows[0].YearWeek)
	assert.Equal(t, 0.0, rows[0].ExecutedQty)
	assert.Equal(t, 0.0, rows[0].AdherencePct)

	assert.Equal(t, "2024-W11", rows[1].YearWeek)
	assert.Equal(t, 0.0, rows[1].ExecutedQty)
	assert.Equal(t, 100.0, rows[1].TotalConfirmedQty)
	assert.Equal(t, 100.0, rows[1].UnplannedQty)
}

func TestWeeklyAdherence_ZeroPlanWeek(t *testing.T) {
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 0},
	}

	rows, err := newService(entries, []*storage.DownCountRecord{}).WeeklyAdherence(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].AdherencePct)
}

func TestWeeklyAdherence_SortedAscending(t *testing.T) {
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W3", TargetDate: day("2025-01-07"), PlannedQty: 10},
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 10},
		{WorkOrderNumber: "W2", TargetDate: day("2024-11-12"), PlannedQty: 10},
	}

	rows, err := newService(entries, []*storage.DownCountRecord{}).WeeklyAdherence(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "2024-W10", rows[0].YearWeek)
	assert.Equal(t, "2024-W46", rows[1].YearWeek)
	assert.Equal(t, "2025-W02", rows[2].YearWeek)
}

func TestWeeklyAdherence_ExecutedSumMatchesTraceableBaixas(t *testing.T) {
	entries := []*storage.PlanningEntry{
		{WorkOrderNumber: "W1", TargetDate: day("2024-03-05"), PlannedQty: 100},
		{WorkOrderNumber: "W2", TargetDate: day("2024-03-05"), PlannedQty: 60},
		{WorkOrderNumber: "W2", TargetDate: day("2024-03-12"), PlannedQty: 40},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-06"), Qty: 70},
		{WorkOrderNumber: "W2", Date: day("2024-03-07"), Qty: 30},
		{WorkOrderNumber: "W2", Date: day("2024-03-13"), Qty: 40},
		{WorkOrderNumber: "W7", Date: day("2024-03-06"), Qty: 25}, // never planned
		{WorkOrderNumber: "W1", Date: day("2024-03-13"), Qty: 10}, // late, W1 not planned in W11
		{WorkOrderNumber: "W2", Date: day("2024-03-08"), Qty: 5, Adjustment: true},
	}

	rows, err := newService(entries, baixas).WeeklyAdherence(context.Background())

	assert.NoError(t, err)

	var executed float64
	for _, r := range rows {
		executed += r.ExecutedQty
	}
	// 70 + 30 in W10, 40 in W11: every non-adjustment baixa whose order was
	// planned in its own confirmation week, nothing else.
	assert.Equal(t, 140.0, executed)
}

func delayService(orders []*storage.WorkOrder, baixas []*storage.DownCountRecord, today string) *PlanningService {
	mockStorage := new(MockPlanningStorage)
	mockStorage.On("GetPullFlowWorkOrders", mock.Anything).Return(orders, nil)
	mockStorage.On("GetDownCounts", mock.Anything).Return(baixas, nil)

	service := NewPlanningService(mockStorage)
	service.now = func() time.Time { return day(today) }
	return service
}

func TestDelaySnapshot_CountsUnderfilledDueOrders(t *testing.T) {
	// Cutoff for 2024-W10 is Sunday 2024-03-10.
	orders := []*storage.WorkOrder{
		{Number: "W1", OrderedQty: 100, DueDate: day("2024-03-08")}, // 50% filled -> late
		{Number: "W2", OrderedQty: 100, DueDate: day("2024-03-08")}, // 95% filled -> ok
		{Number: "W3", OrderedQty: 100, DueDate: day("2024-03-20")}, // not due yet
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-07"), Qty: 50},
		{WorkOrderNumber: "W2", Date: day("2024-03-07"), Qty: 95},
	}

	service := delayService(orders, baixas, "2024-03-20")

	late, err := service.DelaySnapshot(context.Background(), day("2024-03-06"))

	assert.NoError(t, err)
	assert.Equal(t, 1, late)
}

func TestDelaySnapshot_IgnoresBaixasAfterCutoff(t *testing.T) {
	orders := []*storage.WorkOrder{
		{Number: "W1", OrderedQty: 100, DueDate: day("2024-03-08")},
	}
	// Fully confirmed, but only after the week closed: as of W10 it was late.
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-14"), Qty: 100},
	}

	service := delayService(orders, baixas, "2024-03-20")

	late, err := service.DelaySnapshot(context.Background(), day("2024-03-06"))

	assert.NoError(t, err)
	assert.Equal(t, 1, late)
}

func TestDelayHistory_TenWeeksAscending(t *testing.T) {
	service := delayService([]*storage.WorkOrder{}, []*storage.DownCountRecord{}, "2024-03-20")

	history, err := service.DelayHistory(context.Background())

	assert.NoError(t, err)
	assert.Len(t, history, 10)
	// Wednesday 2024-03-20: last completed week closed Sunday 2024-03-17.
	assert.Equal(t, "2024-W02", history[0].YearWeek)
	assert.Equal(t, "2024-W11", history[9].YearWeek)
}

func TestDelayHistory_PointInTimeCounts(t *testing.T) {
	// Due 2024-02-01 (week W05), confirmed in week 2024-W10 (Sunday cutoff
	// 2024-03-10): not yet due in the W02-W04 snapshots, late from W05 until
	// the confirmation, recovered from W10 on.
	orders := []*storage.WorkOrder{
		{Number: "W1", OrderedQty: 100, DueDate: day("2024-02-01")},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-03-05"), Qty: 100},
	}

	service := delayService(orders, baixas, "2024-03-20")

	history, err := service.DelayHistory(context.Background())

	assert.NoError(t, err)
	assert.Len(t, history, 10)
	for _, h := range history {
		switch {
		case h.YearWeek < "2024-W05":
			assert.Equal(t, 0, h.LateCount, h.YearWeek)
		case h.YearWeek < "2024-W10":
			assert.Equal(t, 1, h.LateCount, h.YearWeek)
		default:
			assert.Equal(t, 0, h.LateCount, h.YearWeek)
		}
	}
}

func TestDelayHistory_AdjustmentsDoNotRecover(t *testing.T) {
	orders := []*storage.WorkOrder{
		{Number: "W1", OrderedQty: 100, DueDate: day("2024-01-05")},
	}
	baixas := []*storage.DownCountRecord{
		{WorkOrderNumber: "W1", Date: day("2024-02-01"), Qty: 100, Adjustment: true},
	}

	service := delayService(orders, baixas, "2024-03-20")

	history, err := service.DelayHistory(context.Background())

	assert.NoError(t, err)
	for _, h := range history {
		assert.Equal(t, 1, h.LateCount, h.YearWeek)
	}
}
