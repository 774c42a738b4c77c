package adherence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"pcp-backend/internal/storage"
)

type PlanningStorage interface {
	GetPlanningEntries(ctx context.Context) ([]*storage.PlanningEntry, error)
	GetDownCounts(ctx context.Context) ([]*storage.DownCountRecord, error)
	GetPullFlowWorkOrders(ctx context.Context) ([]*storage.WorkOrder, error)
}

type PlanningService struct {
	storage PlanningStorage
	now     func() time.Time
}

func NewPlanningService(storage PlanningStorage) *PlanningService {
	return &PlanningService{storage: storage, now: time.Now}
}

type weekKey struct {
	Year int
	Week int
}

func keyOf(t time.Time) weekKey {
	y, w := t.ISOWeek()
	return weekKey{Year: y, Week: w}
}

func (k weekKey) less(o weekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

func (k weekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

type WeekRow struct {
	YearWeek          string  `json:"year_week"`
	PlannedQty        float64 `json:"planned_qty"`
	ExecutedQty       float64 `json:"executed_qty"`
	TotalConfirmedQty float64 `json:"total_confirmed_qty"`
	UnplannedQty      float64 `json:"unplanned_qty"`
	AdherencePct      float64 `json:"adherence_pct"`
}

// WeeklyAdherence rolls the whole planning history into per-week
// planned-versus-executed figures.
//
// A baixa counts as executed only when its work order was planned in the
// same ISO week the baixa was confirmed in. Late confirmations land in the
// week they actually happened, never back in the week they were planned
// for; that weekly bucket is the plant's definition of on-time.
func (s *PlanningService) WeeklyAdherence(ctx context.Context) ([]*WeekRow, error) {
	const op = "service.adherence.WeeklyAdherence"

	var (
		entries []*storage.PlanningEntry
		baixas  []*storage.DownCountRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.storage.GetPlanningEntries(gCtx)
		if err != nil {
			return fmt.Errorf("planning: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		baixas, err = s.storage.GetDownCounts(gCtx)
		if err != nil {
			return fmt.Errorf("baixas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	planned := make(map[weekKey]float64)
	plannedOrders := make(map[weekKey]map[string]struct{})
	for _, e := range entries {
		k := keyOf(e.TargetDate)
		planned[k] += e.PlannedQty
		if plannedOrders[k] == nil {
			plannedOrders[k] = make(map[string]struct{})
		}
		plannedOrders[k][e.WorkOrderNumber] = struct{}{}
	}

	executed := make(map[weekKey]float64)
	totalConfirmed := make(map[weekKey]float64)
	for _, b := range baixas {
		if b.Adjustment {
			continue
		}
		k := keyOf(b.Date)
		totalConfirmed[k] += b.Qty
		if _, ok := plannedOrders[k][b.WorkOrderNumber]; ok {
			executed[k] += b.Qty
		}
	}

	rows := make([]*WeekRow, 0, len(planned))
	keys := make([]weekKey, 0, len(planned))
	for k := range planned {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	for _, k := range keys {
		row := &WeekRow{
			YearWeek:          k.String(),
			PlannedQty:        planned[k],
			ExecutedQty:       executed[k],
			TotalConfirmedQty: totalConfirmed[k],
			UnplannedQty:      totalConfirmed[k] - executed[k],
		}
		if row.PlannedQty > 0 {
			row.AdherencePct = row.ExecutedQty / row.PlannedQty * 100
		}
		rows = append(rows, row)
	}

	return rows, nil
}

type DelayWeek struct {
	YearWeek  string `json:"year_week"`
	LateCount int    `json:"late_count"`
}

// lateThreshold: an order is counted late while its confirmed quantity sits
// under 90% of what was ordered.
const lateThreshold = 0.9

// DelaySnapshot counts the open pull-flow work orders that were late as of
// the Sunday closing the week containing asOf: due on or before that cutoff
// and, using only baixas dated on or before it, confirmed under 90% of the
// ordered quantity.
func (s *PlanningService) DelaySnapshot(ctx context.Context, asOf time.Time) (int, error) {
	const op = "service.adherence.DelaySnapshot"

	orders, baixas, err := s.fetchDelayInputs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cutoff := endOfISOWeek(asOf)

	confirmed := make(map[string]float64)
	for _, b := range baixas {
		if b.Adjustment || b.Date.After(cutoff) {
			continue
		}
		confirmed[b.WorkOrderNumber] += b.Qty
	}

	return countLate(orders, confirmed, cutoff), nil
}

// DelayHistory re-evaluates the late-order count for each of the last 10
// completed weeks, as of each week's Sunday cutoff. Every point uses only
// the baixas dated up to its own cutoff, so the trend stays honest about
// what was known at the time; the cumulative map rolls forward instead of
// being rebuilt per week.
func (s *PlanningService) DelayHistory(ctx context.Context) ([]*DelayWeek, error) {
	const op = "service.adherence.DelayHistory"

	orders, baixas, err := s.fetchDelayInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.Slice(baixas, func(i, j int) bool { return baixas[i].Date.Before(baixas[j].Date) })

	// Last completed week ends on the most recent Sunday strictly before today.
	lastCutoff := endOfISOWeek(s.now()).AddDate(0, 0, -7)

	const weeks = 10
	cutoffs := make([]time.Time, weeks)
	for i := 0; i < weeks; i++ {
		cutoffs[i] = lastCutoff.AddDate(0, 0, -7*(weeks-1-i))
	}

	confirmed := make(map[string]float64)
	next := 0

	history := make([]*DelayWeek, 0, weeks)
	for _, cutoff := range cutoffs {
		for next < len(baixas) && !baixas[next].Date.After(cutoff) {
			if !baixas[next].Adjustment {
				confirmed[baixas[next].WorkOrderNumber] += baixas[next].Qty
			}
			next++
		}

		history = append(history, &DelayWeek{
			YearWeek:  keyOf(cutoff).String(),
			LateCount: countLate(orders, confirmed, cutoff),
		})
	}

	return history, nil
}

func (s *PlanningService) fetchDelayInputs(ctx context.Context) ([]*storage.WorkOrder, []*storage.DownCountRecord, error) {
	var (
		orders []*storage.WorkOrder
		baixas []*storage.DownCountRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.storage.GetPullFlowWorkOrders(gCtx)
		if err != nil {
			return fmt.Errorf("work orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		baixas, err = s.storage.GetDownCounts(gCtx)
		if err != nil {
			return fmt.Errorf("baixas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return orders, baixas, nil
}

func countLate(orders []*storage.WorkOrder, confirmed map[string]float64, cutoff time.Time) int {
	late := 0
	for _, o := range orders {
		if o.DueDate.After(cutoff) {
			continue
		}
		if confirmed[o.Number] < lateThreshold*o.OrderedQty {
			late++
		}
	}
	return late
}

// endOfISOWeek returns the Sunday of t's ISO week, at midnight. Baixas carry
// whole dates, so "on or before the cutoff" is a plain !After comparison.
func endOfISOWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	wd := int(t.Weekday())
	if wd == 0 {
		return t
	}
	return t.AddDate(0, 0, 7-wd)
}
