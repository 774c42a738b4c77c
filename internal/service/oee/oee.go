package oee

import (
	"context"
	"fmt"
	"time"

	"pcp-backend/internal/storage"
)

type MetricsStorage interface {
	GetRunMetrics(ctx context.Context, start, end time.Time, sectorID, machineID *int64) ([]*storage.RunMetricsRow, error)
}

type MetricsService struct {
	storage MetricsStorage
}

func NewMetricsService(storage MetricsStorage) *MetricsService {
	return &MetricsService{storage: storage}
}

// Result carries the aggregate indicators for the requested window.
// Percentages are 0-100 at this boundary; no rounding is applied here,
// display formatting is the frontend's job.
type Result struct {
	Availability    float64                  `json:"availability"`
	Performance     float64                  `json:"performance"`
	Quality         float64                  `json:"quality"`
	OEE             float64                  `json:"oee"`
	CostOEE         float64                  `json:"cost_oee"`
	CostExtra       float64                  `json:"cost_extra"`
	ProductiveHours float64                  `json:"productive_hours"`
	Details         []*storage.RunMetricsRow `json:"details"`
}

// Compute aggregates production runs in [start, end] into availability,
// performance, quality and composite OEE, plus the loss costs.
//
// A run flagged closed keeps its row in the drill-down but contributes zero
// target and zero losses. An empty window is not an error: availability and
// performance come back 0, quality 100.
func (s *MetricsService) Compute(ctx context.Context, start, end time.Time, sectorID, machineID *int64) (*Result, error) {
	const op = "service.oee.Compute"

	rows, err := s.storage.GetRunMetrics(ctx, start, end, sectorID, machineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		plannedMinutes float64
		registered     float64
		availLoss      float64
		perfLoss       float64
		produced       float64
		scrap          float64
		costOEE        float64
		costExtra      float64
	)

	for _, row := range rows {
		produced += row.Produced
		scrap += row.Scrap
		costExtra += row.ExtraCost

		// A closed slot was never worked: no target, no losses.
		if row.Closed {
			continue
		}

		if row.TargetRate > 0 {
			plannedMinutes += 60
		}

		registered += row.RegisteredMin
		availLoss += row.AvailabilityMin
		perfLoss += row.PerformanceMin

		costOEE += (row.MachineHourlyCost / 60) * (row.AvailabilityMin + row.PerformanceMin)
	}

	var availability, operating float64
	denomAvail := plannedMinutes - registered
	if denomAvail > 0 {
		operating = denomAvail - availLoss
		availability = operating / denomAvail
	}

	var performance float64
	if operating > 0 {
		performance = (operating - perfLoss) / operating
	}

	// No production means no defects either.
	quality := 1.0
	if produced > 0 {
		quality = (produced - scrap) / produced
	}

	if rows == nil {
		rows = []*storage.RunMetricsRow{}
	}

	return &Result{
		Availability:    availability * 100,
		Performance:     performance * 100,
		Quality:         quality * 100,
		OEE:             availability * performance * quality * 100,
		CostOEE:         costOEE,
		CostExtra:       costExtra,
		ProductiveHours: denomAvail / 60,
		Details:         rows,
	}, nil
}
