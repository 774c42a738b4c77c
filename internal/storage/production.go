package storage

import "time"

type Sector struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Machine struct {
	ID         int64   `json:"id"`
	SectorID   int64   `json:"sector_id"`
	Name       string  `json:"name"`
	HourlyCost float64 `json:"hourly_cost"`
	IsActive   bool    `json:"is_active"`
}

// Stop reason types, mirrored from pcp_stop_reasons.reason_type.
const (
	StopRegistered   = "REGISTERED_STOP"
	StopAvailability = "AVAILABILITY_LOSS"
	StopPerformance  = "PERFORMANCE_LOSS"
)

type StopReason struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ReasonType string `json:"reason_type"`
	IsActive   bool   `json:"is_active"`
}

type ProductionRun struct {
	ID         int64     `json:"id"`
	SectorID   int64     `json:"sector_id"`
	MachineID  int64     `json:"machine_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	CategoryID *int64    `json:"category_id"`
	Closed     bool      `json:"closed"`
	TargetRate float64   `json:"target_rate"`
}

type StoppageEvent struct {
	ID           int64   `json:"id"`
	RunID        int64   `json:"run_id"`
	StopReasonID int64   `json:"stop_reason_id"`
	Minutes      float64 `json:"minutes"`
	Note         *string `json:"note"`
}

type OutputRecord struct {
	ID        int64   `json:"id"`
	RunID     int64   `json:"run_id"`
	Produced  float64 `json:"produced"`
	Scrap     float64 `json:"scrap"`
	ExtraCost float64 `json:"extra_cost"`
}

// RunMetricsRow is one production run with its stoppage minutes already
// bucketed by reason type and its output records summed. This is the shape
// the OEE aggregation consumes and the drill-down table displays.
type RunMetricsRow struct {
	RunID             int64     `json:"run_id"`
	SectorID          int64     `json:"sector_id"`
	MachineID         int64     `json:"machine_id"`
	MachineName       string    `json:"machine_name"`
	Date              time.Time `json:"date"`
	Closed            bool      `json:"closed"`
	TargetRate        float64   `json:"target_rate"`
	RegisteredMin     float64   `json:"registered_min"`
	AvailabilityMin   float64   `json:"availability_min"`
	PerformanceMin    float64   `json:"performance_min"`
	Produced          float64   `json:"produced"`
	Scrap             float64   `json:"scrap"`
	ExtraCost         float64   `json:"extra_cost"`
	MachineHourlyCost float64   `json:"machine_hourly_cost"`
}
