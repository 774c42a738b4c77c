package storage

import "time"

type WorkOrder struct {
	ID         int64      `json:"id"`
	Number     string     `json:"number"`
	Customer   string     `json:"customer"`
	Product    string     `json:"product"`
	Category   string     `json:"category"`
	OrderedQty float64    `json:"ordered_qty"`
	DueDate    time.Time  `json:"due_date"`
	PullFlow   bool       `json:"pull_flow"`
	Cancelled  bool       `json:"cancelled"`
	CreatedAt  *time.Time `json:"created_at"`
}

type PlanningEntry struct {
	ID              int64     `json:"id"`
	WorkOrderNumber string    `json:"work_order_number"`
	TargetDate      time.Time `json:"target_date"`
	PlannedQty      float64   `json:"planned_qty"`
}

// DownCountRecord is one confirmed-production quantity ("baixa") against a
// work order. Adjustment rows are manual stock corrections and stay out of
// the adherence math.
type DownCountRecord struct {
	ID              int64     `json:"id"`
	WorkOrderNumber string    `json:"work_order_number"`
	Date            time.Time `json:"date"`
	Qty             float64   `json:"qty"`
	Adjustment      bool      `json:"adjustment"`
}
