package mysql

import (
	"context"
	"fmt"

	"pcp-backend/internal/storage"
)

func (s *Storage) GetPlanningEntries(ctx context.Context) ([]*storage.PlanningEntry, error) {
	const op = "storage.mysql.GetPlanningEntries"

	stmt := `SELECT p.id, w.number, p.target_date, p.planned_qty
	         FROM pcp_planning p
	         JOIN pcp_work_orders w ON w.id = p.work_order_id
	         ORDER BY p.target_date`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query planning entries: %w", op, err)
	}
	defer rows.Close()

	var entries []*storage.PlanningEntry

	for rows.Next() {
		entry := &storage.PlanningEntry{}

		err := rows.Scan(&entry.ID, &entry.WorkOrderNumber, &entry.TargetDate, &entry.PlannedQty)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan planning row: %w", op, err)
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return entries, nil
}

func (s *Storage) SavePlanningEntry(ctx context.Context, entry storage.PlanningEntry) (int64, error) {
	const op = "storage.mysql.SavePlanningEntry"

	stmt := `INSERT INTO pcp_planning (work_order_id, target_date, planned_qty)
	         SELECT w.id, ?, ? FROM pcp_work_orders w WHERE w.number = ?`

	res, err := s.db.ExecContext(ctx, stmt, entry.TargetDate, entry.PlannedQty, entry.WorkOrderNumber)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert planning entry: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetDownCounts returns the full baixa history, adjustments included;
// callers decide whether adjustments take part in their math.
func (s *Storage) GetDownCounts(ctx context.Context) ([]*storage.DownCountRecord, error) {
	const op = "storage.mysql.GetDownCounts"

	stmt := `SELECT b.id, w.number, b.confirm_date, b.qty, b.adjustment
	         FROM pcp_baixas b
	         JOIN pcp_work_orders w ON w.id = b.work_order_id
	         ORDER BY b.confirm_date`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query baixas: %w", op, err)
	}
	defer rows.Close()

	var baixas []*storage.DownCountRecord

	for rows.Next() {
		baixa := &storage.DownCountRecord{}

		err := rows.Scan(&baixa.ID, &baixa.WorkOrderNumber, &baixa.Date, &baixa.Qty, &baixa.Adjustment)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan baixa row: %w", op, err)
		}

		baixas = append(baixas, baixa)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return baixas, nil
}

func (s *Storage) SaveDownCount(ctx context.Context, baixa storage.DownCountRecord) (int64, error) {
	const op = "storage.mysql.SaveDownCount"

	stmt := `INSERT INTO pcp_baixas (work_order_id, confirm_date, qty, adjustment)
	         SELECT w.id, ?, ?, ? FROM pcp_work_orders w WHERE w.number = ?`

	res, err := s.db.ExecContext(ctx, stmt, baixa.Date, baixa.Qty, baixa.Adjustment, baixa.WorkOrderNumber)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert baixa: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
