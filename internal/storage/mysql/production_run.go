package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pcp-backend/internal/storage"
)

// GetRunMetrics returns every production run in [start, end] with its
// stoppage minutes bucketed by reason type and its output records summed.
// The buckets come from correlated subselects so runs without stoppages or
// appointments still show up with zeros.
func (s *Storage) GetRunMetrics(ctx context.Context, start, end time.Time, sectorID, machineID *int64) ([]*storage.RunMetricsRow, error) {
	const op = "storage.mysql.GetRunMetrics"

	stmt := `
		SELECT r.id, r.sector_id, r.machine_id, m.name, r.run_date, r.closed,
		       CASE WHEN r.closed = 1 OR r.category_id IS NULL THEN 0 ELSE COALESCE(c.target_rate, 0) END AS target_rate,
		       COALESCE((SELECT SUM(se.minutes) FROM pcp_stoppages se
		                 JOIN pcp_stop_reasons sr ON sr.id = se.stop_reason_id
		                 WHERE se.run_id = r.id AND sr.reason_type = 'REGISTERED_STOP'), 0)   AS registered_min,
		       COALESCE((SELECT SUM(se.minutes) FROM pcp_stoppages se
		                 JOIN pcp_stop_reasons sr ON sr.id = se.stop_reason_id
		                 WHERE se.run_id = r.id AND sr.reason_type = 'AVAILABILITY_LOSS'), 0) AS availability_min,
		       COALESCE((SELECT SUM(se.minutes) FROM pcp_stoppages se
		                 JOIN pcp_stop_reasons sr ON sr.id = se.stop_reason_id
		                 WHERE se.run_id = r.id AND sr.reason_type = 'PERFORMANCE_LOSS'), 0)  AS performance_min,
		       COALESCE((SELECT SUM(o.produced) FROM pcp_outputs o WHERE o.run_id = r.id), 0)   AS produced,
		       COALESCE((SELECT SUM(o.scrap) FROM pcp_outputs o WHERE o.run_id = r.id), 0)      AS scrap,
		       COALESCE((SELECT SUM(o.extra_cost) FROM pcp_outputs o WHERE o.run_id = r.id), 0) AS extra_cost,
		       COALESCE(m.hourly_cost, 0) AS hourly_cost
		FROM pcp_runs r
		LEFT JOIN pcp_machines m ON m.id = r.machine_id
		LEFT JOIN pcp_categories c ON c.id = r.category_id
		WHERE r.run_date >= ? AND r.run_date <= ?`

	args := []interface{}{start, end}

	if sectorID != nil {
		stmt += " AND r.sector_id = ?"
		args = append(args, *sectorID)
	}
	if machineID != nil {
		stmt += " AND r.machine_id = ?"
		args = append(args, *machineID)
	}

	stmt += " ORDER BY r.run_date, r.machine_id, r.id"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query run metrics: %w", op, err)
	}
	defer rows.Close()

	var result []*storage.RunMetricsRow

	for rows.Next() {
		row := &storage.RunMetricsRow{}
		var machineName sql.NullString

		err := rows.Scan(
			&row.RunID,
			&row.SectorID,
			&row.MachineID,
			&machineName,
			&row.Date,
			&row.Closed,
			&row.TargetRate,
			&row.RegisteredMin,
			&row.AvailabilityMin,
			&row.PerformanceMin,
			&row.Produced,
			&row.Scrap,
			&row.ExtraCost,
			&row.MachineHourlyCost,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan run metrics row: %w", op, err)
		}

		if machineName.Valid {
			row.MachineName = machineName.String
		}

		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return result, nil
}

// GetRunsMonth lists the scheduled runs of one month for the board view.
func (s *Storage) GetRunsMonth(ctx context.Context, year int, month int) ([]*storage.ProductionRun, error) {
	const op = "storage.mysql.GetRunsMonth"

	startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	stmt := `
		SELECT r.id, r.sector_id, r.machine_id, r.run_date, r.start_time, r.end_time,
		       r.category_id, r.closed, COALESCE(c.target_rate, 0)
		FROM pcp_runs r
		LEFT JOIN pcp_categories c ON c.id = r.category_id
		WHERE r.run_date >= ? AND r.run_date < ?
		ORDER BY r.run_date, r.machine_id`

	rows, err := s.db.QueryContext(ctx, stmt, startOfMonth, endOfMonth)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query runs: %w", op, err)
	}
	defer rows.Close()

	var runs []*storage.ProductionRun

	for rows.Next() {
		run := &storage.ProductionRun{}
		var categoryID sql.NullInt64

		err := rows.Scan(&run.ID, &run.SectorID, &run.MachineID, &run.Date, &run.StartTime, &run.EndTime, &categoryID, &run.Closed, &run.TargetRate)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan run row: %w", op, err)
		}

		if categoryID.Valid {
			run.CategoryID = &categoryID.Int64
		}

		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return runs, nil
}

func (s *Storage) SaveRun(ctx context.Context, run storage.ProductionRun) (int64, error) {
	const op = "storage.mysql.SaveRun"

	stmt := `INSERT INTO pcp_runs (sector_id, machine_id, run_date, start_time, end_time, category_id, closed)
	         VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, run.SectorID, run.MachineID, run.Date, run.StartTime, run.EndTime, run.CategoryID, run.Closed)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert run: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CloseRun marks a scheduled slot as not worked. Closed runs keep their
// stoppages and appointments but stop counting toward the OEE targets.
func (s *Storage) CloseRun(ctx context.Context, runID int64) error {
	const op = "storage.mysql.CloseRun"

	stmt := `UPDATE pcp_runs SET closed = 1 WHERE id = ?`

	_, err := s.db.ExecContext(ctx, stmt, runID)
	if err != nil {
		return fmt.Errorf("%s: failed to close run id=%d: %w", op, runID, err)
	}

	return nil
}
