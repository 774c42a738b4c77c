package mysql

import (
	"context"
	"fmt"

	"pcp-backend/internal/storage"
)

func (s *Storage) SaveStoppage(ctx context.Context, event storage.StoppageEvent) (int64, error) {
	const op = "storage.mysql.SaveStoppage"

	stmt := `INSERT INTO pcp_stoppages (run_id, stop_reason_id, minutes, note) VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, event.RunID, event.StopReasonID, event.Minutes, event.Note)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert stoppage: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetStopReasons(ctx context.Context) ([]*storage.StopReason, error) {
	const op = "storage.mysql.GetStopReasons"

	stmt := `SELECT id, name, reason_type, is_active FROM pcp_stop_reasons WHERE is_active = TRUE ORDER BY name ASC`

	return s.queryStopReasons(ctx, op, stmt)
}

// GetAllStopReasonsAdmin also returns the deactivated reasons so the admin
// panel can bring one back.
func (s *Storage) GetAllStopReasonsAdmin(ctx context.Context) ([]*storage.StopReason, error) {
	const op = "storage.mysql.GetAllStopReasonsAdmin"

	stmt := `SELECT id, name, reason_type, is_active FROM pcp_stop_reasons ORDER BY name ASC`

	return s.queryStopReasons(ctx, op, stmt)
}

func (s *Storage) queryStopReasons(ctx context.Context, op string, stmt string) ([]*storage.StopReason, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query stop reasons: %w", op, err)
	}
	defer rows.Close()

	var reasons []*storage.StopReason

	for rows.Next() {
		reason := &storage.StopReason{}

		err := rows.Scan(&reason.ID, &reason.Name, &reason.ReasonType, &reason.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan stop reason row: %w", op, err)
		}

		reasons = append(reasons, reason)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return reasons, nil
}

func (s *Storage) SaveOutput(ctx context.Context, record storage.OutputRecord) (int64, error) {
	const op = "storage.mysql.SaveOutput"

	stmt := `INSERT INTO pcp_outputs (run_id, produced, scrap, extra_cost) VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, record.RunID, record.Produced, record.Scrap, record.ExtraCost)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert output record: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
