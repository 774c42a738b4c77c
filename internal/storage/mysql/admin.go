package mysql

import (
	"context"
	"fmt"

	"pcp-backend/internal/storage"
)

func (s *Storage) UpdateStopReasonsAdmin(ctx context.Context, reasons []storage.StopReason) error {
	const op = "storage.mysql.UpdateStopReasonsAdmin"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE pcp_stop_reasons
		SET name = ?, reason_type = ?, is_active = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare update: %w", op, err)
	}
	defer stmt.Close()

	for _, reason := range reasons {
		_, err := stmt.ExecContext(ctx, reason.Name, reason.ReasonType, reason.IsActive, reason.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to update stop reason id=%d: %w", op, reason.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit failed: %w", op, err)
	}

	return nil
}

func (s *Storage) SaveStopReasonAdmin(ctx context.Context, reason storage.StopReason) (int64, error) {
	const op = "storage.mysql.SaveStopReasonAdmin"

	stmt := `INSERT INTO pcp_stop_reasons (name, reason_type, is_active) VALUES (?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, reason.Name, reason.ReasonType, reason.IsActive)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to insert stop reason: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetMachinesAdmin(ctx context.Context) ([]*storage.Machine, error) {
	const op = "storage.mysql.GetMachinesAdmin"

	stmt := `SELECT id, sector_id, name, hourly_cost, is_active FROM pcp_machines ORDER BY sector_id, name`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query machines: %w", op, err)
	}
	defer rows.Close()

	var machines []*storage.Machine

	for rows.Next() {
		machine := &storage.Machine{}

		err := rows.Scan(&machine.ID, &machine.SectorID, &machine.Name, &machine.HourlyCost, &machine.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan machine row: %w", op, err)
		}

		machines = append(machines, machine)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return machines, nil
}

// UpdateMachinesAdmin batches hourly-cost and activity updates; the hourly
// cost feeds straight into the OEE loss-cost figures.
func (s *Storage) UpdateMachinesAdmin(ctx context.Context, machines []storage.Machine) error {
	const op = "storage.mysql.UpdateMachinesAdmin"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE pcp_machines
		SET hourly_cost = ?, is_active = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare update: %w", op, err)
	}
	defer stmt.Close()

	for _, machine := range machines {
		_, err := stmt.ExecContext(ctx, machine.HourlyCost, machine.IsActive, machine.ID)
		if err != nil {
			return fmt.Errorf("%s: failed to update machine id=%d: %w", op, machine.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit failed: %w", op, err)
	}

	return nil
}
