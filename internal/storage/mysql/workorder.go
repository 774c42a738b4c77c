package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pcp-backend/internal/storage"
)

// GetWorkOrdersMonth lists work orders created in the given month, or
// searches by order number when search is set (same filter contract the
// board's order list uses).
func (s *Storage) GetWorkOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.WorkOrder, error) {
	const op = "storage.mysql.GetWorkOrdersMonth"

	var stmt string
	var args []interface{}

	if search != "" {
		stmt = `
			SELECT id, number, customer, product, category, ordered_qty, due_date, pull_flow, cancelled, created_at
			FROM pcp_work_orders
			WHERE number LIKE ?`
		args = append(args, "%"+search+"%")
	} else {
		startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		endOfMonth := startOfMonth.AddDate(0, 1, 0)

		stmt = `
			SELECT id, number, customer, product, category, ordered_qty, due_date, pull_flow, cancelled, created_at
			FROM pcp_work_orders
			WHERE created_at >= ? AND created_at < ?`
		args = []interface{}{startOfMonth, endOfMonth}
	}

	stmt += " ORDER BY due_date"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query work orders: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.WorkOrder

	for rows.Next() {
		order := &storage.WorkOrder{}
		var createdAt sql.NullTime

		err := rows.Scan(&order.ID, &order.Number, &order.Customer, &order.Product, &order.Category,
			&order.OrderedQty, &order.DueDate, &order.PullFlow, &order.Cancelled, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan work order row: %w", op, err)
		}

		if createdAt.Valid {
			order.CreatedAt = &createdAt.Time
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return orders, nil
}

// GetPullFlowWorkOrders returns every pull-flow order that was never
// cancelled. Whether an order counts as late at a given cutoff is decided by
// the delay service against the baixas known at that cutoff, not here.
func (s *Storage) GetPullFlowWorkOrders(ctx context.Context) ([]*storage.WorkOrder, error) {
	const op = "storage.mysql.GetPullFlowWorkOrders"

	stmt := `
		SELECT id, number, customer, product, category, ordered_qty, due_date, pull_flow, cancelled, created_at
		FROM pcp_work_orders
		WHERE pull_flow = TRUE AND cancelled = FALSE
		ORDER BY due_date`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query pull-flow orders: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.WorkOrder

	for rows.Next() {
		order := &storage.WorkOrder{}
		var createdAt sql.NullTime

		err := rows.Scan(&order.ID, &order.Number, &order.Customer, &order.Product, &order.Category,
			&order.OrderedQty, &order.DueDate, &order.PullFlow, &order.Cancelled, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan work order row: %w", op, err)
		}

		if createdAt.Valid {
			order.CreatedAt = &createdAt.Time
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return orders, nil
}
