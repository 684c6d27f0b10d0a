package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Append inserts ledger entries. A second approval or cancellation entry for
// the same leave request violates UNIQUE (leave_request_id, kind).
func (r *leaveBalanceRepositoryImpl) Append(ctx context.Context, entries ...leave.BalanceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balance_entries (
			id, user_id, leave_type, delta, kind,
			leave_request_id, note, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query,
			e.ID, e.UserID, e.LeaveType, e.Delta, e.Kind,
			e.LeaveRequestID, e.Note, e.CreatedBy, e.CreatedAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return leave.ErrDuplicateEntry
			}
			return fmt.Errorf("insert balance entry: %w", err)
		}
	}

	return results.Close()
}

func (r *leaveBalanceRepositoryImpl) Balance(ctx context.Context, userID string, leaveType leave.LeaveType) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM leave_balance_entries
		WHERE user_id = $1 AND leave_type = $2
	`

	var balance int
	if err := q.QueryRow(ctx, query, userID, leaveType).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) Balances(ctx context.Context, userID string) (leave.Balances, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type, COALESCE(SUM(delta), 0)
		FROM leave_balance_entries
		WHERE user_id = $1
		GROUP BY leave_type
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(leave.Balances)
	for rows.Next() {
		var (
			leaveType leave.LeaveType
			days      int
		)
		if err := rows.Scan(&leaveType, &days); err != nil {
			return nil, err
		}
		balances[leaveType] = days
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}

func (r *leaveBalanceRepositoryImpl) ListEntries(ctx context.Context, userID string) ([]leave.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type, delta, kind, leave_request_id, note, created_by, created_at
		FROM leave_balance_entries
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []leave.BalanceEntry
	for rows.Next() {
		var e leave.BalanceEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LeaveType, &e.Delta, &e.Kind, &e.LeaveRequestID, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
