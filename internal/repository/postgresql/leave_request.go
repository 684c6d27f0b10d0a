package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type,
	lr.start_date, lr.end_date, lr.total_days, lr.reason,
	lr.status, lr.applied_date,
	lr.approved_by, lr.approved_date, lr.rejection_reason,
	lr.created_at, lr.updated_at,
	e.name AS employee_name,
	a.name AS approver_name`

const leaveRequestFrom = `
	FROM leave_requests lr
	JOIN users e ON lr.employee_id = e.id
	LEFT JOIN users a ON lr.approved_by = a.id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveType,
		&lr.StartDate, &lr.EndDate, &lr.TotalDays, &lr.Reason,
		&lr.Status, &lr.AppliedDate,
		&lr.ApprovedBy, &lr.ApprovedDate, &lr.RejectionReason,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.ApproverName,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type,
			start_date, end_date, total_days, reason,
			status, applied_date,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			$10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType,
		request.StartDate, request.EndDate, request.TotalDays, request.Reason,
		request.Status, request.AppliedDate,
		request.CreatedAt, request.UpdatedAt,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + ` WHERE lr.id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

// GetByIDForUpdate locks only the leave_requests row, not the joined users.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + ` WHERE lr.id = $1 FOR UPDATE OF lr`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.employee_id = $1
		  AND lr.status = ANY($2)
		  AND lr.start_date <= $4
		  AND lr.end_date >= $3
		ORDER BY lr.start_date`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := q.Query(ctx, query, employeeID, names, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			approved_by = $2,
			approved_date = $3,
			rejection_reason = $4,
			updated_at = $5
		WHERE id = $6
	`

	commandTag, err := q.Exec(ctx, query,
		request.Status,
		request.ApprovedBy,
		request.ApprovedDate,
		request.RejectionReason,
		request.UpdatedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND lr.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND lr.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.LeaveType != nil {
		whereClause += fmt.Sprintf(" AND lr.leave_type = $%d", argIndex)
		args = append(args, *filter.LeaveType)
		argIndex++
	}

	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND lr.end_date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND lr.start_date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM leave_requests lr " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY lr.applied_date DESC, lr.id LIMIT $%d OFFSET $%d`,
		leaveRequestColumns, leaveRequestFrom, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *leaveRequestRepositoryImpl) HasActiveEndingOnOrAfter(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func statsWhere(filter leave.StatsFilter) (string, []interface{}) {
	where := "WHERE applied_date >= $1 AND applied_date < $2"
	args := []interface{}{filter.From, filter.To}
	if filter.EmployeeID != nil {
		where += " AND employee_id = $3"
		args = append(args, *filter.EmployeeID)
	}
	return where, args
}

func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, filter leave.StatsFilter) ([]leave.StatusStat, error) {
	q := GetQuerier(ctx, r.db)

	where, args := statsWhere(filter)
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests ` + where + `
		GROUP BY status
		ORDER BY status
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []leave.StatusStat
	for rows.Next() {
		var st leave.StatusStat
		if err := rows.Scan(&st.Status, &st.Count, &st.TotalDays); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *leaveRequestRepositoryImpl) CountByType(ctx context.Context, filter leave.StatsFilter) ([]leave.TypeStat, error) {
	q := GetQuerier(ctx, r.db)

	where, args := statsWhere(filter)
	query := `
		SELECT leave_type, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests ` + where + `
		GROUP BY leave_type
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []leave.TypeStat
	for rows.Next() {
		var tt leave.TypeStat
		if err := rows.Scan(&tt.LeaveType, &tt.Count, &tt.TotalDays); err != nil {
			return nil, err
		}
		stats = append(stats, tt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
