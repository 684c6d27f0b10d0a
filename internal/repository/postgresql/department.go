package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT d.id, d.name, d.description, d.head_id, d.is_active, d.created_at, d.updated_at,
		   h.name AS head_name,
		   (SELECT COUNT(*) FROM users u WHERE u.department_id = d.id AND u.is_active) AS employee_count
	FROM departments d
	LEFT JOIN users h ON d.head_id = h.id`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.HeadID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.HeadName, &d.EmployeeCount,
	)
	return d, err
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (id, name, description, head_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, d.ID, d.Name, d.Description, d.HeadID, d.IsActive).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("insert department: %w", err)
	}

	return d, nil
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, err
	}
	return d, nil
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, departmentSelect+` WHERE d.is_active ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := []department.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

func (r *departmentRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM departments WHERE LOWER(name) = LOWER($1)`
	args := []interface{}{name}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, *excludeID)
	}
	query += `)`

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) error {
	q := GetQuerier(ctx, r.db)

	setClause := "updated_at = NOW()"
	args := []interface{}{}
	argIndex := 1

	set := func(column string, value interface{}) {
		setClause += fmt.Sprintf(", %s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.HeadID != nil {
		if *req.HeadID == "" {
			set("head_id", nil)
		} else {
			set("head_id", *req.HeadID)
		}
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	query := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d", setClause, argIndex)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return department.ErrDepartmentNameExists
		}
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

func (r *departmentRepositoryImpl) CountActiveUsers(ctx context.Context, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE department_id = $1 AND is_active`, id).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *departmentRepositoryImpl) Stats(ctx context.Context, id string) (department.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.name,
			   COUNT(DISTINCT u.id),
			   COUNT(lr.id),
			   COUNT(lr.id) FILTER (WHERE lr.status = 'pending'),
			   COUNT(lr.id) FILTER (WHERE lr.status = 'approved')
		FROM departments d
		LEFT JOIN users u ON u.department_id = d.id AND u.is_active
		LEFT JOIN leave_requests lr ON lr.employee_id = u.id
		WHERE d.id = $1
		GROUP BY d.id, d.name
	`

	var s department.Stats
	err := q.QueryRow(ctx, query, id).Scan(&s.Name, &s.UserCount, &s.TotalLeaves, &s.PendingLeaves, &s.ApprovedLeaves)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Stats{}, department.ErrDepartmentNotFound
		}
		return department.Stats{}, fmt.Errorf("department stats: %w", err)
	}
	return s, nil
}
