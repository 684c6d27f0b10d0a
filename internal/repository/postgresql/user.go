package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role,
	u.department_id, u.position, u.phone, u.is_active, u.join_date,
	u.created_at, u.updated_at,
	d.name AS department_name`

const userFrom = `
	FROM users u
	LEFT JOIN departments d ON u.department_id = d.id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.DepartmentID, &u.Position, &u.Phone, &u.IsActive, &u.JoinDate,
		&u.CreatedAt, &u.UpdatedAt,
		&u.DepartmentName,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, query string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role,
			department_id, position, phone, is_active, join_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newUser.ID, newUser.Name, newUser.Email, newUser.PasswordHash, newUser.Role,
		newUser.DepartmentID, newUser.Position, newUser.Phone, newUser.IsActive, newUser.JoinDate,
	).Scan(&newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return newUser, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id)
}

func (r *userRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1 FOR UPDATE OF u`, id)
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE LOWER(u.email) = LOWER($1)`, email)
}

func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.DepartmentID != nil {
		whereClause += fmt.Sprintf(" AND u.department_id = $%d", argIndex)
		args = append(args, *filter.DepartmentID)
		argIndex++
	}

	if filter.Role != nil {
		whereClause += fmt.Sprintf(" AND u.role = $%d", argIndex)
		args = append(args, *filter.Role)
		argIndex++
	}

	if filter.IsActive != nil {
		whereClause += fmt.Sprintf(" AND u.is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}

	if filter.Search != nil && *filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d OR u.position ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	countQuery := "SELECT COUNT(*) FROM users u " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY u.name, u.id LIMIT $%d OFFSET $%d`,
		userColumns, userFrom, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepositoryImpl) ListByDepartment(ctx context.Context, departmentID string) ([]user.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+userFrom+`
		WHERE u.department_id = $1 AND u.is_active
		ORDER BY u.name, u.id`, departmentID)
}

func (r *userRepositoryImpl) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
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
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Position != nil {
		set("position", *req.Position)
	}
	if req.Role != nil {
		set("role", *req.Role)
	}
	if req.DepartmentID != nil {
		// Empty string detaches the user from any department
		if *req.DepartmentID == "" {
			set("department_id", nil)
		} else {
			set("department_id", *req.DepartmentID)
		}
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", setClause, argIndex)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) SetActive(ctx context.Context, userID string, active bool) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, userID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) CountActive(ctx context.Context) (int64, int64, error) {
	q := GetQuerier(ctx, r.db)

	var active, inactive int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active)
		FROM users
	`).Scan(&active, &inactive)
	if err != nil {
		return 0, 0, err
	}
	return active, inactive, nil
}

func (r *userRepositoryImpl) CountByRole(ctx context.Context) ([]user.RoleCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT role, COUNT(*)
		FROM users
		WHERE is_active
		GROUP BY role
		ORDER BY role
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []user.RoleCount{}
	for rows.Next() {
		var rc user.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *userRepositoryImpl) CountByDepartment(ctx context.Context) ([]user.DepartmentCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT u.department_id, COALESCE(d.name, 'Unassigned'), COUNT(*)
		FROM users u
		LEFT JOIN departments d ON u.department_id = d.id
		WHERE u.is_active
		GROUP BY u.department_id, d.name
		ORDER BY 2
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []user.DepartmentCount{}
	for rows.Next() {
		var dc user.DepartmentCount
		if err := rows.Scan(&dc.DepartmentID, &dc.DepartmentName, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
