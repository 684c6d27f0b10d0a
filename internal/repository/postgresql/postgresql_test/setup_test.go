package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	dbOnce sync.Once
	testDB *database.DB
	dbErr  error
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema once and empties every table.
// Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	dbOnce.Do(func() {
		testDB, dbErr = database.NewPostgreSQLDB(context.Background(), dsn)
		if dbErr == nil {
			dbErr = testDB.Migrate(context.Background())
		}
	})
	require.NoError(t, dbErr)

	truncate(t)
	t.Cleanup(func() { truncate(t) })
	return testDB
}

func truncate(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), `
		TRUNCATE TABLE refresh_tokens, leave_balance_entries, leave_comments, leave_requests, users, departments CASCADE
	`)
	require.NoError(t, err)
}

func createTestDepartment(t *testing.T, ctx context.Context, db *database.DB, name string) department.Department {
	t.Helper()
	d, err := postgresql.NewDepartmentRepository(db).Create(ctx, department.Department{
		ID:       uuid.NewString(),
		Name:     name,
		IsActive: true,
	})
	require.NoError(t, err)
	return d
}

func createTestUser(t *testing.T, ctx context.Context, db *database.DB, email string, role user.Role, departmentID *string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		ID:           uuid.NewString(),
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
		JoinDate:     time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T {
	return &v
}
