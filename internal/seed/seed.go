// Package seed fills an empty database with departments and demo accounts.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/department"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	serviceAuth "github.com/ezleave/ezleave-backend-go/internal/service/auth"
	"github.com/google/uuid"
)

type Department struct {
	Name        string
	Description string
}

type Account struct {
	Name       string
	Email      string
	Role       user.Role
	Department string
	Position   string
}

var Departments = []Department{
	{Name: "Engineering", Description: "Product development and infrastructure"},
	{Name: "Human Resources", Description: "People operations"},
	{Name: "Marketing", Description: "Brand and growth"},
	{Name: "Finance", Description: "Accounting and payroll"},
}

var Accounts = []Account{
	{Name: "System Admin", Email: "admin@ezleave.local", Role: user.RoleAdmin, Position: "Administrator"},
	{Name: "Hana Rahman", Email: "hr@ezleave.local", Role: user.RoleHR, Department: "Human Resources", Position: "HR Manager"},
	{Name: "Evan Brooks", Email: "evan@ezleave.local", Role: user.RoleEmployee, Department: "Engineering", Position: "Backend Engineer"},
	{Name: "Mira Chen", Email: "mira@ezleave.local", Role: user.RoleEmployee, Department: "Marketing", Position: "Content Lead"},
	{Name: "Omar Haddad", Email: "omar@ezleave.local", Role: user.RoleEmployee, Department: "Finance", Position: "Accountant"},
}

type Result struct {
	DepartmentsCreated int
	UsersCreated       int
	Skipped            int
}

type Seeder struct {
	tx          database.Transactor
	departments department.DepartmentRepository
	users       user.UserRepository
	balances    leave.BalanceRepository
	allocation  map[string]int
	now         func() time.Time
}

func NewSeeder(
	tx database.Transactor,
	departments department.DepartmentRepository,
	users user.UserRepository,
	balances leave.BalanceRepository,
	allocation map[string]int,
) *Seeder {
	return &Seeder{
		tx:          tx,
		departments: departments,
		users:       users,
		balances:    balances,
		allocation:  allocation,
		now:         time.Now,
	}
}

// Run creates whatever is missing. Existing departments (by name) and users (by email) are left untouched,
// so running it twice is safe. Every account gets password.
func (s *Seeder) Run(ctx context.Context, password string) (Result, error) {
	var result Result

	ids, err := s.departmentIDs(ctx)
	if err != nil {
		return result, err
	}

	for _, d := range Departments {
		exists, err := s.departments.ExistsByName(ctx, d.Name, nil)
		if err != nil {
			return result, fmt.Errorf("check department %q: %w", d.Name, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		created, err := s.departments.Create(ctx, department.Department{
			ID:          uuid.NewString(),
			Name:        d.Name,
			Description: d.Description,
			IsActive:    true,
		})
		if err != nil {
			return result, fmt.Errorf("create department %q: %w", d.Name, err)
		}
		ids[strings.ToLower(created.Name)] = created.ID
		result.DepartmentsCreated++
		slog.Info("Seeded department", "name", created.Name)
	}

	hashed, err := serviceAuth.HashPassword(password)
	if err != nil {
		return result, fmt.Errorf("hash seed password: %w", err)
	}

	now := s.now()
	for _, a := range Accounts {
		exists, err := s.users.ExistsByEmail(ctx, a.Email)
		if err != nil {
			return result, fmt.Errorf("check user %q: %w", a.Email, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		var departmentID *string
		if a.Department != "" {
			if id, ok := ids[strings.ToLower(a.Department)]; ok {
				departmentID = &id
			}
		}

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			created, err := s.users.Create(ctx, user.User{
				ID:           uuid.NewString(),
				Name:         a.Name,
				Email:        a.Email,
				PasswordHash: hashed,
				Role:         a.Role,
				DepartmentID: departmentID,
				Position:     a.Position,
				IsActive:     true,
				JoinDate:     leave.DateOf(now),
			})
			if err != nil {
				return err
			}
			entries := leave.AllocationEntries(created.ID, s.allocation, nil, now)
			if len(entries) == 0 {
				return nil
			}
			return s.balances.Append(ctx, entries...)
		})
		if err != nil {
			return result, fmt.Errorf("create user %q: %w", a.Email, err)
		}
		result.UsersCreated++
		slog.Info("Seeded user", "email", a.Email, "role", a.Role)
	}

	return result, nil
}

func (s *Seeder) departmentIDs(ctx context.Context) (map[string]string, error) {
	existing, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	ids := make(map[string]string, len(existing))
	for _, d := range existing {
		ids[strings.ToLower(d.Name)] = d.ID
	}
	return ids, nil
}
