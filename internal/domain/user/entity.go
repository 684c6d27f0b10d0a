package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, manages users and departments
	RoleHR       Role = "hr"       // Approves leave, manages users and departments
	RoleEmployee Role = "employee" // Regular employee
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleHR, RoleEmployee}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *string
	Position     string
	Phone        string
	IsActive     bool
	JoinDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	DepartmentName *string
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
