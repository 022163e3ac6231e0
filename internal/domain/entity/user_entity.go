package entity

import (
	"time"
)

// AccountStatus is the approval lifecycle of a registered account.
type AccountStatus string

const (
	StatusPending  AccountStatus = "PENDING"
	StatusApproved AccountStatus = "APPROVED"
	StatusRejected AccountStatus = "REJECTED"
)

// Roles known to the platform. HOD accounts receive registration
// approval requests for their department.
const (
	RoleStudent      = "STUDENT"
	RoleHOD          = "HOD"
	RoleCollegeAdmin = "COLLEGE_ADMIN"
	RoleDeptAdmin    = "DEPT_ADMIN"
)

// User is the aggregate root for the auth domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID           string
	Email        string
	Password     string
	Role         string
	Status       AccountStatus
	EnrollmentNo string
	CollegeID    string
	DepartmentID string

	EmailVerified bool
	// Set for admin-created accounts; login is refused until the
	// temporary password has been replaced.
	PasswordChangeRequired bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
