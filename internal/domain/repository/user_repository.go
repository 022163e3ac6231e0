package repository

import "github.com/campushq/platform/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	UpdatePassword(id, hash string) error
	SetPasswordChangeRequired(id string, required bool) error
	UpdateStatus(id string, status entity.AccountStatus) error
	// GetHODByDepartment resolves the approver for new registrations.
	GetHODByDepartment(departmentID string) (*entity.User, error)
}
