package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushq/platform/internal/domain/entity"
	"github.com/campushq/platform/internal/domain/repository"
)

var errNotFound = errors.New("not found")

// ErrNotFound reports whether err is the repository's not-found sentinel.
func ErrNotFound(err error) bool { return errors.Is(err, errNotFound) }

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, status, enrollment_no, college_id, department_id,
		email_verified, password_change_required, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Status, &u.EnrollmentNo,
		&u.CollegeID, &u.DepartmentID, &u.EmailVerified, &u.PasswordChangeRequired,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, status, enrollment_no, college_id, department_id,
			email_verified, password_change_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Role, u.Status, u.EnrollmentNo, u.CollegeID, u.DepartmentID,
		u.EmailVerified, u.PasswordChangeRequired)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) UpdatePassword(id, hash string) error {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3
	`, hash, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) SetPasswordChangeRequired(id string, required bool) error {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET password_change_required = $1, updated_at = $2 WHERE id = $3
	`, required, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStatus(id string, status entity.AccountStatus) error {
	res, err := r.pool.Exec(context.Background(), `
		UPDATE users SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *UserRepository) GetHODByDepartment(departmentID string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE department_id = $1 AND role = $2 AND status = $3
		ORDER BY created_at
		LIMIT 1
	`, departmentID, entity.RoleHOD, entity.StatusApproved)
	return scanUser(row)
}

var _ repository.UserRepository = (*UserRepository)(nil)
