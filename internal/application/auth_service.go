package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/internal/domain/entity"
	repo "github.com/campushq/platform/internal/domain/repository"
	"github.com/campushq/platform/internal/event"
	"github.com/campushq/platform/pkg/helpers"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailExists            = errors.New("email already exists")
	ErrInvalidOTP             = errors.New("invalid or expired otp")
	ErrAccountNotApproved     = errors.New("account not approved")
	ErrPasswordChangeRequired = errors.New("password change required")
)

// Service implements the auth domain actions. Mutations that feed the
// notification pipeline return an event envelope alongside their result;
// the call boundary decides whether to publish it. Failed actions never
// produce an envelope.
type Service struct {
	Repo   repo.UserRepository
	OTP    *OTPStore
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, otp *OTPStore, jwt *helpers.JWTManager, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, OTP: otp, JWT: jwt, Logger: logger}
}

// SendOTP issues a login/verification code for the email. The code is
// delivered only via the OTP_GENERATED event; the caller never sees it.
func (s *Service) SendOTP(ctx context.Context, email string) (*event.Envelope, error) {
	code, err := s.OTP.Issue(ctx, email)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("otp issued")
	}
	return event.NewOTPGenerated(email, code), nil
}

type RegisterInput struct {
	Email        string
	Password     string
	OTP          string
	Role         string
	EnrollmentNo string
	CollegeID    string
	DepartmentID string
}

// Register creates a PENDING account after verifying the signup OTP. The
// returned USER_REGISTERED envelope targets the department HOD who has to
// approve the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, *event.Envelope, error) {
	exists, err := s.Repo.ExistsByEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}
	if !s.OTP.Validate(ctx, in.Email, in.OTP) {
		return nil, nil, ErrInvalidOTP
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	u := &entity.User{
		Email:         in.Email,
		Password:      hash,
		Role:          in.Role,
		Status:        entity.StatusPending,
		EnrollmentNo:  in.EnrollmentNo,
		CollegeID:     in.CollegeID,
		DepartmentID:  in.DepartmentID,
		EmailVerified: true, // proven by the OTP round-trip
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, nil, err
	}

	var hodID, hodEmail string
	if hod, hErr := s.Repo.GetHODByDepartment(in.DepartmentID); hErr == nil && hod != nil {
		hodID, hodEmail = hod.ID, hod.Email
	} else if s.Logger != nil {
		s.Logger.WithField("department_id", in.DepartmentID).Warn("no hod found for approval request")
	}
	return u, event.NewUserRegistered(hodID, hodEmail, u.Email, u.CollegeID), nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Login authenticates the user and mints the bearer credential with the
// identity claims the gateway later propagates.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if u.PasswordChangeRequired {
		return nil, ErrPasswordChangeRequired
	}
	if u.Status != entity.StatusApproved {
		return nil, ErrAccountNotApproved
	}

	token, exp, err := s.JWT.GenerateToken(u.ID, u.Role, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// ForgotPassword issues a reset OTP for a known account.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*event.Envelope, error) {
	exists, err := s.Repo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.SendOTP(ctx, email)
}

// ResetPassword consumes a reset OTP and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) (*event.Envelope, error) {
	if !s.OTP.Validate(ctx, email, otp) {
		return nil, ErrInvalidOTP
	}
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePassword(u.ID, hash); err != nil {
		return nil, err
	}
	return event.NewPasswordReset(u.ID, u.Email), nil
}

// ChangePassword verifies the old password, replaces it, and clears the
// forced-change flag set on admin-created accounts.
func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) (*event.Envelope, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return nil, ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePassword(u.ID, hash); err != nil {
		return nil, err
	}
	if u.PasswordChangeRequired {
		if err := s.Repo.SetPasswordChangeRequired(u.ID, false); err != nil {
			return nil, err
		}
	}
	return event.NewPasswordReset(u.ID, u.Email), nil
}

// UpdateStatus moves an account through the approval lifecycle. Called by
// the approval service through the gateway-guarded internal endpoint.
func (s *Service) UpdateStatus(ctx context.Context, email string, status entity.AccountStatus) (*entity.User, *event.Envelope, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, nil, ErrUserNotFound
	}
	if err := s.Repo.UpdateStatus(u.ID, status); err != nil {
		return nil, nil, err
	}
	u.Status = status

	var env *event.Envelope
	if status == entity.StatusApproved {
		env = event.NewAccountApproved(u.ID, u.Email)
	} else {
		env = event.NewStatusChanged(u.ID, u.Email, string(status))
	}
	return u, env, nil
}

type CreateAdminInput struct {
	Email    string
	Password string // randomly generated by the admin service
	Role     string
}

// CreateAdmin provisions an auto-approved admin account with a forced
// password change on first login.
func (s *Service) CreateAdmin(ctx context.Context, in CreateAdminInput) (*entity.User, *event.Envelope, error) {
	exists, err := s.Repo.ExistsByEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}
	u := &entity.User{
		Email:                  in.Email,
		Password:               hash,
		Role:                   in.Role,
		Status:                 entity.StatusApproved,
		EmailVerified:          true,
		PasswordChangeRequired: true,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, nil, err
	}
	return u, event.NewAdminUserCreated(u.ID, u.Email), nil
}
