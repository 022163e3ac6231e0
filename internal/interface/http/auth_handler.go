package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campushq/platform/internal/application"
	"github.com/campushq/platform/internal/domain/entity"
	"github.com/campushq/platform/internal/event"
	"github.com/campushq/platform/internal/interface/middleware"
	"github.com/campushq/platform/pkg/response"
	"github.com/campushq/platform/pkg/validation"
)

// AuthHandler exposes the auth domain actions. Envelopes returned by
// successful actions are published here, at the call boundary; failed
// actions never publish.
type AuthHandler struct {
	Svc    *app.Service
	Pub    event.Publisher
	Logger *logrus.Logger
}

func NewAuthHandler(svc *app.Service, pub event.Publisher, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Pub: pub, Logger: logger}
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOTP POST /auth/send-otp
// The issued code travels only through the notification pipeline.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	env, err := h.Svc.SendOTP(c.Request.Context(), req.Email)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to issue otp", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "otp sent", nil)
}

type signupRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,pwd"`
	OTP          string `json:"otp" binding:"required,otp"`
	Role         string `json:"role" binding:"required"`
	EnrollmentNo string `json:"enrollment_no"`
	CollegeID    string `json:"college_id"`
	DepartmentID string `json:"department_id" binding:"required"`
}

// Signup POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, env, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		OTP:          req.OTP,
		Role:         req.Role,
		EnrollmentNo: req.EnrollmentNo,
		CollegeID:    req.CollegeID,
		DepartmentID: req.DepartmentID,
	})
	switch {
	case errors.Is(err, app.ErrEmailExists):
		response.Error[any](c, http.StatusConflict, "email already exists", nil)
		return
	case errors.Is(err, app.ErrInvalidOTP):
		response.Error[any](c, http.StatusBadRequest, "invalid or expired otp", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID},
		"registered, waiting for department approval", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, app.ErrPasswordChangeRequired):
		response.Error[any](c, http.StatusForbidden, "password change required", nil)
		return
	case errors.Is(err, app.ErrAccountNotApproved):
		response.Error[any](c, http.StatusForbidden, "account not approved", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":  res.Token,
		"status": res.User.Status,
	}, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

// ForgotPassword POST /auth/forgot-password
// Always returns OK to avoid account enumeration.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	env, err := h.Svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, app.ErrUserNotFound) {
		response.Error[any](c, http.StatusInternalServerError, "failed to issue otp", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "otp sent if the account exists", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,otp"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// ResetPassword POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	env, err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case errors.Is(err, app.ErrInvalidOTP), errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusBadRequest, "invalid or expired otp", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "reset failed", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// ChangePassword POST /auth/change-password (secured; identity from gateway)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	email := c.GetString(middleware.CtxUserEmail)
	if email == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	env, err := h.Svc.ChangePassword(c.Request.Context(), email, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "change failed", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

type updateStatusRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

// UpdateStatus PUT /auth/internal/update-status
// Internal endpoint: reachable only with the gateway secret.
func (h *AuthHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, env, err := h.Svc.UpdateStatus(c.Request.Context(), req.Email, entity.AccountStatus(req.Status))
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "status": u.Status}, "status updated", nil)
}

type createAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,oneof=COLLEGE_ADMIN DEPT_ADMIN HOD"`
}

// CreateAdmin POST /auth/internal/create-admin
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, env, err := h.Svc.CreateAdmin(c.Request.Context(), app.CreateAdminInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, app.ErrEmailExists):
		response.Error[any](c, http.StatusConflict, "email already exists", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	event.Emit(c.Request.Context(), h.Pub, h.Logger, env)
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID}, "admin created", nil)
}
