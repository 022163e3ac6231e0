package event

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the domain events flowing through the broker.
type Type string

const (
	OTPGenerated     Type = "OTP_GENERATED"
	UserRegistered   Type = "USER_REGISTERED"
	AccountApproved  Type = "ACCOUNT_APPROVED"
	PasswordReset    Type = "PASSWORD_RESET"
	StatusChanged    Type = "STATUS_CHANGED"
	AdminUserCreated Type = "ADMIN_USER_CREATED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Routing keys on the notifications exchange. One durable queue binds both,
// so a single consumer group covers user-lifecycle and system events.
const (
	TopicUser   = "notification.user"
	TopicSystem = "notification.system"
)

// Envelope is the canonical event record published to the broker.
// Immutable once published.
type Envelope struct {
	EventID      string         `json:"eventId"`
	EventType    Type           `json:"eventType"`
	Timestamp    time.Time      `json:"timestamp"`
	Priority     Priority       `json:"priority"`
	TargetUserID string         `json:"targetUserId,omitempty"`
	TargetEmail  string         `json:"targetEmail,omitempty"`
	Payload      map[string]any `json:"payload"`
}

// Topic maps the event type to its coarse routing category.
func (t Type) Topic() string {
	switch t {
	case StatusChanged, AdminUserCreated:
		return TopicSystem
	default:
		return TopicUser
	}
}

func newEnvelope(t Type, p Priority) *Envelope {
	return &Envelope{
		EventID:   uuid.NewString(),
		EventType: t,
		Timestamp: time.Now().UTC(),
		Priority:  p,
		Payload:   map[string]any{},
	}
}

// NewOTPGenerated carries the issued code to the email channel. OTP delivery
// is urgent, so priority is raised.
func NewOTPGenerated(email, code string) *Envelope {
	e := newEnvelope(OTPGenerated, PriorityHigh)
	e.TargetEmail = email
	e.Payload["otp"] = code
	return e
}

// NewUserRegistered targets the department HOD who must approve the account.
func NewUserRegistered(hodID, hodEmail, userEmail, collegeID string) *Envelope {
	e := newEnvelope(UserRegistered, PriorityMedium)
	e.TargetUserID = hodID
	e.TargetEmail = hodEmail
	e.Payload["userEmail"] = userEmail
	e.Payload["collegeId"] = collegeID
	return e
}

func NewAccountApproved(userID, email string) *Envelope {
	e := newEnvelope(AccountApproved, PriorityMedium)
	e.TargetUserID = userID
	e.TargetEmail = email
	return e
}

func NewPasswordReset(userID, email string) *Envelope {
	e := newEnvelope(PasswordReset, PriorityHigh)
	e.TargetUserID = userID
	e.TargetEmail = email
	return e
}

func NewStatusChanged(userID, email, status string) *Envelope {
	e := newEnvelope(StatusChanged, PriorityMedium)
	e.TargetUserID = userID
	e.TargetEmail = email
	e.Payload["status"] = status
	return e
}

func NewAdminUserCreated(userID, email string) *Envelope {
	e := newEnvelope(AdminUserCreated, PriorityMedium)
	e.TargetUserID = userID
	e.TargetEmail = email
	e.Payload["message"] = "Admin account created."
	return e
}
