package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campushq/platform/internal/domain/entity"
	repo "github.com/campushq/platform/internal/domain/repository"
	"github.com/campushq/platform/internal/event"
)

// ChannelHandler delivers one event to one notification medium.
type ChannelHandler interface {
	Name() string
	Deliver(ctx context.Context, env *event.Envelope) error
}

// EmailSender is the transport behind the email channel.
// *mailer.Mailgun satisfies it.
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Pusher publishes a record onto a user's real-time topic.
// *realtime.Hub satisfies it.
type Pusher interface {
	Publish(userID string, body any)
}

// EmailChannel renders a subject and body per event type and hands them
// to the mail transport.
type EmailChannel struct {
	Sender EmailSender
}

func NewEmailChannel(sender EmailSender) *EmailChannel {
	return &EmailChannel{Sender: sender}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Deliver(ctx context.Context, env *event.Envelope) error {
	if env.TargetEmail == "" {
		return errors.New("event has no target email")
	}
	subject, html := renderEmail(env)
	return c.Sender.Send(ctx, env.TargetEmail, subject, "", html)
}

func renderEmail(env *event.Envelope) (subject, html string) {
	switch env.EventType {
	case event.OTPGenerated:
		otp := payloadString(env, "otp")
		return "Your Verification Code",
			"<h1>Login OTP</h1><p>Your One-Time Password is: <b>" + otp + "</b></p>"
	case event.UserRegistered:
		userEmail := payloadString(env, "userEmail")
		return "Action Required: New Registration",
			"<p>New user registration: " + userEmail + ". Needs approval.</p>"
	case event.AccountApproved:
		return "Welcome to the Campus Platform",
			"<p>Congratulations! Your account has been approved.</p>"
	case event.PasswordReset:
		return "Security Alert", "<p>Your password was just changed.</p>"
	case event.StatusChanged:
		status := payloadString(env, "status")
		return "Account Status Updated", "<p>Your account status is now " + status + ".</p>"
	case event.AdminUserCreated:
		return "Your Admin Account",
			"<p>An admin account has been created for you. Please log in and change the temporary password.</p>"
	default:
		return string(env.EventType), "<p>You have a new notification.</p>"
	}
}

func payloadString(env *event.Envelope, key string) string {
	v, ok := env.Payload[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// InAppChannel persists a notification record and pushes it to the
// target user's real-time topic. The persisted record is the source of
// truth; the push is best-effort.
type InAppChannel struct {
	Repo    repo.NotificationRepository
	Push    Pusher
	Indexer *Indexer
}

func NewInAppChannel(r repo.NotificationRepository, push Pusher, indexer *Indexer) *InAppChannel {
	return &InAppChannel{Repo: r, Push: push, Indexer: indexer}
}

func (c *InAppChannel) Name() string { return "inapp" }

func (c *InAppChannel) Deliver(ctx context.Context, env *event.Envelope) error {
	if env.TargetUserID == "" {
		return errors.New("event has no target user")
	}
	title, message, kind := renderInApp(env)

	meta := ""
	if len(env.Payload) > 0 {
		if b, err := json.Marshal(env.Payload); err == nil {
			meta = string(b)
		}
	}
	n := &entity.Notification{
		UserID:   env.TargetUserID,
		Title:    title,
		Message:  message,
		Type:     kind,
		Read:     false,
		Metadata: meta,
	}
	if err := c.Repo.Create(n); err != nil {
		return err
	}
	if c.Indexer != nil {
		_ = c.Indexer.IndexNotification(ctx, n)
	}
	if c.Push != nil {
		c.Push.Publish(n.UserID, n)
	}
	return nil
}

func renderInApp(env *event.Envelope) (title, message, kind string) {
	switch env.EventType {
	case event.UserRegistered:
		userEmail := payloadString(env, "userEmail")
		return "New Registration", "New user registration: " + userEmail + ". Needs approval.", entity.NotifyInfo
	case event.AccountApproved:
		return "Account Approved", "Congratulations! Your account has been approved.", entity.NotifySuccess
	case event.StatusChanged:
		status := payloadString(env, "status")
		kind := entity.NotifyInfo
		if status == string(entity.StatusRejected) {
			kind = entity.NotifyWarning
		}
		return "Account Status Updated", "Your account status is now " + status + ".", kind
	default:
		return string(env.EventType), "You have a new notification.", entity.NotifyInfo
	}
}
