package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/campushq/platform/internal/domain/repository"
	"github.com/campushq/platform/internal/interface/middleware"
	"github.com/campushq/platform/internal/notification"
	"github.com/campushq/platform/pkg/response"
)

// NotificationHandler exposes a user's own notification records. Every
// route requires a propagated identity; the user id from the gateway
// scopes every query.
type NotificationHandler struct {
	Repo    repo.NotificationRepository
	Indexer *notification.Indexer
	Logger  *logrus.Logger
}

func NewNotificationHandler(r repo.NotificationRepository, ix *notification.Indexer, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Repo: r, Indexer: ix, Logger: logger}
}

// List GET /notifications?unread_only=true
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))

	items, err := h.Repo.ListByUser(userID, unreadOnly)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", userID).Error("list notifications failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list notifications", nil)
		return
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	response.Success(c, http.StatusOK, items, "notifications", map[string]any{
		"count":  len(items),
		"unread": unread,
	})
}

// MarkRead PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.MarkRead(id); err != nil {
		h.Logger.WithError(err).WithField("notification_id", id).Error("mark read failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to mark as read", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "read": true}, "marked as read", nil)
}

// MarkAllRead PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if err := h.Repo.MarkAllRead(userID); err != nil {
		h.Logger.WithError(err).WithField("user_id", userID).Error("mark all read failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to mark all as read", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"read": true}, "all marked as read", nil)
}

// Search GET /notifications/search?q=...&size=10
func (h *NotificationHandler) Search(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Indexer.Search(c.Request.Context(), userID, q, size)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", userID).Error("notification search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
