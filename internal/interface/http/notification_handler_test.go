package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/internal/domain/entity"
	"github.com/campushq/platform/internal/interface/middleware"
)

type fakeNotifRepo struct {
	byUser  map[string][]entity.Notification
	read    []string
	readAll []string
	err     error
}

func (r *fakeNotifRepo) Create(n *entity.Notification) error { return r.err }

func (r *fakeNotifRepo) ListByUser(userID string, unreadOnly bool) ([]entity.Notification, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]entity.Notification, 0)
	for _, n := range r.byUser[userID] {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(id string) error {
	r.read = append(r.read, id)
	return r.err
}

func (r *fakeNotifRepo) MarkAllRead(userID string) error {
	r.readAll = append(r.readAll, userID)
	return r.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func notifRouter(repo *fakeNotifRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(repo, nil, quietLogger())

	r := gin.New()
	g := r.Group("/")
	g.Use(middleware.Identity(), middleware.RequireIdentity())
	g.GET("/notifications", h.List)
	g.PATCH("/notifications/:id/read", h.MarkRead)
	g.PATCH("/notifications/read-all", h.MarkAllRead)
	return r
}

func asUser(req *http.Request, userID string) *http.Request {
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserRole, entity.RoleStudent)
	req.Header.Set(middleware.HeaderUserEmail, userID+"@campus.local")
	return req
}

func TestListNotificationsScopedToCaller(t *testing.T) {
	repo := &fakeNotifRepo{byUser: map[string][]entity.Notification{
		"u-1": {
			{ID: "n-1", UserID: "u-1", Title: "A", Read: false},
			{ID: "n-2", UserID: "u-1", Title: "B", Read: true},
		},
		"u-2": {
			{ID: "n-3", UserID: "u-2", Title: "C", Read: false},
		},
	}}
	r := notifRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, "/notifications", nil), "u-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data []entity.Notification `json:"data"`
		Meta map[string]any        `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("items = %d, want 2", len(body.Data))
	}
	for _, n := range body.Data {
		if n.UserID != "u-1" {
			t.Errorf("foreign record leaked: %+v", n)
		}
	}
	if body.Meta["unread"] != float64(1) {
		t.Errorf("meta = %v", body.Meta)
	}
}

func TestListNotificationsUnreadOnly(t *testing.T) {
	repo := &fakeNotifRepo{byUser: map[string][]entity.Notification{
		"u-1": {
			{ID: "n-1", UserID: "u-1", Read: false},
			{ID: "n-2", UserID: "u-1", Read: true},
		},
	}}
	r := notifRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, "/notifications?unread_only=true", nil), "u-1"))

	var body struct {
		Data []entity.Notification `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != "n-1" {
		t.Fatalf("items = %+v", body.Data)
	}
}

func TestNotificationsRequireIdentity(t *testing.T) {
	r := notifRouter(&fakeNotifRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMarkReadAndReadAll(t *testing.T) {
	repo := &fakeNotifRepo{byUser: map[string][]entity.Notification{}}
	r := notifRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPatch, "/notifications/n-7/read", nil), "u-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("mark read status = %d", w.Code)
	}
	if len(repo.read) != 1 || repo.read[0] != "n-7" {
		t.Errorf("read calls = %v", repo.read)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPatch, "/notifications/read-all", nil), "u-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("read-all status = %d", w.Code)
	}
	if len(repo.readAll) != 1 || repo.readAll[0] != "u-1" {
		t.Errorf("read-all calls = %v", repo.readAll)
	}
}

func TestListNotificationsStoreFailure(t *testing.T) {
	repo := &fakeNotifRepo{err: errors.New("db down")}
	r := notifRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, "/notifications", nil), "u-1"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
