package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lending_service/internal/models"
	"lending_service/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockUsers struct {
	user    models.User
	users   []models.User
	err     error
	lastID  string
	lastNew [2]string
	lastSet models.UserPatch
}

func (m *mockUsers) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	m.lastNew = [2]string{name, email}
	if m.err != nil {
		return models.User{}, m.err
	}
	return models.User{ID: "u1", Name: name, Email: email}, nil
}
func (m *mockUsers) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.users, m.err
}
func (m *mockUsers) GetUser(ctx context.Context, id string) (models.User, error) {
	m.lastID = id
	return m.user, m.err
}
func (m *mockUsers) UpdateUser(ctx context.Context, id string, p models.UserPatch) error {
	m.lastID = id
	m.lastSet = p
	return m.err
}
func (m *mockUsers) DeleteUser(ctx context.Context, id string) (models.User, error) {
	m.lastID = id
	return m.user, m.err
}

type mockItems struct {
	item        models.Item
	items       []models.Item
	applied     map[string]any
	deleted     int64
	err         error
	lastID      string
	lastPayload map[string]any
}

func (m *mockItems) CreateItem(ctx context.Context, payload map[string]any) (models.Item, error) {
	m.lastPayload = payload
	if m.err != nil {
		return models.Item{}, m.err
	}
	return models.Item{ID: "i1", Fields: payload}, nil
}
func (m *mockItems) ListItems(ctx context.Context) ([]models.Item, error) {
	return m.items, m.err
}
func (m *mockItems) GetItem(ctx context.Context, id string) (models.Item, error) {
	m.lastID = id
	return m.item, m.err
}
func (m *mockItems) UpdateItem(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	m.lastID = id
	m.lastPayload = payload
	return m.applied, m.err
}
func (m *mockItems) DeleteItem(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}
func (m *mockItems) DeleteAllItems(ctx context.Context) (int64, error) {
	return m.deleted, m.err
}

type mockLending struct {
	item       models.Item
	loanErr    error
	returnErr  error
	lastItem   string
	lastUser   string
	loanCalls  int
	returnCall int
}

func (m *mockLending) LoanItem(ctx context.Context, itemID, userID string) (models.Item, error) {
	m.loanCalls++
	m.lastItem, m.lastUser = itemID, userID
	return m.item, m.loanErr
}
func (m *mockLending) ReturnItem(ctx context.Context, itemID string) (models.Item, error) {
	m.returnCall++
	m.lastItem = itemID
	return m.item, m.returnErr
}

type mockEventLog struct {
	resp     []models.LendingEvent
	err      error
	calls    int
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.LendingEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal body %q: %v", w.Body.String(), err)
	}
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &out)
	return out.Message
}
