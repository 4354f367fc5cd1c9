package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"github.com/anonto42/bank-backoffice/backend/internal/repositories"
	"github.com/anonto42/bank-backoffice/backend/internal/services"
	"github.com/anonto42/bank-backoffice/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(store repositories.Store) *echo.Echo {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api")
	NewAccountHandler(services.NewAccountService(store, log), log).RegisterAccountRoutes(api)
	NewNotificationHandler(services.NewNotificationService(store, log), log).RegisterNotificationRoutes(api)
	return e
}

func seededStore() *repositories.MemoryStore {
	store := repositories.NewMemoryStore()
	store.PutAccount(models.Account{AccountNumber: "ACC-FREE", Name: "Spare", Status: models.AccountActive})
	store.PutAccount(models.Account{AccountNumber: "ACC-BUSY", Name: "Payroll", Status: models.AccountActive})
	store.PutAccount(models.Account{AccountNumber: "ACC-OLD", Name: "Legacy", Status: models.AccountArchived})
	target := "ACC-BUSY"
	store.PutTransaction(models.Transaction{ID: 1, AccountNumber: "ACC-BUSY", TargetAccount: &target})
	store.PutUser(models.User{ID: 1, Name: "Ada"})
	return store
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createNotification(t *testing.T, e *echo.Echo, body string) map[string]any {
	t.Helper()
	rec := doRequest(e, http.MethodPost, "/api/notifications", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func TestDeleteAccount(t *testing.T) {
	e := newTestServer(seededStore())

	rec := doRequest(e, http.MethodDelete, "/api/accounts/ACC-FREE", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/api/accounts/ACC-FREE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Account not found", decode(t, rec)["message"])
}

func TestDeleteAccount_Conflict(t *testing.T) {
	e := newTestServer(seededStore())

	rec := doRequest(e, http.MethodDelete, "/api/accounts/ACC-BUSY", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t,
		"Cannot delete account; dependencies exist (transactions=2, users=0). Consider archiving.",
		decode(t, rec)["message"])
}

func TestListAccounts(t *testing.T) {
	e := newTestServer(seededStore())

	rec := doRequest(e, http.MethodGet, "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	accounts := decode(t, rec)["data"].(map[string]any)["accounts"].([]any)
	require.Len(t, accounts, 2)
	assert.Equal(t, "ACC-BUSY", accounts[0].(map[string]any)["accountNumber"])

	rec = doRequest(e, http.MethodGet, "/api/accounts?includeArchived=true&q=leg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	accounts = decode(t, rec)["data"].(map[string]any)["accounts"].([]any)
	require.Len(t, accounts, 1)
	assert.Equal(t, "ACC-OLD", accounts[0].(map[string]any)["accountNumber"])

	rec = doRequest(e, http.MethodGet, "/api/accounts?includeArchived=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateNotification(t *testing.T) {
	e := newTestServer(seededStore())

	rec := doRequest(e, http.MethodPost, "/api/notifications",
		`{"type":"ALERT","title":"Low balance","body":"Below 10.00","recipientUserId":1,"metadata":{"threshold":10}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "/api/notifications/1", rec.Header().Get(echo.HeaderLocation))
	assert.EqualValues(t, 1, body["id"])
	assert.Equal(t, "UNREAD", body["status"])
	assert.Equal(t, false, body["pinned"])
	assert.Nil(t, body["readAt"])
	assert.Equal(t, map[string]any{"threshold": float64(10)}, body["metadata"])
}

func TestCreateNotification_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"invalid type", `{"type":"PUSH","title":"x","recipientUserId":1}`, "type must be MESSAGE or ALERT"},
		{"missing type", `{"title":"x","recipientUserId":1}`, "type must be MESSAGE or ALERT"},
		{"missing title", `{"type":"ALERT","recipientUserId":1}`, "title is required"},
		{"missing recipient", `{"type":"ALERT","title":"x"}`, "recipientUserId is required"},
		{"unknown recipient", `{"type":"ALERT","title":"x","recipientUserId":42}`, "invalid recipientUserId"},
		{"malformed", `{"type":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(seededStore())
			rec := doRequest(e, http.MethodPost, "/api/notifications", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])

			rec = doRequest(e, http.MethodGet, "/api/notifications?recipientId=1", "")
			assert.EqualValues(t, 0, decode(t, rec)["meta"].(map[string]any)["totalItems"])
		})
	}
}

func TestGetNotifications_Pagination(t *testing.T) {
	e := newTestServer(seededStore())
	for i := 0; i < 25; i++ {
		createNotification(t, e, `{"type":"MESSAGE","title":"hello","recipientUserId":1}`)
	}

	rec := doRequest(e, http.MethodGet, "/api/notifications?recipientId=1&page=1&size=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"].(map[string]any)["notifications"], 5)

	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["currentPage"])
	assert.EqualValues(t, 2, meta["totalPages"])
	assert.EqualValues(t, 25, meta["totalItems"])
	assert.EqualValues(t, 20, meta["itemsPerPage"])
	assert.Equal(t, false, meta["hasNextPage"])
	assert.Equal(t, true, meta["hasPreviousPage"])
	assert.Equal(t, false, meta["first"])
	assert.Equal(t, true, meta["last"])
}

func TestGetNotifications_Filters(t *testing.T) {
	e := newTestServer(seededStore())
	low := createNotification(t, e, `{"type":"ALERT","title":"Low balance alert","recipientUserId":1}`)
	welcome := createNotification(t, e, `{"type":"MESSAGE","title":"Welcome","recipientUserId":1}`)
	rec := doRequest(e, http.MethodPost, "/api/notifications/"+jsonID(welcome)+"/mark-read", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/notifications?recipientId=1&unreadOnly=true&q=LOW", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["data"].(map[string]any)["notifications"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, low["id"], items[0].(map[string]any)["id"])
}

func TestGetNotifications_InvalidParams(t *testing.T) {
	e := newTestServer(seededStore())

	for _, target := range []string{
		"/api/notifications",
		"/api/notifications?recipientId=abc",
		"/api/notifications?recipientId=1&page=x",
		"/api/notifications?recipientId=1&unreadOnly=perhaps",
		"/api/notifications/unread-count",
	} {
		rec := doRequest(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	e := newTestServer(seededStore())
	created := createNotification(t, e, `{"type":"MESSAGE","title":"old","body":"b","recipientUserId":1}`)
	path := "/api/notifications/" + jsonID(created)

	rec := doRequest(e, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old", decode(t, rec)["title"])

	rec = doRequest(e, http.MethodPatch, path, `{"status":"ARCHIVED","title":"ignored"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status must be UNREAD or READ", decode(t, rec)["message"])

	rec = doRequest(e, http.MethodPatch, path, `{"title":"new","pinned":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "new", updated["title"])
	assert.Equal(t, "b", updated["body"])
	assert.Equal(t, true, updated["pinned"])
	assert.Equal(t, "MESSAGE", updated["type"])

	rec = doRequest(e, http.MethodPost, path+"/mark-read", "")
	require.Equal(t, http.StatusOK, rec.Code)
	read := decode(t, rec)
	assert.Equal(t, "READ", read["status"])
	assert.NotNil(t, read["readAt"])

	rec = doRequest(e, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = doRequest(e, method, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Notification not found", decode(t, rec)["message"])
	}
	rec = doRequest(e, http.MethodPost, path+"/mark-read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(e, http.MethodPatch, path, `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationInvalidID(t *testing.T) {
	e := newTestServer(seededStore())

	rec := doRequest(e, http.MethodGet, "/api/notifications/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid notification ID", decode(t, rec)["message"])

	rec = doRequest(e, http.MethodDelete, "/api/notifications/-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	e := newTestServer(seededStore())
	createNotification(t, e, `{"type":"ALERT","title":"a","recipientUserId":1}`)
	createNotification(t, e, `{"type":"ALERT","title":"b","recipientUserId":1}`)

	rec := doRequest(e, http.MethodGet, "/api/notifications/unread-count?recipientId=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["data"].(map[string]any)["count"])

	rec = doRequest(e, http.MethodPost, "/api/notifications/mark-all-read?recipientId=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["data"].(map[string]any)["updated"])

	rec = doRequest(e, http.MethodGet, "/api/notifications/unread-count?recipientId=1", "")
	assert.EqualValues(t, 0, decode(t, rec)["data"].(map[string]any)["count"])
}

type failingStore struct{}

func (failingStore) Do(context.Context, func(repositories.Tx) error) error {
	return errors.New("connection refused")
}

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	e := newTestServer(failingStore{})

	rec := doRequest(e, http.MethodDelete, "/api/accounts/ACC-1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])

	rec = doRequest(e, http.MethodGet, "/api/notifications?recipientId=1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func jsonID(entity map[string]any) string {
	return strconv.FormatFloat(entity["id"].(float64), 'f', -1, 64)
}
