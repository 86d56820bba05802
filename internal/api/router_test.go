package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/eventhub-be/internal/api"
	"github.com/isdelr/eventhub-be/internal/auth"
	"github.com/isdelr/eventhub-be/internal/database"
	"github.com/isdelr/eventhub-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, nil)

	return api.NewRouter(tokens, userService, eventService, nil, []string{"*"})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func registerUser(t *testing.T, h http.Handler, name, email, password string) (int64, string) {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return int64(user["id"].(float64)), body["token"].(string)
}

func TestRegister(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password_hash")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newTestServer(t)
	registerUser(t, h, "Alice", "dup@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"name": "Bob", "email": "dup@x.com", "password": "otherpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already exists", decodeBody(t, w)["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/register", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])
}

func TestLogin(t *testing.T) {
	h := newTestServer(t)
	registerUser(t, h, "Alice", "a@x.com", "right-password")

	w := doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "a@x.com", "password": "right-password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "a@x.com", body["user"].(map[string]interface{})["email"])

	w = doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "nobody@x.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no token provided", decodeBody(t, w)["error"])

	w = doJSON(t, h, http.MethodGet, "/users", "bogus-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid token", decodeBody(t, w)["error"])
}

func TestUserCRUD(t *testing.T) {
	h := newTestServer(t)
	id, token := registerUser(t, h, "Alice", "a@x.com", "password123")

	w := doJSON(t, h, http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&users))
	assert.Len(t, users, 1)

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", decodeBody(t, w)["email"])

	w = doJSON(t, h, http.MethodGet, "/users/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/users/%d", id), token, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alicia", decodeBody(t, w)["name"])

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/users/9999", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUserUpdate_EmailConflict(t *testing.T) {
	h := newTestServer(t)
	registerUser(t, h, "Alice", "a@x.com", "password123")
	bobID, bobToken := registerUser(t, h, "Bob", "b@x.com", "password123")

	w := doJSON(t, h, http.MethodPut, fmt.Sprintf("/users/%d", bobID), bobToken, map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already exists", decodeBody(t, w)["error"])
}

func TestEventCRUD(t *testing.T) {
	h := newTestServer(t)
	userID, token := registerUser(t, h, "Alice", "a@x.com", "password123")

	// Owner comes from the token, never from the payload.
	w := doJSON(t, h, http.MethodPost, "/events", token, map[string]interface{}{
		"title":       "Launch party",
		"description": "Release celebration",
		"location":    "Berlin",
		"date":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"userId":      9999,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decodeBody(t, w)
	eventID := int64(event["id"].(float64))
	assert.Equal(t, float64(userID), event["userId"])

	w = doJSON(t, h, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	assert.Len(t, events, 1)

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/events/%d", eventID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Launch party", decodeBody(t, w)["title"])

	w = doJSON(t, h, http.MethodGet, "/events/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/events/%d", eventID), token, map[string]string{"location": "Hamburg"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)
	assert.Equal(t, "Hamburg", updated["location"])
	assert.Equal(t, "Launch party", updated["title"])

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/events/%d", eventID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/events/%d", eventID), token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEventCreate_MissingFields(t *testing.T) {
	h := newTestServer(t)
	_, token := registerUser(t, h, "Alice", "a@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/events", token, map[string]string{"description": "no title or date"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	assert.Empty(t, events)
}

func TestDeleteUser_CascadesEvents(t *testing.T) {
	h := newTestServer(t)
	userID, token := registerUser(t, h, "Alice", "a@x.com", "password123")
	_, otherToken := registerUser(t, h, "Bob", "b@x.com", "password123")

	w := doJSON(t, h, http.MethodPost, "/events", token, map[string]interface{}{
		"title": "Doomed", "date": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", userID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/events", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	assert.Empty(t, events)
}

func TestDeletedUserTokenStillPassesGate(t *testing.T) {
	h := newTestServer(t)
	userID, token := registerUser(t, h, "Alice", "a@x.com", "password123")

	w := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", userID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The gate does not look the user up; downstream reports not found.
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", userID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
