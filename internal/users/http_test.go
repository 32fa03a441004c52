// Copyright (c) 2026 Rokto. All rights reserved.

package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/rokto/internal/platform/middleware"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/internal/users"
)

// newTestRouter wires a real service over the in-memory repository behind a
// real guard, so requests exercise the same pipeline as production.
func newTestRouter(t *testing.T) (*chi.Mux, *users.Service, *sec.TokenService) {
	t.Helper()

	repo := newFakeRepository()
	service := newTestService(repo, nil)

	tokens, err := sec.NewTokenService("test-secret", "rokto.test", time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	users.NewHandler(service).RegisterRoutes(router, middleware.NewGuard(tokens, service))
	return router, service, tokens
}

func authCookie(t *testing.T, tokens *sec.TokenService, email string) *http.Cookie {
	t.Helper()
	token, err := tokens.Issue(email)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

/*
TestUpsertUser_Endpoint covers the open sign-in endpoint: creation on first
contact, idempotence after.
*/
func TestUpsertUser_Endpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := `{"name":"Anika","bloodGroup":"O+","district":"Dhaka","upazila":"Savar"}`

	// 1. First contact creates.
	request := httptest.NewRequest(http.MethodPost, "/users/anika@example.com", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "User created successfully", created["message"])

	// 2. Repeat sign-in only acknowledges.
	request = httptest.NewRequest(http.MethodPost, "/users/anika@example.com", strings.NewReader(body))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var existing map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &existing))
	assert.Equal(t, "User already exists", existing["message"])
}

/*
TestUpsertUser_RejectsBadEmail verifies the email parameter is validated.
*/
func TestUpsertUser_RejectsBadEmail(t *testing.T) {
	router, _, _ := newTestRouter(t)

	request := httptest.NewRequest(http.MethodPost, "/users/not-an-email", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestSearchDonors_RequiresAllParams verifies the donor search rejects any
request missing one of the four parameters.
*/
func TestSearchDonors_RequiresAllParams(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"all_missing", "/donors/search"},
		{"missing_search", "/donors/search?bloodGroup=O%2B&district=Dhaka&upazila=Savar"},
		{"missing_blood_group", "/donors/search?search=true&district=Dhaka&upazila=Savar"},
		{"missing_district", "/donors/search?search=true&bloodGroup=O%2B&upazila=Savar"},
		{"missing_upazila", "/donors/search?search=true&bloodGroup=O%2B&district=Dhaka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.url, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

/*
TestSearchDonors_ReturnsBareArray verifies the open search works without a
cookie and returns a bare JSON array.
*/
func TestSearchDonors_ReturnsBareArray(t *testing.T) {
	router, _, _ := newTestRouter(t)

	seed := httptest.NewRequest(http.MethodPost, "/users/match@example.com",
		strings.NewReader(`{"name":"M","bloodGroup":"O+","district":"Dhaka","upazila":"Savar"}`))
	router.ServeHTTP(httptest.NewRecorder(), seed)

	request := httptest.NewRequest(http.MethodGet,
		"/donors/search?search=true&bloodGroup=O%2B&district=Dhaka&upazila=Savar", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var donors []users.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &donors))
	require.Len(t, donors, 1)
	assert.Equal(t, "match@example.com", donors[0].Email)
}

/*
TestGetUser_OwnershipPipeline verifies the full auth+owner pipeline on the
profile endpoint: no cookie 401, someone else's profile 403, own profile 200.
*/
func TestGetUser_OwnershipPipeline(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	seed := httptest.NewRequest(http.MethodPost, "/users/donor@example.com", strings.NewReader(`{"name":"D"}`))
	router.ServeHTTP(httptest.NewRecorder(), seed)

	t.Run("no_cookie_unauthorized", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/user/donor@example.com", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("foreign_profile_forbidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/user/donor@example.com", nil)
		request.AddCookie(authCookie(t, tokens, "other@example.com"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("own_profile_ok", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/user/donor@example.com", nil)
		request.AddCookie(authCookie(t, tokens, "donor@example.com"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var user users.User
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
		assert.Equal(t, "donor@example.com", user.Email)
	})

	t.Run("absent_profile_is_null", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/user/ghost@example.com", nil)
		request.AddCookie(authCookie(t, tokens, "ghost@example.com"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "null", strings.TrimSpace(recorder.Body.String()))
	})
}

/*
TestCountUsers_AdminGate verifies the admin gate on the count endpoint and
the bare-number body.
*/
func TestCountUsers_AdminGate(t *testing.T) {
	router, service, tokens := newTestRouter(t)

	seed := httptest.NewRequest(http.MethodPost, "/users/admin@example.com", strings.NewReader(`{}`))
	router.ServeHTTP(httptest.NewRecorder(), seed)

	admin, err := service.Profile(context.Background(), "admin@example.com")
	require.NoError(t, err)
	_, err = service.AdminPatch(context.Background(), admin.ID, users.PatchInput{Role: "admin"})
	require.NoError(t, err)

	t.Run("donor_forbidden", func(t *testing.T) {
		seed := httptest.NewRequest(http.MethodPost, "/users/donor@example.com", strings.NewReader(`{}`))
		router.ServeHTTP(httptest.NewRecorder(), seed)

		request := httptest.NewRequest(http.MethodGet, "/users/count", nil)
		request.AddCookie(authCookie(t, tokens, "donor@example.com"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_gets_bare_number", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/users/count", nil)
		request.AddCookie(authCookie(t, tokens, "admin@example.com"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var count int64
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &count))
		assert.GreaterOrEqual(t, count, int64(1))
	})
}
