// Copyright (c) 2026 Rokto. All rights reserved.

package donation_test

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

	"github.com/roktoapp/rokto/internal/donation"
	"github.com/roktoapp/rokto/internal/platform/middleware"
	"github.com/roktoapp/rokto/internal/platform/sec"
)

// stubResolver lets the tests assign a role per email.
type stubResolver struct {
	roles map[string]sec.Role
}

func (s *stubResolver) ResolveRole(ctx context.Context, email string) (sec.Role, error) {
	role, ok := s.roles[email]
	if !ok {
		return "", context.Canceled
	}
	return role, nil
}

type testEnv struct {
	router  *chi.Mux
	service *donation.Service
	tokens  *sec.TokenService
}

func newTestEnv(t *testing.T, statuses map[string]sec.AccountStatus, roles map[string]sec.Role) *testEnv {
	t.Helper()

	service := newTestService(newFakeRepository(), statuses)

	tokens, err := sec.NewTokenService("test-secret", "rokto.test", time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	guard := middleware.NewGuard(tokens, &stubResolver{roles: roles})
	donation.NewHandler(service).RegisterRoutes(router, guard)

	return &testEnv{router: router, service: service, tokens: tokens}
}

func (env *testEnv) do(t *testing.T, method, path, body, caller string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
	if caller != "" {
		token, err := env.tokens.Issue(caller)
		require.NoError(t, err)
		request.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, request)
	return recorder
}

const createBody = `{"recipientName":"Rahim","bloodGroup":"O+","donationDate":"2026-09-01"}`

/*
TestCreateRequest_Endpoint covers the owner-gated create: 201 on success,
401 without a cookie, 403 for someone else's path.
*/
func TestCreateRequest_Endpoint(t *testing.T) {
	env := newTestEnv(t,
		activeDirectory("donor@example.com"),
		map[string]sec.Role{"donor@example.com": sec.RoleDonor},
	)

	t.Run("creates", func(t *testing.T) {
		recorder := env.do(t, http.MethodPost, "/donationRequests/donor@example.com", createBody, "donor@example.com")

		require.Equal(t, http.StatusCreated, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Donation Request created successfully", body["message"])
	})

	t.Run("no_cookie_unauthorized", func(t *testing.T) {
		recorder := env.do(t, http.MethodPost, "/donationRequests/donor@example.com", createBody, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("foreign_path_forbidden", func(t *testing.T) {
		recorder := env.do(t, http.MethodPost, "/donationRequests/victim@example.com", createBody, "donor@example.com")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing_fields_rejected", func(t *testing.T) {
		recorder := env.do(t, http.MethodPost, "/donationRequests/donor@example.com", `{"hospitalName":"DMC"}`, "donor@example.com")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestCreateRequest_BlockedUser verifies the soft-refusal contract: HTTP 200
with a "User is blocked" message, not an error envelope.
*/
func TestCreateRequest_BlockedUser(t *testing.T) {
	env := newTestEnv(t,
		map[string]sec.AccountStatus{"blocked@example.com": sec.StatusBlocked},
		map[string]sec.Role{"blocked@example.com": sec.RoleDonor},
	)

	recorder := env.do(t, http.MethodPost, "/donationRequests/blocked@example.com", createBody, "blocked@example.com")

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "User is blocked", body["message"])
}

/*
TestListAll_RoleGate verifies that the dashboard listing admits admins and
volunteers but not donors.
*/
func TestListAll_RoleGate(t *testing.T) {
	env := newTestEnv(t,
		activeDirectory("donor@example.com"),
		map[string]sec.Role{
			"donor@example.com":     sec.RoleDonor,
			"volunteer@example.com": sec.RoleVolunteer,
			"admin@example.com":     sec.RoleAdmin,
		},
	)

	tests := []struct {
		caller     string
		wantStatus int
	}{
		{"admin@example.com", http.StatusOK},
		{"volunteer@example.com", http.StatusOK},
		{"donor@example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.caller, func(t *testing.T) {
			recorder := env.do(t, http.MethodGet, "/donationRequests", "", tt.caller)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestListOwn_TopParam verifies the top=N query variant on the owner listing.
*/
func TestListOwn_TopParam(t *testing.T) {
	env := newTestEnv(t,
		activeDirectory("donor@example.com"),
		map[string]sec.Role{"donor@example.com": sec.RoleDonor},
	)

	for i := 0; i < 4; i++ {
		recorder := env.do(t, http.MethodPost, "/donationRequests/donor@example.com", createBody, "donor@example.com")
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	t.Run("limits_to_newest_n", func(t *testing.T) {
		recorder := env.do(t, http.MethodGet, "/donationRequests/donor@example.com?top=2", "", "donor@example.com")
		require.Equal(t, http.StatusOK, recorder.Code)

		var requests []donation.DonationRequest
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &requests))
		assert.Len(t, requests, 2)
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		recorder := env.do(t, http.MethodGet, "/donationRequests/donor@example.com?top=zero", "", "donor@example.com")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestPatchStatus_Endpoint verifies the acceptance flow over the wire: any
authenticated donor may accept, and the transition rules apply.
*/
func TestPatchStatus_Endpoint(t *testing.T) {
	env := newTestEnv(t,
		activeDirectory("requester@example.com"),
		map[string]sec.Role{
			"requester@example.com": sec.RoleDonor,
			"helper@example.com":    sec.RoleDonor,
		},
	)

	created, err := env.service.Create(context.Background(), "requester@example.com", donation.CreateInput{
		RecipientName: "Rahim",
	})
	require.NoError(t, err)

	t.Run("accepts_with_donor_info", func(t *testing.T) {
		body := `{"status":"inprogress","donorInfo":{"name":"Helper","email":"helper@example.com"}}`
		recorder := env.do(t, http.MethodPatch, "/donationRequests/"+created.ID.Hex(), body, "helper@example.com")

		require.Equal(t, http.StatusOK, recorder.Code)

		updated, err := env.service.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, donation.StatusInProgress, updated.Status)
		require.NotNil(t, updated.DonorInfo)
		assert.Equal(t, "helper@example.com", updated.DonorInfo.Email)
	})

	t.Run("rejects_illegal_transition", func(t *testing.T) {
		recorder := env.do(t, http.MethodPatch, "/donationRequests/"+created.ID.Hex(), `{"status":"pending"}`, "helper@example.com")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects_bad_id", func(t *testing.T) {
		recorder := env.do(t, http.MethodPatch, "/donationRequests/not-hex", `{"status":"done"}`, "helper@example.com")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestDeleteRequest_Endpoint verifies the donor|admin gate and the success
body.
*/
func TestDeleteRequest_Endpoint(t *testing.T) {
	env := newTestEnv(t,
		activeDirectory("donor@example.com"),
		map[string]sec.Role{
			"donor@example.com":     sec.RoleDonor,
			"volunteer@example.com": sec.RoleVolunteer,
		},
	)

	created, err := env.service.Create(context.Background(), "donor@example.com", donation.CreateInput{
		RecipientName: "Rahim",
	})
	require.NoError(t, err)

	t.Run("volunteer_forbidden", func(t *testing.T) {
		recorder := env.do(t, http.MethodDelete, "/donationRequests/"+created.ID.Hex(), "", "volunteer@example.com")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("donor_deletes", func(t *testing.T) {
		recorder := env.do(t, http.MethodDelete, "/donationRequests/"+created.ID.Hex(), "", "donor@example.com")

		require.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
	})
}
