// Copyright (c) 2026 Rokto. All rights reserved.

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roktoapp/rokto/internal/platform/middleware"
	requestutil "github.com/roktoapp/rokto/internal/platform/request"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/internal/platform/validate"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// Handler implements the user-directory HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user routes with their access-control pipeline.
//
// The table below is the authorization contract for this domain — handlers
// never re-check identity or role.
//
//	POST  /users/{email}   open (identity bootstrap)
//	GET   /donors/search   open
//	GET   /user/{email}    auth + owner
//	PUT   /user/{email}    auth + owner
//	PATCH /user/{id}       auth + admin
//	GET   /users           auth + admin
//	GET   /users/count     auth + admin
func (handler *Handler) RegisterRoutes(router chi.Router, guard *middleware.Guard) {
	router.Post("/users/{email}", handler.upsertUser)
	router.Get("/donors/search", handler.searchDonors)

	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)

		r.With(guard.RequireOwner("email")).Get("/user/{email}", handler.getUser)
		r.With(guard.RequireOwner("email")).Put("/user/{email}", handler.updateProfile)

		r.With(guard.RequireAdmin()).Patch("/user/{id}", handler.adminPatch)
		r.With(guard.RequireAdmin()).Get("/users", handler.listUsers)
		r.With(guard.RequireAdmin()).Get("/users/count", handler.countUsers)
	})
}

// # Request Payloads

type signInRequest struct {
	Name       string `json:"name"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	Image      string `json:"image"`
}

type profileUpdateRequest struct {
	Name       string `json:"name"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	Image      string `json:"image"`
}

type adminPatchRequest struct {
	UserStatus string `json:"userStatus"`
	Role       string `json:"role"`
}

/*
upsertUser records a sign-in, creating the account on first contact.

POST /users/{email}

The email parameter is trusted here because this endpoint IS the identity
bootstrap: the upstream identity provider asserts the email before the
frontend calls it.

Response:
  - 201: account created with defaults (role=donor, status=active)
  - 200: account existed; only signedIn was bumped
*/
func (handler *Handler) upsertUser(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, "email")

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, created, err := handler.service.SignIn(request.Context(), email, SignInInput{
		Name:       input.Name,
		BloodGroup: input.BloodGroup,
		District:   input.District,
		Upazila:    input.Upazila,
		Image:      input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, map[string]any{
			"message": "User created successfully",
			"result":  user,
		})
		return
	}
	respond.OK(writer, map[string]any{
		"message": "User already exists",
		"result":  user,
	})
}

/*
getUser returns the caller's own user document.

GET /user/{email} [auth, owner]

Response:
  - 200: the document, or JSON null when the account does not exist
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Profile(request.Context(), requestutil.Param(request, "email"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
updateProfile overwrites the caller's editable profile fields.

PUT /user/{email} [auth, owner]

Only name, bloodGroup, district, upazila, and image are writable; role,
status, and email cannot be reached through this endpoint.
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	var input profileUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		OneOf(FieldBloodGroup, input.BloodGroup, BloodGroups...)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.UpdateProfile(request.Context(), requestutil.Param(request, "email"), ProfileUpdate{
		Name:       input.Name,
		BloodGroup: input.BloodGroup,
		District:   input.District,
		Upazila:    input.Upazila,
		Image:      input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
adminPatch changes a user's status OR role — never both in one call.

PATCH /user/{id} [auth, admin]

Request:
  - Body: {"userStatus": "active"|"blocked"} or {"role": "donor"|"volunteer"|"admin"}
*/
func (handler *Handler) adminPatch(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input adminPatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err = handler.service.AdminPatch(request.Context(), id, PatchInput{
		UserStatus: input.UserStatus,
		Role:       input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
listUsers returns the admin user listing, newest first.

GET /users [auth, admin]

Query: status (optional equality filter), page, limit.
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{Status: sec.AccountStatus(request.URL.Query().Get("status"))}

	users, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

/*
countUsers returns the number of users matching the optional filters.

GET /users/count [auth, admin]

Query: status, role. The body is a bare JSON number.
*/
func (handler *Handler) countUsers(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		Status: sec.AccountStatus(request.URL.Query().Get("status")),
		Role:   sec.Role(request.URL.Query().Get("role")),
	}

	count, err := handler.service.Count(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, count)
}

/*
searchDonors runs the public donor search.

GET /donors/search?search=…&bloodGroup=…&district=…&upazila=…

All four parameters must be present or the request fails with 400. The
search parameter only activates the mode; the composed filter is an AND of
equality on bloodGroup, district, and upazila together with role=donor.
*/
func (handler *Handler) searchDonors(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	validator := &validate.Validator{}
	validator.Required(FieldSearch, query.Get(FieldSearch)).
		Required(FieldBloodGroup, query.Get(FieldBloodGroup)).
		Required(FieldDistrict, query.Get(FieldDistrict)).
		Required(FieldUpazila, query.Get(FieldUpazila))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	donors, err := handler.service.SearchDonors(request.Context(), DonorSearch{
		BloodGroup: query.Get(FieldBloodGroup),
		District:   query.Get(FieldDistrict),
		Upazila:    query.Get(FieldUpazila),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, donors)
}
