// Copyright (c) 2026 Rokto. All rights reserved.

package donation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/middleware"
	requestutil "github.com/roktoapp/rokto/internal/platform/request"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/platform/validate"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// Handler implements the donation-request HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the donation routes with their access-control
// pipeline. Every route requires authentication.
//
//	POST   /donationRequests/{email}        auth + owner
//	GET    /donationRequests/{email}        auth + owner
//	GET    /donationRequests/count/{email}  auth + owner
//	GET    /donationRequest/{id}            auth
//	GET    /donationRequests                auth + admin|volunteer
//	GET    /donationRequests/count          auth + admin|volunteer
//	PUT    /donationRequests/{id}           auth + donor|admin
//	PATCH  /donationRequests/{id}           auth
//	DELETE /donationRequests/{id}           auth + donor|admin
func (handler *Handler) RegisterRoutes(router chi.Router, guard *middleware.Guard) {
	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)

		r.With(guard.RequireOwner("email")).Post("/donationRequests/{email}", handler.createRequest)
		r.With(guard.RequireOwner("email")).Get("/donationRequests/{email}", handler.listOwn)
		r.With(guard.RequireOwner("email")).Get("/donationRequests/count/{email}", handler.countOwn)

		r.Get("/donationRequest/{id}", handler.getRequest)

		r.With(guard.RequireAdminOrVolunteer()).Get("/donationRequests", handler.listAll)
		r.With(guard.RequireAdminOrVolunteer()).Get("/donationRequests/count", handler.countAll)

		r.With(guard.RequireDonorOrAdmin()).Put("/donationRequests/{id}", handler.updateRequest)
		r.With(guard.RequireDonorOrAdmin()).Delete("/donationRequests/{id}", handler.deleteRequest)

		// Status changes stay auth-only: a donor accepting someone else's
		// request is the core flow, so ownership cannot gate this route.
		r.Patch("/donationRequests/{id}", handler.patchStatus)
	})
}

// # Request Payloads

type requestBody struct {
	RecipientName     string `json:"recipientName"`
	RecipientDistrict string `json:"recipientDistrict"`
	RecipientUpazila  string `json:"recipientUpazila"`
	HospitalName      string `json:"hospitalName"`
	FullAddress       string `json:"fullAddress"`
	BloodGroup        string `json:"bloodGroup"`
	DonationDate      string `json:"donationDate"`
	DonationTime      string `json:"donationTime"`
}

type statusPatchRequest struct {
	Status    string     `json:"status"`
	DonorInfo *DonorInfo `json:"donorInfo"`
}

/*
createRequest stores a new donation request for the caller.

POST /donationRequests/{email} [auth, owner]

Response:
  - 201: {"message": "Donation Request created successfully", "result": …}
  - 200: {"message": "User is blocked"} when the caller's account is blocked
*/
func (handler *Handler) createRequest(writer http.ResponseWriter, request *http.Request) {
	var input requestBody
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRecipientName, input.RecipientName).
		Required(FieldBloodGroup, input.BloodGroup).
		Required(FieldDonationDate, input.DonationDate)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), requestutil.Param(request, "email"), CreateInput{
		RecipientName:     input.RecipientName,
		RecipientDistrict: input.RecipientDistrict,
		RecipientUpazila:  input.RecipientUpazila,
		HospitalName:      input.HospitalName,
		FullAddress:       input.FullAddress,
		BloodGroup:        input.BloodGroup,
		DonationDate:      input.DonationDate,
		DonationTime:      input.DonationTime,
	})
	if errors.Is(err, ErrUserBlocked) {
		// Deployed contract: the frontend treats this as a soft refusal,
		// not an error.
		respond.Message(writer, http.StatusOK, "User is blocked")
		return
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"message": "Donation Request created successfully",
		"result":  created,
	})
}

/*
listOwn returns the caller's own requests, newest first.

GET /donationRequests/{email} [auth, owner]

Query: status (optional), top (optional; newest N, overrides paging),
page, limit.
*/
func (handler *Handler) listOwn(writer http.ResponseWriter, request *http.Request) {
	status, err := statusFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	top, err := topParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requests, err := handler.service.ListByRequester(request.Context(),
		requestutil.Param(request, "email"), status, top, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, requests)
}

/*
countOwn returns the number of the caller's own requests.

GET /donationRequests/count/{email} [auth, owner]

The body is a bare JSON number.
*/
func (handler *Handler) countOwn(writer http.ResponseWriter, request *http.Request) {
	status, err := statusFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.CountByRequester(request.Context(), requestutil.Param(request, "email"), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, count)
}

/*
getRequest returns a single donation request.

GET /donationRequest/{id} [auth]

Any authenticated user may read any request: donors browse open requests
to decide which to accept.
*/
func (handler *Handler) getRequest(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

/*
listAll returns the full request listing for the management dashboard.

GET /donationRequests [auth, admin|volunteer]

Query: status (optional), page, limit.
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	status, err := statusFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requests, err := handler.service.ListAll(request.Context(), status, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, requests)
}

/*
countAll returns the total request count for the dashboard.

GET /donationRequests/count [auth, admin|volunteer]
*/
func (handler *Handler) countAll(writer http.ResponseWriter, request *http.Request) {
	status, err := statusFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.CountAll(request.Context(), status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, count)
}

/*
updateRequest overwrites the editable fields of a request.

PUT /donationRequests/{id} [auth, donor|admin]

Status and donorInfo cannot be reached through this endpoint; those move
only through PATCH.
*/
func (handler *Handler) updateRequest(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input requestBody
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.UpdateFields(request.Context(), id, EditableFields{
		RecipientName:     input.RecipientName,
		RecipientDistrict: input.RecipientDistrict,
		RecipientUpazila:  input.RecipientUpazila,
		HospitalName:      input.HospitalName,
		FullAddress:       input.FullAddress,
		BloodGroup:        input.BloodGroup,
		DonationDate:      input.DonationDate,
		DonationTime:      input.DonationTime,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
patchStatus moves a request through its lifecycle.

PATCH /donationRequests/{id} [auth]

Request:
  - Body: {"status": …} plus {"donorInfo": {"name": …, "email": …}} when
    accepting (status=inprogress)

An invalid move fails with 400 naming the rejected transition.
*/
func (handler *Handler) patchStatus(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusPatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldStatus, input.Status)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err = handler.service.Transition(request.Context(), id, Status(input.Status), input.DonorInfo)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
deleteRequest removes a donation request.

DELETE /donationRequests/{id} [auth, donor|admin]
*/
func (handler *Handler) deleteRequest(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Success(writer)
}

// # Query Helpers

// statusFilter reads the optional status query parameter, rejecting values
// outside the lifecycle vocabulary.
func statusFilter(request *http.Request) (Status, error) {
	raw := request.URL.Query().Get(FieldStatus)
	if raw == "" {
		return "", nil
	}
	status := Status(raw)
	if !status.Valid() {
		return "", apperr.ValidationError("Unknown donation status: " + raw)
	}
	return status, nil
}

// topParam reads the optional top query parameter (newest-N shortcut).
func topParam(request *http.Request) (int, error) {
	raw := request.URL.Query().Get("top")
	if raw == "" {
		return 0, nil
	}
	top, err := strconv.Atoi(raw)
	if err != nil || top < 1 {
		return 0, apperr.ValidationError("top must be a positive integer")
	}
	return top, nil
}
