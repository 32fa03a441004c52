// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package auth implements the identity endpoints: minting the token cookie
after an upstream sign-in and clearing it on logout.
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/roktoapp/rokto/internal/platform/request"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/internal/platform/validate"
)

// Handler implements the identity HTTP endpoints.
type Handler struct {
	tokens  *sec.TokenService
	cookies *sec.CookieTransport
}

// NewHandler constructs a new [Handler] with its security collaborators.
func NewHandler(tokens *sec.TokenService, cookies *sec.CookieTransport) *Handler {
	return &Handler{tokens: tokens, cookies: cookies}
}

// RegisterRoutes mounts the identity routes. Both are open: issuing runs
// before any cookie exists, and logout must work for expired sessions too.
//
//	POST /jwt     open
//	GET  /logout  open
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/jwt", handler.issueToken)
	router.Get("/logout", handler.logout)
}

type issueTokenRequest struct {
	Email string `json:"email"`
}

/*
issueToken mints an identity token for an email and sets the token cookie.

POST /jwt

The email is trusted here because the upstream identity provider has
already verified it before the frontend calls this endpoint; the token only
binds that assertion to subsequent requests.

Response:
  - 200: {"success": true}, with the Set-Cookie header carrying the token
*/
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var input issueTokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Email("email", input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.tokens.Issue(input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Attach(writer, token)
	respond.Success(writer)
}

/*
logout clears the token cookie.

GET /logout

Always succeeds, cookie or not.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.cookies.Clear(writer)
	respond.Success(writer)
}
