// Copyright (c) 2026 Rokto. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/ctxutil"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify identity tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec]
// implementation, allowing us to easily inject stubs during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RoleResolver resolves the PERSISTED role for a caller email.
//
// Role gates never trust a role claim inside the token: an admin may have
// demoted or blocked the account after the token was minted, so the gate
// consults the store (via the users service, which may cache in Redis).
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (sec.Role, error)
}

// Guard bundles the authentication and authorization gates that the route
// tables compose. It is the single source of truth for access control —
// handlers never re-check identity or role.
type Guard struct {
	verifier TokenVerifier
	resolver RoleResolver
}

// NewGuard constructs a [Guard] from its two collaborators.
func NewGuard(verifier TokenVerifier, resolver RoleResolver) *Guard {
	return &Guard{verifier: verifier, resolver: resolver}
}

// # Authentication Gate

// RequireAuth extracts and verifies the token cookie.
//
// # Flow
//  1. Read the 'token' cookie. If absent, abort with HTTP 401.
//  2. Verify the token via [TokenVerifier]. On ANY failure (expired, forged),
//     abort with the same opaque HTTP 401 — never 403, never a reason.
//  3. Inject the verified [*sec.AuthClaims] into the request context.
//
// This gate performs no store access.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		cookie, err := request.Cookie(constants.TokenCookieName)
		if err != nil || cookie.Value == "" {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
			return
		}

		claims, err := g.verifier.VerifyToken(cookie.Value)
		if err != nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
			return
		}

		ctx := ctxutil.WithCaller(request.Context(), claims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// # Role Gate

// RequireRole blocks callers whose persisted role is not in the required set.
//
// # Usage
//
// Must be registered AFTER [Guard.RequireAuth]. The required set must be
// non-empty; the four gates the route tables use are named below.
//
// # Flow
//  1. Read the caller claims from context (absent → 401).
//  2. Resolve the caller's persisted role by email.
//  3. If the user is missing or the role is outside the set, abort with
//     HTTP 403 naming the required role set.
func (g *Guard) RequireRole(roles ...sec.Role) func(http.Handler) http.Handler {
	required := sec.RoleSet(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetCaller(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			role, err := g.resolver.ResolveRole(request.Context(), claims.Email)
			if err != nil || !required.Contains(role) {
				respond.Error(writer, request, apperr.Forbidden("Forbidden: requires "+required.String()+" role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// The four named gates of the access-control contract.

func (g *Guard) RequireAdmin() func(http.Handler) http.Handler {
	return g.RequireRole(sec.RoleAdmin)
}

func (g *Guard) RequireVolunteer() func(http.Handler) http.Handler {
	return g.RequireRole(sec.RoleVolunteer)
}

func (g *Guard) RequireAdminOrVolunteer() func(http.Handler) http.Handler {
	return g.RequireRole(sec.RoleAdmin, sec.RoleVolunteer)
}

func (g *Guard) RequireDonorOrAdmin() func(http.Handler) http.Handler {
	return g.RequireRole(sec.RoleDonor, sec.RoleAdmin)
}

// # Ownership Gate

// RequireOwner asserts that the email URL parameter equals the caller's
// verified email. Mismatch → HTTP 403. Used on endpoints that operate on the
// caller's own profile or their own donation requests.
func (g *Guard) RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetCaller(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			if chi.URLParam(request, param) != claims.Email {
				respond.Error(writer, request, apperr.Forbidden("Forbidden: you may only access your own data"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
