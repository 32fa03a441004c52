// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, authentication parameters, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Authentication: Token lifetime and cookie configuration.
  - Storage: Database and collection names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "rokto-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in issued tokens.
	AuthIssuer = "rokto.app"

	// TokenTTL is the lifetime of an identity token. The cookie max-age
	// always matches this value.
	TokenTTL = 24 * time.Hour

	// TokenCookieName is the name of the cookie carrying the identity token.
	TokenCookieName = "token"

	// TokenCookiePath scopes the identity cookie to the whole API.
	TokenCookiePath = "/"
)

// # Role Cache

const (
	// RedisPrefixRole is the key prefix for cached user roles.
	RedisPrefixRole = "authz:role:"

	// RoleCacheTTL bounds how stale a cached role may be. Admin role and
	// status changes invalidate the entry immediately; the TTL only covers
	// writes that bypass the API.
	RoleCacheTTL = 5 * time.Minute
)

// # Storage

const (
	DatabaseName = "blood_donation"

	CollectionUsers            = "users"
	CollectionDonationRequests = "donationRequests"
	CollectionBlogs            = "blogs"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldMessage = "message"
	FieldSuccess = "success"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
