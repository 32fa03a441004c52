// Copyright (c) 2026 Rokto. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting skip/limit pair is derived for the document store.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed page and limit from a request's query string.
//
// A Limit of 0 means "no pagination": the whole result set is returned and
// Skip is always 0. This matches the public contract where list endpoints
// without page/limit return everything.
type Params struct {
	Page  int
	Limit int
}

// Enabled reports whether the caller asked for pagination at all.
func (p Params) Enabled() bool {
	return p.Limit > 0
}

// Skip returns the number of documents to skip: (page-1) * limit.
func (p Params) Skip() int64 {
	if !p.Enabled() || p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to the defaults: page 1 and limit 0
// (unpaginated). Excessive limits are clamped to [MaxLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", 0)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
