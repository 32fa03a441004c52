// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/ctxutil"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ObjectID retrieves a named URL parameter and parses it as a document id.

Returns:
  - primitive.ObjectID: The parsed id
  - error: A VALIDATION_ERROR if the parameter is not a 24-char hex id
*/
func ObjectID(request *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(request, name))
	if err != nil {
		return primitive.NilObjectID, validate.RequiredError(name, "Must be a valid document id")
	}
	return id, nil
}

/*
Caller extracts the verified caller identity from the request context.

Returns nil if the request is not authenticated.
*/
func Caller(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetCaller(request.Context())
}

/*
RequiredCaller ensures the request is authenticated and returns the caller claims.

Returns:
  - *sec.AuthClaims: The verified caller
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredCaller(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetCaller(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	return claims, nil
}
