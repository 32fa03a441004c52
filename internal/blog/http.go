// Copyright (c) 2026 Rokto. All rights reserved.

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roktoapp/rokto/internal/platform/middleware"
	requestutil "github.com/roktoapp/rokto/internal/platform/request"
	"github.com/roktoapp/rokto/internal/platform/respond"
	"github.com/roktoapp/rokto/internal/platform/validate"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// Handler implements the blog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the blog routes with their access-control pipeline.
//
//	GET    /blogs        open
//	GET    /blogs/count  open
//	GET    /blogs/{id}   open
//	POST   /blogs        auth + admin|volunteer
//	PUT    /blog/{id}    auth + admin|volunteer
//	PATCH  /blogs/{id}   auth + admin (publish toggle)
//	DELETE /blogs/{id}   auth + admin
func (handler *Handler) RegisterRoutes(router chi.Router, guard *middleware.Guard) {
	router.Get("/blogs", handler.listPosts)
	router.Get("/blogs/count", handler.countPosts)
	router.Get("/blogs/{id}", handler.getPost)

	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)

		r.With(guard.RequireAdminOrVolunteer()).Post("/blogs", handler.createPost)
		r.With(guard.RequireAdminOrVolunteer()).Put("/blog/{id}", handler.updatePost)

		r.With(guard.RequireAdmin()).Patch("/blogs/{id}", handler.togglePublish)
		r.With(guard.RequireAdmin()).Delete("/blogs/{id}", handler.deletePost)
	})
}

type postBody struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Content   string `json:"content"`
}

/*
createPost stores a new draft post.

POST /blogs [auth, admin|volunteer]

Response:
  - 201: {"message": "Blog created successfully", "result": …}
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var input postBody
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldContent, input.Content)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), CreateInput{
		Title:     input.Title,
		Thumbnail: input.Thumbnail,
		Content:   input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"message": "Blog created successfully",
		"result":  created,
	})
}

/*
listPosts returns the post listing, newest first.

GET /blogs

Query: status (optional; the public site passes status=published), page,
limit.
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.List(request.Context(),
		Status(request.URL.Query().Get(FieldStatus)), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

/*
countPosts returns the number of posts matching the optional status filter.

GET /blogs/count

The body is a bare JSON number.
*/
func (handler *Handler) countPosts(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.Count(request.Context(), Status(request.URL.Query().Get(FieldStatus)))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, count)
}

/*
getPost returns a single post.

GET /blogs/{id}
*/
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

/*
updatePost overwrites the editable fields of a post.

PUT /blog/{id} [auth, admin|volunteer]
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postBody
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldContent, input.Content)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.UpdateFields(request.Context(), id, EditableFields{
		Title:     input.Title,
		Thumbnail: input.Thumbnail,
		Content:   input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
togglePublish flips a post between drafted and published.

PATCH /blogs/{id} [auth, admin]

The body is ignored; the publish control is a pure toggle.
*/
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ObjectID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.TogglePublish(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "successful")
}

/*
deletePost removes a post.

DELETE /blogs/{id} [auth, admin]
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
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
