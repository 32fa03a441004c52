// Copyright (c) 2026 Rokto. All rights reserved.

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/dberr"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// Service implements the content-publishing use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput holds the post fields supplied on creation.
type CreateInput struct {
	Title     string
	Thumbnail string
	Content   string
}

// Create stores a new post. Every post starts drafted; publication is a
// separate admin action.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Blog, error) {
	post := &Blog{
		Title:     input.Title,
		Thumbnail: input.Thumbnail,
		Content:   input.Content,
		Status:    StatusDrafted,
		CreatedAt: time.Now().UTC(),
	}

	if err := service.repo.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("blog_create_failed: %w", err)
	}
	return post, nil
}

// Get loads a single post by id.
func (service *Service) Get(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	post, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return post, nil
}

// List returns posts newest-first with an optional status filter.
func (service *Service) List(ctx context.Context, status Status, page pagination.Params) ([]Blog, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.ValidationError("Unknown blog status: " + string(status))
	}

	posts, err := service.repo.List(ctx, ListFilter{Status: status}, page)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return posts, nil
}

// Count returns the number of posts matching the optional status filter.
func (service *Service) Count(ctx context.Context, status Status) (int64, error) {
	if status != "" && !status.Valid() {
		return 0, apperr.ValidationError("Unknown blog status: " + string(status))
	}

	count, err := service.repo.Count(ctx, ListFilter{Status: status})
	if err != nil {
		return 0, dberr.Wrap(err)
	}
	return count, nil
}

// UpdateFields overwrites the editable fields of an existing post.
func (service *Service) UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return dberr.Wrap(err)
	}
	return service.repo.UpdateFields(ctx, id, fields)
}

// TogglePublish flips the post between drafted and published and returns
// the new state.
func (service *Service) TogglePublish(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	post, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err)
	}

	post.Status = post.Status.Toggled()
	if err := service.repo.SetStatus(ctx, id, post.Status); err != nil {
		return nil, dberr.Wrap(err)
	}
	return post, nil
}

// Delete removes a post after confirming it exists.
func (service *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return dberr.Wrap(err)
	}
	return service.repo.Delete(ctx, id)
}
