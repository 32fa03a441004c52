package blog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/pkg/pagination"
)

// ListFilter narrows blog listings and counts. An empty Status contributes
// no predicate.
type ListFilter struct {
	Status Status
}

// EditableFields are the post fields a PUT may overwrite. Status moves only
// through the publish toggle.
type EditableFields struct {
	Title     string
	Thumbnail string
	Content   string
}

// Repository abstracts the blogs collection.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	Insert(ctx context.Context, post *Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error)

	// List returns posts newest-first (descending document id).
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]Blog, error)

	Count(ctx context.Context, filter ListFilter) (int64, error)

	UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status Status) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
