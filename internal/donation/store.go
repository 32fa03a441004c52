package donation

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/pkg/pagination"
)

// ListFilter narrows donation-request listings and counts.
// Empty fields contribute no predicate.
type ListFilter struct {
	Email  string
	Status Status
}

// EditableFields are the request fields a PUT may overwrite. Status,
// donorInfo, and the requester email are deliberately excluded.
type EditableFields struct {
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
}

// Repository abstracts the donationRequests collection.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	Insert(ctx context.Context, request *DonationRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error)

	// List returns requests newest-first (descending document id).
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]DonationRequest, error)

	// ListTop returns the n newest requests for an email, ignoring pagination.
	ListTop(ctx context.Context, email string, n int) ([]DonationRequest, error)

	Count(ctx context.Context, filter ListFilter) (int64, error)

	UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error

	// SetStatus writes the new status; donorInfo is written only when non-nil
	// and never removed otherwise.
	SetStatus(ctx context.Context, id primitive.ObjectID, status Status, donorInfo *DonorInfo) error

	Delete(ctx context.Context, id primitive.ObjectID) error
}
