package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// ListFilter narrows the admin user listing and counts.
// Empty fields contribute no predicate.
type ListFilter struct {
	Status sec.AccountStatus
	Role   sec.Role
}

// DonorSearch is the composed donor-search filter: an AND of equality
// predicates over the three fields, always combined with role=donor.
type DonorSearch struct {
	BloodGroup string
	District   string
	Upazila    string
}

// ProfileUpdate holds the only fields a user may change on their own profile.
type ProfileUpdate struct {
	Name       string
	BloodGroup string
	District   string
	Upazila    string
	Image      string
}

// Repository abstracts the users collection.
type Repository interface {
	EnsureIndexes(ctx context.Context) error

	// Insert adds a new user document. A unique-index violation on email is
	// returned unwrapped so the service can collapse it to the update path.
	Insert(ctx context.Context, user *User) error

	// TouchSignedIn bumps the signedIn timestamp for an existing user.
	TouchSignedIn(ctx context.Context, email string, at time.Time) error

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)

	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error

	// SetStatus and SetRole return the updated document so callers can
	// invalidate the role cache entry for the affected email.
	SetStatus(ctx context.Context, id primitive.ObjectID, status sec.AccountStatus) (*User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role sec.Role) (*User, error)

	// List returns users newest-first (descending document id).
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// SearchDonors returns active-search matches newest-first.
	SearchDonors(ctx context.Context, search DonorSearch) ([]User, error)
}

// RoleCache fronts role resolution for the role-gate middleware.
//
// Implementations must treat the cache as advisory: a miss or a backend
// failure falls through to the repository, never to a denied request.
type RoleCache interface {
	Get(ctx context.Context, email string) (sec.Role, bool)
	Set(ctx context.Context, email string, role sec.Role)
	Invalidate(ctx context.Context, email string)
}
