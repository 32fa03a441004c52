// Copyright (c) 2026 Rokto. All rights reserved.

package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/dberr"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// Service implements the user directory use cases.
type Service struct {
	repo   Repository
	cache  RoleCache
	logger *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(repo Repository, cache RoleCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopRoleCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// # First Sign-In Upsert

// SignInInput holds the profile fields supplied on first sign-in.
type SignInInput struct {
	Name       string
	BloodGroup string
	District   string
	Upazila    string
	Image      string
}

/*
SignIn records a sign-in for the given email.

The first sign-in creates the account with defaults (role=donor,
status=active); every later sign-in only bumps the signedIn timestamp.

The decision is NOT read-then-write: the insert is attempted first and a
duplicate-key error from the unique email index collapses into the update
path, so two concurrent first sign-ins can never create two documents.

Returns:
  - *User: The persisted account
  - bool: true if this call created the account
*/
func (service *Service) SignIn(ctx context.Context, email string, input SignInInput) (*User, bool, error) {
	now := time.Now().UTC()
	user := &User{
		Email:      email,
		Name:       input.Name,
		BloodGroup: input.BloodGroup,
		District:   input.District,
		Upazila:    input.Upazila,
		Image:      input.Image,
		Role:       sec.RoleDonor,
		Status:     sec.StatusActive,
		CreatedAt:  now,
		SignedIn:   now,
	}

	err := service.repo.Insert(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if !dberr.IsDuplicate(err) {
		return nil, false, fmt.Errorf("users_sign_in_insert_failed: %w", err)
	}

	// Already exists: touch signedIn only. Profile fields are never
	// overwritten by a sign-in.
	if err := service.repo.TouchSignedIn(ctx, email, now); err != nil {
		return nil, false, fmt.Errorf("users_sign_in_touch_failed: %w", err)
	}

	existing, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, dberr.Wrap(err)
	}
	return existing, false, nil
}

// # Profile Self-Service

// Profile returns the user document for an email, or nil when the account
// does not exist. The absent case is not an error: the wire contract
// responds with a JSON null.
func (service *Service) Profile(ctx context.Context, email string) (*User, error) {
	user, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, nil
		}
		return nil, dberr.Wrap(err)
	}
	return user, nil
}

// UpdateProfile overwrites the caller's editable profile fields.
func (service *Service) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	return service.repo.UpdateProfile(ctx, email, update)
}

// # Admin Moderation

// PatchInput carries an admin moderation change. Exactly one of UserStatus
// or Role is applied per call; UserStatus wins when both are present, which
// matches the deployed contract.
type PatchInput struct {
	UserStatus string
	Role       string
}

// AdminPatch applies a status or role change to the user with the given id
// and invalidates the role cache entry for the affected account.
func (service *Service) AdminPatch(ctx context.Context, id primitive.ObjectID, input PatchInput) (*User, error) {
	var (
		updated *User
		err     error
	)

	switch {
	case input.UserStatus != "":
		status := sec.AccountStatus(input.UserStatus)
		if !status.Valid() {
			return nil, apperr.ValidationError("Unknown user status: " + input.UserStatus)
		}
		updated, err = service.repo.SetStatus(ctx, id, status)

	case input.Role != "":
		role := sec.Role(input.Role)
		if !role.Valid() {
			return nil, apperr.ValidationError("Unknown role: " + input.Role)
		}
		updated, err = service.repo.SetRole(ctx, id, role)

	default:
		return nil, apperr.ValidationError("Either userStatus or role is required")
	}

	if err != nil {
		return nil, dberr.Wrap(err)
	}

	// A blocked or demoted account must not pass the next role gate with a
	// stale cache entry.
	service.cache.Invalidate(ctx, updated.Email)

	return updated, nil
}

// # Listing & Search

// List returns users newest-first with optional filters and pagination.
func (service *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]User, error) {
	users, err := service.repo.List(ctx, filter, page)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return users, nil
}

// Count returns the number of users matching the filter.
func (service *Service) Count(ctx context.Context, filter ListFilter) (int64, error) {
	count, err := service.repo.Count(ctx, filter)
	if err != nil {
		return 0, dberr.Wrap(err)
	}
	return count, nil
}

// SearchDonors runs the composed donor search.
func (service *Service) SearchDonors(ctx context.Context, search DonorSearch) ([]User, error) {
	donors, err := service.repo.SearchDonors(ctx, search)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return donors, nil
}

// # Authorization Support

// ResolveRole returns the persisted role for an email, consulting the role
// cache first. It implements middleware.RoleResolver.
func (service *Service) ResolveRole(ctx context.Context, email string) (sec.Role, error) {
	if role, ok := service.cache.Get(ctx, email); ok {
		return role, nil
	}

	user, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", dberr.Wrap(err)
	}

	service.cache.Set(ctx, email, user.Role)
	return user.Role, nil
}

// AccountStatus returns the moderation status for an email. The donation
// service uses it to refuse requests from blocked accounts.
func (service *Service) AccountStatus(ctx context.Context, email string) (sec.AccountStatus, error) {
	user, err := service.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", dberr.Wrap(err)
	}
	return user.Status, nil
}
