// Copyright (c) 2026 Rokto. All rights reserved.

package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/dberr"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// UserDirectory is the slice of the users service this domain needs: the
// moderation status check that gates request creation.
type UserDirectory interface {
	AccountStatus(ctx context.Context, email string) (sec.AccountStatus, error)
}

// ErrUserBlocked signals that a blocked account attempted to create a
// donation request. The HTTP layer maps it to a dedicated 200 body rather
// than an error envelope, which is what the deployed frontend expects.
var ErrUserBlocked = errors.New("user is blocked")

// Service implements the donation-request use cases.
type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

// # Creation

// CreateInput holds the request fields supplied on creation. Status and
// donorInfo are not caller-writable; every new request starts pending.
type CreateInput struct {
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
}

/*
Create stores a new donation request for the given requester email.

The requester's moderation status is checked first: a blocked account gets
[ErrUserBlocked] and nothing is persisted.
*/
func (service *Service) Create(ctx context.Context, email string, input CreateInput) (*DonationRequest, error) {
	status, err := service.users.AccountStatus(ctx, email)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	if status == sec.StatusBlocked {
		return nil, ErrUserBlocked
	}

	request := &DonationRequest{
		Email:             email,
		RecipientName:     input.RecipientName,
		RecipientDistrict: input.RecipientDistrict,
		RecipientUpazila:  input.RecipientUpazila,
		HospitalName:      input.HospitalName,
		FullAddress:       input.FullAddress,
		BloodGroup:        input.BloodGroup,
		DonationDate:      input.DonationDate,
		DonationTime:      input.DonationTime,
		Status:            StatusPending,
	}

	if err := service.repo.Insert(ctx, request); err != nil {
		return nil, fmt.Errorf("donation_create_failed: %w", err)
	}
	return request, nil
}

// # Retrieval

// Get loads a single donation request by id.
func (service *Service) Get(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	request, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return request, nil
}

// ListByRequester returns the requester's own requests, newest first. When
// top > 0 it returns only the newest top requests and ignores filter and
// pagination, which is how the dashboard's recent-requests widget queries.
func (service *Service) ListByRequester(ctx context.Context, email string, status Status, top int, page pagination.Params) ([]DonationRequest, error) {
	if top > 0 {
		requests, err := service.repo.ListTop(ctx, email, top)
		if err != nil {
			return nil, dberr.Wrap(err)
		}
		return requests, nil
	}

	requests, err := service.repo.List(ctx, ListFilter{Email: email, Status: status}, page)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return requests, nil
}

// CountByRequester returns the number of requests owned by an email.
func (service *Service) CountByRequester(ctx context.Context, email string, status Status) (int64, error) {
	count, err := service.repo.Count(ctx, ListFilter{Email: email, Status: status})
	if err != nil {
		return 0, dberr.Wrap(err)
	}
	return count, nil
}

// ListAll returns all requests for the admin/volunteer dashboard.
func (service *Service) ListAll(ctx context.Context, status Status, page pagination.Params) ([]DonationRequest, error) {
	requests, err := service.repo.List(ctx, ListFilter{Status: status}, page)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return requests, nil
}

// CountAll returns the number of requests matching the optional status filter.
func (service *Service) CountAll(ctx context.Context, status Status) (int64, error) {
	count, err := service.repo.Count(ctx, ListFilter{Status: status})
	if err != nil {
		return 0, dberr.Wrap(err)
	}
	return count, nil
}

// # Editing

// UpdateFields overwrites the editable fields of an existing request. The
// request must exist; status and donorInfo are unreachable through this path.
func (service *Service) UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return dberr.Wrap(err)
	}
	return service.repo.UpdateFields(ctx, id, fields)
}

/*
Transition moves a request to the next lifecycle status.

The move is validated against the status state machine: pending may become
inprogress or canceled, inprogress may become done or canceled, and the
terminal states accept nothing. donorInfo is required exactly when entering
inprogress — that is the donor-acceptance event — and is left untouched on
every other move, so the accepting donor stays recorded through done and
canceled.
*/
func (service *Service) Transition(ctx context.Context, id primitive.ObjectID, next Status, donorInfo *DonorInfo) (*DonationRequest, error) {
	if !next.Valid() {
		return nil, apperr.ValidationError("Unknown donation status: " + string(next))
	}

	current, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err)
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, apperr.ValidationError(fmt.Sprintf(
			"Cannot change donation status from %s to %s", current.Status, next))
	}

	if next == StatusInProgress {
		if donorInfo == nil || donorInfo.Name == "" || donorInfo.Email == "" {
			return nil, apperr.ValidationError("donorInfo with name and email is required to accept a request")
		}
	} else {
		donorInfo = nil
	}

	if err := service.repo.SetStatus(ctx, id, next, donorInfo); err != nil {
		return nil, dberr.Wrap(err)
	}

	current.Status = next
	if donorInfo != nil {
		current.DonorInfo = donorInfo
	}
	return current, nil
}

// Delete removes a request after confirming it exists, so a bad id surfaces
// as 404 rather than a silent no-op.
func (service *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return dberr.Wrap(err)
	}
	return service.repo.Delete(ctx, id)
}
