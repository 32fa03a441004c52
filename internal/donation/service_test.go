// Copyright (c) 2026 Rokto. All rights reserved.

package donation_test

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roktoapp/rokto/internal/donation"
	"github.com/roktoapp/rokto/internal/platform/apperr"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// fakeRepository is an in-memory donation Repository.
type fakeRepository struct {
	byID map[primitive.ObjectID]*donation.DonationRequest
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[primitive.ObjectID]*donation.DonationRequest{}}
}

func (f *fakeRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeRepository) Insert(ctx context.Context, request *donation.DonationRequest) error {
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	copied := *request
	f.byID[request.ID] = &copied
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*donation.DonationRequest, error) {
	request, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *request
	return &copied, nil
}

// sortedNewestFirst mirrors the store's descending _id order. ObjectIDs are
// time-prefixed, so hex order matches insertion order.
func (f *fakeRepository) sortedNewestFirst(filter donation.ListFilter) []donation.DonationRequest {
	result := []donation.DonationRequest{}
	for _, request := range f.byID {
		if filter.Email != "" && request.Email != filter.Email {
			continue
		}
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		result = append(result, *request)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.Hex() > result[j].ID.Hex()
	})
	return result
}

func (f *fakeRepository) List(ctx context.Context, filter donation.ListFilter, page pagination.Params) ([]donation.DonationRequest, error) {
	return f.sortedNewestFirst(filter), nil
}

func (f *fakeRepository) ListTop(ctx context.Context, email string, n int) ([]donation.DonationRequest, error) {
	all := f.sortedNewestFirst(donation.ListFilter{Email: email})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakeRepository) Count(ctx context.Context, filter donation.ListFilter) (int64, error) {
	return int64(len(f.sortedNewestFirst(filter))), nil
}

func (f *fakeRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields donation.EditableFields) error {
	request, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	request.RecipientName = fields.RecipientName
	request.BloodGroup = fields.BloodGroup
	request.DonationDate = fields.DonationDate
	return nil
}

func (f *fakeRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status donation.Status, donorInfo *donation.DonorInfo) error {
	request, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	request.Status = status
	if donorInfo != nil {
		request.DonorInfo = donorInfo
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

// fakeDirectory returns a fixed account status per email.
type fakeDirectory struct {
	statuses map[string]sec.AccountStatus
}

func (f *fakeDirectory) AccountStatus(ctx context.Context, email string) (sec.AccountStatus, error) {
	status, ok := f.statuses[email]
	if !ok {
		return "", mongo.ErrNoDocuments
	}
	return status, nil
}

func newTestService(repo donation.Repository, statuses map[string]sec.AccountStatus) *donation.Service {
	return donation.NewService(repo, &fakeDirectory{statuses: statuses}, slog.Default())
}

func activeDirectory(emails ...string) map[string]sec.AccountStatus {
	statuses := map[string]sec.AccountStatus{}
	for _, email := range emails {
		statuses[email] = sec.StatusActive
	}
	return statuses
}

/*
TestCreate verifies that a new request starts pending with no donor info.
*/
func TestCreate(t *testing.T) {
	service := newTestService(newFakeRepository(), activeDirectory("donor@example.com"))

	created, err := service.Create(context.Background(), "donor@example.com", donation.CreateInput{
		RecipientName: "Rahim",
		BloodGroup:    "O+",
		DonationDate:  "2026-09-01",
	})
	require.NoError(t, err)

	assert.Equal(t, donation.StatusPending, created.Status)
	assert.Nil(t, created.DonorInfo)
	assert.Equal(t, "donor@example.com", created.Email)
	assert.False(t, created.ID.IsZero())
}

/*
TestCreate_BlockedUser verifies that blocked accounts cannot create requests
and that nothing is persisted.
*/
func TestCreate_BlockedUser(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, map[string]sec.AccountStatus{
		"blocked@example.com": sec.StatusBlocked,
	})

	_, err := service.Create(context.Background(), "blocked@example.com", donation.CreateInput{
		RecipientName: "Rahim",
	})

	assert.True(t, errors.Is(err, donation.ErrUserBlocked))
	assert.Empty(t, repo.byID)
}

/*
TestTransition walks the status state machine: legal moves succeed, illegal
moves fail with a validation error.
*/
func TestTransition(t *testing.T) {
	newPending := func(t *testing.T) (*donation.Service, primitive.ObjectID) {
		t.Helper()
		service := newTestService(newFakeRepository(), activeDirectory("donor@example.com"))
		created, err := service.Create(context.Background(), "donor@example.com", donation.CreateInput{
			RecipientName: "Rahim",
		})
		require.NoError(t, err)
		return service, created.ID
	}

	donor := &donation.DonorInfo{Name: "Karim", Email: "karim@example.com"}

	t.Run("pending_to_inprogress_records_donor", func(t *testing.T) {
		service, id := newPending(t)

		updated, err := service.Transition(context.Background(), id, donation.StatusInProgress, donor)
		require.NoError(t, err)

		assert.Equal(t, donation.StatusInProgress, updated.Status)
		require.NotNil(t, updated.DonorInfo)
		assert.Equal(t, "karim@example.com", updated.DonorInfo.Email)
	})

	t.Run("inprogress_requires_donor_info", func(t *testing.T) {
		service, id := newPending(t)

		_, err := service.Transition(context.Background(), id, donation.StatusInProgress, nil)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

		_, err = service.Transition(context.Background(), id, donation.StatusInProgress, &donation.DonorInfo{Name: "Karim"})
		require.Error(t, err)
	})

	t.Run("done_keeps_donor_info", func(t *testing.T) {
		service, id := newPending(t)

		_, err := service.Transition(context.Background(), id, donation.StatusInProgress, donor)
		require.NoError(t, err)

		_, err = service.Transition(context.Background(), id, donation.StatusDone, nil)
		require.NoError(t, err)

		final, err := service.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, donation.StatusDone, final.Status)
		require.NotNil(t, final.DonorInfo)
		assert.Equal(t, "karim@example.com", final.DonorInfo.Email)
	})

	t.Run("pending_can_be_canceled", func(t *testing.T) {
		service, id := newPending(t)

		updated, err := service.Transition(context.Background(), id, donation.StatusCanceled, nil)
		require.NoError(t, err)
		assert.Equal(t, donation.StatusCanceled, updated.Status)
	})

	t.Run("rejects_illegal_moves", func(t *testing.T) {
		service, id := newPending(t)

		// pending cannot jump straight to done.
		_, err := service.Transition(context.Background(), id, donation.StatusDone, nil)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

		// Terminal states accept nothing.
		_, err = service.Transition(context.Background(), id, donation.StatusCanceled, nil)
		require.NoError(t, err)
		_, err = service.Transition(context.Background(), id, donation.StatusInProgress, donor)
		require.Error(t, err)
	})

	t.Run("rejects_unknown_status", func(t *testing.T) {
		service, id := newPending(t)

		_, err := service.Transition(context.Background(), id, donation.Status("frozen"), nil)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("missing_request_is_not_found", func(t *testing.T) {
		service, _ := newPending(t)

		_, err := service.Transition(context.Background(), primitive.NewObjectID(), donation.StatusCanceled, nil)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestListByRequester covers the owner listing: newest first, status filter,
and the top=N shortcut.
*/
func TestListByRequester(t *testing.T) {
	service := newTestService(newFakeRepository(), activeDirectory("donor@example.com", "other@example.com"))

	var ids []primitive.ObjectID
	for i := 0; i < 5; i++ {
		created, err := service.Create(context.Background(), "donor@example.com", donation.CreateInput{
			RecipientName: "Rahim",
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	_, err := service.Create(context.Background(), "other@example.com", donation.CreateInput{
		RecipientName: "Not mine",
	})
	require.NoError(t, err)

	t.Run("newest_first_scoped_to_email", func(t *testing.T) {
		requests, err := service.ListByRequester(context.Background(), "donor@example.com", "", 0, pagination.Params{})
		require.NoError(t, err)

		require.Len(t, requests, 5)
		assert.Equal(t, ids[4], requests[0].ID)
	})

	t.Run("top_limits_to_newest_n", func(t *testing.T) {
		requests, err := service.ListByRequester(context.Background(), "donor@example.com", "", 3, pagination.Params{})
		require.NoError(t, err)

		require.Len(t, requests, 3)
		assert.Equal(t, ids[4], requests[0].ID)
		assert.Equal(t, ids[2], requests[2].ID)
	})

	t.Run("status_filter", func(t *testing.T) {
		_, err := service.Transition(context.Background(), ids[0], donation.StatusCanceled, nil)
		require.NoError(t, err)

		requests, err := service.ListByRequester(context.Background(), "donor@example.com", donation.StatusCanceled, 0, pagination.Params{})
		require.NoError(t, err)

		require.Len(t, requests, 1)
		assert.Equal(t, ids[0], requests[0].ID)
	})

	t.Run("count_scoped_to_email", func(t *testing.T) {
		count, err := service.CountByRequester(context.Background(), "donor@example.com", "")
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})
}

/*
TestUpdateFields verifies the PUT path cannot touch status or donor info.
*/
func TestUpdateFields(t *testing.T) {
	service := newTestService(newFakeRepository(), activeDirectory("donor@example.com"))

	created, err := service.Create(context.Background(), "donor@example.com", donation.CreateInput{
		RecipientName: "Rahim",
		BloodGroup:    "O+",
	})
	require.NoError(t, err)

	err = service.UpdateFields(context.Background(), created.ID, donation.EditableFields{
		RecipientName: "Rahim Updated",
		BloodGroup:    "A-",
		DonationDate:  "2026-10-01",
	})
	require.NoError(t, err)

	updated, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rahim Updated", updated.RecipientName)
	assert.Equal(t, donation.StatusPending, updated.Status)
	assert.Nil(t, updated.DonorInfo)

	// Unknown ids surface as not found.
	err = service.UpdateFields(context.Background(), primitive.NewObjectID(), donation.EditableFields{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestDelete verifies removal and the not-found case.
*/
func TestDelete(t *testing.T) {
	service := newTestService(newFakeRepository(), activeDirectory("donor@example.com"))

	created, err := service.Create(context.Background(), "donor@example.com", donation.CreateInput{
		RecipientName: "Rahim",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	_, err = service.Get(context.Background(), created.ID)
	require.Error(t, err)

	err = service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
