// Copyright (c) 2026 Rokto. All rights reserved.

package donation

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/dberr"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// MongoRepository implements [Repository] on the donationRequests collection.
type MongoRepository struct {
	c *mongo.Collection
}

// NewMongoRepository creates a donation-request repository bound to the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection(constants.CollectionDonationRequests)}
}

// EnsureIndexes creates the indexes the access paths depend on. Idempotent.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Per-requester listing, newest first.
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_requests_email"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_requests_status"),
		},
	}
	_, err := r.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Insert adds a new donation request document.
func (r *MongoRepository) Insert(ctx context.Context, request *DonationRequest) error {
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	_, err := r.c.InsertOne(ctx, request)
	return dberr.Wrap(err)
}

// FindByID loads a donation request by document id.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	var request DonationRequest
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests newest-first with optional email/status filters.
func (r *MongoRepository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]DonationRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if page.Enabled() {
		opts = opts.SetSkip(page.Skip()).SetLimit(int64(page.Limit))
	}

	cursor, err := r.c.Find(ctx, listFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	requests := []DonationRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListTop returns the n newest requests for an email.
func (r *MongoRepository) ListTop(ctx context.Context, email string, n int) ([]DonationRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := r.c.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}

	requests := []DonationRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Count returns the number of requests matching the filter.
func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.c.CountDocuments(ctx, listFilterQuery(filter))
}

// UpdateFields overwrites the editable request fields only.
func (r *MongoRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error {
	set := bson.M{
		"recipientName":     fields.RecipientName,
		"recipientDistrict": fields.RecipientDistrict,
		"recipientUpazila":  fields.RecipientUpazila,
		"hospitalName":      fields.HospitalName,
		"fullAddress":       fields.FullAddress,
		"bloodGroup":        fields.BloodGroup,
		"donationDate":      fields.DonationDate,
		"donationTime":      fields.DonationTime,
	}
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return dberr.Wrap(err)
}

// SetStatus writes the new status. donorInfo is persisted only when non-nil;
// an existing donorInfo is never touched otherwise, so the accepting donor
// stays on the document through done/canceled.
func (r *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status Status, donorInfo *DonorInfo) error {
	set := bson.M{"status": status}
	if donorInfo != nil {
		set["donorInfo"] = donorInfo
	}
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return dberr.Wrap(err)
}

// Delete removes a donation request.
func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	return dberr.Wrap(err)
}

// listFilterQuery translates a [ListFilter] into a bson document.
func listFilterQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
