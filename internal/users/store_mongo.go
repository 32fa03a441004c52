// Copyright (c) 2026 Rokto. All rights reserved.

package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roktoapp/rokto/internal/platform/constants"
	"github.com/roktoapp/rokto/internal/platform/dberr"
	"github.com/roktoapp/rokto/internal/platform/sec"
	"github.com/roktoapp/rokto/pkg/pagination"
)

// MongoRepository implements [Repository] on the users collection.
type MongoRepository struct {
	c *mongo.Collection
}

// NewMongoRepository creates a users repository bound to the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection(constants.CollectionUsers)}
}

// EnsureIndexes creates the indexes the access paths depend on. Idempotent.
//
// The unique email index is load-bearing: the first-sign-in upsert relies on
// the duplicate-key error to collapse concurrent inserts into the update path.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_users_email").SetUnique(true),
		},
		// Donor search: equality on bloodGroup/district/upazila plus role.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "bloodGroup", Value: 1},
				{Key: "district", Value: 1},
				{Key: "upazila", Value: 1},
			},
			Options: options.Index().SetName("idx_users_donor_search"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_users_status"),
		},
	}
	_, err := r.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Insert adds a new user document. Duplicate-key errors are returned raw.
func (r *MongoRepository) Insert(ctx context.Context, user *User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.c.InsertOne(ctx, user)
	return err
}

// TouchSignedIn bumps signedIn for the existing user with this email.
func (r *MongoRepository) TouchSignedIn(ctx context.Context, email string, at time.Time) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"signedIn": at}},
	)
	return dberr.Wrap(err)
}

// FindByEmail loads a user by their identity key.
// Returns mongo.ErrNoDocuments when absent.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by document id.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile overwrites the self-service profile fields only. Role,
// status, and email are deliberately not reachable from here.
func (r *MongoRepository) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	set := bson.M{
		"name":       update.Name,
		"bloodGroup": update.BloodGroup,
		"district":   update.District,
		"upazila":    update.Upazila,
		"image":      update.Image,
	}
	_, err := r.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	return dberr.Wrap(err)
}

// SetStatus updates the moderation status and returns the updated document.
func (r *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status sec.AccountStatus) (*User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"status": status})
}

// SetRole updates the role and returns the updated document.
func (r *MongoRepository) SetRole(ctx context.Context, id primitive.ObjectID, role sec.Role) (*User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"role": role})
}

func (r *MongoRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users newest-first with optional status/role filters.
func (r *MongoRepository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if page.Enabled() {
		opts = opts.SetSkip(page.Skip()).SetLimit(int64(page.Limit))
	}

	cursor, err := r.c.Find(ctx, listFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching the filter.
func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.c.CountDocuments(ctx, listFilterQuery(filter))
}

// SearchDonors runs the composed donor-search query, newest-first.
func (r *MongoRepository) SearchDonors(ctx context.Context, search DonorSearch) ([]User, error) {
	filter := bson.M{
		"role":       sec.RoleDonor,
		"bloodGroup": search.BloodGroup,
		"district":   search.District,
		"upazila":    search.Upazila,
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

	cursor, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	donors := []User{}
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// listFilterQuery translates a [ListFilter] into a bson document.
func listFilterQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	return query
}
