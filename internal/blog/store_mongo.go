// Copyright (c) 2026 Rokto. All rights reserved.

package blog

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

// MongoRepository implements [Repository] on the blogs collection.
type MongoRepository struct {
	c *mongo.Collection
}

// NewMongoRepository creates a blog repository bound to the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection(constants.CollectionBlogs)}
}

// EnsureIndexes creates the status index used by the public listing. Idempotent.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_blogs_status"),
		},
	}
	_, err := r.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoRepository) Insert(ctx context.Context, post *Blog) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := r.c.InsertOne(ctx, post)
	return dberr.Wrap(err)
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var post Blog
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest-first with an optional status filter.
func (r *MongoRepository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if page.Enabled() {
		opts = opts.SetSkip(page.Skip()).SetLimit(int64(page.Limit))
	}

	cursor, err := r.c.Find(ctx, listFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	posts := []Blog{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.c.CountDocuments(ctx, listFilterQuery(filter))
}

// UpdateFields overwrites the editable post fields only.
func (r *MongoRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields EditableFields) error {
	set := bson.M{
		"title":     fields.Title,
		"thumbnail": fields.Thumbnail,
		"content":   fields.Content,
	}
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return dberr.Wrap(err)
}

func (r *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status Status) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return dberr.Wrap(err)
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	return dberr.Wrap(err)
}

func listFilterQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
