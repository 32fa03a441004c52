// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package blog implements the content-publishing workflow.

Posts are written by admins and volunteers, start as drafts, and become
visible to the public listing once an admin publishes them.
*/
package blog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the publication state of a blog post.
type Status string

const (
	StatusDrafted   Status = "drafted"
	StatusPublished Status = "published"
)

// Valid reports whether st is a recognized publication status.
func (st Status) Valid() bool {
	return st == StatusDrafted || st == StatusPublished
}

// Toggled returns the opposite publication state. The publish control is a
// single toggle, not a free-form status write.
func (st Status) Toggled() Status {
	if st == StatusPublished {
		return StatusDrafted
	}
	return StatusPublished
}

// Blog is a content post shown on the public site.
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Thumbnail string             `bson:"thumbnail" json:"thumbnail"`
	Content   string             `bson:"content" json:"content"`
	Status    Status             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

const (
	FieldTitle     = "title"
	FieldThumbnail = "thumbnail"
	FieldContent   = "content"
	FieldStatus    = "status"
)
