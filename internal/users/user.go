// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package users implements the user directory of the platform.

It owns the User entity, the first-sign-in upsert, profile self-service,
admin moderation (role and status), the paginated admin listing, and the
public donor search.

# Architecture

  - Service: Orchestrates business rules (upsert collapse, XOR admin patch,
    donor-search composition) and implements the role resolution used by the
    role-gate middleware.
  - Repository: Abstracted interface over the MongoDB users collection.
  - RoleCache: Optional Redis-backed cache in front of role resolution.
*/
package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roktoapp/rokto/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
//
// Email is the identity key: it is unique, immutable after creation, and is
// the value every ownership check compares against. The document id exists
// only for admin moderation endpoints and list ordering.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	BloodGroup string             `bson:"bloodGroup" json:"bloodGroup"`
	District   string             `bson:"district" json:"district"`
	Upazila    string             `bson:"upazila" json:"upazila"`
	Image      string             `bson:"image" json:"image"`
	Role       sec.Role           `bson:"role" json:"role"`
	Status     sec.AccountStatus  `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	SignedIn   time.Time          `bson:"signedIn" json:"signedIn"`
}

// BloodGroups is the set of accepted ABO/Rh codes.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// # Field Identifiers

const (
	FieldEmail      = "email"
	FieldName       = "name"
	FieldBloodGroup = "bloodGroup"
	FieldDistrict   = "district"
	FieldUpazila    = "upazila"
	FieldImage      = "image"
	FieldSearch     = "search"
	FieldRole       = "role"
	FieldUserStatus = "userStatus"
)
