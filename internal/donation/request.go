// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package donation implements blood-donation request management.

It owns the DonationRequest entity, its status state machine, creation
gated on the requester's account status, per-requester and admin listings,
and the acceptance flow that attaches donor information.
*/
package donation

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// # Status State Machine

// Status is the lifecycle state of a donation request.
type Status string

const (
	// Awaiting a donor
	StatusPending Status = "pending"

	// A donor accepted; donorInfo identifies them
	StatusInProgress Status = "inprogress"

	// Donation completed
	StatusDone Status = "done"

	// Abandoned by the requester or a manager
	StatusCanceled Status = "canceled"
)

// Valid reports whether st is a recognized request status.
func (st Status) Valid() bool {
	switch st {
	case StatusPending, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// transitions encodes the allowed status moves. Terminal states (done,
// canceled) have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusDone, StatusCanceled},
}

// CanTransitionTo reports whether the move from st to next is allowed.
func (st Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[st] {
		if allowed == next {
			return true
		}
	}
	return false
}

// # Domain Entities

// DonorInfo identifies the donor who accepted a request. It is present
// exactly from the moment a request enters inprogress and is retained for
// the rest of the request's life.
type DonorInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// DonationRequest is a recipient's need for blood. Email is the requester's
// verified identity and the ownership key for every owner-gated endpoint.
type DonationRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	RecipientName     string             `bson:"recipientName" json:"recipientName"`
	RecipientDistrict string             `bson:"recipientDistrict" json:"recipientDistrict"`
	RecipientUpazila  string             `bson:"recipientUpazila" json:"recipientUpazila"`
	HospitalName      string             `bson:"hospitalName" json:"hospitalName"`
	FullAddress       string             `bson:"fullAddress" json:"fullAddress"`
	BloodGroup        string             `bson:"bloodGroup" json:"bloodGroup"`
	DonationDate      string             `bson:"donationDate" json:"donationDate"`
	DonationTime      string             `bson:"donationTime" json:"donationTime"`
	Status            Status             `bson:"status" json:"status"`
	DonorInfo         *DonorInfo         `bson:"donorInfo,omitempty" json:"donorInfo,omitempty"`
}

// # Field Identifiers

const (
	FieldRecipientName     = "recipientName"
	FieldRecipientDistrict = "recipientDistrict"
	FieldRecipientUpazila  = "recipientUpazila"
	FieldHospitalName      = "hospitalName"
	FieldFullAddress       = "fullAddress"
	FieldBloodGroup        = "bloodGroup"
	FieldDonationDate      = "donationDate"
	FieldDonationTime      = "donationTime"
	FieldStatus            = "status"
	FieldDonorInfo         = "donorInfo"
)
