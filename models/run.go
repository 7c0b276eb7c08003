package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run outcomes
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// RunRecord is the history entry persisted for every deck run
type RunRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Store         StoreTarget        `bson:"store" json:"store"`
	ToEmail       string             `bson:"to_email" json:"to_email"`
	Language      string             `bson:"language" json:"language"`
	Localized     bool               `bson:"localized" json:"localized"`
	LinksFound    int                `bson:"links_found" json:"links_found"`
	Products      []ProductRecord    `bson:"products" json:"products"`
	State         string             `bson:"state" json:"state"`
	Outcome       string             `bson:"outcome" json:"outcome"`
	Error         string             `bson:"error,omitempty" json:"error,omitempty"`
	ArtifactPath  string             `bson:"artifact_path,omitempty" json:"artifact_path,omitempty"`
	DeliveryNotes []string           `bson:"delivery_notes,omitempty" json:"delivery_notes,omitempty"`
	StartedAt     time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt    time.Time          `bson:"finished_at" json:"finished_at"`
}
