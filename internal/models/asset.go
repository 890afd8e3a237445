package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetClass distinguishes road vehicles from plant machinery.
type AssetClass string

const (
	AssetClassVehicle AssetClass = "vehicle"
	AssetClassPlant   AssetClass = "plant"
)

// IsValidAssetClass checks if an asset class is recognised.
func IsValidAssetClass(class AssetClass) bool {
	switch class {
	case AssetClassVehicle, AssetClassPlant:
		return true
	default:
		return false
	}
}

// Asset represents a fleet vehicle or plant-machinery unit.
type Asset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Class        AssetClass         `bson:"class" json:"class"`
	Registration string             `bson:"registration,omitempty" json:"registration,omitempty"`
	FleetNumber  string             `bson:"fleet_number" json:"fleet_number"`
	Nickname     string             `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Make         string             `bson:"make,omitempty" json:"make,omitempty"`
	Model        string             `bson:"model,omitempty" json:"model,omitempty"`
	Retired      bool               `bson:"retired" json:"retired"`
	RetiredAt    *time.Time         `bson:"retired_at,omitempty" json:"retired_at,omitempty"`
	// LastTaskCompletedAt is denormalized from the workshop task flow for
	// dashboard sorting. Updated best-effort after task completion.
	LastTaskCompletedAt *time.Time `bson:"last_task_completed_at,omitempty" json:"last_task_completed_at,omitempty"`
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `bson:"updated_at" json:"updated_at"`
}
