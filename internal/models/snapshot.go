package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleSnapshot is the cached government vehicle-register (VES) record
// for a registration. Empty strings / zero values mean the register did
// not report the field.
type VehicleSnapshot struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Registration      string             `bson:"registration" json:"registration"`
	Make              string             `bson:"make,omitempty" json:"make,omitempty"`
	Colour            string             `bson:"colour,omitempty" json:"colour,omitempty"`
	YearOfManufacture int                `bson:"year_of_manufacture,omitempty" json:"year_of_manufacture,omitempty"`
	FuelType          string             `bson:"fuel_type,omitempty" json:"fuel_type,omitempty"`
	EngineCapacity    int                `bson:"engine_capacity,omitempty" json:"engine_capacity,omitempty"`
	TaxStatus         string             `bson:"tax_status,omitempty" json:"tax_status,omitempty"`
	MotStatus         string             `bson:"mot_status,omitempty" json:"mot_status,omitempty"`
	CO2Emissions      int                `bson:"co2_emissions,omitempty" json:"co2_emissions,omitempty"`
	EuroStatus        string             `bson:"euro_status,omitempty" json:"euro_status,omitempty"`
	Wheelplan         string             `bson:"wheelplan,omitempty" json:"wheelplan,omitempty"`
	FetchedAt         time.Time          `bson:"fetched_at" json:"fetched_at"`
}

// MotHistorySnapshot is the cached MOT-test-history record for a
// registration.
type MotHistorySnapshot struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Registration    string             `bson:"registration" json:"registration"`
	Make            string             `bson:"make,omitempty" json:"make,omitempty"`
	Model           string             `bson:"model,omitempty" json:"model,omitempty"`
	Colour          string             `bson:"colour,omitempty" json:"colour,omitempty"`
	FuelType        string             `bson:"fuel_type,omitempty" json:"fuel_type,omitempty"`
	ManufactureYear int                `bson:"manufacture_year,omitempty" json:"manufacture_year,omitempty"`
	FirstUsedDate   string             `bson:"first_used_date,omitempty" json:"first_used_date,omitempty"`
	FetchedAt       time.Time          `bson:"fetched_at" json:"fetched_at"`
}
