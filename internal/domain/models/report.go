package models

import "time"

// DailyHerdReport is the digest produced by the scheduler and stored in MongoDB.
type DailyHerdReport struct {
	Date            time.Time      `bson:"date" json:"date"`
	TotalCattle     int            `bson:"total_cattle" json:"total_cattle"`
	HealthyCattle   int            `bson:"healthy_cattle" json:"healthy_cattle"`
	NeedsCare       int            `bson:"needs_care" json:"needs_care"`
	MilkLiters      float64        `bson:"milk_liters" json:"milk_liters"`
	MilkQuality     string         `bson:"milk_quality" json:"milk_quality"`
	Alerts          []HealthRecord `bson:"alerts" json:"alerts"`
	ActiveTreatment int            `bson:"active_treatments" json:"active_treatments"`
	CreatedAt       time.Time      `bson:"created_at" json:"created_at"`
}
