package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Price is one spot-price observation for a National Electricity Market
// region.
type Price struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Timestamp time.Time    `gorm:"not null;index" json:"timestamp"`
	Region    string       `gorm:"not null;index" json:"region"`
	Price     float64      `gorm:"not null" json:"price"`
	Demand    *float64     `json:"demand,omitempty"`
	Supply    *float64     `json:"supply,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Price) TableName() string {
	return "electricity_prices"
}

// Regions lists the NEM price regions.
var Regions = []string{"NSW1", "QLD1", "SA1", "TAS1", "VIC1"}

func ValidRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}
