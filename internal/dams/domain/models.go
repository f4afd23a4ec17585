package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Level is one storage-level observation for a named dam.
type Level struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	Timestamp          time.Time    `gorm:"not null;index" json:"timestamp"`
	DamName            string       `gorm:"not null;index" json:"dam_name"`
	State              string       `gorm:"not null;index" json:"state"`
	CapacityPercentage float64      `gorm:"not null" json:"capacity_percentage"`
	VolumeML           *float64     `gorm:"column:volume_ml" json:"volume_ml,omitempty"`
	CapacityML         *float64     `gorm:"column:capacity_ml" json:"capacity_ml,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Level) TableName() string {
	return "dam_levels"
}

// States lists the jurisdictions dams are reported under.
var States = []string{"NSW", "QLD", "SA", "TAS", "VIC"}

func ValidState(state string) bool {
	for _, s := range States {
		if s == state {
			return true
		}
	}
	return false
}
