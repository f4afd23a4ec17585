package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ozwatts/gridwatch/pkg/db/pagination"
)

type ListLevelsRequest struct {
	DamName     string
	State       string
	StartDate   *time.Time
	EndDate     *time.Time
	IncludeZero bool
	Page        pagination.Pagination
}

type ListLevelsResponse struct {
	Items []Level `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
}

type CurrentLevelsRequest struct {
	State       string
	IncludeZero bool
}

type CurrentLevelsResponse struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Items     []Level    `json:"items"`
}

type LevelTrendsRequest struct {
	DamName string
	State   string
	Days    *int
}

type DailyAverageLevel struct {
	Date            string  `json:"date"`
	DamName         string  `json:"dam_name"`
	AverageCapacity float64 `json:"average_capacity_percentage"`
}

type LevelTrendsResponse struct {
	Period             string              `json:"period"`
	StartDate          string              `json:"start_date"`
	EndDate            string              `json:"end_date"`
	RecordCount        int                 `json:"record_count"`
	AverageCapacity    *float64            `json:"average_capacity_percentage"`
	MinCapacity        *float64            `json:"min_capacity_percentage"`
	MaxCapacity        *float64            `json:"max_capacity_percentage"`
	CapacityVolatility *float64            `json:"capacity_volatility"`
	DailyAverages      []DailyAverageLevel `json:"daily_averages"`
}

type CreateLevelRequest struct {
	Timestamp          time.Time `json:"timestamp" binding:"required"`
	DamName            string    `json:"dam_name" binding:"required"`
	State              string    `json:"state" binding:"required"`
	CapacityPercentage float64   `json:"capacity_percentage"`
	VolumeML           *float64  `json:"volume_ml"`
	CapacityML         *float64  `json:"capacity_ml"`
}

type DamInfo struct {
	DamName string `json:"dam_name"`
	State   string `json:"state"`
}

type DamsRequest struct {
	State string
}

type DamsResponse struct {
	Dams []DamInfo `json:"dams"`
}

type StatesResponse struct {
	States []string `json:"states"`
}

type Service interface {
	List(ctx context.Context, req ListLevelsRequest) (ListLevelsResponse, error)
	Current(ctx context.Context, req CurrentLevelsRequest) (CurrentLevelsResponse, error)
	Trends(ctx context.Context, req LevelTrendsRequest) (LevelTrendsResponse, error)
	Create(ctx context.Context, req CreateLevelRequest) (Level, error)
	Dams(ctx context.Context, req DamsRequest) (DamsResponse, error)
	States(ctx context.Context) (StatesResponse, error)
}

var (
	ErrInvalidState     = errors.New("invalid_state")
	ErrInvalidDamName   = errors.New("invalid_dam_name")
	ErrInvalidDays      = errors.New("invalid_days")
	ErrInvalidCapacity  = errors.New("invalid_capacity")
	ErrInvalidTimestamp = errors.New("invalid_timestamp")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrDuplicateRecord  = errors.New("duplicate_record")
)
