package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ozwatts/gridwatch/pkg/db/pagination"
)

type ListPricesRequest struct {
	Region      string
	StartDate   *time.Time
	EndDate     *time.Time
	IncludeZero bool
	Page        pagination.Pagination
}

type ListPricesResponse struct {
	Items []Price `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
}

type CurrentPricesRequest struct {
	Region      string
	IncludeZero bool
}

type CurrentPricesResponse struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Items     []Price    `json:"items"`
}

type PriceTrendsRequest struct {
	Region string
	Days   *int
}

type DailyAveragePrice struct {
	Date         string  `json:"date"`
	Region       string  `json:"region"`
	AveragePrice float64 `json:"average_price"`
}

type PriceTrendsResponse struct {
	Period          string              `json:"period"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	RecordCount     int                 `json:"record_count"`
	AveragePrice    *float64            `json:"average_price"`
	MinPrice        *float64            `json:"min_price"`
	MaxPrice        *float64            `json:"max_price"`
	PriceVolatility *float64            `json:"price_volatility"`
	DailyAverages   []DailyAveragePrice `json:"daily_averages"`
}

type CreatePriceRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Region    string    `json:"region" binding:"required"`
	Price     float64   `json:"price"`
	Demand    *float64  `json:"demand"`
	Supply    *float64  `json:"supply"`
}

type RegionsResponse struct {
	Regions []string `json:"regions"`
}

type Service interface {
	List(ctx context.Context, req ListPricesRequest) (ListPricesResponse, error)
	Current(ctx context.Context, req CurrentPricesRequest) (CurrentPricesResponse, error)
	Trends(ctx context.Context, req PriceTrendsRequest) (PriceTrendsResponse, error)
	Create(ctx context.Context, req CreatePriceRequest) (Price, error)
	Regions(ctx context.Context) (RegionsResponse, error)
}

var (
	ErrInvalidRegion    = errors.New("invalid_region")
	ErrInvalidDays      = errors.New("invalid_days")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidTimestamp = errors.New("invalid_timestamp")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrDuplicateRecord  = errors.New("duplicate_record")
)
