package domain

import (
	"context"
	"time"

	"github.com/ozwatts/gridwatch/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Region      string
	StartDate   *time.Time
	EndDate     *time.Time
	IncludeZero bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, price *Price) error
	InsertBatch(ctx context.Context, db *gorm.DB, prices []*Price) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Price, int64, error)
	Current(ctx context.Context, db *gorm.DB, region string, includeZero bool) ([]Price, error)
	Window(ctx context.Context, db *gorm.DB, region string, from, to time.Time) ([]Price, error)
	Regions(ctx context.Context, db *gorm.DB) ([]string, error)
	Exists(ctx context.Context, db *gorm.DB, timestamp time.Time, region string) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	TimeRange(ctx context.Context, db *gorm.DB) (*time.Time, *time.Time, error)
}
