package domain

import (
	"context"
	"time"

	"github.com/ozwatts/gridwatch/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	DamName     string
	State       string
	StartDate   *time.Time
	EndDate     *time.Time
	IncludeZero bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, level *Level) error
	InsertBatch(ctx context.Context, db *gorm.DB, levels []*Level) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Level, int64, error)
	Current(ctx context.Context, db *gorm.DB, state string, includeZero bool) ([]Level, error)
	Window(ctx context.Context, db *gorm.DB, damName, state string, from, to time.Time) ([]Level, error)
	Dams(ctx context.Context, db *gorm.DB, state string) ([]DamInfo, error)
	States(ctx context.Context, db *gorm.DB) ([]string, error)
	Exists(ctx context.Context, db *gorm.DB, timestamp time.Time, damName, state string) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	TimeRange(ctx context.Context, db *gorm.DB) (*time.Time, *time.Time, error)
}
