package repository

import (
	"context"
	"time"

	"github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/ozwatts/gridwatch/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, price *domain.Price) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO electricity_prices (id, timestamp, region, price, demand, supply, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		price.ID,
		price.Timestamp,
		price.Region,
		price.Price,
		price.Demand,
		price.Supply,
		price.CreatedAt,
	).Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, prices []*domain.Price) error {
	if len(prices) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(prices, 500).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Price, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Price{})
	stmt = applyFilter(stmt, filter)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var prices []domain.Price
	err := page.Apply(stmt).
		Order("timestamp asc, id asc").
		Find(&prices).Error
	if err != nil {
		return nil, 0, err
	}
	return prices, total, nil
}

// Current returns the latest observation per region. Ties on timestamp
// resolve to the highest id.
func (r *repo) Current(ctx context.Context, db *gorm.DB, region string, includeZero bool) ([]domain.Price, error) {
	var prices []domain.Price
	err := db.WithContext(ctx).Raw(
		`SELECT id, timestamp, region, price, demand, supply, created_at
		 FROM electricity_prices e
		 WHERE (e.price > 0 OR ?)
		   AND (? = '' OR e.region = ?)
		   AND e.id = (
		       SELECT p.id FROM electricity_prices p
		       WHERE p.region = e.region AND (p.price > 0 OR ?)
		       ORDER BY p.timestamp DESC, p.id DESC
		       LIMIT 1
		   )
		 ORDER BY e.region`,
		includeZero,
		region,
		region,
		includeZero,
	).Scan(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repo) Window(ctx context.Context, db *gorm.DB, region string, from, to time.Time) ([]domain.Price, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Price{}).
		Where("timestamp >= ? AND timestamp < ?", from, to)
	if region != "" {
		stmt = stmt.Where("region = ?", region)
	}

	var prices []domain.Price
	if err := stmt.Order("timestamp asc, id asc").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repo) Regions(ctx context.Context, db *gorm.DB) ([]string, error) {
	var regions []string
	err := db.WithContext(ctx).
		Model(&domain.Price{}).
		Distinct("region").
		Order("region asc").
		Pluck("region", &regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, timestamp time.Time, region string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Price{}).
		Where("timestamp = ? AND region = ?", timestamp, region).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Price{}).Count(&count).Error
	return count, err
}

func (r *repo) TimeRange(ctx context.Context, db *gorm.DB) (*time.Time, *time.Time, error) {
	var oldest []time.Time
	err := db.WithContext(ctx).
		Model(&domain.Price{}).
		Order("timestamp asc").
		Limit(1).
		Pluck("timestamp", &oldest).Error
	if err != nil {
		return nil, nil, err
	}
	if len(oldest) == 0 {
		return nil, nil, nil
	}

	var newest []time.Time
	err = db.WithContext(ctx).
		Model(&domain.Price{}).
		Order("timestamp desc").
		Limit(1).
		Pluck("timestamp", &newest).Error
	if err != nil {
		return nil, nil, err
	}
	return &oldest[0], &newest[0], nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Region != "" {
		stmt = stmt.Where("region = ?", filter.Region)
	}
	if filter.StartDate != nil {
		stmt = stmt.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("timestamp <= ?", *filter.EndDate)
	}
	if !filter.IncludeZero {
		stmt = stmt.Where("price > 0")
	}
	return stmt
}
