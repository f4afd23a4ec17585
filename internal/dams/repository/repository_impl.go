package repository

import (
	"context"
	"time"

	"github.com/ozwatts/gridwatch/internal/dams/domain"
	"github.com/ozwatts/gridwatch/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, level *domain.Level) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO dam_levels (id, timestamp, dam_name, state, capacity_percentage, volume_ml, capacity_ml, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		level.ID,
		level.Timestamp,
		level.DamName,
		level.State,
		level.CapacityPercentage,
		level.VolumeML,
		level.CapacityML,
		level.CreatedAt,
	).Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, levels []*domain.Level) error {
	if len(levels) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(levels, 500).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Level, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Level{})
	stmt = applyFilter(stmt, filter)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var levels []domain.Level
	err := page.Apply(stmt).
		Order("timestamp asc, id asc").
		Find(&levels).Error
	if err != nil {
		return nil, 0, err
	}
	return levels, total, nil
}

// Current returns the latest observation per (dam_name, state). Ties on
// timestamp resolve to the highest id.
func (r *repo) Current(ctx context.Context, db *gorm.DB, state string, includeZero bool) ([]domain.Level, error) {
	var levels []domain.Level
	err := db.WithContext(ctx).Raw(
		`SELECT id, timestamp, dam_name, state, capacity_percentage, volume_ml, capacity_ml, created_at
		 FROM dam_levels d
		 WHERE (d.capacity_percentage > 0 OR ?)
		   AND (? = '' OR d.state = ?)
		   AND d.id = (
		       SELECT l.id FROM dam_levels l
		       WHERE l.dam_name = d.dam_name AND l.state = d.state AND (l.capacity_percentage > 0 OR ?)
		       ORDER BY l.timestamp DESC, l.id DESC
		       LIMIT 1
		   )
		 ORDER BY d.dam_name, d.state`,
		includeZero,
		state,
		state,
		includeZero,
	).Scan(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *repo) Window(ctx context.Context, db *gorm.DB, damName, state string, from, to time.Time) ([]domain.Level, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Level{}).
		Where("timestamp >= ? AND timestamp < ?", from, to)
	if damName != "" {
		stmt = stmt.Where("dam_name = ?", damName)
	}
	if state != "" {
		stmt = stmt.Where("state = ?", state)
	}

	var levels []domain.Level
	if err := stmt.Order("timestamp asc, id asc").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *repo) Dams(ctx context.Context, db *gorm.DB, state string) ([]domain.DamInfo, error) {
	var dams []domain.DamInfo
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT dam_name, state FROM dam_levels
		 WHERE (? = '' OR state = ?)
		 ORDER BY dam_name ASC`,
		state,
		state,
	).Scan(&dams).Error
	if err != nil {
		return nil, err
	}
	return dams, nil
}

func (r *repo) States(ctx context.Context, db *gorm.DB) ([]string, error) {
	var states []string
	err := db.WithContext(ctx).
		Model(&domain.Level{}).
		Distinct("state").
		Order("state asc").
		Pluck("state", &states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, timestamp time.Time, damName, state string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Level{}).
		Where("timestamp = ? AND dam_name = ? AND state = ?", timestamp, damName, state).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Level{}).Count(&count).Error
	return count, err
}

func (r *repo) TimeRange(ctx context.Context, db *gorm.DB) (*time.Time, *time.Time, error) {
	var oldest []time.Time
	err := db.WithContext(ctx).
		Model(&domain.Level{}).
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
		Model(&domain.Level{}).
		Order("timestamp desc").
		Limit(1).
		Pluck("timestamp", &newest).Error
	if err != nil {
		return nil, nil, err
	}
	return &oldest[0], &newest[0], nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.DamName != "" {
		stmt = stmt.Where("dam_name = ?", filter.DamName)
	}
	if filter.State != "" {
		stmt = stmt.Where("state = ?", filter.State)
	}
	if filter.StartDate != nil {
		stmt = stmt.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("timestamp <= ?", *filter.EndDate)
	}
	if !filter.IncludeZero {
		stmt = stmt.Where("capacity_percentage > 0")
	}
	return stmt
}
