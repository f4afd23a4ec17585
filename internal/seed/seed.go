// Package seed backfills synthetic history so a fresh install has data
// to chart immediately.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/collector/sources"
	"github.com/ozwatts/gridwatch/internal/config"
	damsdomain "github.com/ozwatts/gridwatch/internal/dams/domain"
	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Clock           clock.Clock
	Config          config.Config
	Prices          sources.PriceSource
	Dams            sources.DamSource
	ElectricityRepo electricitydomain.Repository
	DamRepo         damsdomain.Repository
}

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

// Run populates empty tables with generated history. Tables that already
// hold rows are left untouched.
func Run(p Params) error {
	if !p.Config.SeedOnEmpty {
		return nil
	}

	days := p.Config.SeedHistoryDays
	if days <= 0 {
		days = 30
	}

	ctx := context.Background()
	log := p.Log.Named("seed")
	now := p.Clock.Now().UTC()
	from := now.Add(-time.Duration(days) * 24 * time.Hour)

	if err := seedPrices(ctx, p, log, from, now); err != nil {
		return err
	}
	return seedLevels(ctx, p, log, from, now)
}

func seedPrices(ctx context.Context, p Params, log *zap.Logger, from, to time.Time) error {
	count, err := p.ElectricityRepo.Count(ctx, p.DB)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	observations, err := p.Prices.Historical(ctx, from, to)
	if err != nil {
		return err
	}

	createdAt := p.Clock.Now().UTC()
	prices := make([]*electricitydomain.Price, 0, len(observations))
	for _, obs := range observations {
		demand := obs.Demand
		supply := obs.Supply
		prices = append(prices, &electricitydomain.Price{
			ID:        p.GenID.Generate(),
			Timestamp: obs.Timestamp,
			Region:    obs.Region,
			Price:     obs.Price,
			Demand:    &demand,
			Supply:    &supply,
			CreatedAt: createdAt,
		})
	}
	if err := p.ElectricityRepo.InsertBatch(ctx, p.DB, prices); err != nil {
		return err
	}

	log.Info("seeded electricity history", zap.Int("records", len(prices)))
	return nil
}

func seedLevels(ctx context.Context, p Params, log *zap.Logger, from, to time.Time) error {
	count, err := p.DamRepo.Count(ctx, p.DB)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	observations, err := p.Dams.Historical(ctx, from, to)
	if err != nil {
		return err
	}

	createdAt := p.Clock.Now().UTC()
	levels := make([]*damsdomain.Level, 0, len(observations))
	for _, obs := range observations {
		volume := obs.VolumeML
		capacity := obs.CapacityML
		levels = append(levels, &damsdomain.Level{
			ID:                 p.GenID.Generate(),
			Timestamp:          obs.Timestamp,
			DamName:            obs.DamName,
			State:              obs.State,
			CapacityPercentage: obs.CapacityPercentage,
			VolumeML:           &volume,
			CapacityML:         &capacity,
			CreatedAt:          createdAt,
		})
	}
	if err := p.DamRepo.InsertBatch(ctx, p.DB, levels); err != nil {
		return err
	}

	log.Info("seeded dam level history", zap.Int("records", len(levels)))
	return nil
}
