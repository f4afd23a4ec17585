package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/collector/domain"
	"github.com/ozwatts/gridwatch/internal/collector/sources"
	"github.com/ozwatts/gridwatch/internal/config"
	damsdomain "github.com/ozwatts/gridwatch/internal/dams/domain"
	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/ozwatts/gridwatch/internal/observability/metrics"
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
	Tracker         *Tracker
	Prices          sources.PriceSource
	Dams            sources.DamSource
	ElectricityRepo electricitydomain.Repository
	DamRepo         damsdomain.Repository
	Metrics         *metrics.Metrics
}

// Runner executes collection runs in the background, one at a time.
type Runner struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	timeout  time.Duration
	tracker  *Tracker
	prices   sources.PriceSource
	dams     sources.DamSource
	elecRepo electricitydomain.Repository
	damRepo  damsdomain.Repository
	metrics  *metrics.Metrics
}

func NewRunner(p Params) *Runner {
	timeout := p.Config.CollectTimeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Runner{
		db:       p.DB,
		log:      p.Log.Named("collector.runner"),
		genID:    p.GenID,
		clock:    p.Clock,
		timeout:  timeout,
		tracker:  p.Tracker,
		prices:   p.Prices,
		dams:     p.Dams,
		elecRepo: p.ElectricityRepo,
		damRepo:  p.DamRepo,
		metrics:  p.Metrics,
	}
}

// Start claims the run and collects in the background. A second start
// while a run is in flight returns ErrAlreadyRunning.
func (r *Runner) Start() (domain.StartResponse, error) {
	if err := r.tracker.TryStart(r.clock.Now()); err != nil {
		return domain.StartResponse{}, err
	}

	go r.run()

	return domain.StartResponse{
		Status:  "started",
		Message: "data collection started in background",
	}, nil
}

func (r *Runner) Status() domain.Status {
	return r.tracker.Status()
}

func (r *Runner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.collect(ctx); err != nil {
		r.tracker.Fail(err)
		r.metrics.RecordCollectionRun(ctx, "failure")
		r.log.Error("collection run failed", zap.Error(err))
		return
	}

	r.tracker.Succeed()
	r.metrics.RecordCollectionRun(ctx, "success")
}

func (r *Runner) collect(ctx context.Context) error {
	now := r.clock.Now().UTC()

	r.tracker.SetProgress("collecting electricity prices")
	prices, err := r.prices.Current(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch electricity prices: %w", err)
	}
	storedPrices, err := r.storePrices(ctx, prices)
	if err != nil {
		return fmt.Errorf("store electricity prices: %w", err)
	}
	r.metrics.RecordRecordsStored(ctx, "electricity", storedPrices)

	r.tracker.SetProgress("collecting dam levels")
	levels, err := r.dams.Current(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch dam levels: %w", err)
	}
	storedLevels, err := r.storeLevels(ctx, levels)
	if err != nil {
		return fmt.Errorf("store dam levels: %w", err)
	}
	r.metrics.RecordRecordsStored(ctx, "dams", storedLevels)

	r.tracker.SetProgress(fmt.Sprintf("stored %d price and %d dam records", storedPrices, storedLevels))
	r.log.Info("collection run completed",
		zap.Int64("prices_stored", storedPrices),
		zap.Int64("levels_stored", storedLevels),
	)
	return nil
}

func (r *Runner) storePrices(ctx context.Context, observations []sources.PriceObservation) (int64, error) {
	var stored int64
	for _, obs := range observations {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		exists, err := r.elecRepo.Exists(ctx, r.db, obs.Timestamp, obs.Region)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		demand := obs.Demand
		supply := obs.Supply
		price := electricitydomain.Price{
			ID:        r.genID.Generate(),
			Timestamp: obs.Timestamp,
			Region:    obs.Region,
			Price:     obs.Price,
			Demand:    &demand,
			Supply:    &supply,
			CreatedAt: r.clock.Now().UTC(),
		}
		if err := r.elecRepo.Insert(ctx, r.db, &price); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

func (r *Runner) storeLevels(ctx context.Context, observations []sources.DamObservation) (int64, error) {
	var stored int64
	for _, obs := range observations {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		exists, err := r.damRepo.Exists(ctx, r.db, obs.Timestamp, obs.DamName, obs.State)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		volume := obs.VolumeML
		capacity := obs.CapacityML
		level := damsdomain.Level{
			ID:                 r.genID.Generate(),
			Timestamp:          obs.Timestamp,
			DamName:            obs.DamName,
			State:              obs.State,
			CapacityPercentage: obs.CapacityPercentage,
			VolumeML:           &volume,
			CapacityML:         &capacity,
			CreatedAt:          r.clock.Now().UTC(),
		}
		if err := r.damRepo.Insert(ctx, r.db, &level); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}
