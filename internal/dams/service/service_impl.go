package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/dams/domain"
	"github.com/ozwatts/gridwatch/internal/trend"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dams.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListLevelsRequest) (domain.ListLevelsResponse, error) {
	state := strings.TrimSpace(req.State)
	if state != "" && !domain.ValidState(state) {
		return domain.ListLevelsResponse{}, domain.ErrInvalidState
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return domain.ListLevelsResponse{}, domain.ErrInvalidDateRange
	}

	page := req.Page
	page.Clamp()

	filter := domain.ListFilter{
		DamName:     strings.TrimSpace(req.DamName),
		State:       state,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IncludeZero: req.IncludeZero,
	}
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListLevelsResponse{}, err
	}
	if items == nil {
		items = []domain.Level{}
	}

	return domain.ListLevelsResponse{
		Items: items,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

func (s *Service) Current(ctx context.Context, req domain.CurrentLevelsRequest) (domain.CurrentLevelsResponse, error) {
	state := strings.TrimSpace(req.State)
	if state != "" && !domain.ValidState(state) {
		return domain.CurrentLevelsResponse{}, domain.ErrInvalidState
	}

	items, err := s.repo.Current(ctx, s.db, state, req.IncludeZero)
	if err != nil {
		return domain.CurrentLevelsResponse{}, err
	}
	if items == nil {
		items = []domain.Level{}
	}

	resp := domain.CurrentLevelsResponse{Items: items}
	for i := range items {
		if resp.Timestamp == nil || items[i].Timestamp.After(*resp.Timestamp) {
			ts := items[i].Timestamp
			resp.Timestamp = &ts
		}
	}
	return resp, nil
}

func (s *Service) Trends(ctx context.Context, req domain.LevelTrendsRequest) (domain.LevelTrendsResponse, error) {
	state := strings.TrimSpace(req.State)
	if state != "" && !domain.ValidState(state) {
		return domain.LevelTrendsResponse{}, domain.ErrInvalidState
	}

	days := defaultTrendDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 1 || days > maxTrendDays {
		return domain.LevelTrendsResponse{}, domain.ErrInvalidDays
	}

	end := s.clock.Now().UTC()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	levels, err := s.repo.Window(ctx, s.db, strings.TrimSpace(req.DamName), state, start, end)
	if err != nil {
		return domain.LevelTrendsResponse{}, err
	}

	points := make([]trend.Point, 0, len(levels))
	for _, l := range levels {
		points = append(points, trend.Point{Time: l.Timestamp, Key: l.DamName, Value: l.CapacityPercentage})
	}
	summary := trend.Summarize(points)

	daily := make([]domain.DailyAverageLevel, 0, len(summary.DailyAverages))
	for _, d := range summary.DailyAverages {
		daily = append(daily, domain.DailyAverageLevel{
			Date:            d.Date,
			DamName:         d.Key,
			AverageCapacity: d.Value,
		})
	}

	return domain.LevelTrendsResponse{
		Period:             fmt.Sprintf("%d days", days),
		StartDate:          start.Format(time.RFC3339),
		EndDate:            end.Format(time.RFC3339),
		RecordCount:        summary.Count,
		AverageCapacity:    summary.Average,
		MinCapacity:        summary.Min,
		MaxCapacity:        summary.Max,
		CapacityVolatility: summary.Volatility,
		DailyAverages:      daily,
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateLevelRequest) (domain.Level, error) {
	damName := strings.TrimSpace(req.DamName)
	if damName == "" {
		return domain.Level{}, domain.ErrInvalidDamName
	}
	state := strings.TrimSpace(req.State)
	if !domain.ValidState(state) {
		return domain.Level{}, domain.ErrInvalidState
	}
	if req.Timestamp.IsZero() {
		return domain.Level{}, domain.ErrInvalidTimestamp
	}
	if math.IsNaN(req.CapacityPercentage) || req.CapacityPercentage < 0 || req.CapacityPercentage > 100 {
		return domain.Level{}, domain.ErrInvalidCapacity
	}

	timestamp := req.Timestamp.UTC()
	exists, err := s.repo.Exists(ctx, s.db, timestamp, damName, state)
	if err != nil {
		return domain.Level{}, err
	}
	if exists {
		return domain.Level{}, domain.ErrDuplicateRecord
	}

	level := domain.Level{
		ID:                 s.genID.Generate(),
		Timestamp:          timestamp,
		DamName:            damName,
		State:              state,
		CapacityPercentage: req.CapacityPercentage,
		VolumeML:           req.VolumeML,
		CapacityML:         req.CapacityML,
		CreatedAt:          s.clock.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &level); err != nil {
		return domain.Level{}, err
	}

	s.log.Info("dam level recorded",
		zap.String("dam_name", damName),
		zap.String("state", state),
		zap.Time("timestamp", timestamp),
	)
	return level, nil
}

func (s *Service) Dams(ctx context.Context, req domain.DamsRequest) (domain.DamsResponse, error) {
	state := strings.TrimSpace(req.State)
	if state != "" && !domain.ValidState(state) {
		return domain.DamsResponse{}, domain.ErrInvalidState
	}

	dams, err := s.repo.Dams(ctx, s.db, state)
	if err != nil {
		return domain.DamsResponse{}, err
	}
	if dams == nil {
		dams = []domain.DamInfo{}
	}
	return domain.DamsResponse{Dams: dams}, nil
}

func (s *Service) States(ctx context.Context) (domain.StatesResponse, error) {
	states, err := s.repo.States(ctx, s.db)
	if err != nil {
		return domain.StatesResponse{}, err
	}
	if states == nil {
		states = []string{}
	}
	return domain.StatesResponse{States: states}, nil
}
