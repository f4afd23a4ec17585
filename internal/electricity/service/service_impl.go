package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/electricity/domain"
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
		log:   p.Log.Named("electricity.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListPricesRequest) (domain.ListPricesResponse, error) {
	region := strings.TrimSpace(req.Region)
	if region != "" && !domain.ValidRegion(region) {
		return domain.ListPricesResponse{}, domain.ErrInvalidRegion
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return domain.ListPricesResponse{}, domain.ErrInvalidDateRange
	}

	page := req.Page
	page.Clamp()

	filter := domain.ListFilter{
		Region:      region,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IncludeZero: req.IncludeZero,
	}
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListPricesResponse{}, err
	}
	if items == nil {
		items = []domain.Price{}
	}

	return domain.ListPricesResponse{
		Items: items,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

func (s *Service) Current(ctx context.Context, req domain.CurrentPricesRequest) (domain.CurrentPricesResponse, error) {
	region := strings.TrimSpace(req.Region)
	if region != "" && !domain.ValidRegion(region) {
		return domain.CurrentPricesResponse{}, domain.ErrInvalidRegion
	}

	items, err := s.repo.Current(ctx, s.db, region, req.IncludeZero)
	if err != nil {
		return domain.CurrentPricesResponse{}, err
	}
	if items == nil {
		items = []domain.Price{}
	}

	resp := domain.CurrentPricesResponse{Items: items}
	for i := range items {
		if resp.Timestamp == nil || items[i].Timestamp.After(*resp.Timestamp) {
			ts := items[i].Timestamp
			resp.Timestamp = &ts
		}
	}
	return resp, nil
}

func (s *Service) Trends(ctx context.Context, req domain.PriceTrendsRequest) (domain.PriceTrendsResponse, error) {
	region := strings.TrimSpace(req.Region)
	if region != "" && !domain.ValidRegion(region) {
		return domain.PriceTrendsResponse{}, domain.ErrInvalidRegion
	}

	days := defaultTrendDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 1 || days > maxTrendDays {
		return domain.PriceTrendsResponse{}, domain.ErrInvalidDays
	}

	end := s.clock.Now().UTC()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	prices, err := s.repo.Window(ctx, s.db, region, start, end)
	if err != nil {
		return domain.PriceTrendsResponse{}, err
	}

	points := make([]trend.Point, 0, len(prices))
	for _, p := range prices {
		points = append(points, trend.Point{Time: p.Timestamp, Key: p.Region, Value: p.Price})
	}
	summary := trend.Summarize(points)

	daily := make([]domain.DailyAveragePrice, 0, len(summary.DailyAverages))
	for _, d := range summary.DailyAverages {
		daily = append(daily, domain.DailyAveragePrice{
			Date:         d.Date,
			Region:       d.Key,
			AveragePrice: d.Value,
		})
	}

	return domain.PriceTrendsResponse{
		Period:          fmt.Sprintf("%d days", days),
		StartDate:       start.Format(time.RFC3339),
		EndDate:         end.Format(time.RFC3339),
		RecordCount:     summary.Count,
		AveragePrice:    summary.Average,
		MinPrice:        summary.Min,
		MaxPrice:        summary.Max,
		PriceVolatility: summary.Volatility,
		DailyAverages:   daily,
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreatePriceRequest) (domain.Price, error) {
	region := strings.TrimSpace(req.Region)
	if !domain.ValidRegion(region) {
		return domain.Price{}, domain.ErrInvalidRegion
	}
	if req.Timestamp.IsZero() {
		return domain.Price{}, domain.ErrInvalidTimestamp
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return domain.Price{}, domain.ErrInvalidPrice
	}

	timestamp := req.Timestamp.UTC()
	exists, err := s.repo.Exists(ctx, s.db, timestamp, region)
	if err != nil {
		return domain.Price{}, err
	}
	if exists {
		return domain.Price{}, domain.ErrDuplicateRecord
	}

	price := domain.Price{
		ID:        s.genID.Generate(),
		Timestamp: timestamp,
		Region:    region,
		Price:     req.Price,
		Demand:    req.Demand,
		Supply:    req.Supply,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &price); err != nil {
		return domain.Price{}, err
	}

	s.log.Info("price recorded",
		zap.String("region", region),
		zap.Time("timestamp", timestamp),
	)
	return price, nil
}

func (s *Service) Regions(ctx context.Context) (domain.RegionsResponse, error) {
	regions, err := s.repo.Regions(ctx, s.db)
	if err != nil {
		return domain.RegionsResponse{}, err
	}
	if regions == nil {
		regions = []string{}
	}
	return domain.RegionsResponse{Regions: regions}, nil
}
