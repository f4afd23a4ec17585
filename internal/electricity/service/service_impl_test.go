package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/ozwatts/gridwatch/internal/electricity/repository"
	"github.com/ozwatts/gridwatch/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE electricity_prices (
		id BIGINT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		region VARCHAR(10) NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		demand DOUBLE PRECISION,
		supply DOUBLE PRECISION,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB, now time.Time) (domain.Service, *clock.FakeClock) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(now)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, clk
}

func mustCreate(t *testing.T, svc domain.Service, req domain.CreatePriceRequest) domain.Price {
	t.Helper()
	price, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return price
}

func trendDays(n int) *int {
	return &n
}

func TestTrendsComputesSummary(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	for i, price := range []float64{40, 60, 80} {
		mustCreate(t, svc, domain.CreatePriceRequest{
			Timestamp: now.Add(-time.Duration(i+1) * time.Hour),
			Region:    "NSW1",
			Price:     price,
		})
	}

	resp, err := svc.Trends(context.Background(), domain.PriceTrendsRequest{Region: "NSW1", Days: trendDays(7)})
	require.NoError(t, err)

	assert.Equal(t, "7 days", resp.Period)
	assert.Equal(t, 3, resp.RecordCount)
	require.NotNil(t, resp.AveragePrice)
	assert.InDelta(t, 60.0, *resp.AveragePrice, 1e-9)
	require.NotNil(t, resp.MinPrice)
	assert.InDelta(t, 40.0, *resp.MinPrice, 1e-9)
	require.NotNil(t, resp.MaxPrice)
	assert.InDelta(t, 80.0, *resp.MaxPrice, 1e-9)
	require.NotNil(t, resp.PriceVolatility)
	assert.InDelta(t, 20.0, *resp.PriceVolatility, 1e-9)
	require.Len(t, resp.DailyAverages, 1)
	assert.Equal(t, "NSW1", resp.DailyAverages[0].Region)
	assert.InDelta(t, 60.0, resp.DailyAverages[0].AveragePrice, 1e-9)
}

func TestTrendsEmptyWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	resp, err := svc.Trends(context.Background(), domain.PriceTrendsRequest{Days: trendDays(7)})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.RecordCount)
	assert.Nil(t, resp.AveragePrice)
	assert.Nil(t, resp.MinPrice)
	assert.Nil(t, resp.MaxPrice)
	assert.Nil(t, resp.PriceVolatility)
	assert.Empty(t, resp.DailyAverages)
}

func TestTrendsExcludesRecordsOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	mustCreate(t, svc, domain.CreatePriceRequest{
		Timestamp: now.Add(-8 * 24 * time.Hour),
		Region:    "NSW1",
		Price:     500,
	})
	mustCreate(t, svc, domain.CreatePriceRequest{
		Timestamp: now.Add(-time.Hour),
		Region:    "NSW1",
		Price:     50,
	})

	resp, err := svc.Trends(context.Background(), domain.PriceTrendsRequest{Region: "NSW1", Days: trendDays(7)})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.RecordCount)
	require.NotNil(t, resp.AveragePrice)
	assert.InDelta(t, 50.0, *resp.AveragePrice, 1e-9)
	assert.Nil(t, resp.PriceVolatility)
}

func TestTrendsRejectsInvalidDays(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	_, err := svc.Trends(context.Background(), domain.PriceTrendsRequest{Days: trendDays(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidDays)

	_, err = svc.Trends(context.Background(), domain.PriceTrendsRequest{Days: trendDays(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidDays)

	_, err = svc.Trends(context.Background(), domain.PriceTrendsRequest{Days: trendDays(1000)})
	assert.ErrorIs(t, err, domain.ErrInvalidDays)
}

func TestTrendsDefaultsToThirtyDaysWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	resp, err := svc.Trends(context.Background(), domain.PriceTrendsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "30 days", resp.Period)
}

func TestCurrentReturnsLatestPerRegion(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now.Add(-2 * time.Hour), Region: "NSW1", Price: 90})
	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now.Add(-time.Hour), Region: "NSW1", Price: 85})
	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now.Add(-time.Hour), Region: "VIC1", Price: 75})

	resp, err := svc.Current(context.Background(), domain.CurrentPricesRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "NSW1", resp.Items[0].Region)
	assert.InDelta(t, 85.0, resp.Items[0].Price, 1e-9)
	assert.Equal(t, "VIC1", resp.Items[1].Region)
	require.NotNil(t, resp.Timestamp)
	assert.True(t, resp.Timestamp.Equal(now.Add(-time.Hour)))
}

func TestCurrentTimestampTieResolvesToLatestInsert(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	ts := now.Add(-time.Hour)
	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: ts, Region: "NSW1", Price: 90})
	// Same timestamp, different region key avoids the duplicate guard; use
	// a direct insert to simulate two rows sharing (timestamp, region).
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO electricity_prices (id, timestamp, region, price, created_at) VALUES (?, ?, ?, ?, ?)`,
		node.Generate(), ts, "NSW1", 95.0, now,
	).Error)

	resp, err := svc.Current(context.Background(), domain.CurrentPricesRequest{Region: "NSW1"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 95.0, resp.Items[0].Price, 1e-9)
}

func TestCurrentEmptyDataset(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	resp, err := svc.Current(context.Background(), domain.CurrentPricesRequest{})
	require.NoError(t, err)

	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Nil(t, resp.Timestamp)
}

func TestCurrentExcludesZeroPricesByDefault(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now.Add(-2 * time.Hour), Region: "SA1", Price: 60})
	mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now.Add(-time.Hour), Region: "SA1", Price: 0})

	resp, err := svc.Current(context.Background(), domain.CurrentPricesRequest{Region: "SA1"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 60.0, resp.Items[0].Price, 1e-9)

	resp, err = svc.Current(context.Background(), domain.CurrentPricesRequest{Region: "SA1", IncludeZero: true})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 0.0, resp.Items[0].Price, 1e-9)
}

func TestListPagination(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	for i := 0; i < 15; i++ {
		mustCreate(t, svc, domain.CreatePriceRequest{
			Timestamp: now.Add(-time.Duration(i+1) * time.Hour),
			Region:    "QLD1",
			Price:     float64(50 + i),
		})
	}

	resp, err := svc.List(context.Background(), domain.ListPricesRequest{
		Region: "QLD1",
		Page:   pagination.Pagination{Page: 2, Size: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.Total)
	assert.Len(t, resp.Items, 5)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Size)
}

func TestListClampsOversizedPage(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	resp, err := svc.List(context.Background(), domain.ListPricesRequest{
		Page: pagination.Pagination{Page: 1, Size: 9999},
	})
	require.NoError(t, err)
	assert.Equal(t, pagination.MaxPageSize, resp.Size)
}

func TestListRejectsInvalidRegion(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	_, err := svc.List(context.Background(), domain.ListPricesRequest{Region: "MARS1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)
}

func TestListRejectsInvertedDateRange(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, time.Now().UTC())

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	_, err := svc.List(context.Background(), domain.ListPricesRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCreateDuplicateConflict(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	req := domain.CreatePriceRequest{Timestamp: now, Region: "TAS1", Price: 42}
	mustCreate(t, svc, req)

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	_, err := svc.Create(context.Background(), domain.CreatePriceRequest{Timestamp: now, Region: "XX1", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)

	_, err = svc.Create(context.Background(), domain.CreatePriceRequest{Region: "NSW1", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)
}

func TestCreateAllowsNegativePrices(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	price := mustCreate(t, svc, domain.CreatePriceRequest{Timestamp: now, Region: "SA1", Price: -45.5})
	assert.InDelta(t, -45.5, price.Price, 1e-9)
}

func TestRegionsListsDistinctValues(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	for i, region := range []string{"VIC1", "NSW1", "NSW1"} {
		mustCreate(t, svc, domain.CreatePriceRequest{
			Timestamp: now.Add(-time.Duration(i+1) * time.Hour),
			Region:    region,
			Price:     float64(40 + i),
		})
	}

	resp, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NSW1", "VIC1"}, resp.Regions)
}

func TestListOrdersOldestFirst(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	db := newTestDB(t)
	svc, _ := newTestService(t, db, now)

	var inserted []string
	for i := 0; i < 3; i++ {
		p := mustCreate(t, svc, domain.CreatePriceRequest{
			Timestamp: now.Add(-time.Duration(i+1) * time.Hour),
			Region:    "NSW1",
			Price:     float64(60 + i),
		})
		inserted = append(inserted, fmt.Sprint(p.ID))
	}

	resp, err := svc.List(context.Background(), domain.ListPricesRequest{Region: "NSW1"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	// Inserted newest-first, so ascending order reverses insertion order.
	for i, item := range resp.Items {
		assert.Equal(t, inserted[len(inserted)-1-i], fmt.Sprint(item.ID))
	}
}
