package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPricesEndpoint(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.listResp = electricitydomain.ListPricesResponse{
		Items: []electricitydomain.Price{},
		Total: 15,
		Page:  2,
		Size:  10,
	}

	rec := fixture.get("/api/electricity/prices?region=NSW1&page=2&size=10&start_date=2025-06-01")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "NSW1", fixture.elec.listReq.Region)
	assert.Equal(t, 2, fixture.elec.listReq.Page.Page)
	assert.Equal(t, 10, fixture.elec.listReq.Page.Size)
	require.NotNil(t, fixture.elec.listReq.StartDate)
	assert.True(t, fixture.elec.listReq.StartDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(15), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(10), body["size"])
}

func TestListPricesRejectsMalformedDate(t *testing.T) {
	fixture := newTestServer(t)

	rec := fixture.get("/api/electricity/prices?start_date=not-a-date")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errPayload, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validation_error", errPayload["type"])
}

func TestListPricesMapsInvalidRegionTo400(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.listErr = electricitydomain.ErrInvalidRegion

	rec := fixture.get("/api/electricity/prices?region=MARS1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentPricesEmptySnapshot(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.currentResp = electricitydomain.CurrentPricesResponse{
		Items: []electricitydomain.Price{},
	}

	rec := fixture.get("/api/electricity/prices/current")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	items, ok := body["items"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
	_, hasTimestamp := body["timestamp"]
	assert.False(t, hasTimestamp)
}

func TestPriceTrendsPassesQueryParams(t *testing.T) {
	fixture := newTestServer(t)
	avg := 60.0
	fixture.elec.trendsResp = electricitydomain.PriceTrendsResponse{
		Period:        "7 days",
		RecordCount:   3,
		AveragePrice:  &avg,
		DailyAverages: []electricitydomain.DailyAveragePrice{},
	}

	rec := fixture.get("/api/electricity/prices/trends?days=7&region=VIC1")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, fixture.elec.trendsReq.Days)
	assert.Equal(t, 7, *fixture.elec.trendsReq.Days)
	assert.Equal(t, "VIC1", fixture.elec.trendsReq.Region)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "7 days", body["period"])
	assert.Equal(t, float64(60), body["average_price"])
}

func TestPriceTrendsNullStatsWhenEmpty(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.trendsResp = electricitydomain.PriceTrendsResponse{
		Period:        "30 days",
		DailyAverages: []electricitydomain.DailyAveragePrice{},
	}

	rec := fixture.get("/api/electricity/prices/trends")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["average_price"])
	assert.Nil(t, body["price_volatility"])
}

func TestPriceTrendsRejectsMalformedDays(t *testing.T) {
	fixture := newTestServer(t)

	rec := fixture.get("/api/electricity/prices/trends?days=banana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePriceEndpoint(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.createResp = electricitydomain.Price{Region: "NSW1", Price: 42.5}

	rec := fixture.post("/api/electricity/prices", `{"timestamp":"2025-06-10T12:00:00Z","region":"NSW1","price":42.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NSW1", body["region"])
}

func TestCreatePriceDuplicateMapsToConflict(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.createErr = electricitydomain.ErrDuplicateRecord

	rec := fixture.post("/api/electricity/prices", `{"timestamp":"2025-06-10T12:00:00Z","region":"NSW1","price":42.5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreatePriceRejectsMalformedBody(t *testing.T) {
	fixture := newTestServer(t)

	rec := fixture.post("/api/electricity/prices", `{"timestamp":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceRegionsEndpoint(t *testing.T) {
	fixture := newTestServer(t)
	fixture.elec.regionsResp = electricitydomain.RegionsResponse{Regions: []string{"NSW1", "VIC1"}}

	rec := fixture.get("/api/electricity/prices/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"NSW1", "VIC1"}, body["regions"])
}
