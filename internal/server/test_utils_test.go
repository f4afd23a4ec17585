package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	collectordomain "github.com/ozwatts/gridwatch/internal/collector/domain"
	"github.com/ozwatts/gridwatch/internal/config"
	damsdomain "github.com/ozwatts/gridwatch/internal/dams/domain"
	damsrepository "github.com/ozwatts/gridwatch/internal/dams/repository"
	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	electricityrepository "github.com/ozwatts/gridwatch/internal/electricity/repository"
	"github.com/ozwatts/gridwatch/internal/observability"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeElectricityService struct {
	listReq     electricitydomain.ListPricesRequest
	listResp    electricitydomain.ListPricesResponse
	listErr     error
	currentResp electricitydomain.CurrentPricesResponse
	currentErr  error
	trendsReq   electricitydomain.PriceTrendsRequest
	trendsResp  electricitydomain.PriceTrendsResponse
	trendsErr   error
	createResp  electricitydomain.Price
	createErr   error
	regionsResp electricitydomain.RegionsResponse
}

func (f *fakeElectricityService) List(_ context.Context, req electricitydomain.ListPricesRequest) (electricitydomain.ListPricesResponse, error) {
	f.listReq = req
	return f.listResp, f.listErr
}

func (f *fakeElectricityService) Current(_ context.Context, _ electricitydomain.CurrentPricesRequest) (electricitydomain.CurrentPricesResponse, error) {
	return f.currentResp, f.currentErr
}

func (f *fakeElectricityService) Trends(_ context.Context, req electricitydomain.PriceTrendsRequest) (electricitydomain.PriceTrendsResponse, error) {
	f.trendsReq = req
	return f.trendsResp, f.trendsErr
}

func (f *fakeElectricityService) Create(_ context.Context, _ electricitydomain.CreatePriceRequest) (electricitydomain.Price, error) {
	return f.createResp, f.createErr
}

func (f *fakeElectricityService) Regions(_ context.Context) (electricitydomain.RegionsResponse, error) {
	return f.regionsResp, nil
}

type fakeDamsService struct {
	listResp    damsdomain.ListLevelsResponse
	listErr     error
	currentResp damsdomain.CurrentLevelsResponse
	currentErr  error
	trendsResp  damsdomain.LevelTrendsResponse
	trendsErr   error
	createResp  damsdomain.Level
	createErr   error
	damsResp    damsdomain.DamsResponse
	statesResp  damsdomain.StatesResponse
}

func (f *fakeDamsService) List(_ context.Context, _ damsdomain.ListLevelsRequest) (damsdomain.ListLevelsResponse, error) {
	return f.listResp, f.listErr
}

func (f *fakeDamsService) Current(_ context.Context, _ damsdomain.CurrentLevelsRequest) (damsdomain.CurrentLevelsResponse, error) {
	return f.currentResp, f.currentErr
}

func (f *fakeDamsService) Trends(_ context.Context, _ damsdomain.LevelTrendsRequest) (damsdomain.LevelTrendsResponse, error) {
	return f.trendsResp, f.trendsErr
}

func (f *fakeDamsService) Create(_ context.Context, _ damsdomain.CreateLevelRequest) (damsdomain.Level, error) {
	return f.createResp, f.createErr
}

func (f *fakeDamsService) Dams(_ context.Context, _ damsdomain.DamsRequest) (damsdomain.DamsResponse, error) {
	return f.damsResp, nil
}

func (f *fakeDamsService) States(_ context.Context) (damsdomain.StatesResponse, error) {
	return f.statesResp, nil
}

type fakeRunner struct {
	startResp  collectordomain.StartResponse
	startErr   error
	startCalls int
	status     collectordomain.Status
}

func (f *fakeRunner) Start() (collectordomain.StartResponse, error) {
	f.startCalls++
	return f.startResp, f.startErr
}

func (f *fakeRunner) Status() collectordomain.Status {
	return f.status
}

type serverFixture struct {
	engine *gin.Engine
	db     *gorm.DB
	elec   *fakeElectricityService
	dams   *fakeDamsService
	runner *fakeRunner
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	require.NoError(t, db.Exec(`CREATE TABLE dam_levels (
		id BIGINT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		dam_name VARCHAR(100) NOT NULL,
		state VARCHAR(10) NOT NULL,
		capacity_percentage DOUBLE PRECISION NOT NULL,
		volume_ml DOUBLE PRECISION,
		capacity_ml DOUBLE PRECISION,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error)

	fixture := &serverFixture{
		engine: NewEngine(observability.Config{}, nil),
		db:     db,
		elec:   &fakeElectricityService{},
		dams:   &fakeDamsService{},
		runner: &fakeRunner{},
	}
	NewServer(ServerParams{
		Gin:            fixture.engine,
		Cfg:            config.Config{},
		DB:             db,
		ElectricitySvc: fixture.elec,
		DamsSvc:        fixture.dams,
		ElecRepo:       electricityrepository.Provide(),
		DamRepo:        damsrepository.Provide(),
		Runner:         fixture.runner,
	})
	return fixture
}

func (f *serverFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) get(path string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, path, "")
}

func (f *serverFixture) post(path, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, path, body)
}
