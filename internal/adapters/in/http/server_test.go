package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "pricing/internal/adapters/in/http"
	"pricing/internal/core/application/engine"
	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/domain/services"
	"pricing/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Suggest(ctx context.Context, req engine.SuggestRequest) ([]services.Suggestion, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).([]services.Suggestion)
	return s, args.Error(1)
}

func (m *mockEngine) RefreshDemand(ctx context.Context, loc kernel.Location, force bool) (*demand.Record, error) {
	args := m.Called(ctx, loc, force)
	r, _ := args.Get(0).(*demand.Record)
	return r, args.Error(1)
}

func (m *mockEngine) BatchDemand(ctx context.Context, locs []kernel.Location) ([]*demand.Record, error) {
	args := m.Called(ctx, locs)
	r, _ := args.Get(0).([]*demand.Record)
	return r, args.Error(1)
}

func (m *mockEngine) DemandHistory(ctx context.Context, loc kernel.Location, days int) (demand.History, error) {
	args := m.Called(ctx, loc, days)
	h, _ := args.Get(0).(demand.History)
	return h, args.Error(1)
}

func (m *mockEngine) SeedDefaultTiers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockEngine) ListActiveTiers(ctx context.Context) ([]*tier.Tier, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]*tier.Tier)
	return t, args.Error(1)
}

func (m *mockEngine) IsFresh(rec *demand.Record) bool {
	return m.Called(rec).Bool(0)
}

type mockCouriers struct {
	mock.Mock
}

func (m *mockCouriers) MarkAvailable(ctx context.Context, courierID string, loc kernel.Location) error {
	return m.Called(ctx, courierID, loc).Error(0)
}

func (m *mockCouriers) MarkUnavailable(ctx context.Context, courierID string) error {
	return m.Called(ctx, courierID).Error(0)
}

type fixture struct {
	echo     *echo.Echo
	engine   *mockEngine
	couriers *mockCouriers
}

func newFixture() fixture {
	f := fixture{echo: echo.New(), engine: &mockEngine{}, couriers: &mockCouriers{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpin.NewServer(f.engine, f.couriers, logger).RegisterRoutes(f.echo)
	return f
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpin.Error {
	t.Helper()
	var e httpin.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func sampleRecord(t *testing.T) *demand.Record {
	t.Helper()
	rec, err := demand.NewRecord(kernel.NewUUID(), "28.05,-26.20",
		demand.Counts{AvailableCouriers: 2, ActiveDemand: 8, CompletedDeliveries: 3},
		time.Date(2026, 3, 1, 10, 20, 0, 0, time.UTC))
	require.NoError(t, err)
	return rec
}

const suggestBody = `{
	"pickup": {"longitude": 28.0473, "latitude": -26.2041},
	"dropoff": {"longitude": 28.2293, "latitude": -25.7479},
	"distance_km": 50,
	"package_size": "Medium",
	"is_fragile": true
}`

func TestHealth(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestSuggestPricing_OK(t *testing.T) {
	f := newFixture()
	f.engine.On("Suggest", mock.Anything, mock.MatchedBy(func(req engine.SuggestRequest) bool {
		return req.DistanceKm != nil && *req.DistanceKm == 50 &&
			req.Parcel == parcel.Parcel{Size: parcel.Medium, Fragile: true} &&
			req.Pickup.Bucket() == "28.05,-26.20" &&
			req.RequestedAt == nil
	})).Return([]services.Suggestion{{
		TierType:          tier.Fastest,
		TierName:          "Priority",
		BasePrice:         decimal.RequireFromString("135"),
		DemandMultiplier:  1.0,
		UrgencyMultiplier: 1.0,
		FinalPrice:        decimal.RequireFromString("405"),
		SurgeAmount:       decimal.RequireFromString("270"),
		PlatformFee:       decimal.RequireFromString("162"),
		CourierEarnings:   decimal.RequireFromString("243"),
		EstimatedDelivery: "1-2 hours",
		DemandLevel:       demand.LevelNormal,
		SLAGuarantee:      99,
		Confidence:        0.9,
	}}, nil)

	rec := f.do(http.MethodPost, "/api/v1/pricing/suggestions", suggestBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions": [{
		"tier_type": "FASTEST",
		"tier_name": "Priority",
		"base_price": 135.00,
		"demand_multiplier": 1,
		"urgency_multiplier": 1,
		"final_price": 405.00,
		"surge_amount": 270.00,
		"platform_fee": 162.00,
		"courier_earnings": 243.00,
		"estimated_delivery": "1-2 hours",
		"demand_level": "NORMAL",
		"sla_guarantee": 99,
		"confidence": 0.9
	}]}`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"final_price":405.00`)
}

func TestSuggestPricing_EmptyCatalog(t *testing.T) {
	f := newFixture()
	f.engine.On("Suggest", mock.Anything, mock.Anything).Return([]services.Suggestion{}, nil)

	rec := f.do(http.MethodPost, "/api/v1/pricing/suggestions", suggestBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions": []}`, rec.Body.String())
}

func TestSuggestPricing_InputErrors(t *testing.T) {
	tests := map[string]string{
		"malformed json":   `{"pickup": `,
		"missing pickup":   `{"dropoff": {"longitude": 1, "latitude": 1}, "package_size": "small"}`,
		"missing latitude": `{"pickup": {"longitude": 1}, "dropoff": {"longitude": 1, "latitude": 1}, "package_size": "small"}`,
		"latitude range":   `{"pickup": {"longitude": 1, "latitude": 91}, "dropoff": {"longitude": 1, "latitude": 1}, "package_size": "small"}`,
		"unknown size":     `{"pickup": {"longitude": 1, "latitude": 1}, "dropoff": {"longitude": 1, "latitude": 1}, "package_size": "huge"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodPost, "/api/v1/pricing/suggestions", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
			f.engine.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
		})
	}
}

func TestSuggestPricing_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"input", errs.NewValueIsOutOfRangeError("distance", -1, 0, "+inf"), http.StatusBadRequest},
		{"upstream", errs.NewUpstreamQueryError("count couriers", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.engine.On("Suggest", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := f.do(http.MethodPost, "/api/v1/pricing/suggestions", suggestBody)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRefreshDemand(t *testing.T) {
	f := newFixture()
	record := sampleRecord(t)
	f.engine.On("RefreshDemand", mock.Anything, mock.MatchedBy(func(loc kernel.Location) bool {
		return loc.Bucket() == "28.05,-26.20"
	}), true).Return(record, nil)
	f.engine.On("IsFresh", record).Return(true)

	rec := f.do(http.MethodPost, "/api/v1/demand/refresh",
		`{"location": {"longitude": 28.0473, "latitude": -26.2041}, "force_update": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpin.DemandRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "28.05,-26.20", body.LocationBucket)
	assert.Equal(t, 2, body.AvailableCouriers)
	assert.Equal(t, 8, body.ActiveDemand)
	assert.InDelta(t, 2.5, body.DemandMultiplier, 1e-9)
	assert.Equal(t, "VERY_HIGH", body.DemandLevel)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), body.TimeSlot)
	assert.True(t, body.IsFresh)
}

func TestRefreshDemand_MissingLocation(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/demand/refresh", `{"force_update": true}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchDemand(t *testing.T) {
	f := newFixture()
	record := sampleRecord(t)
	f.engine.On("BatchDemand", mock.Anything, mock.MatchedBy(func(locs []kernel.Location) bool {
		return len(locs) == 2
	})).Return([]*demand.Record{record}, nil)
	f.engine.On("IsFresh", record).Return(false)

	rec := f.do(http.MethodPost, "/api/v1/demand/batch", `{"locations": [
		{"longitude": 28.0473, "latitude": -26.2041},
		{"longitude": 18.4241, "latitude": -33.9249}
	]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body httpin.DemandBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.False(t, body.Records[0].IsFresh)
}

func TestBatchDemand_TooManyLocations(t *testing.T) {
	f := newFixture()
	locs := make([]string, httpin.MaxBatchLocations+1)
	for i := range locs {
		locs[i] = `{"longitude": 1, "latitude": 1}`
	}

	rec := f.do(http.MethodPost, "/api/v1/demand/batch", `{"locations": [`+strings.Join(locs, ",")+`]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDemandHistory(t *testing.T) {
	f := newFixture()
	f.engine.On("DemandHistory", mock.Anything, mock.MatchedBy(func(loc kernel.Location) bool {
		return loc.Bucket() == "28.05,-26.20"
	}), 14).Return(demand.History{
		Bucket:            "28.05,-26.20",
		DaysAnalysed:      14,
		Samples:           40,
		AverageMultiplier: 1.35,
		PeakMultiplier:    2.5,
		AverageCouriers:   6.5,
		AverageDemand:     9.25,
		PeakHours:         []int{8, 17, 18},
	}, nil)

	rec := f.do(http.MethodGet, "/api/v1/demand/history?longitude=28.0473&latitude=-26.2041&days=14", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"location_bucket": "28.05,-26.20",
		"days_analysed": 14,
		"samples": 40,
		"average_multiplier": 1.35,
		"peak_multiplier": 2.5,
		"average_couriers": 6.5,
		"average_demand": 9.25,
		"peak_hours": [8, 17, 18]
	}`, rec.Body.String())
}

func TestDemandHistory_DefaultWindow(t *testing.T) {
	f := newFixture()
	f.engine.On("DemandHistory", mock.Anything, mock.Anything, 0).
		Return(demand.History{Bucket: "1.00,1.00", DaysAnalysed: demand.DefaultHistoryDays}, nil)

	rec := f.do(http.MethodGet, "/api/v1/demand/history?longitude=1&latitude=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"peak_hours":[]`)
	f.engine.AssertExpectations(t)
}

func TestDemandHistory_Errors(t *testing.T) {
	tests := map[string]struct {
		query string
		err   error
		code  int
	}{
		"missing latitude":  {query: "longitude=1", code: http.StatusBadRequest},
		"malformed days":    {query: "longitude=1&latitude=1&days=week", code: http.StatusBadRequest},
		"latitude range":    {query: "longitude=1&latitude=95", code: http.StatusBadRequest},
		"window range":      {query: "longitude=1&latitude=1&days=31", err: errs.NewValueIsOutOfRangeError("days", 31, 1, 30), code: http.StatusBadRequest},
		"store unavailable": {query: "longitude=1&latitude=1", err: errs.NewUpstreamQueryError("load demand history", errors.New("db down")), code: http.StatusServiceUnavailable},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			if tt.err != nil {
				f.engine.On("DemandHistory", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := f.do(http.MethodGet, "/api/v1/demand/history?"+tt.query, "")

			assert.Equal(t, tt.code, rec.Code)
			if tt.err == nil {
				f.engine.AssertNotCalled(t, "DemandHistory", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestListTiers(t *testing.T) {
	f := newFixture()
	var tiers []*tier.Tier
	for _, attrs := range tier.DefaultCatalog() {
		tr, err := tier.NewTier(kernel.NewUUID(), attrs)
		require.NoError(t, err)
		tiers = append(tiers, tr)
	}
	f.engine.On("ListActiveTiers", mock.Anything).Return(tiers, nil)

	rec := f.do(http.MethodGet, "/api/v1/tiers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []httpin.Tier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 4)
	assert.Equal(t, "FASTEST", body[0].Type)
	assert.Equal(t, "ECONOMY", body[3].Type)
}

func TestListTiers_Empty(t *testing.T) {
	f := newFixture()
	f.engine.On("ListActiveTiers", mock.Anything).Return([]*tier.Tier{}, nil)

	rec := f.do(http.MethodGet, "/api/v1/tiers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSeedTiers(t *testing.T) {
	f := newFixture()
	f.engine.On("SeedDefaultTiers", mock.Anything).Return(4, nil)

	rec := f.do(http.MethodPost, "/api/v1/tiers/seed", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"created": 4}`, rec.Body.String())
}

func TestCourierAvailability(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID().String()
	f.couriers.On("MarkAvailable", mock.Anything, id, mock.Anything).Return(nil)
	f.couriers.On("MarkUnavailable", mock.Anything, id).Return(nil)

	rec := f.do(http.MethodPut, "/api/v1/couriers/"+id+"/availability",
		`{"location": {"longitude": 28.0473, "latitude": -26.2041}}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodDelete, "/api/v1/couriers/"+id+"/availability", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.couriers.AssertExpectations(t)
}

func TestCourierAvailability_Errors(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID().String()
	f.couriers.On("MarkUnavailable", mock.Anything, id).Return(errors.New("connection refused"))

	rec := f.do(http.MethodDelete, "/api/v1/couriers/not-a-uuid/availability", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodDelete, "/api/v1/couriers/"+id+"/availability", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListTiers_InvalidStoredRowIsUpstreamFailure(t *testing.T) {
	f := newFixture()
	attrs := tier.DefaultCatalog()[0]
	attrs.PlatformFeePercentage = 60
	_, restoreErr := tier.RestoreTier(kernel.NewUUID(), attrs, true)
	require.Error(t, restoreErr)
	f.engine.On("ListActiveTiers", mock.Anything).
		Return(nil, errs.NewUpstreamQueryError("list active tiers", restoreErr))

	rec := f.do(http.MethodGet, "/api/v1/tiers", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusServiceUnavailable, decodeError(t, rec).Code)
}
