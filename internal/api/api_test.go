package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PremiumSentinel/internal/advisor"
	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/credential"
	"PremiumSentinel/internal/fund"
	"PremiumSentinel/internal/metrics"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/strategy"
)

type fakeService struct {
	key        strategy.SortKey
	dir        strategy.SortDir
	days       int
	analyzeErr error
}

func (f *fakeService) Ranking(_ context.Context, key strategy.SortKey, dir strategy.SortDir) model.Ranking {
	f.key, f.dir = key, dir
	return model.Ranking{Rows: []model.RankingRow{{Ticker: "513100", Score: 70}}}
}

func (f *fakeService) Detail(_ context.Context, ticker string, days int) (model.FundDetail, error) {
	if ticker != "513100" {
		return model.FundDetail{}, fmt.Errorf("lookup %s: %w", ticker, fund.ErrUnknownFund)
	}
	f.days = days
	return model.FundDetail{Profile: model.FundProfile{Ticker: ticker}, WindowDays: days}, nil
}

func (f *fakeService) Import(r io.Reader, days int) (model.FundDetail, error) {
	points, err := calculator.ParseCSV(r)
	if err != nil {
		return model.FundDetail{}, err
	}
	return model.FundDetail{WindowDays: days, Points: points}, nil
}

func (f *fakeService) Analyze(_ context.Context, ticker string) (string, error) {
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	return "**观望**", nil
}

type memCreds struct {
	value string
	err   error
}

func (m *memCreds) Get() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.value == "" {
		return "", credential.ErrNotFound
	}
	return m.value, nil
}

func (m *memCreds) Set(v string) error {
	m.value = v
	return nil
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	var resp APIResponse
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func newTestServer(svc *fakeService, creds *memCreds) *Server {
	return NewServer(":0", NewHandler(svc, creds), prometheus.NewRegistry())
}

func TestRanking_SortParams(t *testing.T) {
	svc := &fakeService{}
	rec, resp := do(t, newTestServer(svc, &memCreds{}), http.MethodGet, "/api/funds?sort=premium&dir=asc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, strategy.SortByPremium, svc.key)
	assert.Equal(t, strategy.SortAsc, svc.dir)

	do(t, newTestServer(svc, &memCreds{}), http.MethodGet, "/api/funds?sort=bogus", "")
	assert.Equal(t, strategy.SortByScore, svc.key)
	assert.Equal(t, strategy.SortDesc, svc.dir)
}

func TestDetail(t *testing.T) {
	svc := &fakeService{}
	s := newTestServer(svc, &memCreds{})

	rec, _ := do(t, s, http.MethodGet, "/api/funds/513100", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strategy.DefaultTimeRange, svc.days)

	rec, _ = do(t, s, http.MethodGet, "/api/funds/513100?days=30", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, svc.days)

	rec, _ = do(t, s, http.MethodGet, "/api/funds/513100?days=45", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := do(t, s, http.MethodGet, "/api/funds/000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, resp.Message, "000000")
}

func TestImport(t *testing.T) {
	s := newTestServer(&fakeService{}, &memCreds{})

	rec, _ := do(t, s, http.MethodPost, "/api/import?days=90", "date,price,ref_date,nav\n2024-01-02,1.03,2024-01-01,1.00\n2024-01-03,1.01,2024-01-02,1.00\n")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data model.FundDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 90, body.Data.WindowDays)
	require.Len(t, body.Data.Points, 2)
	assert.Equal(t, 3.0, body.Data.Points[0].PremiumRate)

	rec, _ = do(t, s, http.MethodPost, "/api/import", "garbage\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysis_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"ok", nil, http.StatusOK, "OK"},
		{"missing credential", advisor.ErrMissingCredential, http.StatusPreconditionRequired, credential.Key},
		{"generic failure", errors.New("quota exceeded"), http.StatusBadGateway, advisor.ErrAnalysisFailed.Error()},
		{"unknown fund", fund.ErrUnknownFund, http.StatusNotFound, "unknown fund"},
		{"no data", advisor.ErrNoData, http.StatusUnprocessableEntity, advisor.ErrNoData.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeService{analyzeErr: tt.err}, &memCreds{})
			rec, resp := do(t, s, http.MethodPost, "/api/funds/513100/analysis", "")
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, resp.Message, tt.message)
			assert.NotContains(t, rec.Body.String(), "quota")
		})
	}
}

func TestCredential(t *testing.T) {
	creds := &memCreds{}
	s := newTestServer(&fakeService{}, creds)

	_, resp := do(t, s, http.MethodGet, "/api/credential", "")
	assert.Equal(t, map[string]any{"configured": false}, resp.Data)

	rec, _ := do(t, s, http.MethodPut, "/api/credential", `{"api_key":"AIzaSyExampleKey1234"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "AIzaSyExampleKey1234", creds.value)

	rec, _ = do(t, s, http.MethodGet, "/api/credential", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "AIzaSyExampleKey1234")
	assert.Contains(t, rec.Body.String(), `"configured":true`)

	rec, _ = do(t, s, http.MethodPut, "/api/credential", `{bad`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RecordSignal("513100", 1.2, 70)
	s := NewServer(":0", NewHandler(&fakeService{}, &memCreds{}), reg)

	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	s.Echo().ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), "513100")
}

func TestRecover(t *testing.T) {
	s := NewServer(":0", nil, prometheus.NewRegistry())
	s.Echo().GET("/panic", func(c echo.Context) error { panic("boom") })
	rec, resp := do(t, s, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 500, resp.Status)
}
