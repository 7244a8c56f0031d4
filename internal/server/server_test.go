package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/render"
	"github.com/hledger-lit/hledger-lit/internal/report"
)

type fakeSource struct {
	balances []model.Balance
	history  model.History
	err      error
	matcher  report.Matcher
	last     hledger.BalanceQuery
}

func (f *fakeSource) Balances(ctx context.Context, q hledger.BalanceQuery) ([]model.Balance, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return report.NewStaticSource(f.balances, f.matcher).Balances(ctx, q)
}

func (f *fakeSource) History(context.Context, hledger.HistoryQuery) (model.History, error) {
	return f.history, f.err
}

func bal(account, amount string) model.Balance {
	return model.Balance{Account: account, Amount: decimal.RequireFromString(amount)}
}

func newTestServer(t *testing.T, src *fakeSource) *Service {
	t.Helper()
	c, err := accounts.NewClassifier(accounts.DefaultCategories(), accounts.MatchSegment)
	require.NoError(t, err)
	src.matcher = c
	reports := report.NewService(src, c, report.Settings{File: "main.journal", Commodity: "£"}, log.New(io.Discard))
	s := NewService(reports, log.New(io.Discard))
	s.now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIndex(t *testing.T) {
	w := get(t, newTestServer(t, &fakeSource{}), "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "plotly")
}

func TestFlows(t *testing.T) {
	src := &fakeSource{balances: []model.Balance{
		bal("income", "-100"),
		bal("expenses", "60"),
		bal("assets", "40"),
	}}
	s := newTestServer(t, src)

	w := get(t, s, "/api/flows/income-expenses?begin=2024-01-01&end=2024-07-01")
	require.Equal(t, http.StatusOK, w.Code)

	var chart render.SankeyChart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.ElementsMatch(t, []string{"pot", "income", "expenses"}, chart.Nodes)
	assert.Len(t, chart.Value, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), src.last.Begin)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), src.last.End)

	w = get(t, s, "/api/flows/all")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.Len(t, chart.Value, 3)
}

func TestDefaultRange(t *testing.T) {
	src := &fakeSource{}
	get(t, newTestServer(t, src), "/api/treemap")
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), src.last.Begin)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), src.last.End)
}

func TestTreemap(t *testing.T) {
	src := &fakeSource{balances: []model.Balance{bal("expenses", "10"), bal("expenses:food", "10"), bal("income", "-10")}}
	w := get(t, newTestServer(t, src), "/api/treemap")
	require.Equal(t, http.StatusOK, w.Code)

	var chart render.TreemapChart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.Equal(t, []string{"expenses", "expenses:food"}, chart.Labels)
	assert.Equal(t, []string{"", "expenses"}, chart.Parents)
}

func TestHistory(t *testing.T) {
	src := &fakeSource{history: model.History{
		Dates:    []time.Time{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		Series:   map[string][]decimal.Decimal{"assets": {decimal.NewFromInt(5)}},
		NetWorth: []decimal.Decimal{decimal.NewFromInt(5)},
	}}
	w := get(t, newTestServer(t, src), "/api/history")
	require.Equal(t, http.StatusOK, w.Code)

	var chart render.SeriesChart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.Equal(t, []string{"2025-01-01"}, chart.Dates)
	assert.Equal(t, []string{"assets", render.NetWorthKey}, chart.Names)
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		src    *fakeSource
		path   string
		status int
		kind   string
	}{
		{
			name:   "invocation",
			src:    &fakeSource{err: &hledger.ExecError{Path: "hledger", ExitCode: 1, Stderr: "bad journal"}},
			path:   "/api/flows/all",
			status: http.StatusBadGateway,
			kind:   "invocation",
		},
		{
			name:   "schema",
			src:    &fakeSource{err: &hledger.SchemaError{Report: "periodic", Reason: "missing prDates"}},
			path:   "/api/history",
			status: http.StatusBadGateway,
			kind:   "schema",
		},
		{
			name:   "invariant",
			src:    &fakeSource{balances: []model.Balance{bal("expenses", "1"), bal("expenses:food:out", "1")}},
			path:   "/api/flows/income-expenses",
			status: http.StatusUnprocessableEntity,
			kind:   "invariant",
		},
		{
			name:   "bad date",
			src:    &fakeSource{},
			path:   "/api/treemap?begin=01/02/2025",
			status: http.StatusBadRequest,
			kind:   "request",
		},
		{
			name:   "reversed range",
			src:    &fakeSource{},
			path:   "/api/treemap?begin=2025-02-01&end=2025-01-01",
			status: http.StatusBadRequest,
			kind:   "request",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(t, newTestServer(t, tc.src), tc.path)
			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tc.kind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestErrorStatus_InvariantFields(t *testing.T) {
	src := &fakeSource{balances: []model.Balance{bal("expenses", "1"), bal("expenses:food:out", "1")}}
	w := get(t, newTestServer(t, src), "/api/flows/all")
	body := decode(t, w)
	assert.Equal(t, "expenses:food:out", body["account"])
	assert.Equal(t, "expenses:food", body["parent"])
}

func TestHistory_Offline(t *testing.T) {
	c, err := accounts.NewClassifier(accounts.DefaultCategories(), accounts.MatchSegment)
	require.NoError(t, err)
	reports := report.NewService(report.NewStaticSource(nil, c), c, report.Settings{}, log.New(io.Discard))

	w := httptest.NewRecorder()
	NewService(reports, log.New(io.Discard)).Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_Shutdown(t *testing.T) {
	s := newTestServer(t, &fakeSource{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
