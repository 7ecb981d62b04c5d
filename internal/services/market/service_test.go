package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/models"
)

// fakeClient counts calls and serves canned data.
type fakeClient struct {
	quoteCalls  int
	rateCalls   int
	seriesCalls int
	quoteErr    error
	seriesErr   error
	price       float64
	rate        float64
}

func (f *fakeClient) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &models.Quote{Symbol: symbol, Price: f.price, Currency: "USD"}, nil
}

func (f *fakeClient) GetExchangeRate(_ context.Context) (*models.ExchangeRate, error) {
	f.rateCalls++
	return &models.ExchangeRate{Rate: f.rate}, nil
}

func (f *fakeClient) GetIndexSeries(_ context.Context, symbol, _ string) (*models.IndexSeries, error) {
	f.seriesCalls++
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	return &models.IndexSeries{
		Symbol: symbol,
		Bars:   []models.IndexBar{{Date: "2024-01-02", Close: 2600}},
	}, nil
}

// fakeStore is an in-memory MarketDataStore.
type fakeStore struct {
	series map[string]*models.IndexSeries
}

func newFakeStore() *fakeStore {
	return &fakeStore{series: make(map[string]*models.IndexSeries)}
}

func (f *fakeStore) GetIndexSeries(symbol string) (*models.IndexSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (f *fakeStore) SaveIndexSeries(s *models.IndexSeries) error {
	if s.LastUpdated.IsZero() {
		s.LastUpdated = time.Now()
	}
	f.series[s.Symbol] = s
	return nil
}

func (f *fakeStore) ListIndexSeries() ([]string, error) {
	var keys []string
	for k := range f.series {
		keys = append(keys, k)
	}
	return keys, nil
}

func newTestService(client *fakeClient, store *fakeStore) *Service {
	return NewService(client, store, common.NewSilentLogger(), 5*time.Minute)
}

func TestGetQuote_CachesWithinTTL(t *testing.T) {
	client := &fakeClient{price: 190}
	svc := newTestService(client, newFakeStore())
	ctx := context.Background()

	q1, err := svc.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	q2, err := svc.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetQuote cached: %v", err)
	}
	if client.quoteCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", client.quoteCalls)
	}
	if q1.Price != 190 || q2.Price != 190 {
		t.Errorf("unexpected prices: %f, %f", q1.Price, q2.Price)
	}

	// Different symbol bypasses the cached entry
	svc.GetQuote(ctx, "MSFT")
	if client.quoteCalls != 2 {
		t.Errorf("expected 2 provider calls, got %d", client.quoteCalls)
	}
}

func TestGetQuote_RefetchesAfterTTL(t *testing.T) {
	client := &fakeClient{price: 190}
	svc := newTestService(client, newFakeStore())
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	svc.GetQuote(ctx, "AAPL")
	svc.now = func() time.Time { return base.Add(6 * time.Minute) }
	svc.GetQuote(ctx, "AAPL")

	if client.quoteCalls != 2 {
		t.Errorf("expected refetch after TTL, got %d calls", client.quoteCalls)
	}
}

func TestGetQuote_ErrorNotCached(t *testing.T) {
	client := &fakeClient{quoteErr: errors.New("boom")}
	svc := newTestService(client, newFakeStore())
	ctx := context.Background()

	if _, err := svc.GetQuote(ctx, "AAPL"); err == nil {
		t.Fatal("expected error")
	}
	client.quoteErr = nil
	client.price = 200
	q, err := svc.GetQuote(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetQuote after recovery: %v", err)
	}
	if q.Price != 200 {
		t.Errorf("expected fresh quote, got %f", q.Price)
	}
	if client.quoteCalls != 2 {
		t.Errorf("expected 2 calls, got %d", client.quoteCalls)
	}
}

func TestGetExchangeRate_Cached(t *testing.T) {
	client := &fakeClient{rate: 1340}
	svc := newTestService(client, newFakeStore())
	ctx := context.Background()

	svc.GetExchangeRate(ctx)
	fx, err := svc.GetExchangeRate(ctx)
	if err != nil {
		t.Fatalf("GetExchangeRate: %v", err)
	}
	if fx.Rate != 1340 {
		t.Errorf("expected rate 1340, got %f", fx.Rate)
	}
	if client.rateCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", client.rateCalls)
	}
}

func TestGetIndexSeries_FreshCacheSkipsDownload(t *testing.T) {
	client := &fakeClient{}
	store := newFakeStore()
	store.SaveIndexSeries(&models.IndexSeries{
		Symbol:      "^KS11",
		LastUpdated: time.Now(),
		Bars:        []models.IndexBar{{Date: "2024-01-02", Close: 2600}},
	})
	svc := newTestService(client, store)

	series, err := svc.GetIndexSeries(context.Background(), "^KS11", "1y")
	if err != nil {
		t.Fatalf("GetIndexSeries: %v", err)
	}
	if client.seriesCalls != 0 {
		t.Errorf("fresh cache should skip download, got %d calls", client.seriesCalls)
	}
	if len(series.Bars) != 1 {
		t.Errorf("unexpected series: %+v", series)
	}
}

func TestGetIndexSeries_StaleCacheRedownloads(t *testing.T) {
	client := &fakeClient{}
	store := newFakeStore()
	store.SaveIndexSeries(&models.IndexSeries{
		Symbol:      "^KS11",
		LastUpdated: time.Now().Add(-24 * time.Hour),
	})
	svc := newTestService(client, store)

	series, err := svc.GetIndexSeries(context.Background(), "^KS11", "1y")
	if err != nil {
		t.Fatalf("GetIndexSeries: %v", err)
	}
	if client.seriesCalls != 1 {
		t.Errorf("stale cache should trigger download, got %d calls", client.seriesCalls)
	}
	if len(series.Bars) != 1 {
		t.Errorf("expected downloaded bars, got %+v", series)
	}
}

func TestGetIndexSeries_DownloadFailureServesStale(t *testing.T) {
	client := &fakeClient{seriesErr: errors.New("offline")}
	store := newFakeStore()
	store.SaveIndexSeries(&models.IndexSeries{
		Symbol:      "^KS11",
		LastUpdated: time.Now().Add(-24 * time.Hour),
		Bars:        []models.IndexBar{{Date: "2023-12-28", Close: 2580}},
	})
	svc := newTestService(client, store)

	series, err := svc.GetIndexSeries(context.Background(), "^KS11", "1y")
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if len(series.Bars) != 1 || series.Bars[0].Close != 2580 {
		t.Errorf("expected stale series, got %+v", series)
	}
}

func TestGetIndexSeries_NoCacheNoDownloadFails(t *testing.T) {
	client := &fakeClient{seriesErr: errors.New("offline")}
	svc := newTestService(client, newFakeStore())

	if _, err := svc.GetIndexSeries(context.Background(), "^KS11", "1y"); err == nil {
		t.Fatal("expected error with no cache and failed download")
	}
}

func TestRefreshIndexSeries(t *testing.T) {
	client := &fakeClient{}
	store := newFakeStore()
	svc := newTestService(client, store)

	err := svc.RefreshIndexSeries(context.Background(), []string{"^KS11", "^GSPC"}, "1y")
	if err != nil {
		t.Fatalf("RefreshIndexSeries: %v", err)
	}
	if client.seriesCalls != 2 {
		t.Errorf("expected 2 downloads, got %d", client.seriesCalls)
	}
	keys, _ := store.ListIndexSeries()
	if len(keys) != 2 {
		t.Errorf("expected 2 cached series, got %d", len(keys))
	}
}

func TestRefreshIndexSeries_ReportsFailures(t *testing.T) {
	client := &fakeClient{seriesErr: errors.New("offline")}
	svc := newTestService(client, newFakeStore())

	err := svc.RefreshIndexSeries(context.Background(), []string{"^KS11"}, "1y")
	if err == nil {
		t.Fatal("expected error when all refreshes fail")
	}
}
