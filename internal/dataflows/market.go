package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// QuoteSnapshot is the slice of a live quote the alert generator needs.
type QuoteSnapshot struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// MarketClient fetches quote snapshots with a short-lived file cache.
type MarketClient struct {
	cache *CacheManager
}

func NewMarketClient(cacheDir string, cacheEnabled bool) *MarketClient {
	cache := NewCacheManager(filepath.Join(cacheDir, "quotes"), 15*time.Minute, cacheEnabled)
	return &MarketClient{cache: cache}
}

// GetQuote returns a snapshot for symbol, served from cache when fresh.
func (mc *MarketClient) GetQuote(symbol string) (*QuoteSnapshot, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached QuoteSnapshot
	if mc.cache.Get("finance", "quote", symbol, &cached) {
		return &cached, nil
	}

	var snapshot *QuoteSnapshot
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("get quote for %s: %w", symbol, err)
		}
		snapshot = &QuoteSnapshot{
			Symbol:        symbol,
			Name:          q.ShortName,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			Change:        decimal.NewFromFloat(q.RegularMarketChange),
			ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
			FetchedAt:     time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	mc.cache.Set("finance", "quote", symbol, snapshot)
	return snapshot, nil
}

// GetQuotes fetches snapshots for several symbols, skipping failures.
func (mc *MarketClient) GetQuotes(symbols []string) []*QuoteSnapshot {
	var snapshots []*QuoteSnapshot
	for _, symbol := range symbols {
		snapshot, err := mc.GetQuote(symbol)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}
