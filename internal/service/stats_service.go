// Package service contains application services.
package service

import (
	"sync"

	"github.com/Store-Desk/Storedesk/internal/domain/catalog"
)

// PageStats holds the aggregate statistics derived from one loaded page
// of products. These describe the current page only, not the full
// catalog.
type PageStats struct {
	TotalProducts int     `json:"total_products" yaml:"total_products"`
	AvgPrice      float64 `json:"avg_price" yaml:"avg_price"`
	AvgRating     float64 `json:"avg_rating" yaml:"avg_rating"`
	TotalStock    int     `json:"total_stock" yaml:"total_stock"`
}

// ComputePageStats derives aggregate statistics from the given products:
// count, arithmetic mean of price, arithmetic mean of rating, and stock
// sum. An empty page yields all zeros; no division by zero.
func ComputePageStats(items []catalog.Product) PageStats {
	if len(items) == 0 {
		return PageStats{}
	}

	var totalPrice, totalRating float64
	var totalStock int
	for i := range items {
		totalPrice += items[i].Price
		totalRating += items[i].Rating
		totalStock += items[i].Stock
	}

	n := float64(len(items))
	return PageStats{
		TotalProducts: len(items),
		AvgPrice:      totalPrice / n,
		AvgRating:     totalRating / n,
		TotalStock:    totalStock,
	}
}

// StatsTracker recomputes page statistics whenever the catalog page
// changes. Wire its Update method as a catalog store subscriber; Current
// returns the latest derived snapshot. Safe for concurrent use.
type StatsTracker struct {
	mu      sync.Mutex
	current PageStats
}

// NewStatsTracker creates a tracker with zeroed statistics.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Update recomputes statistics from a catalog snapshot.
func (t *StatsTracker) Update(state catalog.State) {
	stats := ComputePageStats(state.Items)
	t.mu.Lock()
	t.current = stats
	t.mu.Unlock()
}

// Current returns the most recently derived statistics.
func (t *StatsTracker) Current() PageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
