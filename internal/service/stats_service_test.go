package service

import (
	"math"
	"testing"

	"github.com/Store-Desk/Storedesk/internal/domain/catalog"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputePageStats(t *testing.T) {
	tests := []struct {
		name  string
		items []catalog.Product
		want  PageStats
	}{
		{
			name:  "empty page is all zeros",
			items: nil,
			want:  PageStats{},
		},
		{
			name: "single product",
			items: []catalog.Product{
				{ID: 1, Price: 9.99, Rating: 4.5, Stock: 7},
			},
			want: PageStats{TotalProducts: 1, AvgPrice: 9.99, AvgRating: 4.5, TotalStock: 7},
		},
		{
			name: "averages over the page",
			items: []catalog.Product{
				{ID: 1, Price: 10, Rating: 3, Stock: 5},
				{ID: 2, Price: 20, Rating: 4, Stock: 10},
				{ID: 3, Price: 30, Rating: 5, Stock: 0},
			},
			want: PageStats{TotalProducts: 3, AvgPrice: 20, AvgRating: 4, TotalStock: 15},
		},
		{
			name: "zero-valued fields count toward the mean",
			items: []catalog.Product{
				{ID: 1, Price: 100, Rating: 5, Stock: 1},
				{ID: 2},
			},
			want: PageStats{TotalProducts: 2, AvgPrice: 50, AvgRating: 2.5, TotalStock: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePageStats(tt.items)
			if got.TotalProducts != tt.want.TotalProducts ||
				got.TotalStock != tt.want.TotalStock ||
				!almostEqual(got.AvgPrice, tt.want.AvgPrice) ||
				!almostEqual(got.AvgRating, tt.want.AvgRating) {
				t.Errorf("ComputePageStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatsTracker_Update(t *testing.T) {
	tracker := NewStatsTracker()

	if got := tracker.Current(); got != (PageStats{}) {
		t.Errorf("initial stats = %+v, want zeros", got)
	}

	tracker.Update(catalog.State{Items: []catalog.Product{
		{ID: 1, Price: 10, Rating: 4, Stock: 3},
		{ID: 2, Price: 30, Rating: 2, Stock: 7},
	}})

	got := tracker.Current()
	want := PageStats{TotalProducts: 2, AvgPrice: 20, AvgRating: 3, TotalStock: 10}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}

	// A page change back to empty resets the derived values.
	tracker.Update(catalog.State{})
	if got := tracker.Current(); got != (PageStats{}) {
		t.Errorf("Current() after empty page = %+v, want zeros", got)
	}
}
