package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want string
	}{
		{"7Days", TimeRange7Days, "7 Days"},
		{"30Days", TimeRange30Days, "30 Days"},
		{"90Days", TimeRange90Days, "90 Days"},
		{"AllTime", TimeRangeAllTime, "All Time"},
		{"Unknown", TimeRange(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("TimeRange.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Days(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want int
	}{
		{"7Days", TimeRange7Days, 7},
		{"30Days", TimeRange30Days, 30},
		{"90Days", TimeRange90Days, 90},
		{"AllTime", TimeRangeAllTime, 0},
		{"Unknown", TimeRange(999), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Days(); got != tt.want {
				t.Errorf("TimeRange.Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Next(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want TimeRange
	}{
		{"7Days -> 30Days", TimeRange7Days, TimeRange30Days},
		{"30Days -> 90Days", TimeRange30Days, TimeRange90Days},
		{"90Days -> AllTime", TimeRange90Days, TimeRangeAllTime},
		{"AllTime -> 7Days", TimeRangeAllTime, TimeRange7Days},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Next(); got != tt.want {
				t.Errorf("TimeRange.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryWindow_Span(t *testing.T) {
	var empty *HistoryWindow
	if empty.HasData() {
		t.Error("nil window should have no data")
	}
	first, last := empty.Span()
	if !first.IsZero() || !last.IsZero() {
		t.Error("nil window span should be zero")
	}

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 4)
	w := &HistoryWindow{Chart: []ChartPoint{{DateKey: d1.UnixMilli()}, {DateKey: d2.UnixMilli()}}}

	first, last = w.Span()
	if !first.Equal(d1) || !last.Equal(d2) {
		t.Errorf("Span() = %v..%v, want %v..%v", first, last, d1, d2)
	}
}
