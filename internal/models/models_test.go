package models

import (
	"testing"
	"time"
)

func TestProgressSnapshot_Total(t *testing.T) {
	p := ProgressSnapshot{Easy: 5, Medium: 2, Hard: 1}
	if got := p.Total(); got != 8 {
		t.Errorf("Total() = %d, want 8", got)
	}
}

func TestProgressSnapshot_Time(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := ProgressSnapshot{Timestamp: ts.UnixMilli()}
	if !p.Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", p.Time(), ts)
	}
	if p.Time().Location() != time.UTC {
		t.Error("Time() should be UTC")
	}
}

func TestMasterySnapshot_Reviewed(t *testing.T) {
	m := MasterySnapshot{Strong: 4, Learning: 2, Weak: 1, Leech: 0, Unknown: 3, Total: 10}
	if got := m.Reviewed(); got != 7 {
		t.Errorf("Reviewed() = %d, want 7", got)
	}
}

func TestTop150Targets(t *testing.T) {
	if got := Top150Targets.Sum(); got != 150 {
		t.Errorf("Top150Targets.Sum() = %d, want 150", got)
	}
}

func TestDashboard_HasData(t *testing.T) {
	var d *Dashboard
	if d.HasData() || d.HasMastery() {
		t.Error("nil dashboard should have no data")
	}

	d = &Dashboard{Current: &ProgressSnapshot{}}
	if !d.HasData() {
		t.Error("dashboard with current snapshot should have data")
	}
	if d.HasMastery() {
		t.Error("dashboard without mastery should report no mastery")
	}
}

func TestChartPoint_HasData(t *testing.T) {
	n := 3
	if (ChartPoint{}).HasData() {
		t.Error("gap point should have no data")
	}
	if !(ChartPoint{Easy: &n, Medium: &n, Hard: &n}).HasData() {
		t.Error("filled point should have data")
	}
}
