package predictor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleHistory = `# Maintenance History for prop-1
# Format: asset_id|asset_name|asset_type|maintenance_date|maintenance_type

ac-1|Living Room AC|AC|2023-01-10|installation
ac-1|Living Room AC|AC|2023-07-10|maintenance
ac-1|Living Room AC|AC|2024-01-10|maintenance
ac-1|Living Room AC|AC|2024-07-10|maintenance
heater-1|Hallway Heater|HEATER|2024-02-01|installation
`

func writeHistory(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "prop-1_maintenance_history.txt")
	if err := os.WriteFile(path, []byte(sampleHistory), 0644); err != nil {
		t.Fatalf("write history: %v", err)
	}
}

func TestHistoryParsesAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeHistory(t, dir)
	p := New(dir)

	records := p.History("prop-1")
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Fatalf("records not sorted by date")
		}
	}
}

func TestPredictAverageInterval(t *testing.T) {
	dir := t.TempDir()
	writeHistory(t, dir)
	p := New(dir)

	pred := p.Predict("prop-1", "ac-1", "AC")
	// three maintenance events, 182/184 day gaps
	if pred.MaintenanceCount != 3 {
		t.Fatalf("expected 3 maintenance events, got %d", pred.MaintenanceCount)
	}
	if pred.AverageIntervalDays < 180 || pred.AverageIntervalDays > 186 {
		t.Fatalf("expected ~183 day interval, got %v", pred.AverageIntervalDays)
	}
	if pred.Confidence <= 0 || pred.Confidence > 0.85 {
		t.Fatalf("unexpected confidence %v", pred.Confidence)
	}
	if pred.LastMaintenance == nil || !pred.LastMaintenance.Equal(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected last maintenance: %v", pred.LastMaintenance)
	}
}

func TestPredictNoHistoryUsesDefaults(t *testing.T) {
	p := New(t.TempDir())
	pred := p.Predict("prop-9", "heater-1", "HEATER")
	if pred.DaysUntil != 365 {
		t.Fatalf("expected HEATER default interval of 365 days, got %d", pred.DaysUntil)
	}
	if pred.Confidence != 0.3 {
		t.Fatalf("expected low confidence without history, got %v", pred.Confidence)
	}
}

func TestPredictAllCoversEveryAsset(t *testing.T) {
	dir := t.TempDir()
	writeHistory(t, dir)
	p := New(dir)

	preds := p.PredictAll("prop-1")
	if len(preds) != 2 {
		t.Fatalf("expected predictions for 2 assets, got %d", len(preds))
	}
	if preds[0].AssetID != "ac-1" || preds[1].AssetID != "heater-1" {
		t.Fatalf("unexpected asset order: %s, %s", preds[0].AssetID, preds[1].AssetID)
	}
	if preds[0].AssetName != "Living Room AC" {
		t.Fatalf("expected asset name carried over, got %q", preds[0].AssetName)
	}
}

func TestAddRecordInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)

	if got := p.History("prop-2"); len(got) != 0 {
		t.Fatalf("expected empty history, got %d records", len(got))
	}

	err := p.AddRecord("prop-2", Record{
		AssetID:   "wifi-1",
		AssetName: "Router",
		AssetType: "ROUTER",
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:      "installation",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	records := p.History("prop-2")
	if len(records) != 1 || records[0].AssetID != "wifi-1" {
		t.Fatalf("expected new record visible after append, got %+v", records)
	}
}
