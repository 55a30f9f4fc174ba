// Package predictor estimates the next maintenance date for a property's
// assets from the average interval between past maintenance events. History
// lives in pipe-delimited text files:
//
//	asset_id|asset_name|asset_type|YYYY-MM-DD|installation|maintenance|repair
package predictor

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultIntervalDays = 180

var defaultIntervals = map[string]int{
	"AC":         180,
	"HEATER":     365,
	"LIGHTS":     365,
	"PLUMBING":   180,
	"APPLIANCES": 365,
	"ROUTER":     180,
}

// Record is one maintenance history entry.
type Record struct {
	AssetID   string
	AssetName string
	AssetType string
	Date      time.Time
	Type      string // installation, maintenance or repair
}

// Prediction for one asset.
type Prediction struct {
	AssetID             string     `json:"asset_id"`
	AssetName           string     `json:"asset_name,omitempty"`
	AssetType           string     `json:"asset_type,omitempty"`
	PredictedDate       time.Time  `json:"predicted_date"`
	Confidence          float64    `json:"confidence"`
	DaysUntil           int        `json:"days_until"`
	Reasoning           string     `json:"reasoning"`
	LastMaintenance     *time.Time `json:"last_maintenance,omitempty"`
	AverageIntervalDays float64    `json:"average_interval_days"`
	MaintenanceCount    int        `json:"maintenance_count"`
}

// Predictor loads and caches per-property history files from dataDir.
type Predictor struct {
	dataDir string

	mu    sync.Mutex
	cache map[string][]Record
}

func New(dataDir string) *Predictor {
	return &Predictor{dataDir: dataDir, cache: make(map[string][]Record)}
}

func (p *Predictor) historyFile(propertyID string) string {
	return filepath.Join(p.dataDir, fmt.Sprintf("%s_maintenance_history.txt", propertyID))
}

// History returns the property's maintenance records sorted by date.
func (p *Predictor) History(propertyID string) []Record {
	p.mu.Lock()
	if recs, ok := p.cache[propertyID]; ok {
		p.mu.Unlock()
		return recs
	}
	p.mu.Unlock()

	path := p.historyFile(propertyID)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[predictor] maintenance history file not found: %s", path)
		return nil
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(parts[3]))
		if err != nil {
			continue
		}
		records = append(records, Record{
			AssetID:   strings.TrimSpace(parts[0]),
			AssetName: strings.TrimSpace(parts[1]),
			AssetType: strings.TrimSpace(parts[2]),
			Date:      date,
			Type:      strings.TrimSpace(parts[4]),
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	p.mu.Lock()
	p.cache[propertyID] = records
	p.mu.Unlock()
	return records
}

// Predict estimates the next maintenance date for one asset.
func (p *Predictor) Predict(propertyID, assetID, assetType string) Prediction {
	var assetHistory []Record
	for _, r := range p.History(propertyID) {
		if r.AssetID == assetID {
			assetHistory = append(assetHistory, r)
		}
	}

	now := time.Now()
	if len(assetHistory) == 0 {
		days := defaultIntervalDays
		if d, ok := defaultIntervals[assetType]; ok {
			days = d
		}
		return Prediction{
			AssetID:             assetID,
			AssetType:           assetType,
			PredictedDate:       now.AddDate(0, 0, days),
			Confidence:          0.3,
			DaysUntil:           days,
			Reasoning:           fmt.Sprintf("No maintenance history found. Using default interval of %d days.", days),
			AverageIntervalDays: float64(days),
		}
	}

	lastDate := assetHistory[len(assetHistory)-1].Date

	var maintenanceDates []time.Time
	var installDates []time.Time
	for _, r := range assetHistory {
		switch r.Type {
		case "maintenance", "repair":
			maintenanceDates = append(maintenanceDates, r.Date)
		case "installation":
			installDates = append(installDates, r.Date)
		}
	}

	var interval float64
	if len(maintenanceDates) < 2 {
		interval = defaultIntervalDays
		if len(installDates) > 0 {
			daysSinceInstall := now.Sub(installDates[0]).Hours() / 24
			switch assetType {
			case "AC":
				interval = math.Max(180, daysSinceInstall/2)
			case "HEATER":
				interval = math.Max(365, daysSinceInstall/2)
			}
		}
	} else {
		interval = averageIntervalDays(maintenanceDates)
	}

	predicted := lastDate.AddDate(0, 0, int(interval))
	daysUntil := int(predicted.Sub(now).Hours() / 24)

	confidence := 0.45
	switch {
	case len(maintenanceDates) >= 4:
		confidence = 0.85
	case len(maintenanceDates) >= 2:
		confidence = 0.65
	}

	reasoning := fmt.Sprintf("Based on %d maintenance records, average interval is %.0f days. Last maintenance: %s.",
		len(maintenanceDates), interval, lastDate.Format("2006-01-02"))
	if daysUntil < 0 {
		confidence *= 0.7
		reasoning = "Predicted date has passed. " + reasoning
	}

	last := lastDate
	return Prediction{
		AssetID:             assetID,
		AssetType:           assetType,
		PredictedDate:       predicted,
		Confidence:          math.Round(confidence*100) / 100,
		DaysUntil:           daysUntil,
		Reasoning:           reasoning,
		LastMaintenance:     &last,
		AverageIntervalDays: math.Round(interval*10) / 10,
		MaintenanceCount:    len(maintenanceDates),
	}
}

// PredictAll predicts for every asset seen in the property's history.
func (p *Predictor) PredictAll(propertyID string) []Prediction {
	history := p.History(propertyID)

	seen := map[string]Record{}
	var order []string
	for _, r := range history {
		if _, ok := seen[r.AssetID]; !ok {
			seen[r.AssetID] = r
			order = append(order, r.AssetID)
		}
	}

	var predictions []Prediction
	for _, id := range order {
		info := seen[id]
		pred := p.Predict(propertyID, id, info.AssetType)
		pred.AssetName = info.AssetName
		predictions = append(predictions, pred)
	}
	log.Printf("[predictor] generated %d predictions for property %s", len(predictions), propertyID)
	return predictions
}

// AddRecord appends a record to the property's history file and invalidates
// the cached history.
func (p *Predictor) AddRecord(propertyID string, r Record) error {
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return err
	}
	path := p.historyFile(propertyID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		header := fmt.Sprintf("# Maintenance History for %s\n# Format: asset_id|asset_name|asset_type|maintenance_date|maintenance_type\n\n", propertyID)
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s|%s|%s|%s|%s\n", r.AssetID, r.AssetName, r.AssetType, r.Date.Format("2006-01-02"), r.Type)
	if _, err := f.WriteString(line); err != nil {
		return err
	}

	p.mu.Lock()
	delete(p.cache, propertyID)
	p.mu.Unlock()
	return nil
}

func averageIntervalDays(dates []time.Time) float64 {
	if len(dates) < 2 {
		return defaultIntervalDays
	}
	var intervals []float64
	for i := 1; i < len(dates); i++ {
		delta := dates[i].Sub(dates[i-1]).Hours() / 24
		if delta > 0 {
			intervals = append(intervals, delta)
		}
	}
	if len(intervals) == 0 {
		return defaultIntervalDays
	}
	var sum float64
	for _, d := range intervals {
		sum += d
	}
	return sum / float64(len(intervals))
}
