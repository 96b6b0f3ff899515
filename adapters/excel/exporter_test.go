package excel

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"nucgen/domain/core"
	"nucgen/domain/event"
	"nucgen/domain/run"
)

func sampleRun() *run.SimulationRun {
	rec := run.NewSimulationRun("In114m", core.DeckHash("abc123"), 2, 42, 1e-6, 1)
	rec.EventCount = 2
	rec.RuntimeMS = 7
	rec.Summary = run.Summary{
		Particles: []run.ParticleSummary{{
			Type: "gamma", Count: 2,
			MeanKeV: 251.105, MedianKeV: 251.105,
			MinKeV: 190.27, MaxKeV: 311.94,
			Q1KeV: 190.27, Q3KeV: 311.94, TotalKeV: 502.21,
		}},
		Histogram: &run.Histogram{
			Dividers: []float64{190, 260, 320},
			Counts:   []float64{1, 1},
		},
	}
	return rec
}

func sampleEvents() []event.Event {
	return []event.Event{
		{ChainID: 0, Type: event.Gamma, E: 311.94, W: 1, P: [3]float64{0, 0, 1}},
		{ChainID: 0, Type: event.Gamma, E: 190.27, W: 1, P: [3]float64{1, 0, 0}},
	}
}

func TestExportRunWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := NewExporter().ExportRun(path, sampleRun(), sampleEvents()); err != nil {
		t.Fatalf("ExportRun failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Written workbook does not open: %v", err)
	}
	defer f.Close()

	events, err := f.GetRows("Events")
	if err != nil {
		t.Fatalf("Events sheet missing: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Events sheet has %d rows, want header + 2", len(events))
	}
	if events[0][0] != "chain" || events[0][2] != "E_keV" {
		t.Errorf("Header row mismatch: %v", events[0])
	}
	if events[1][1] != "gamma" {
		t.Errorf("First event type %q, want gamma", events[1][1])
	}
	if events[1][2] != "311.94" {
		t.Errorf("First event energy %q, want 311.94", events[1][2])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("Summary sheet missing: %v", err)
	}
	if summary[1][0] != "nuclide" || summary[1][1] != "In114m" {
		t.Errorf("Summary nuclide row = %v", summary[1])
	}

	// The stats table and histogram land below the parameter block.
	var sawStats, sawHist bool
	for _, row := range summary {
		if len(row) > 1 && row[0] == "gamma" && row[1] == "2" {
			sawStats = true
		}
		if len(row) > 2 && row[0] == "190" && row[2] == "1" {
			sawHist = true
		}
	}
	if !sawStats {
		t.Error("Per-species stats row not found in Summary sheet")
	}
	if !sawHist {
		t.Error("Histogram row not found in Summary sheet")
	}
}

func TestWriteEventsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := WriteEventsCSV(path, sampleEvents()); err != nil {
		t.Fatalf("WriteEventsCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Written csv does not open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Written csv does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CSV has %d rows, want header + 2", len(rows))
	}
	if len(rows[0]) != len(eventHeaders) {
		t.Errorf("CSV header has %d columns, want %d", len(rows[0]), len(eventHeaders))
	}
	if rows[2][2] != "190.27" {
		t.Errorf("Second event energy %q, want 190.27", rows[2][2])
	}
}

func TestLoadGammaForestTolerantOfHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"E_MeV", "sigma"},
		{0.511, 1.0},
		{1.1732, 1.0},
		{"junk", 2.0},
		{2.5045, 2.0},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("Fixture write failed: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Fixture save failed: %v", err)
	}

	forest, err := LoadGammaForest(path, 1000)
	if err != nil {
		t.Fatalf("LoadGammaForest failed: %v", err)
	}
	if forest.Len() != 3 {
		t.Fatalf("Parsed %d lines, want 3 (header and junk skipped)", forest.Len())
	}
	if math.Abs(forest.Energy(0)-511.0) > 1e-9 {
		t.Errorf("First line energy %g keV, want 511", forest.Energy(0))
	}
	if math.Abs(forest.TotalCrossSection()-4.0) > 1e-12 {
		t.Errorf("Total cross-section %g, want 4", forest.TotalCrossSection())
	}

	if _, err := LoadGammaForest(filepath.Join(t.TempDir(), "missing.xlsx"), 1); err == nil {
		t.Error("Missing workbook did not error")
	}
}
