// Package excel writes simulation output to xlsx workbooks and csv files,
// and reads gamma-forest line lists back out of workbooks.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"nucgen/domain/event"
	"nucgen/domain/run"
	"nucgen/ports"
)

const (
	eventsSheet  = "Events"
	summarySheet = "Summary"
)

// eventHeaders lays out the event table columns in both output formats.
var eventHeaders = []string{
	"chain", "type", "E_keV", "t_s", "weight",
	"x", "y", "z", "px", "py", "pz",
}

// Exporter writes one workbook per run: an Events sheet listing every
// emitted particle and a Summary sheet with the run parameters,
// per-species statistics, and the energy histogram.
type Exporter struct{}

var _ ports.SpectrumExporter = (*Exporter)(nil)

// NewExporter returns a workbook exporter.
func NewExporter() *Exporter { return &Exporter{} }

// ExportRun writes the workbook to path, overwriting any existing file.
func (e *Exporter) ExportRun(path string, rec *run.SimulationRun, events []event.Event) error {
	f := excelize.NewFile()

	// The fresh workbook opens with Sheet1; repurpose it for the event table.
	if err := f.SetSheetName("Sheet1", eventsSheet); err != nil {
		return fmt.Errorf("excel export: %w", err)
	}
	if err := writeEventSheet(f, events); err != nil {
		return fmt.Errorf("excel export: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("excel export: %w", err)
	}
	if err := writeSummarySheet(f, rec); err != nil {
		return fmt.Errorf("excel export: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel export: %w", err)
	}
	return nil
}

func writeEventSheet(f *excelize.File, events []event.Event) error {
	for i, h := range eventHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(eventsSheet, cell, h); err != nil {
			return err
		}
	}

	for r, ev := range events {
		row := r + 2
		cols := []interface{}{
			ev.ChainID, ev.Type.String(), ev.E, ev.T, ev.W,
			ev.X[0], ev.X[1], ev.X[2],
			ev.P[0], ev.P[1], ev.P[2],
		}
		for c, v := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(eventsSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rec *run.SimulationRun) error {
	params := [][2]interface{}{
		{"run", rec.ID.String()},
		{"nuclide", rec.Nuclide},
		{"deck_hash", rec.DeckHash.String()},
		{"chains", rec.Chains},
		{"seed", rec.Seed},
		{"cutoff_s", rec.CutoffS},
		{"workers", rec.Workers},
		{"events", rec.EventCount},
		{"runtime_ms", rec.RuntimeMS},
		{"fingerprint", rec.Fingerprint().String()},
	}
	row := 1
	for _, p := range params {
		key, _ := excelize.CoordinatesToCellName(1, row)
		val, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(summarySheet, key, p[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, val, p[1]); err != nil {
			return err
		}
		row++
	}

	row++
	statHeaders := []string{
		"particle", "count", "mean_keV", "median_keV",
		"min_keV", "max_keV", "q1_keV", "q3_keV", "total_keV",
	}
	for i, h := range statHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	row++
	for _, p := range rec.Summary.Particles {
		cols := []interface{}{
			p.Type, p.Count, p.MeanKeV, p.MedianKeV,
			p.MinKeV, p.MaxKeV, p.Q1KeV, p.Q3KeV, p.TotalKeV,
		}
		for c, v := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	hist := rec.Summary.Histogram
	if hist == nil || len(hist.Counts) == 0 {
		return nil
	}
	row++
	for i, h := range []string{"E_low_keV", "E_high_keV", "count"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	row++
	for i, count := range hist.Counts {
		cols := []interface{}{hist.Dividers[i], hist.Dividers[i+1], count}
		for c, v := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// WriteEventsCSV writes the event table as csv, one particle per row with
// the same columns as the workbook's Events sheet.
func WriteEventsCSV(path string, events []event.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(eventHeaders); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	for _, ev := range events {
		row := []string{
			strconv.FormatInt(ev.ChainID, 10),
			ev.Type.String(),
			fStr(ev.E), fStr(ev.T), fStr(ev.W),
			fStr(ev.X[0]), fStr(ev.X[1]), fStr(ev.X[2]),
			fStr(ev.P[0]), fStr(ev.P[1]), fStr(ev.P[2]),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
	}
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	return nil
}

func fStr(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
