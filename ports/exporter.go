package ports

import (
	"nucgen/domain/event"
	"nucgen/domain/run"
)

// SpectrumExporter writes a run's event list and summary to an external
// workbook format
type SpectrumExporter interface {
	// ExportRun writes one workbook with an event sheet and a summary sheet
	ExportRun(path string, rec *run.SimulationRun, events []event.Event) error
}
