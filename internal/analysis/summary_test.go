package analysis

import (
	"math"
	"testing"

	"nucgen/domain/event"
)

func TestSummarize(t *testing.T) {
	events := []event.Event{
		{Type: event.Gamma, E: 100},
		{Type: event.Gamma, E: 300},
		{Type: event.Electron, E: 50},
		{Type: event.Electron, E: 150},
		{Type: event.Electron, E: 250},
		{Type: event.Electron, E: 350},
	}
	summary, err := Summarize(events, 4)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if len(summary.Particles) != 2 {
		t.Fatalf("Summarized %d species, want 2", len(summary.Particles))
	}
	// electrons order before gammas
	if summary.Particles[0].Type != "e-" || summary.Particles[1].Type != "gamma" {
		t.Errorf("Species order %s/%s, want e-/gamma",
			summary.Particles[0].Type, summary.Particles[1].Type)
	}

	el := summary.Particle("e-")
	if el.Count != 4 {
		t.Errorf("Electron count %d, want 4", el.Count)
	}
	if math.Abs(el.MeanKeV-200) > 1e-9 {
		t.Errorf("Electron mean %g, want 200", el.MeanKeV)
	}
	if math.Abs(el.MedianKeV-200) > 1e-9 {
		t.Errorf("Electron median %g, want 200", el.MedianKeV)
	}
	if el.MinKeV != 50 || el.MaxKeV != 350 {
		t.Errorf("Electron range [%g,%g], want [50,350]", el.MinKeV, el.MaxKeV)
	}
	if math.Abs(el.TotalKeV-800) > 1e-9 {
		t.Errorf("Electron total %g, want 800", el.TotalKeV)
	}

	ga := summary.Particle("gamma")
	if ga.Count != 2 || math.Abs(ga.MeanKeV-200) > 1e-9 {
		t.Errorf("Gamma count/mean %d/%g, want 2/200", ga.Count, ga.MeanKeV)
	}

	if summary.Histogram == nil {
		t.Fatal("Histogram missing")
	}
	if len(summary.Histogram.Counts) != 4 || len(summary.Histogram.Dividers) != 5 {
		t.Fatalf("Histogram shape %d counts / %d dividers, want 4/5",
			len(summary.Histogram.Counts), len(summary.Histogram.Dividers))
	}
	var binned float64
	for _, c := range summary.Histogram.Counts {
		binned += c
	}
	if binned != float64(len(events)) {
		t.Errorf("Histogram holds %g events, want %d", binned, len(events))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary, err := Summarize(nil, DefaultBins)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summary.Particles) != 0 || summary.Histogram != nil {
		t.Errorf("Empty input produced content: %+v", summary)
	}
}

func TestEnergyHistogramEdges(t *testing.T) {
	hist, err := EnergyHistogram([]float64{10, 20, 30, 40}, 3)
	if err != nil {
		t.Fatalf("EnergyHistogram: %v", err)
	}
	var total float64
	for _, c := range hist.Counts {
		total += c
	}
	// the maximum lands inside the top bin, not past it
	if total != 4 {
		t.Errorf("Binned %g of 4 events", total)
	}
	if hist.Counts[len(hist.Counts)-1] < 1 {
		t.Error("Top bin lost the maximum-energy event")
	}

	if _, err := EnergyHistogram([]float64{5}, 0); err == nil {
		t.Error("Zero bins should be rejected")
	}

	// single distinct value still produces a usable range
	flat, err := EnergyHistogram([]float64{7, 7, 7}, 2)
	if err != nil {
		t.Fatalf("Flat histogram: %v", err)
	}
	total = 0
	for _, c := range flat.Counts {
		total += c
	}
	if total != 3 {
		t.Errorf("Flat input binned %g of 3 events", total)
	}
}
