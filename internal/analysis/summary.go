// Package analysis aggregates generated event lists into the persisted run
// summary: per-species energy statistics and a binned spectrum.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"nucgen/domain/event"
	"nucgen/domain/run"
)

// DefaultBins is the histogram bin count used when a caller does not choose
const DefaultBins = 40

// speciesOrder fixes the particle ordering in summaries so identical runs
// serialize identically
var speciesOrder = []event.Type{event.Electron, event.Positron, event.Gamma, event.Neutrino}

// Summarize aggregates events into per-species statistics plus an energy
// histogram over every emitted particle. An empty event list yields an empty
// summary with no histogram.
func Summarize(events []event.Event, bins int) (run.Summary, error) {
	var summary run.Summary
	if len(events) == 0 {
		return summary, nil
	}

	byType := make(map[event.Type][]float64)
	all := make([]float64, 0, len(events))
	for _, evt := range events {
		byType[evt.Type] = append(byType[evt.Type], evt.E)
		all = append(all, evt.E)
	}

	for _, typ := range speciesOrder {
		energies, ok := byType[typ]
		if !ok {
			continue
		}
		ps, err := summarizeSpecies(typ.String(), energies)
		if err != nil {
			return run.Summary{}, err
		}
		summary.Particles = append(summary.Particles, ps)
	}

	hist, err := EnergyHistogram(all, bins)
	if err != nil {
		return run.Summary{}, err
	}
	summary.Histogram = hist
	return summary, nil
}

func summarizeSpecies(name string, energies []float64) (run.ParticleSummary, error) {
	ps := run.ParticleSummary{Type: name, Count: int64(len(energies))}

	var err error
	if ps.MeanKeV, err = stats.Mean(energies); err != nil {
		return ps, fmt.Errorf("analysis: %s mean: %w", name, err)
	}
	if ps.MedianKeV, err = stats.Median(energies); err != nil {
		return ps, fmt.Errorf("analysis: %s median: %w", name, err)
	}
	if ps.MinKeV, err = stats.Min(energies); err != nil {
		return ps, fmt.Errorf("analysis: %s min: %w", name, err)
	}
	if ps.MaxKeV, err = stats.Max(energies); err != nil {
		return ps, fmt.Errorf("analysis: %s max: %w", name, err)
	}
	if ps.Q1KeV, err = stats.Percentile(energies, 25); err != nil {
		return ps, fmt.Errorf("analysis: %s q1: %w", name, err)
	}
	if ps.Q3KeV, err = stats.Percentile(energies, 75); err != nil {
		return ps, fmt.Errorf("analysis: %s q3: %w", name, err)
	}
	if ps.TotalKeV, err = stats.Sum(energies); err != nil {
		return ps, fmt.Errorf("analysis: %s total: %w", name, err)
	}
	return ps, nil
}

// EnergyHistogram bins energies into equal-width bins spanning the observed
// range. The top edge is nudged past the maximum so the hottest event lands
// in the last bin. Empty input yields a nil histogram.
func EnergyHistogram(energies []float64, bins int) (*run.Histogram, error) {
	if len(energies) == 0 {
		return nil, nil
	}
	if bins <= 0 {
		return nil, fmt.Errorf("analysis: histogram needs a positive bin count, got %d", bins)
	}

	sorted := make([]float64, len(energies))
	copy(sorted, energies)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	} else {
		hi = math.Nextafter(hi, math.Inf(1))
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	return &run.Histogram{Dividers: dividers, Counts: counts}, nil
}
