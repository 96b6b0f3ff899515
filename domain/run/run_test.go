package run

import (
	"strings"
	"testing"

	"nucgen/domain/core"
)

func validRun() *SimulationRun {
	return NewSimulationRun("Bi207", core.NewDeckHash([]byte("deck")), 10000, 42, 1e-6, 4)
}

func TestNewSimulationRun(t *testing.T) {
	r := validRun()
	if core.ID(r.ID).IsEmpty() {
		t.Error("New run has no ID")
	}
	if r.CreatedAt.IsZero() {
		t.Error("New run has no creation time")
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Fresh run should validate: %v", err)
	}
}

func TestSimulationRunValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SimulationRun)
		want   string
	}{
		{"no id", func(r *SimulationRun) { r.ID = "" }, "id"},
		{"no nuclide", func(r *SimulationRun) { r.Nuclide = "" }, "nuclide"},
		{"no deck hash", func(r *SimulationRun) { r.DeckHash = "" }, "deck_hash"},
		{"zero chains", func(r *SimulationRun) { r.Chains = 0 }, "chain count"},
		{"negative chains", func(r *SimulationRun) { r.Chains = -5 }, "chain count"},
		{"zero workers", func(r *SimulationRun) { r.Workers = 0 }, "worker count"},
		{"zero cutoff", func(r *SimulationRun) { r.CutoffS = 0 }, "cutoff"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRun()
			tc.mutate(r)
			err := r.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFingerprintPinsParameters(t *testing.T) {
	a, b := validRun(), validRun()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Same parameters should fingerprint identically across IDs")
	}

	mutations := map[string]func(*SimulationRun){
		"nuclide": func(r *SimulationRun) { r.Nuclide = "Cs137" },
		"deck":    func(r *SimulationRun) { r.DeckHash = core.NewDeckHash([]byte("other")) },
		"chains":  func(r *SimulationRun) { r.Chains++ },
		"seed":    func(r *SimulationRun) { r.Seed++ },
		"cutoff":  func(r *SimulationRun) { r.CutoffS *= 10 },
		"workers": func(r *SimulationRun) { r.Workers++ },
	}
	for name, mutate := range mutations {
		r := validRun()
		mutate(r)
		if r.Fingerprint() == a.Fingerprint() {
			t.Errorf("Changing %s did not change the fingerprint", name)
		}
	}
}

func TestSummaryJSONBRoundTrip(t *testing.T) {
	s := Summary{
		Particles: []ParticleSummary{
			{Type: "e-", Count: 120, MeanKeV: 481.7, MedianKeV: 475.2, MinKeV: 0.4, MaxKeV: 975.1, Q1KeV: 200.3, Q3KeV: 760.8, TotalKeV: 57804},
			{Type: "gamma", Count: 80, MeanKeV: 569.7, MedianKeV: 569.7, MinKeV: 569.7, MaxKeV: 1063.7, Q1KeV: 569.7, Q3KeV: 1063.7, TotalKeV: 45576},
		},
		Histogram: &Histogram{Dividers: []float64{0, 500, 1000}, Counts: []float64{130, 70}},
	}

	v, err := s.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var back Summary
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(back.Particles) != 2 || back.Histogram == nil {
		t.Fatalf("Round trip lost content: %+v", back)
	}
	if got := back.Particle("e-"); got == nil || got.Count != 120 {
		t.Errorf("Electron summary %+v, want count 120", got)
	}
	if back.Particle("neutrino") != nil {
		t.Error("Absent species should look up as nil")
	}
}

func TestSummaryScanTolerance(t *testing.T) {
	var s Summary
	if err := s.Scan(nil); err != nil {
		t.Errorf("Nil scan: %v", err)
	}
	if err := s.Scan(""); err != nil {
		t.Errorf("Empty string scan: %v", err)
	}
	if err := s.Scan(`{"particles":[{"type":"gamma","count":3}]}`); err != nil {
		t.Fatalf("String scan: %v", err)
	}
	if got := s.Particle("gamma"); got == nil || got.Count != 3 {
		t.Errorf("String scan payload %+v, want gamma count 3", got)
	}
	if err := s.Scan([]byte(`{broken`)); err == nil {
		t.Error("Malformed JSON should fail the scan")
	}
}
