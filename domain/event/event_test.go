package event

import (
	"encoding/json"
	"testing"
)

// TestTypeNames tests the particle name round trip
func TestTypeNames(t *testing.T) {
	tests := []struct {
		typ  Type
		name string
	}{
		{Gamma, "gamma"},
		{Electron, "e-"},
		{Positron, "e+"},
		{Neutrino, "neutrino"},
		{None, "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.typ.String(); got != test.name {
			t.Errorf("Type %d: expected name '%s', got '%s'", test.typ, test.name, got)
		}
	}

	for _, test := range tests[:4] {
		if got := ParseType(test.name); got != test.typ {
			t.Errorf("Name '%s': expected type %d, got %d", test.name, test.typ, got)
		}
	}
	if ParseType("muon") != None {
		t.Error("Unknown particle names should parse to None")
	}
}

// TestEventJSON tests that events serialize with readable particle names
func TestEventJSON(t *testing.T) {
	evt := Event{ChainID: 7, Type: Electron, E: 363.76, W: 1}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Type != Electron || back.E != 363.76 || back.ChainID != 7 {
		t.Errorf("Round trip changed event: %+v", back)
	}
}
