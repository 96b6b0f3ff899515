package atomic

import (
	"math"
	"testing"

	"nucgen/domain/core"
	"nucgen/domain/records"
)

// TestTableFromRecord tests parsing a binding record with shell lists
func TestTableFromRecord(t *testing.T) {
	r := records.New("binding",
		"Z", "49",
		"elt", "In",
		"K", "27.9399",
		"L", "4.2375:3.938:3.73",
		"M", "0.8256:0.7024:0.6643:0.4516:0.4435",
	)

	tab, err := TableFromRecord(r)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if tab.Z() != 49 || tab.Name() != "In" {
		t.Errorf("Expected In Z=49, got %s Z=%d", tab.Name(), tab.Z())
	}
	if tab.Shells() != 3 {
		t.Errorf("Expected 3 shells, got %d", tab.Shells())
	}
	if tab.Subshells(1) != 3 {
		t.Errorf("Expected 3 L subshells, got %d", tab.Subshells(1))
	}

	b, err := tab.SubshellBinding(1, 2)
	if err != nil {
		t.Fatalf("Unexpected lookup error: %v", err)
	}
	if math.Abs(b-3.73) > 1e-12 {
		t.Errorf("Expected L3 binding 3.73 keV, got %g", b)
	}
}

// TestTableFromRecordStopsAtGap tests that shell loading stops at the first
// missing shell letter rather than skipping it.
func TestTableFromRecordStopsAtGap(t *testing.T) {
	r := records.New("binding", "Z", "8", "elt", "O", "K", "0.543", "M", "0.01")

	tab, err := TableFromRecord(r)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if tab.Shells() != 1 {
		t.Errorf("Expected loading to stop before the L gap, got %d shells", tab.Shells())
	}
}

// TestTableFromRecordErrors tests malformed binding records
func TestTableFromRecordErrors(t *testing.T) {
	if _, err := TableFromRecord(records.New("binding", "elt", "X")); err == nil {
		t.Error("Expected error for missing Z")
	}
	if _, err := TableFromRecord(records.New("binding", "Z", "-3")); err == nil {
		t.Error("Expected error for negative Z")
	}
	if _, err := TableFromRecord(records.New("binding", "Z", "4", "K", "a:b")); err == nil {
		t.Error("Expected error for non-numeric shell list")
	}
}

// TestSubshellBindingMiss tests that lookup misses are classified errors
func TestSubshellBindingMiss(t *testing.T) {
	tab := NewBindingTable(2, "He", [][]float64{{0.0246}})

	if _, err := tab.SubshellBinding(1, 0); err == nil {
		t.Fatal("Expected error for missing L shell")
	} else if !core.IsAtomicDataError(err) {
		t.Errorf("Expected atomic data error classification, got %v", err)
	}
	if _, err := tab.SubshellBinding(0, 5); err == nil {
		t.Error("Expected error for subshell overflow")
	}
}

// TestLibraryLookup tests registration and the unknown-element error
func TestLibraryLookup(t *testing.T) {
	lib := NewLibrary()
	lib.Add(NewBindingTable(49, "In", [][]float64{{27.9399}}))
	lib.Add(NewBindingTable(48, "Cd", [][]float64{{26.7112}}))

	tab, err := lib.Table(49)
	if err != nil {
		t.Fatalf("Unexpected lookup error: %v", err)
	}
	if tab.Name() != "In" {
		t.Errorf("Expected In, got %s", tab.Name())
	}

	if _, err := lib.Table(92); err == nil {
		t.Fatal("Expected error for unloaded element")
	} else if !core.IsAtomicDataError(err) {
		t.Errorf("Expected atomic data error classification, got %v", err)
	}

	zs := lib.Elements()
	if len(zs) != 2 || zs[0] != 48 || zs[1] != 49 {
		t.Errorf("Expected sorted elements [48 49], got %v", zs)
	}
}
