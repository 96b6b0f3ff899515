package decaydata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nucgen/domain/core"
)

const sampleDeck = "# 114In decay scheme\n" +
	"fileinfo:\tfancyname = ^{114}In\n" +
	"\n" +
	"level:\tnm = 114.49.0\tE = 0\thl = -1\tjpi = 1+\n" +
	"level:\tnm = 114.49.1\tE = 190.27\thl = 2.5e-9\tjpi = 5+\n" +
	"stray line without a separator\n" +
	"gamma:\tfrom = 114.49.1\tto = 114.49.0\tIgamma = 100\tbroken pair\n"

func TestParseDeck(t *testing.T) {
	deck := ParseDeck([]byte(sampleDeck))

	if got := len(deck.Records); got != 4 {
		t.Fatalf("Parsed %d records, want 4 (comments and stray lines skipped)", got)
	}
	if deck.Hash.String() == "" {
		t.Error("Deck was not fingerprinted")
	}
	if got := deck.GetDefault("fileinfo", "fancyname", ""); got != "^{114}In" {
		t.Errorf("fancyname %q, want ^{114}In", got)
	}

	levels := deck.Class("level")
	if len(levels) != 2 {
		t.Fatalf("Parsed %d level records, want 2", len(levels))
	}
	if got := levels[1].GetDefault("hl", ""); got != "2.5e-9" {
		t.Errorf("Second level hl %q, want 2.5e-9", got)
	}

	gammas := deck.Class("gamma")
	if len(gammas) != 1 {
		t.Fatalf("Parsed %d gamma records, want 1", len(gammas))
	}
	// "broken pair" has no '=' and is dropped, the valid pairs survive
	if len(gammas[0].Fields) != 3 {
		t.Errorf("Gamma record has %d fields, want 3", len(gammas[0].Fields))
	}
}

func TestParseDeckHashTracksContent(t *testing.T) {
	a := ParseDeck([]byte(sampleDeck))
	b := ParseDeck([]byte(sampleDeck))
	if a.Hash != b.Hash {
		t.Error("Identical content hashed differently")
	}
	c := ParseDeck([]byte(sampleDeck + "# trailing comment\n"))
	if a.Hash == c.Hash {
		t.Error("Changed content kept the same fingerprint")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "In114.txt"), []byte(sampleDeck), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewDirSource(dir)

	deck, err := src.Deck("In114")
	if err != nil {
		t.Fatalf("Deck: %v", err)
	}
	if len(deck.Class("level")) != 2 {
		t.Errorf("Loaded %d levels, want 2", len(deck.Class("level")))
	}

	if _, err := src.Deck("Xe135"); !errors.Is(err, core.ErrNuclideNotFound) {
		t.Errorf("Missing deck file: got %v, want nuclide-not-found", err)
	}
	for _, bad := range []string{"", "../In114", "a/b", `a\b`} {
		if _, err := src.Deck(bad); err == nil {
			t.Errorf("Name %q should be rejected", bad)
		}
	}

	// the binding file lives alongside the decks but is not a nuclide
	if err := os.WriteFile(filepath.Join(dir, BindingFileName), []byte("# bindings\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	names, err := src.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "In114" {
		t.Errorf("List %v, want [In114]", names)
	}
}

func TestLoadBindings(t *testing.T) {
	dir := t.TempDir()
	content := "# binding energies in keV\n" +
		"binding:\tZ = 49\telt = In\tK = 27.9399\tL = 4.2375:3.938:3.7301\tM = 0.8256:0.7022:0.6643\n" +
		"binding:\tZ = 48\telt = Cd\tK = 26.7112\tL = 4.018:3.727:3.538\n"
	path := filepath.Join(dir, "ElectronBindingEnergy.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadBindings(path)
	if err != nil {
		t.Fatalf("LoadBindings: %v", err)
	}
	table, err := lib.Table(49)
	if err != nil {
		t.Fatalf("Indium table: %v", err)
	}
	if table.Name() != "In" || table.Shells() != 3 {
		t.Errorf("Indium table %q with %d shells, want In with 3", table.Name(), table.Shells())
	}
	if e, err := table.SubshellBinding(1, 2); err != nil || e != 3.7301 {
		t.Errorf("L3 binding %g (%v), want 3.7301", e, err)
	}
	if _, err := lib.Table(92); err == nil {
		t.Error("Absent element should fail the lookup")
	}

	if _, err := LoadBindings(filepath.Join(dir, "nope.txt")); err == nil {
		t.Error("Missing file should fail")
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBindings(empty); err == nil {
		t.Error("File without binding records should fail")
	}
}
