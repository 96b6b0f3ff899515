package testkit

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"nucgen/adapters/decaydata"
	"nucgen/domain/core"
	"nucgen/domain/run"
	"nucgen/ports"
)

func TestKitBuildsEveryCannedScheme(t *testing.T) {
	kit, err := NewKit()
	if err != nil {
		t.Fatalf("Kit construction failed: %v", err)
	}

	lib := kit.Library(1e-6, rand.New(rand.NewSource(42)))
	for name := range CannedDecks {
		sys, err := lib.Generator(name)
		if err != nil {
			t.Errorf("Canned deck %s does not build: %v", name, err)
			continue
		}
		if len(sys.Levels()) == 0 {
			t.Errorf("Canned deck %s built an empty system", name)
		}
	}
}

func TestKitDeckHashesDiffer(t *testing.T) {
	kit, err := NewKit()
	if err != nil {
		t.Fatalf("Kit construction failed: %v", err)
	}

	seen := make(map[core.DeckHash]string)
	for name := range CannedDecks {
		deck, err := kit.DeckSource().Deck(name)
		if err != nil {
			t.Fatalf("Deck %s missing: %v", name, err)
		}
		if prev, dup := seen[deck.Hash]; dup {
			t.Errorf("Decks %s and %s share a fingerprint", name, prev)
		}
		seen[deck.Hash] = name
	}
}

func TestMapSourceMiss(t *testing.T) {
	src := NewMapSource()
	_, err := src.Deck("Xx999")
	if !errors.Is(err, core.ErrNuclideNotFound) {
		t.Errorf("Missing deck error = %v, want ErrNuclideNotFound", err)
	}
}

func TestWriteDataDirRoundTrip(t *testing.T) {
	kit, err := NewKit()
	if err != nil {
		t.Fatalf("Kit construction failed: %v", err)
	}

	dir := t.TempDir()
	if err := kit.WriteDataDir(dir); err != nil {
		t.Fatalf("WriteDataDir failed: %v", err)
	}

	src := decaydata.NewDirSource(dir)
	onDisk, err := src.Deck("Cd113m")
	if err != nil {
		t.Fatalf("Reading written deck failed: %v", err)
	}
	canned, _ := kit.DeckSource().Deck("Cd113m")
	if onDisk.Hash != canned.Hash {
		t.Error("Written deck fingerprint differs from the canned deck")
	}

	bindings, err := decaydata.LoadBindings(dir + "/ElectronBindingEnergy.txt")
	if err != nil {
		t.Fatalf("Loading written bindings failed: %v", err)
	}
	if got := len(bindings.Elements()); got != 2 {
		t.Errorf("Written bindings hold %d elements, want 2", got)
	}
}

func TestFixedSourceWrapsAround(t *testing.T) {
	src := NewFixedSource(0.1, 0.2, 0.3)
	got := []float64{src.Float64(), src.Float64(), src.Float64(), src.Float64()}
	want := []float64{0.1, 0.2, 0.3, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Draw %d = %g, want %g", i, got[i], want[i])
		}
	}

	empty := NewFixedSource()
	if v := empty.Float64(); v != 0 {
		t.Errorf("Empty source returned %g, want 0", v)
	}
}

func TestMemRunRepository(t *testing.T) {
	repo := NewMemRunRepository()
	ctx := context.Background()

	first := run.NewSimulationRun("Cd113m", core.DeckHash("deck-a"), 1000, 42, 1e-6, 4)
	second := run.NewSimulationRun("In114m", core.DeckHash("deck-b"), 500, 7, 1e-6, 2)
	second.CreatedAt = first.CreatedAt.Add(1)

	for _, rec := range []*run.SimulationRun{first, second} {
		if err := repo.SaveRun(ctx, rec); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	got, err := repo.GetRun(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Nuclide != "Cd113m" || got.Chains != 1000 {
		t.Errorf("GetRun returned %s/%d, want Cd113m/1000", got.Nuclide, got.Chains)
	}

	// Mutating the returned copy must not touch the stored record.
	got.Nuclide = "mutated"
	again, _ := repo.GetRun(ctx, first.ID)
	if again.Nuclide != "Cd113m" {
		t.Error("Repository returned a reference to its stored record")
	}

	if _, err := repo.GetRun(ctx, core.RunID("no-such-run")); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("Missing run error = %v, want ErrRunNotFound", err)
	}

	all, err := repo.ListRuns(ctx, ports.RunFilters{})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Errorf("ListRuns order wrong: got %d records, newest %v", len(all), all[0].ID)
	}

	filtered, _ := repo.ListRuns(ctx, ports.RunFilters{Nuclide: "In114m"})
	if len(filtered) != 1 || filtered[0].ID != second.ID {
		t.Errorf("Nuclide filter returned %d records", len(filtered))
	}

	limited, _ := repo.ListRuns(ctx, ports.RunFilters{Limit: 1, Offset: 1})
	if len(limited) != 1 || limited[0].ID != first.ID {
		t.Errorf("Limit/offset paging returned wrong record")
	}

	if err := repo.SaveRun(ctx, &run.SimulationRun{}); err == nil {
		t.Error("SaveRun accepted an invalid record")
	}
}
