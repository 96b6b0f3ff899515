package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nucgen/adapters/decaydata"
	"nucgen/adapters/excel"
	"nucgen/adapters/rng"
	"nucgen/app"
	"nucgen/domain/event"
)

func main() {
	nuclide := flag.String("nuclide", "", "nuclide to generate (required)")
	out := flag.String("out", "", "output path, format by extension: .csv, .xlsx or .jsonl (required)")
	chains := flag.Int64("chains", 100000, "number of decay chains")
	seed := flag.Int64("seed", 42, "random seed")
	workers := flag.Int("workers", 0, "stream partitions (0 uses the default)")
	cutoffS := flag.Float64("cutoff", 0, "half-life cutoff in seconds (0 uses the default)")
	startLevel := flag.String("start-level", "", "force every chain to start from this level")
	buffered := flag.Bool("buffered", false, "draw each chain from a fixed slot block")
	cubeSide := flag.Float64("cube", 0, "cube vertex side length in cm (0 disables vertices)")
	dataDir := flag.String("data-dir", envOr("DECAY_DATA_DIR", "data"), "decay data directory")
	flag.Parse()

	if strings.TrimSpace(*nuclide) == "" {
		fmt.Fprintln(os.Stderr, "-nuclide is required")
		os.Exit(2)
	}
	if strings.TrimSpace(*out) == "" {
		fmt.Fprintln(os.Stderr, "-out is required")
		os.Exit(2)
	}

	req := app.SimulateRequest{
		Nuclide:    *nuclide,
		Chains:     *chains,
		Seed:       *seed,
		Workers:    *workers,
		CutoffS:    *cutoffS,
		StartLevel: *startLevel,
		Buffered:   *buffered,
	}
	if *cubeSide > 0 {
		req.Vertex = &app.VertexSpec{Kind: "cube", Side: *cubeSide}
	}

	if err := generate(*dataDir, req, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func generate(dataDir string, req app.SimulateRequest, out string) error {
	source := decaydata.NewDirSource(dataDir)
	bindings, err := decaydata.LoadBindings(filepath.Join(dataDir, decaydata.BindingFileName))
	if err != nil {
		return err
	}

	svc := app.NewSimulationService(source, bindings, rng.New(), nil, app.Defaults{
		Workers:   4,
		CutoffS:   1e-6,
		MaxChains: 1_000_000_000,
		Bins:      40,
	})

	res, err := svc.Run(context.Background(), req)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".csv":
		err = excel.WriteEventsCSV(out, res.Events)
	case ".xlsx":
		err = excel.NewExporter().ExportRun(out, res.Run, res.Events)
	case ".jsonl":
		err = writeJSONL(out, res.Events)
	default:
		err = fmt.Errorf("unsupported output extension: %s", filepath.Ext(out))
	}
	if err != nil {
		return err
	}

	fmt.Println("=== Event Generation ===")
	fmt.Printf("nuclide=%s chains=%d seed=%d workers=%d\n", res.Run.Nuclide, res.Run.Chains, res.Run.Seed, res.Run.Workers)
	fmt.Printf("events=%d runtime_ms=%d\n", res.Run.EventCount, res.Run.RuntimeMS)
	fmt.Printf("fingerprint=%s\n", res.Run.Fingerprint())
	fmt.Printf("written=%s\n", out)
	return nil
}

// writeJSONL streams one event object per line, the layout ingestion
// pipelines expect.
func writeJSONL(path string, events []event.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
