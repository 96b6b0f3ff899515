package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"nucgen/adapters/decaydata"
	"nucgen/adapters/excel"
	"nucgen/adapters/rng"
	"nucgen/app"
	"nucgen/domain/atomic"
	"nucgen/domain/decay"
	"nucgen/domain/run"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nucgen",
		Short: "Nucgen CLI for decay chain generation and scheme inspection",
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newReportCmd(),
		newSlotsCmd(),
		newForestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dataDirFlag wires the shared --data-dir flag with its environment fallback.
func dataDirFlag(cmd *cobra.Command, dataDir *string) {
	def := os.Getenv("DECAY_DATA_DIR")
	if def == "" {
		def = "data"
	}
	cmd.Flags().StringVar(dataDir, "data-dir", def, "Directory holding decay decks and binding energies")
}

func openData(dataDir string) (*decaydata.DirSource, *atomic.Library, error) {
	source := decaydata.NewDirSource(dataDir)
	bindings, err := decaydata.LoadBindings(filepath.Join(dataDir, decaydata.BindingFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load binding energies: %w", err)
	}
	return source, bindings, nil
}

func newSimulateCmd() *cobra.Command {
	var (
		chains     int64
		seed       int64
		workers    int
		cutoffS    float64
		bins       int
		startLevel string
		buffered   bool
		cubeSide   float64
		cylRadius  float64
		cylLength  float64
		show       int
		csvPath    string
		xlsxPath   string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "simulate [nuclide]",
		Short: "Generate decay chains and summarize the emitted spectrum",
		Long: `Generate a batch of decay chains for one nuclide and print the spectrum
summary. Event tables can be written as csv or xlsx.

Example: nucgen simulate In114m --chains 100000 --seed 42 --workers 4 --xlsx in114m.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.SimulateRequest{
				Nuclide:    args[0],
				Chains:     chains,
				Seed:       seed,
				Workers:    workers,
				CutoffS:    cutoffS,
				Bins:       bins,
				StartLevel: startLevel,
				Buffered:   buffered,
			}
			if cubeSide > 0 && (cylRadius > 0 || cylLength > 0) {
				return fmt.Errorf("choose either --cube or --cyl-radius/--cyl-length, not both")
			}
			if cubeSide > 0 {
				req.Vertex = &app.VertexSpec{Kind: "cube", Side: cubeSide}
			} else if cylRadius > 0 || cylLength > 0 {
				req.Vertex = &app.VertexSpec{Kind: "cylinder", Radius: cylRadius, Length: cylLength}
			}
			return runSimulate(cmd.Context(), dataDir, req, show, csvPath, xlsxPath)
		},
	}

	cmd.Flags().Int64Var(&chains, "chains", 10000, "Number of decay chains to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().IntVar(&workers, "workers", 0, "Stream partitions (0 uses the default)")
	cmd.Flags().Float64Var(&cutoffS, "cutoff-s", 0, "Half-life cutoff in seconds (0 uses the default)")
	cmd.Flags().IntVar(&bins, "bins", 0, "Energy histogram bins (0 uses the default)")
	cmd.Flags().StringVar(&startLevel, "start-level", "", "Force every chain to start from this level")
	cmd.Flags().BoolVar(&buffered, "buffered", false, "Draw each chain from a fixed slot block")
	cmd.Flags().Float64Var(&cubeSide, "cube", 0, "Cube vertex side length (cm)")
	cmd.Flags().Float64Var(&cylRadius, "cyl-radius", 0, "Cylinder vertex radius (cm)")
	cmd.Flags().Float64Var(&cylLength, "cyl-length", 0, "Cylinder vertex length (cm)")
	cmd.Flags().IntVar(&show, "show", 0, "Print the first N events")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the event table to this csv file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the event table and summary to this xlsx workbook")
	dataDirFlag(cmd, &dataDir)

	return cmd
}

func runSimulate(ctx context.Context, dataDir string, req app.SimulateRequest, show int, csvPath, xlsxPath string) error {
	source, bindings, err := openData(dataDir)
	if err != nil {
		return err
	}

	svc := app.NewSimulationService(source, bindings, rng.New(), nil, app.Defaults{
		Workers:   4,
		CutoffS:   1e-6,
		MaxChains: 10_000_000,
		Bins:      40,
	})

	fmt.Printf("Generating %d decay chains of %s (seed %d)...\n", req.Chains, req.Nuclide, req.Seed)

	res, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Run ID: %s\n", res.Run.ID)
	fmt.Printf("Nuclide: %s\n", res.Run.Nuclide)
	fmt.Printf("Deck Hash: %s\n", res.Run.DeckHash)
	fmt.Printf("Chains: %d\n", res.Run.Chains)
	fmt.Printf("Workers: %d\n", res.Run.Workers)
	fmt.Printf("Events: %d\n", res.Run.EventCount)
	fmt.Printf("Runtime: %d ms\n", res.Run.RuntimeMS)
	fmt.Printf("Fingerprint: %s\n", res.Run.Fingerprint())

	fmt.Printf("\n=== SPECTRUM SUMMARY ===\n")
	for _, p := range res.Run.Summary.Particles {
		fmt.Printf("%-9s n=%-8d mean=%.3f keV  median=%.3f keV  range=[%.3f, %.3f] keV\n",
			p.Type, p.Count, p.MeanKeV, p.MedianKeV, p.MinKeV, p.MaxKeV)
	}
	printHistogram(res.Run.Summary.Histogram)

	if show > 0 {
		fmt.Printf("\n=== FIRST %d EVENTS ===\n", min(show, len(res.Events)))
		for i, ev := range res.Events {
			if i >= show {
				break
			}
			fmt.Printf("%6d  %-9s  %10.3f keV  t=%.3e s  w=%.3f\n",
				ev.ChainID, ev.Type, ev.E, ev.T, ev.W)
		}
	}

	if csvPath != "" {
		if err := excel.WriteEventsCSV(csvPath, res.Events); err != nil {
			return err
		}
		fmt.Printf("\nEvent table written to %s\n", csvPath)
	}
	if xlsxPath != "" {
		if err := excel.NewExporter().ExportRun(xlsxPath, res.Run, res.Events); err != nil {
			return err
		}
		fmt.Printf("Workbook written to %s\n", xlsxPath)
	}

	fmt.Printf("\nThis run is deterministic and replayable using the fingerprint.\n")
	return nil
}

func printHistogram(hist *run.Histogram) {
	if hist == nil || len(hist.Counts) == 0 {
		return
	}
	var peak float64
	for _, c := range hist.Counts {
		if c > peak {
			peak = c
		}
	}
	if peak == 0 {
		return
	}
	fmt.Printf("\n=== ENERGY HISTOGRAM ===\n")
	for i, count := range hist.Counts {
		bar := strings.Repeat("#", int(40*count/peak))
		fmt.Printf("[%9.2f, %9.2f) keV  %8.0f  %s\n", hist.Dividers[i], hist.Dividers[i+1], count, bar)
	}
}

func newReportCmd() *cobra.Command {
	var (
		format  string
		out     string
		cutoffS float64
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "report [nuclide]",
		Short: "Render the decay scheme report for a nuclide",
		Long: `Render the level, transition, and atomic relaxation tables for one
nuclide as markdown or a standalone html page.

Example: nucgen report Cd113m --format html --out cd113m.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(dataDir, args[0], format, out, cutoffS)
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown|html")
	cmd.Flags().StringVar(&out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().Float64Var(&cutoffS, "cutoff-s", 1e-6, "Half-life cutoff in seconds")
	dataDirFlag(cmd, &dataDir)

	return cmd
}

func runReport(dataDir, nuclide, format, out string, cutoffS float64) error {
	svc, err := reportService(dataDir, cutoffS)
	if err != nil {
		return err
	}

	var body []byte
	switch format {
	case "markdown":
		text, err := svc.Markdown(nuclide)
		if err != nil {
			return err
		}
		body = []byte(text)
	case "html":
		page, err := svc.HTML(nuclide)
		if err != nil {
			return err
		}
		body = page
	default:
		return fmt.Errorf("invalid format: %s (expected markdown|html)", format)
	}

	if out == "" {
		fmt.Print(string(body))
		return nil
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", out)
	return nil
}

func newSlotsCmd() *cobra.Command {
	var (
		cutoffS float64
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "slots [nuclide]",
		Short: "Show the per-level random slot layout",
		Long: `Show how many random slots a chain from each level consumes, and the
start distribution over levels. The block size is what buffered generation
reserves per chain.

Example: nucgen slots In114m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlots(dataDir, args[0], cutoffS)
		},
	}

	cmd.Flags().Float64Var(&cutoffS, "cutoff-s", 1e-6, "Half-life cutoff in seconds")
	dataDirFlag(cmd, &dataDir)

	return cmd
}

func runSlots(dataDir, nuclide string, cutoffS float64) error {
	svc, err := reportService(dataDir, cutoffS)
	if err != nil {
		return err
	}
	rep, err := svc.Slots(nuclide)
	if err != nil {
		return err
	}

	fmt.Printf("=== RANDOM SLOT LAYOUT: %s ===\n", rep.Nuclide)
	for _, lv := range rep.Levels {
		fmt.Printf("%-14s E=%-10.4g keV  slots=%-3d start=%.4g\n", lv.Name, lv.EkeV, lv.Slots, lv.StartProb)
	}
	fmt.Printf("\nBlock size: %d slots per chain\n", rep.Auto)
	return nil
}

func reportService(dataDir string, cutoffS float64) (*app.ReportService, error) {
	source, bindings, err := openData(dataDir)
	if err != nil {
		return nil, err
	}
	library := decay.NewLibrary(source, bindings, cutoffS, rand.New(rand.NewSource(1)))
	return app.NewReportService(library), nil
}

func newForestCmd() *cobra.Command {
	var (
		e2keV float64
		count float64
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "forest [line-file]",
		Short: "Inspect a gamma forest line list",
		Long: `Load a flat gamma line list from a text file or xlsx workbook and print
the normalized emission probabilities. With --count, also generate that
expected number of photons and summarize them.

Example: nucgen forest lines.xlsx --e2kev 1000 --count 1e5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForest(args[0], e2keV, count, seed)
		},
	}

	cmd.Flags().Float64Var(&e2keV, "e2kev", 1, "Multiplier converting file energies to keV")
	cmd.Flags().Float64Var(&count, "count", 0, "Expected number of photons to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for photon generation")

	return cmd
}

func runForest(path string, e2keV, count float64, seed int64) error {
	var forest *decay.GammaForest
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		forest, err = excel.LoadGammaForest(path, e2keV)
	default:
		forest, err = decaydata.LoadGammaForest(path, e2keV)
	}
	if err != nil {
		return err
	}

	fmt.Printf("=== GAMMA FOREST: %s ===\n", filepath.Base(path))
	fmt.Printf("Lines: %d | Total cross section: %.6g\n\n", forest.Len(), forest.TotalCrossSection())
	for i := 0; i < forest.Len(); i++ {
		fmt.Printf("%10.4f keV  p=%.6f\n", forest.Energy(i), forest.Prob(i))
	}

	if count > 0 {
		events := forest.GenDecays(nil, count, rand.New(rand.NewSource(seed)))
		var total float64
		for _, ev := range events {
			total += ev.E
		}
		fmt.Printf("\nGenerated %d photons (expected %g), total energy %.6g keV\n",
			len(events), count, total)
	}
	return nil
}
