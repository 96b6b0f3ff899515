package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"nucgen/app"
	"nucgen/domain/event"
	"nucgen/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nucgen-dev",
		Short: "Nucgen development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Write the canned decay decks into a data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedData(args[0])
		},
	}
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests over the canned fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
	return cmd
}

func newDeterminismTestCmd() *cobra.Command {
	var chains int64
	var seed int64
	var workers int

	cmd := &cobra.Command{
		Use:   "determinism [nuclide]",
		Short: "Verify that equal parameters replay an identical event stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return testDeterminism(cmd.Context(), args[0], chains, seed, workers)
		},
	}

	cmd.Flags().Int64Var(&chains, "chains", 1000, "Number of decay chains per run")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for both runs")
	cmd.Flags().IntVar(&workers, "workers", 3, "Stream partitions")

	return cmd
}

func generateSeedData(dir string) error {
	fmt.Printf("Writing canned decay data into %s...\n", dir)

	kit, err := testkit.NewKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := kit.WriteDataDir(dir); err != nil {
		return err
	}

	names, err := kit.DeckSource().List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Printf("  %s.txt\n", name)
	}
	fmt.Println("  ElectronBindingEnergy.txt")

	fmt.Println("Seed data generation completed successfully")
	return nil
}

func devService(kit *testkit.Kit) *app.SimulationService {
	return app.NewSimulationService(kit.DeckSource(), kit.Bindings(), kit.RNG(), nil, app.Defaults{
		Workers:   2,
		CutoffS:   1e-6,
		MaxChains: 1_000_000,
		Bins:      16,
	})
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	kit, err := testkit.NewKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}
	svc := devService(kit)

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"deck_listing", func(ctx context.Context) error {
			names, err := kit.DeckSource().List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no decks registered")
			}
			return nil
		}},
		{"chain_generation", func(ctx context.Context) error {
			res, err := svc.Run(ctx, app.SimulateRequest{Nuclide: "In114m", Chains: 100, Seed: 1})
			if err != nil {
				return err
			}
			if res.Run.EventCount == 0 {
				return fmt.Errorf("no events generated")
			}
			return nil
		}},
		{"buffered_generation", func(ctx context.Context) error {
			res, err := svc.Run(ctx, app.SimulateRequest{Nuclide: "Cd113m", Chains: 200, Seed: 7, Buffered: true})
			if err != nil {
				return err
			}
			if res.Run.EventCount == 0 {
				return fmt.Errorf("no events generated")
			}
			return nil
		}},
		{"report_rendering", func(ctx context.Context) error {
			reports := app.NewReportService(kit.Library(1e-6, rand.New(rand.NewSource(1))))
			text, err := reports.Markdown("Cd113m")
			if err != nil {
				return err
			}
			if text == "" {
				return fmt.Errorf("empty report")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}

	return nil
}

func testDeterminism(ctx context.Context, nuclide string, chains, seed int64, workers int) error {
	fmt.Printf("Testing determinism for %s (%d chains, seed %d, %d workers)...\n", nuclide, chains, seed, workers)

	kit, err := testkit.NewKit()
	if err != nil {
		return fmt.Errorf("failed to initialize test kit: %w", err)
	}
	svc := devService(kit)

	req := app.SimulateRequest{Nuclide: nuclide, Chains: chains, Seed: seed, Workers: workers}

	original, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("first run failed: %w", err)
	}

	fmt.Println("Re-running with the same parameters...")
	replay, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("replay run failed: %w", err)
	}

	if original.Run.Fingerprint() != replay.Run.Fingerprint() {
		return fmt.Errorf("determinism test failed: fingerprints differ")
	}
	if err := compareEvents(original.Events, replay.Events); err != nil {
		return fmt.Errorf("determinism test failed: %w", err)
	}

	fmt.Printf("Determinism test passed - %d events identical across runs\n", len(original.Events))
	return nil
}

func compareEvents(original, replay []event.Event) error {
	if len(original) != len(replay) {
		return fmt.Errorf("event counts differ: %d vs %d", len(original), len(replay))
	}
	for i := range original {
		if original[i] != replay[i] {
			return fmt.Errorf("event %d differs: %+v vs %+v", i, original[i], replay[i])
		}
	}
	return nil
}
