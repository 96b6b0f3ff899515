package sampling

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestSelectorSweepVisitsEveryBin tests that sweeping x across [0,1) visits
// every positive-weight bin exactly once, in increasing order, with the
// residual always landing back in [0,1).
func TestSelectorSweepVisitsEveryBin(t *testing.T) {
	s := NewSelector(0.2, 1.3, 0.5, 2.0)
	const steps = 10000

	visited := make(map[int]int)
	last := -1
	for i := 0; i < steps; i++ {
		x := float64(i) / steps
		sel := s.Select(&x, nil)
		if sel < last {
			t.Fatalf("Sweep went backwards: bin %d after bin %d", sel, last)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("Residual %g outside [0,1) at bin %d", x, sel)
		}
		last = sel
		visited[sel]++
	}

	if len(visited) != s.Len() {
		t.Errorf("Expected all %d bins visited, got %d", s.Len(), len(visited))
	}
	for n := 0; n < s.Len(); n++ {
		frac := float64(visited[n]) / steps
		if math.Abs(frac-s.Prob(n)) > 2.0/steps*float64(s.Len()) {
			t.Errorf("Bin %d visit fraction %g does not match probability %g", n, frac, s.Prob(n))
		}
	}
}

// TestSelectorZeroWidthBins tests that zero-weight bins are legal but unreachable
func TestSelectorZeroWidthBins(t *testing.T) {
	s := NewSelector(0, 1.0, 0, 0.5, 0)

	for i := 0; i < 4000; i++ {
		x := float64(i) / 4000
		sel := s.Select(&x, nil)
		if sel != 1 && sel != 3 {
			t.Fatalf("Selected zero-weight bin %d", sel)
		}
	}
	if s.Prob(0) != 0 || s.Prob(2) != 0 || s.Prob(4) != 0 {
		t.Error("Zero-weight bins should carry zero probability")
	}
}

// TestSelectorResidualValues tests exact residual renormalization
func TestSelectorResidualValues(t *testing.T) {
	s := NewSelector(1, 1)

	x := 0.25
	if sel := s.Select(&x, nil); sel != 0 {
		t.Errorf("Expected bin 0 for x=0.25, got %d", sel)
	}
	if math.Abs(x-0.5) > 1e-12 {
		t.Errorf("Expected residual 0.5, got %g", x)
	}

	x = 0.5
	if sel := s.Select(&x, nil); sel != 1 {
		t.Errorf("Expected bin 1 for x=0.5, got %d", sel)
	}
	if x != 0 {
		t.Errorf("Expected residual 0 at bin boundary, got %g", x)
	}
}

// TestSelectorUniformity tests drawn sampling against expected frequencies
// with a chi-squared goodness of fit statistic.
func TestSelectorUniformity(t *testing.T) {
	s := NewSelector(1, 2, 3, 4)
	rng := rand.New(rand.NewSource(42))
	const n = 100000

	counts := make([]float64, s.Len())
	for i := 0; i < n; i++ {
		counts[s.Select(nil, rng)]++
	}

	chi2 := 0.0
	for b := 0; b < s.Len(); b++ {
		expected := s.Prob(b) * n
		diff := counts[b] - expected
		chi2 += diff * diff / expected
	}

	dist := distuv.ChiSquared{K: float64(s.Len() - 1)}
	if p := 1 - dist.CDF(chi2); p < 1e-4 {
		t.Errorf("Chi-squared %g (p=%g) rejects expected branching fractions; counts %v", chi2, p, counts)
	}
}

// TestSelectorScaleKeepsProbs tests that scaling weights leaves normalized
// probabilities unchanged while the total scales exactly.
func TestSelectorScaleKeepsProbs(t *testing.T) {
	s := NewSelector(0.4, 1.6)
	p0, total := s.Prob(0), s.Total()

	s.Scale(2.5)
	if math.Abs(s.Total()-2.5*total) > 1e-12 {
		t.Errorf("Expected total %g, got %g", 2.5*total, s.Total())
	}
	if math.Abs(s.Prob(0)-p0) > 1e-12 {
		t.Errorf("Normalized probability changed under scaling: %g vs %g", s.Prob(0), p0)
	}
}

// TestSelectorPreconditions tests the documented panic conditions
func TestSelectorPreconditions(t *testing.T) {
	expectPanic := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s should panic", name)
			}
		}()
		f()
	}

	var empty Selector
	expectPanic("select on empty selector", func() { empty.Select(nil, nil) })

	zero := NewSelector(0, 0)
	expectPanic("select with zero total weight", func() { zero.Select(nil, nil) })

	s := NewSelector(1)
	x := 1.0
	expectPanic("select with x=1", func() { s.Select(&x, nil) })

	neg := -0.5
	expectPanic("select with negative x", func() { s.Select(&neg, nil) })

	expectPanic("negative bin weight", func() { s.AddProb(-1) })
	expectPanic("NaN bin weight", func() { s.AddProb(math.NaN()) })
}
