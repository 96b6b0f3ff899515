package app

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"nucgen/domain/core"
	"nucgen/internal/testkit"
)

func newReportService(t *testing.T) *ReportService {
	t.Helper()
	kit, err := testkit.NewKit()
	if err != nil {
		t.Fatalf("Kit: %v", err)
	}
	return NewReportService(kit.Library(1e-6, rand.New(rand.NewSource(1))))
}

func TestMarkdownCascadeReport(t *testing.T) {
	svc := newReportService(t)
	md, err := svc.Markdown("In114m")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	for _, want := range []string{
		"# In114m decay scheme",
		"## Levels",
		"## Transitions",
		"| 114.49.2 | 501.94 | 4.28e+06 | 8- | 0 | 1 | 1 | 4 |",
		"| 114.49.2 | 114.49.1 | gamma | 1 | 311.67 keV photon |",
		"consumes at most 4 random slots",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Report missing %q", want)
		}
	}
}

func TestMarkdownConversionAndRelaxation(t *testing.T) {
	svc := newReportService(t)
	md, err := svc.Markdown("Cd113m")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	for _, want := range []string{
		"beta- endpoint 263.6",
		"forbidden 2",
		"conversion 0.344",
		"CE mean",
		"## Atomic relaxation",
		"| 49 | In |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Report missing %q", want)
		}
	}
}

func TestMarkdownECaptureReport(t *testing.T) {
	svc := newReportService(t)
	md, err := svc.Markdown("In109")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(md, "ecapture") || !strings.Contains(md, "K vacancy p=") {
		t.Errorf("Capture detail missing from report:\n%s", md)
	}
}

func TestHTMLRendersCompletePage(t *testing.T) {
	svc := newReportService(t)
	page, err := svc.HTML("In114m")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	html := string(page)
	for _, want := range []string{"<html", "In114m decay scheme", "<table"} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered page missing %q", want)
		}
	}
}

func TestSlotsReport(t *testing.T) {
	svc := newReportService(t)

	rep, err := svc.Slots("In114m")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if rep.Auto != 4 {
		t.Errorf("Auto slot bound = %d, want 4", rep.Auto)
	}
	wantSlots := []int{0, 2, 4}
	wantStart := []float64{0, 0, 1}
	if len(rep.Levels) != 3 {
		t.Fatalf("Got %d levels, want 3", len(rep.Levels))
	}
	for i, lv := range rep.Levels {
		if lv.Slots != wantSlots[i] {
			t.Errorf("Level %s slots = %d, want %d", lv.Name, lv.Slots, wantSlots[i])
		}
		if lv.StartProb != wantStart[i] {
			t.Errorf("Level %s start prob = %g, want %g", lv.Name, lv.StartProb, wantStart[i])
		}
	}

	beta, err := svc.Slots("Cd113m")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if beta.Auto != 5 {
		t.Errorf("Cd113m auto slot bound = %d, want 5", beta.Auto)
	}
}

func TestReportUnknownNuclide(t *testing.T) {
	svc := newReportService(t)
	if _, err := svc.Markdown("Zz404"); !errors.Is(err, core.ErrNuclideNotFound) {
		t.Fatalf("Got %v, want nuclide-not-found", err)
	}
	if _, err := svc.Slots("Zz404"); !errors.Is(err, core.ErrNuclideNotFound) {
		t.Fatalf("Got %v, want nuclide-not-found", err)
	}
}
