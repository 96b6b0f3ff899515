package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"nucgen/domain/decay"
)

// ReportService renders decay schemes as markdown and HTML summaries. The
// library's generator cache is not safe for concurrent use, so one mutex
// serializes scheme lookups; rendering itself works on read-only views.
type ReportService struct {
	mu  sync.Mutex
	lib *decay.Library
}

// NewReportService wraps a generator library
func NewReportService(lib *decay.Library) *ReportService {
	return &ReportService{lib: lib}
}

// SlotReport lists the per-chain random slot cost of a scheme.
type SlotReport struct {
	Nuclide string      `json:"nuclide"`
	Auto    int         `json:"auto"`
	Levels  []LevelSlot `json:"levels"`
}

// LevelSlot is one level's slot bound and start weight.
type LevelSlot struct {
	Name      string  `json:"name"`
	EkeV      float64 `json:"e_kev"`
	Slots     int     `json:"slots"`
	StartProb float64 `json:"start_prob"`
}

func (s *ReportService) system(name string) (*decay.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib.Generator(name)
}

// Slots reports how many random slots a buffered chain needs per start
// level, plus the bound over the start distribution.
func (s *ReportService) Slots(name string) (*SlotReport, error) {
	sys, err := s.system(name)
	if err != nil {
		return nil, err
	}
	rep := &SlotReport{Nuclide: name, Auto: sys.NDF(decay.StartAuto)}
	for _, lv := range sys.Levels() {
		rep.Levels = append(rep.Levels, LevelSlot{
			Name:      lv.Name,
			EkeV:      lv.E,
			Slots:     sys.NDF(lv.N),
			StartProb: sys.StartProb(lv.N),
		})
	}
	return rep, nil
}

// Markdown renders the full scheme report: levels, transitions with their
// kind-specific detail, and the atomic relaxation models in play.
func (s *ReportService) Markdown(name string) (string, error) {
	sys, err := s.system(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s decay scheme\n\n", name)
	fmt.Fprintf(&b, "Deck `%s`, half-life cutoff %g s, %d levels, %d transitions.\n\n",
		sys.DeckHash(), sys.Cutoff(), len(sys.Levels()), len(sys.Transitions()))

	b.WriteString("## Levels\n\n")
	b.WriteString("| Level | E (keV) | Half-life (s) | Jpi | Flux in | Flux out | Start | Slots |\n")
	b.WriteString("|---|--:|--:|---|--:|--:|--:|--:|\n")
	for _, lv := range sys.Levels() {
		fmt.Fprintf(&b, "| %s | %g | %g | %s | %.4g | %.4g | %.4g | %d |\n",
			lv.Name, lv.E, lv.HL, orDash(lv.JPi), lv.FluxIn, lv.FluxOut,
			sys.StartProb(lv.N), sys.NDF(lv.N))
	}

	b.WriteString("\n## Transitions\n\n")
	b.WriteString("| From | To | Kind | Branch | Detail |\n")
	b.WriteString("|---|---|---|--:|---|\n")
	levels := sys.Levels()
	for n := range levels {
		for i, ti := range sys.OutTransitions(n) {
			tr := sys.Transitions()[ti]
			base := tr.Base()
			fmt.Fprintf(&b, "| %s | %s | %s | %.4g | %s |\n",
				levels[base.From].Name, levels[base.To].Name, tr.Kind(),
				sys.BranchProb(n, i), transitionDetail(tr))
		}
	}

	if atoms := sys.Atoms(); len(atoms) > 0 {
		b.WriteString("\n## Atomic relaxation\n\n")
		b.WriteString("| Z | Element | Auger KLL (keV) | P(Auger) | I(Auger) | I(K x-ray) | I(CE K) | I(missing) |\n")
		b.WriteString("|--:|---|--:|--:|--:|--:|--:|--:|\n")
		for _, a := range atoms {
			fmt.Fprintf(&b, "| %d | %s | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
				a.Z(), a.Element(), a.Eauger, a.PAuger, a.Iauger, a.Ikxr, a.ICEK, a.IMissing)
		}
	}

	fmt.Fprintf(&b, "\nA chain from the start distribution consumes at most %d random slots.\n",
		sys.NDF(decay.StartAuto))
	return b.String(), nil
}

// HTML renders the markdown report as a standalone page
func (s *ReportService) HTML(name string) ([]byte, error) {
	md, err := s.Markdown(name)
	if err != nil {
		return nil, err
	}
	// parser instances are single-use
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	r := html.NewRenderer(html.RendererOptions{
		Title: name + " decay scheme",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, r), nil
}

func transitionDetail(tr decay.Transition) string {
	switch t := tr.(type) {
	case *decay.GammaConversionTransition:
		d := fmt.Sprintf("%.5g keV photon", t.Egamma)
		if ce := t.ConversionEffic(); ce > 0 {
			avg := t.AverageE()
			d += fmt.Sprintf(", conversion %.3g, CE mean %.5g +- %.2g keV", ce, avg.X, avg.Err)
		}
		return d
	case *decay.BetaTransition:
		sign := "beta-"
		if t.Positron {
			sign = "beta+"
		}
		d := fmt.Sprintf("%s endpoint %.5g keV", sign, t.Endpoint())
		if t.Shape.Forbidden > 0 {
			d += fmt.Sprintf(", forbidden %d", t.Shape.Forbidden)
		}
		return d
	case *decay.ECaptureTransition:
		return fmt.Sprintf("K vacancy p=%.4g", t.PVacant(0))
	default:
		return ""
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
