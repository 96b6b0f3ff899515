package decay

import (
	"fmt"
	"sort"

	"nucgen/domain/atomic"
	"nucgen/domain/core"
	"nucgen/domain/records"
	"nucgen/domain/sampling"
)

// System owns one nuclide's level/transition graph: the sorted level arena,
// per-level inbound/outbound transition index lists, the per-level branching
// selectors, the chain-start selector, and the per-element atom cache.
// Construction is all-or-nothing; a built system is read-only and chain
// generation never fails. One system serves one goroutine; parallel callers
// build a system per worker.
type System struct {
	Name string

	levels      []Level
	levelIndex  map[string]int
	transitions []Transition
	transIn     [][]int
	transOut    [][]int
	levelDecays []sampling.Selector
	lStart      sampling.Selector
	tcut        float64
	atoms       map[int]*Atom
	bindings    *atomic.Library
	src         sampling.Source
	hash        core.DeckHash
}

// NewSystem builds the graph from a parsed deck: levels are sorted by energy
// and densely re-indexed, then gamma, beta, and electron-capture records are
// resolved against them in that order, with optional ground-state
// normalization applied after the gammas and atomic relaxation data loaded
// before the betas. src is the default random source for live generation.
func NewSystem(deck records.Deck, bindings *atomic.Library, tcut float64, src sampling.Source) (*System, error) {
	if src == nil {
		return nil, fmt.Errorf("decay: nil default random source")
	}
	s := &System{
		Name:       deck.GetDefault("fileinfo", "fancyname", ""),
		levelIndex: make(map[string]int),
		atoms:      make(map[int]*Atom),
		bindings:   bindings,
		src:        src,
		hash:       deck.Hash,
	}

	for _, rec := range deck.Class("level") {
		l, err := levelFromRecord(rec)
		if err != nil {
			return nil, err
		}
		s.levels = append(s.levels, l)
	}
	if len(s.levels) == 0 {
		return nil, core.ErrEmptySystem
	}
	sort.SliceStable(s.levels, func(i, j int) bool { return s.levels[i].E < s.levels[j].E })
	for i := range s.levels {
		name := s.levels[i].Name
		if _, dup := s.levelIndex[name]; dup {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateLevel, name)
		}
		s.levels[i].N = i
		s.levelIndex[name] = i
	}
	s.transIn = make([][]int, len(s.levels))
	s.transOut = make([][]int, len(s.levels))
	s.levelDecays = make([]sampling.Selector, len(s.levels))

	for _, rec := range deck.Class("gamma") {
		fi, err := s.levelIndexOf(rec.GetDefault("from", ""))
		if err != nil {
			return nil, err
		}
		ti, err := s.levelIndexOf(rec.GetDefault("to", ""))
		if err != nil {
			return nil, err
		}
		table, err := s.bindings.Table(s.levels[ti].Z)
		if err != nil {
			return nil, err
		}
		tr, err := newGammaConversion(&s.levels[fi], &s.levels[ti], table, rec)
		if err != nil {
			return nil, err
		}
		if err := s.addTransition(tr); err != nil {
			return nil, err
		}
	}

	if deck.GetDefault("norm", "gamma", "") == "groundstate" {
		gsflux := 0.0
		for i := range s.levels {
			if s.levels[i].FluxOut == 0 {
				gsflux += s.levels[i].FluxIn
			}
		}
		if !(gsflux > 0) {
			return nil, fmt.Errorf("%w: no flux reaches the outflux-free levels", core.ErrNormalization)
		}
		for _, tr := range s.transitions {
			tr.Scale(1 / gsflux)
		}
		for i := range s.levels {
			s.levels[i].scale(1 / gsflux)
		}
	}

	// conversion flux per element, accumulated before relaxation data loads
	for _, tr := range s.transitions {
		a, err := s.atom(s.levels[tr.Base().To].Z)
		if err != nil {
			return nil, err
		}
		a.ICEK += tr.PVacant(0) * tr.Base().Itotal
	}
	for _, rec := range deck.Class("AugerK") {
		z, err := rec.IntDefault("Z", 0)
		if err != nil {
			return nil, err
		}
		if z <= 0 {
			return nil, core.NewRecordError(rec.Class, "Z", fmt.Sprintf("invalid atomic number %d", z))
		}
		a, err := s.atom(z)
		if err != nil {
			return nil, err
		}
		if err := a.Load(rec); err != nil {
			return nil, err
		}
	}

	for _, rec := range deck.Class("beta") {
		fi, err := s.levelIndexOf(rec.GetDefault("from", ""))
		if err != nil {
			return nil, err
		}
		ti, err := s.levelIndexOf(rec.GetDefault("to", ""))
		if err != nil {
			return nil, err
		}
		tr, err := newBeta(&s.levels[fi], &s.levels[ti], rec)
		if err != nil {
			return nil, err
		}
		if err := s.addTransition(tr); err != nil {
			return nil, err
		}
	}

	for _, rec := range deck.Class("ecapt") {
		if err := s.addECapture(rec); err != nil {
			return nil, err
		}
	}

	s.SetCutoff(tcut)
	return s, nil
}

// addECapture registers the captures of one "ecapt" record. A named target
// must be the same mass chain, one proton down, and strictly lower in
// energy, taking the record's intensity as given; target "AUTO" instead
// covers every energetically allowed daughter level whose influx has not
// yet caught up with its outflux, each worth its remaining deficit.
func (s *System) addECapture(rec records.Record) error {
	fi, err := s.levelIndexOf(rec.GetDefault("from", ""))
	if err != nil {
		return err
	}
	target := rec.GetDefault("to", "AUTO")
	if target == "AUTO" {
		for i := range s.levels {
			orig, dest := &s.levels[fi], &s.levels[i]
			if dest.A != orig.A || dest.Z+1 != orig.Z || dest.E >= orig.E {
				continue
			}
			missing := dest.FluxOut - dest.FluxIn
			if missing <= 0 {
				continue
			}
			a, err := s.atom(dest.Z)
			if err != nil {
				return err
			}
			tr := &ECaptureTransition{
				TransitionBase: TransitionBase{From: fi, To: i, Itotal: missing},
				atom:           a,
			}
			if err := s.addTransition(tr); err != nil {
				return err
			}
		}
		return nil
	}

	ti, err := s.levelIndexOf(target)
	if err != nil {
		return err
	}
	orig, dest := &s.levels[fi], &s.levels[ti]
	if dest.A != orig.A || dest.Z+1 != orig.Z || dest.E >= orig.E {
		return core.NewTransitionError("ecapture", orig.Name, dest.Name, "target is not a lower level of the capture daughter")
	}
	intensity, err := rec.FloatDefault("I", 0)
	if err != nil {
		return err
	}
	if intensity < 0 {
		return core.NewRecordError(rec.Class, "I", fmt.Sprintf("negative intensity %g", intensity))
	}
	a, err := s.atom(dest.Z)
	if err != nil {
		return err
	}
	tr := &ECaptureTransition{
		TransitionBase: TransitionBase{From: fi, To: ti, Itotal: intensity},
		atom:           a,
	}
	return s.addTransition(tr)
}

// addTransition registers an edge: indexes it from both endpoints, extends
// the origin's branching selector, accumulates endpoint fluxes, and makes
// sure the destination element's atom exists.
func (s *System) addTransition(t Transition) error {
	b := t.Base()
	if _, err := s.atom(s.levels[b.To].Z); err != nil {
		return err
	}
	idx := len(s.transitions)
	s.transitions = append(s.transitions, t)
	s.transIn[b.To] = append(s.transIn[b.To], idx)
	s.transOut[b.From] = append(s.transOut[b.From], idx)
	s.levelDecays[b.From].AddProb(b.Itotal)
	s.levels[b.From].FluxOut += b.Itotal
	s.levels[b.To].FluxIn += b.Itotal
	return nil
}

// atom returns the relaxation model for element z, building it on first touch
func (s *System) atom(z int) (*Atom, error) {
	if a, ok := s.atoms[z]; ok {
		return a, nil
	}
	table, err := s.bindings.Table(z)
	if err != nil {
		return nil, err
	}
	a, err := newAtom(table)
	if err != nil {
		return nil, err
	}
	s.atoms[z] = a
	return a, nil
}

func (s *System) levelIndexOf(name string) (int, error) {
	n, ok := s.levelIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", core.ErrUnknownLevel, name)
	}
	return n, nil
}

// SetCutoff rebuilds the per-level branching selectors and the chain-start
// distribution for timescale t. The highest-energy level always starts with
// weight 1; a longer-lived level that still decays starts with its total
// influx, modeling a separately sampled delayed source; every other level
// starts with weight 0. The graph itself never changes.
func (s *System) SetCutoff(t float64) {
	s.tcut = t
	s.lStart = sampling.Selector{}
	for n := range s.levels {
		s.levelDecays[n] = sampling.Selector{}
		for _, ti := range s.transOut[n] {
			s.levelDecays[n].AddProb(s.transitions[ti].Base().Itotal)
		}

		pStart := 0.0
		if n == len(s.levels)-1 {
			pStart = 1
		} else if s.levels[n].HL > t && len(s.transOut[n]) > 0 {
			for _, ti := range s.transIn[n] {
				pStart += s.transitions[ti].Base().Itotal
			}
		}
		s.lStart.AddProb(pStart)
	}
}

// Scale rescales every intensity in the system by f
func (s *System) Scale(f float64) {
	s.lStart.Scale(f)
	for _, tr := range s.transitions {
		tr.Scale(f)
	}
	for i := range s.levels {
		s.levels[i].scale(f)
		s.levelDecays[i].Scale(f)
	}
}

// Cutoff returns the current half-life cutoff in seconds
func (s *System) Cutoff() float64 { return s.tcut }

// DeckHash returns the fingerprint of the deck the system was built from
func (s *System) DeckHash() core.DeckHash { return s.hash }

// Levels returns the energy-ordered level arena; callers must not mutate it
func (s *System) Levels() []Level { return s.levels }

// Transitions returns every registered transition; callers must not mutate
func (s *System) Transitions() []Transition { return s.transitions }

// Atoms returns the touched relaxation models in ascending Z order
func (s *System) Atoms() []*Atom {
	zs := make([]int, 0, len(s.atoms))
	for z := range s.atoms {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	as := make([]*Atom, len(zs))
	for i, z := range zs {
		as[i] = s.atoms[z]
	}
	return as
}

// LevelIndex resolves a level name to its dense index
func (s *System) LevelIndex(name string) (int, error) {
	return s.levelIndexOf(name)
}

// StartProb returns the normalized chance that a chain starts at level n
func (s *System) StartProb(n int) float64 {
	return s.lStart.Prob(n)
}

// OutTransitions returns the transition indices leaving level n; callers
// must not mutate the slice
func (s *System) OutTransitions(n int) []int { return s.transOut[n] }

// InTransitions returns the transition indices feeding level n; callers
// must not mutate the slice
func (s *System) InTransitions(n int) []int { return s.transIn[n] }

// BranchProb returns the normalized probability that level n decays through
// its i-th outgoing transition
func (s *System) BranchProb(n, i int) float64 { return s.levelDecays[n].Prob(i) }
