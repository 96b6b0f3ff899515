package decay

import (
	"nucgen/domain/event"
	"nucgen/domain/sampling"
)

// StartAuto asks chain generation to sample its own starting level from the
// chain-start distribution.
const StartAuto = -1

// GenDecayChain runs one decay chain from an auto-sampled starting level and
// returns dst extended by the emitted particles. When rs is nil a live state
// over the system's default source is used; a buffered state makes the whole
// chain a deterministic function of its slot block.
func (s *System) GenDecayChain(dst []event.Event, rs *sampling.RandState) []event.Event {
	return s.GenDecayChainFrom(dst, rs, StartAuto)
}

// GenDecayChainFrom runs one decay chain from an explicit level index. Only
// an auto-sampled start counts as initiating: an explicitly supplied level
// is subject to the half-life cutoff immediately, so a long-lived level
// yields no events unless it was picked by the start distribution.
//
// Each step samples the level's branching selector on the chained slot-0
// value, fires the chosen transition (which reuses the residual for its own
// nested selections and direction), advances the slot window by the
// transition's NDF, and resolves any K-shell vacancies through the daughter
// atom before falling through to the destination level. The walk cannot
// cycle: every transition lands strictly lower in energy.
func (s *System) GenDecayChainFrom(dst []event.Event, rs *sampling.RandState, level int) []event.Event {
	if rs == nil {
		rs = sampling.Live(s.src)
	}
	n := level
	init := n < 0 || n >= len(s.levels)
	if init {
		n = s.lStart.Select(rs.Chain(), rs.Src())
	}
	for {
		if s.levels[n].FluxOut == 0 || (!init && s.levels[n].HL > s.tcut) {
			return dst
		}
		tr := s.transitions[s.transOut[n][s.levelDecays[n].Select(rs.Chain(), rs.Src())]]
		vac := tr.Fire(&dst, rs)
		rs.Advance(tr.NDF())
		for ; vac > 0; vac-- {
			s.atoms[s.levels[tr.Base().To].Z].GenAuger(&dst, rs)
		}
		n = tr.Base().To
		init = false
	}
}

// NDF returns the static upper bound on the number of uniform slots any
// chain starting at the given level can consume. Pass StartAuto to maximize
// over every level the start distribution can pick. Buffered callers size
// their per-chain slot blocks with this; unused trailing slots are ignored.
func (s *System) NDF(level int) int {
	ndf := s.levelNDFs()
	if level >= 0 && level < len(s.levels) {
		return ndf[level]
	}
	max := 0
	for i := range s.levels {
		if s.lStart.Prob(i) == 0 {
			continue
		}
		if ndf[i] > max {
			max = ndf[i]
		}
	}
	return max
}

// levelNDFs resolves every level's slot bound in one ascending pass. Energy
// ordering makes this well-founded: a transition's destination always sits
// at a lower index than its origin.
func (s *System) levelNDFs() []int {
	ndf := make([]int, len(s.levels))
	for n := range s.levels {
		for _, ti := range s.transOut[n] {
			tr := s.transitions[ti]
			if d := tr.NDF() + ndf[tr.Base().To]; d > ndf[n] {
				ndf[n] = d
			}
		}
	}
	return ndf
}
