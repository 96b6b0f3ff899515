package decay

import (
	"nucgen/domain/atomic"
	"nucgen/domain/core"
	"nucgen/domain/event"
	"nucgen/domain/records"
	"nucgen/domain/sampling"
)

// Atom models K-shell vacancy relaxation for one element: the competition
// between Auger emission and characteristic X-rays. Built once per atomic
// number and cached by the owning system. Intensities are fractions of
// decays; PAuger is the chance a K vacancy resolves via the Auger branch.
type Atom struct {
	table    *atomic.BindingTable
	Eauger   float64 `json:"auger_kev"`
	Iauger   float64 `json:"i_auger"`
	Ikxr     float64 `json:"i_kxr"`
	ICEK     float64 `json:"i_cek"`
	IMissing float64 `json:"i_missing"`
	PAuger   float64 `json:"p_auger"`
}

// newAtom derives the nominal KLL Auger energy from the element's binding
// table. Missing binding entries fail construction; Z <= 2 has no Auger
// cascade and gets zero energy.
func newAtom(table *atomic.BindingTable) (*Atom, error) {
	a := &Atom{table: table}
	if table.Z() > 2 {
		bk, err := table.SubshellBinding(0, 0)
		if err != nil {
			return nil, err
		}
		bl1, err := table.SubshellBinding(1, 0)
		if err != nil {
			return nil, err
		}
		bl2, err := table.SubshellBinding(1, 1)
		if err != nil {
			return nil, err
		}
		a.Eauger = bk - bl1 - bl2
	}
	return a, nil
}

// Load folds one "AugerK" record into the model: fields starting with 'a'
// accumulate Auger intensity and fields starting with 'k' X-ray intensity,
// both in percent; an explicit "Iauger" field then replaces the accumulated
// Auger total. Without Auger intensity the model is inert: PAuger and
// IMissing are forced to zero.
func (a *Atom) Load(r records.Record) error {
	for _, f := range r.Fields {
		if f.Key == "" {
			continue
		}
		switch f.Key[0] {
		case 'a':
			v, err := records.ParseValueErr(f.Value)
			if err != nil {
				return core.NewRecordError(r.Class, f.Key, "not a number")
			}
			a.Iauger += v.X / 100
		case 'k':
			v, err := records.ParseValueErr(f.Value)
			if err != nil {
				return core.NewRecordError(r.Class, f.Key, "not a number")
			}
			a.Ikxr += v.X / 100
		}
	}
	explicit, err := r.FloatDefault("Iauger", a.Iauger*100)
	if err != nil {
		return err
	}
	a.Iauger = explicit / 100

	a.PAuger = a.Iauger / (a.Iauger + a.Ikxr)
	a.IMissing = a.Iauger + a.Ikxr - a.ICEK
	if a.Iauger == 0 {
		a.IMissing = 0
		a.PAuger = 0
	}
	return nil
}

// GenAuger resolves one K-shell vacancy: a Bernoulli draw against PAuger
// decides the branch; the Auger branch appends one electron at the nominal
// energy with an ambient-drawn isotropic direction, the X-ray branch appends
// nothing. Draws stay outside the chain's slot budget.
func (a *Atom) GenAuger(dst *[]event.Event, rs *sampling.RandState) {
	if a.PAuger <= 0 || rs.Ambient() > a.PAuger {
		return
	}
	evt := event.Event{Type: event.Electron, E: a.Eauger, W: 1}
	evt.P = sampling.IsotropicDirection(rs.Ambient(), rs.Ambient())
	*dst = append(*dst, evt)
}

// Z returns the element's atomic number
func (a *Atom) Z() int { return a.table.Z() }

// Element returns the element symbol
func (a *Atom) Element() string { return a.table.Name() }
