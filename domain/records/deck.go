package records

import "nucgen/domain/core"

// Deck is the ordered record collection parsed from one decay-scheme file,
// fingerprinted so downstream runs can record the exact dataset they used.
type Deck struct {
	Records []Record
	Hash    core.DeckHash
}

// Append adds a record to the deck
func (d *Deck) Append(r Record) {
	d.Records = append(d.Records, r)
}

// Class returns all records of the given class, in file order
func (d Deck) Class(class string) []Record {
	var rs []Record
	for _, r := range d.Records {
		if r.Class == class {
			rs = append(rs, r)
		}
	}
	return rs
}

// GetDefault returns the first value of key across the records of class, in
// file order, or def when no record carries it.
func (d Deck) GetDefault(class, key, def string) string {
	for _, r := range d.Records {
		if r.Class == class {
			if v, ok := r.Get(key); ok {
				return v
			}
		}
	}
	return def
}
