package decaydata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"nucgen/domain/decay"
)

// LoadGammaForest reads a gamma line list: one "energy crossSection" pair
// per line, split on spaces, commas, or tabs. Blank lines, '#' comments, and
// lines without exactly two numbers are skipped. Energies are multiplied by
// e2keV, so files tabulated in MeV load with e2keV = 1000.
func LoadGammaForest(path string, e2keV float64) (*decay.GammaForest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decaydata: read gamma lines: %w", err)
	}
	defer f.Close()

	forest := decay.NewGammaForest()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
		vs, ok := parsePair(fields)
		if !ok {
			continue
		}
		if err := forest.AddLine(vs[0]*e2keV, vs[1]); err != nil {
			return nil, fmt.Errorf("decaydata: gamma line %q: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("decaydata: read gamma lines: %w", err)
	}
	return forest, nil
}

func parsePair(fields []string) ([2]float64, bool) {
	var vs [2]float64
	if len(fields) != 2 {
		return vs, false
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vs, false
		}
		vs[i] = v
	}
	return vs, true
}
