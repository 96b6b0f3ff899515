package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"nucgen/domain/decay"
)

// LoadGammaForest reads gamma lines from the first two columns of a
// workbook's first sheet: energy then relative cross-section, one line per
// row. Rows whose leading cells do not both parse as numbers are skipped,
// so headers and annotations are tolerated. Energies are scaled by e2keV
// on the way in.
func LoadGammaForest(path string, e2keV float64) (*decay.GammaForest, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("gamma forest %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("gamma forest %s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("gamma forest %s: %w", path, err)
	}

	forest := decay.NewGammaForest()
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		e, errE := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		xs, errX := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errE != nil || errX != nil {
			continue
		}
		if err := forest.AddLine(e*e2keV, xs); err != nil {
			return nil, fmt.Errorf("gamma forest %s: %w", path, err)
		}
	}
	return forest, nil
}
