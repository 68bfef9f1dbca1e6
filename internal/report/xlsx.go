// Package report exports aggregated summary tables for inspection alongside
// the rendered maps.
package report

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/aggregate"
)

// WriteSummaryXLSX writes one workbook with a single sheet holding a header
// row and one row per summary. NaN metrics become empty cells.
func WriteSummaryXLSX(path, sheetName string, sums []aggregate.Summary) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range []string{"Key", "NO2_avg", "O3_avg", "Population_sum", "Asthma_Count_sum", "asthma_rate"} {
		header.AddCell().SetString(name)
	}

	for _, s := range sums {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Key)
		setFloat(row.AddCell(), s.NO2Avg)
		setFloat(row.AddCell(), s.O3Avg)
		setFloat(row.AddCell(), s.PopulationSum)
		setFloat(row.AddCell(), s.AsthmaCountSum)
		setFloat(row.AddCell(), s.AsthmaRate)
	}

	return eris.Wrapf(file.Save(path), "report: save %s", path)
}

func setFloat(cell *xlsx.Cell, v float64) {
	if math.IsNaN(v) {
		cell.SetString("")
		return
	}
	cell.SetFloat(v)
}
