// Package dataset loads the pre-aggregated air quality and asthma tables
// consumed by the map pipelines.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Record is one UHF42-level row of the final dataset.
type Record struct {
	UHF42       int
	Population  float64
	NO2         float64
	O3          float64
	AsthmaCount float64
}

// LoadCSV reads the final dataset CSV. A missing file is a fatal precondition
// for the run and is reported as a distinguishable error rather than an empty
// result. Rows with a missing or unparseable UHF42, Population, NO2 or O3 are
// dropped; a missing Asthma_Count is treated as zero.
func LoadCSV(path string) ([]Record, error) {
	log := zap.L().With(zap.String("component", "dataset.csv"))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("dataset: %s not found; run the analysis pipeline to generate it", path)
		}
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return parseCSV(f, log)
}

func parseCSV(r io.Reader, log *zap.Logger) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"UHF42", "Population", "NO2", "O3", "Asthma_Count"} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("dataset: missing column %s", required)
		}
	}

	var records []Record
	var dropped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read row")
		}

		rec, ok := parseRow(row, cols)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		log.Info("dropped rows with missing values", zap.Int("dropped", dropped), zap.Int("kept", len(records)))
	}
	return records, nil
}

// parseRow converts one CSV row to a Record. Returns false when any of the
// required fields is missing or unparseable.
func parseRow(row []string, cols map[string]int) (Record, bool) {
	uhf, ok := floatField(row, cols["UHF42"])
	if !ok {
		return Record{}, false
	}
	pop, ok := floatField(row, cols["Population"])
	if !ok {
		return Record{}, false
	}
	no2, ok := floatField(row, cols["NO2"])
	if !ok {
		return Record{}, false
	}
	o3, ok := floatField(row, cols["O3"])
	if !ok {
		return Record{}, false
	}

	// Asthma_Count is nullable; empty or malformed means zero.
	asthma, ok := floatField(row, cols["Asthma_Count"])
	if !ok {
		asthma = 0
	}

	return Record{
		UHF42:       int(uhf),
		Population:  pop,
		NO2:         no2,
		O3:          o3,
		AsthmaCount: asthma,
	}, true
}

func floatField(row []string, idx int) (float64, bool) {
	if idx >= len(row) {
		return 0, false
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
