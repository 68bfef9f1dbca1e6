package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads polygon features from an ESRI shapefile, keyed by the
// named attribute field. Non-polygon shapes are skipped.
func LoadShapefile(path, keyField string) ([]Feature, error) {
	log := zap.L().With(zap.String("component", "boundary.shapefile"))

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	keyIdx := fieldIndex(reader, keyField)
	if keyIdx < 0 {
		return nil, eris.Errorf("boundary: field %q not found in %s", keyField, path)
	}

	var features []Feature
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		key := strings.TrimSpace(reader.Attribute(keyIdx))
		g := polygonToMultiPolygon(poly)
		if key == "" || g == nil {
			skipped++
			continue
		}
		features = append(features, Feature{Key: key, Geom: g})
	}

	if skipped > 0 {
		log.Warn("skipped non-polygon or unkeyed shapes",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	if len(features) == 0 {
		return nil, eris.Errorf("boundary: %s contains no polygon features keyed by %q", path, keyField)
	}
	return features, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Each part becomes a single-ring polygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
