// Package boundary loads polygon boundary files and joins aggregated
// summaries onto them.
package boundary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Feature is one named boundary polygon.
type Feature struct {
	Key  string
	Geom geom.T
}

// Load reads a boundary file, dispatching on extension: .shp loads an ESRI
// shapefile, everything else is treated as GeoJSON. The key argument names
// the identifying attribute ("name" for boroughs, "postalCode" for ZCTAs).
func Load(path, key string) ([]Feature, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return LoadShapefile(path, key)
	}
	return LoadGeoJSON(path, key)
}

// LoadGeoJSON reads a GeoJSON FeatureCollection and extracts the keyed
// polygon features. Features without the key property or without geometry
// are skipped with a diagnostic.
func LoadGeoJSON(path, keyProperty string) ([]Feature, error) {
	log := zap.L().With(zap.String("component", "boundary.geojson"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: decode %s", path)
	}

	features := make([]Feature, 0, len(fc.Features))
	var skipped int
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}
		key, ok := propertyString(f.Properties, keyProperty)
		if !ok {
			skipped++
			continue
		}
		features = append(features, Feature{Key: key, Geom: f.Geometry})
	}

	if skipped > 0 {
		log.Warn("skipped features without key or geometry",
			zap.String("path", path), zap.Int("skipped", skipped))
	}
	if len(features) == 0 {
		return nil, eris.Errorf("boundary: %s contains no usable features keyed by %q", path, keyProperty)
	}

	log.Debug("boundary loaded", zap.String("path", path), zap.Int("features", len(features)))
	return features, nil
}

// TruncateKeys rewrites each feature key to its first n characters, deriving
// coarse keys such as ZIP3 from full postal codes. Keys shorter than n are
// left untouched.
func TruncateKeys(features []Feature, n int) []Feature {
	out := make([]Feature, len(features))
	for i, f := range features {
		if len(f.Key) > n {
			f.Key = f.Key[:n]
		}
		out[i] = f
	}
	return out
}

// propertyString extracts a property as a string, accepting both string and
// numeric JSON values.
func propertyString(props map[string]interface{}, key string) (string, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return fmt.Sprintf("%.0f", t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
