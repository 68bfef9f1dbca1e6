package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/config"
)

const testBoroughGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Bronx"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
    {"type": "Feature", "properties": {"name": "Brooklyn"},
     "geometry": {"type": "Polygon", "coordinates": [[[1,0],[2,0],[2,1],[1,1],[1,0]]]}},
    {"type": "Feature", "properties": {"name": "Manhattan"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,1],[1,1],[1,2],[0,2],[0,1]]]}},
    {"type": "Feature", "properties": {"name": "Queens"},
     "geometry": {"type": "Polygon", "coordinates": [[[1,1],[2,1],[2,2],[1,2],[1,1]]]}},
    {"type": "Feature", "properties": {"name": "Staten Island"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,2],[1,2],[1,3],[0,3],[0,2]]]}}
  ]
}`

const testZctaGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"postalCode": "10001"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
    {"type": "Feature", "properties": {"postalCode": "10451"},
     "geometry": {"type": "Polygon", "coordinates": [[[1,0],[2,0],[2,1],[1,1],[1,0]]]}},
    {"type": "Feature", "properties": {"postalCode": "11201"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,1],[1,1],[1,2],[0,2],[0,1]]]}},
    {"type": "Feature", "properties": {"postalCode": "11375"},
     "geometry": {"type": "Polygon", "coordinates": [[[1,1],[2,1],[2,2],[1,2],[1,1]]]}},
    {"type": "Feature", "properties": {"postalCode": "10301"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,2],[1,2],[1,3],[0,3],[0,2]]]}}
  ]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	boroughPath := filepath.Join(dir, "boroughs.geojson")
	require.NoError(t, os.WriteFile(boroughPath, []byte(testBoroughGeoJSON), 0o644))
	zctaPath := filepath.Join(dir, "zcta.geojson")
	require.NoError(t, os.WriteFile(zctaPath, []byte(testZctaGeoJSON), 0o644))

	return &config.Config{
		Data: config.DataConfig{
			DatasetCSV: filepath.Join(dir, "final_dataset.csv"),
			CacheDB:    filepath.Join(dir, "asthma_cache.db"),
		},
		Boundary: config.BoundaryConfig{
			Borough: boroughPath,
			ZCTA:    zctaPath,
		},
		Render: config.RenderConfig{
			OutputDir:        filepath.Join(dir, "output"),
			DPI:              72,
			BoroughQuantiles: 2,
			Zip3Quantiles:    3,
		},
	}
}

func TestBoroughEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Seed(context.Background(), cfg))

	require.NoError(t, Borough(cfg))

	for _, name := range []string{
		"map_borough_asthma_rate.png",
		"map_borough_no2.png",
		"map_borough_o3.png",
		"map_borough_bivariate_asthma_no2.png",
		"map_borough_bivariate_asthma_o3.png",
		"summary_borough.xlsx",
	} {
		_, err := os.Stat(filepath.Join(cfg.Render.OutputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestZIP3EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, cfg))

	require.NoError(t, ZIP3(ctx, cfg))

	for _, name := range []string{
		"map_zip3_asthma_count.png",
		"map_zip3_no2.png",
		"map_zip3_o3.png",
		"map_zip3_bivariate_asthma_no2.png",
		"map_zip3_bivariate_asthma_o3.png",
		"summary_zip3.xlsx",
	} {
		_, err := os.Stat(filepath.Join(cfg.Render.OutputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestBoroughMissingDatasetIsFatal(t *testing.T) {
	cfg := testConfig(t)
	err := Borough(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestZIP3MissingCacheIsFatal(t *testing.T) {
	cfg := testConfig(t)
	err := ZIP3(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBoroughMissingBoundaryAbortsOnlyMapStage(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Seed(context.Background(), cfg))
	cfg.Boundary.Borough = filepath.Join(t.TempDir(), "missing.geojson")

	// The stage failure is reported but does not fail the run.
	require.NoError(t, Borough(cfg))

	// The summary is still written; no maps are.
	_, err := os.Stat(filepath.Join(cfg.Render.OutputDir, "summary_borough.xlsx"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.Render.OutputDir, "map_borough_no2.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSeedOverwrites(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, cfg))
	require.NoError(t, Seed(ctx, cfg))

	info, err := os.Stat(cfg.Data.DatasetCSV)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
