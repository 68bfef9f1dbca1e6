package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom/carto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/boundary"
)

// Bivariate color lookup tables keyed by "{bucket1}-{bucket2}" class labels.
// Standard cartographic 2x2 and 3x3 grids.
var (
	BivariateColors2 = map[string]string{
		"0-0": "#e8e8e8",
		"0-1": "#b0d5df",
		"1-0": "#e4acac",
		"1-1": "#ad9ea5",
	}
	BivariateColors3 = map[string]string{
		"0-0": "#e8e8e8",
		"0-1": "#b0d5df",
		"0-2": "#64acbe",
		"1-0": "#e4acac",
		"1-1": "#ad9ea5",
		"1-2": "#627f8c",
		"2-0": "#c85a5a",
		"2-1": "#985356",
		"2-2": "#574249",
	}
)

// PaletteFor returns the bivariate color table matching a quantile count.
func PaletteFor(k int) map[string]string {
	if k >= 3 {
		return BivariateColors3
	}
	return BivariateColors2
}

// BivariateSpec configures one bivariate choropleth.
type BivariateSpec struct {
	Metric1    Metric
	Metric2    Metric
	Label1     string
	Label2     string
	Colors     map[string]string
	Quantiles  int
	Title      string
	OutputPath string
	DPI        int
}

const bivariateSize = 12 * vg.Inch

// Bivariate draws a two-variable quantile-classified map with an inset grid
// legend and writes it to spec.OutputPath. Regions missing either metric are
// excluded from classification and not drawn. Returns skipped=true, with a
// diagnostic logged and no file written, when no classifiable rows remain or
// when quantile classification fails; only I/O and drawing failures surface
// as errors.
func Bivariate(regions []boundary.Region, spec BivariateSpec) (skipped bool, err error) {
	log := zap.L().With(
		zap.String("component", "render.bivariate"),
		zap.String("output", spec.OutputPath),
	)
	log.Info("generating bivariate choropleth",
		zap.String("var1", spec.Label1), zap.String("var2", spec.Label2))

	// Exclude rows with a missing value in either metric.
	var classified []boundary.Region
	var v1s, v2s []float64
	for _, r := range regions {
		v1 := metricValue(r, spec.Metric1)
		v2 := metricValue(r, spec.Metric2)
		if math.IsNaN(v1) || math.IsNaN(v2) {
			continue
		}
		classified = append(classified, r)
		v1s = append(v1s, v1)
		v2s = append(v2s, v2)
	}
	if len(classified) == 0 {
		log.Warn("no data to plot, skipping map")
		return true, nil
	}

	b1, err := classify(v1s, spec.Quantiles)
	if err != nil {
		log.Warn("could not classify data, skipping map", zap.Error(err))
		return true, nil
	}
	b2, err := classify(v2s, spec.Quantiles)
	if err != nil {
		log.Warn("could not classify data, skipping map", zap.Error(err))
		return true, nil
	}

	north, south, east, west, ok := mapExtent(classified)
	if !ok {
		log.Warn("no drawable geometry, skipping map")
		return true, nil
	}

	srf := newSurface(bivariateSize, bivariateSize, spec.DPI)

	titlec := draw.Crop(srf.dc, 0, 0, bivariateSize-titleHeight, 0)
	plotc := draw.Crop(srf.dc, 0, 0, 0, -titleHeight)

	mc := carto.NewCanvas(north, south, east, west, plotc)
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}
	for i, r := range classified {
		g, drawable := drawableGeom(r.Geom)
		if !drawable {
			continue
		}
		class := fmt.Sprintf("%d-%d", b1[i], b2[i])
		fill := color.NRGBAModel.Convert(classColor(spec.Colors, class)).(color.NRGBA)
		if err := mc.DrawVector(g, fill, edge, draw.GlyphStyle{}); err != nil {
			return false, eris.Wrapf(err, "render: draw region %s", r.Key)
		}
	}

	drawTitle(titlec, spec.Title, vg.Points(18))
	drawGridLegend(plotc, spec)

	if err := srf.writePNG(spec.OutputPath); err != nil {
		return false, err
	}
	log.Info("saved map")
	return false, nil
}

// classColor resolves a class label to its fill. Labels absent from the
// table get no fill.
func classColor(colors map[string]string, class string) color.Color {
	hex, ok := colors[class]
	if !ok {
		return color.Transparent
	}
	c, ok := hexColor(hex)
	if !ok {
		return color.Transparent
	}
	return c
}

// drawGridLegend draws the KxK square legend as an inset at the top left of
// the map area: bucket indices of metric 1 ascend upward, metric 2 ascend
// rightward, with "High ... →" labels on both axes.
func drawGridLegend(c draw.Canvas, spec BivariateSpec) {
	k := spec.Quantiles
	if k < 1 {
		return
	}

	width := c.Max.X - c.Min.X
	side := width * 0.2
	origin := vg.Point{
		X: c.Min.X + width*0.05,
		Y: c.Max.Y - width*0.05 - side,
	}

	// Legend background.
	pad := vg.Points(6)
	bg, _ := hexColor("#f0f0f0")
	fillRect(c,
		vg.Point{X: origin.X - pad, Y: origin.Y - pad},
		vg.Point{X: origin.X + side + pad, Y: origin.Y + side + pad},
		bg)

	cell := side / vg.Length(k)
	outline := draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			hex, ok := spec.Colors[fmt.Sprintf("%d-%d", i, j)]
			if !ok {
				continue
			}
			clr, ok := hexColor(hex)
			if !ok {
				continue
			}
			min := vg.Point{
				X: origin.X + cell*vg.Length(j),
				Y: origin.Y + cell*vg.Length(i),
			}
			max := vg.Point{X: min.X + cell, Y: min.Y + cell}
			fillRect(c, min, max, clr)
			strokeRect(c, min, max, outline)
		}
	}

	axisStyle := textStyle(vg.Points(10), draw.XCenter, draw.YBottom, 0)
	c.FillText(axisStyle,
		vg.Point{X: origin.X + side/2, Y: origin.Y + side + pad + vg.Points(2)},
		fmt.Sprintf("High %s →", spec.Label2))

	rotStyle := textStyle(vg.Points(10), draw.XCenter, draw.YBottom, math.Pi/2)
	c.FillText(rotStyle,
		vg.Point{X: origin.X - pad - vg.Points(2), Y: origin.Y + side/2},
		fmt.Sprintf("High %s →", spec.Label1))
}
