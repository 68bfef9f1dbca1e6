package render

import (
	"image/color"
	"math"
	"strconv"

	"github.com/ctessum/geom/carto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/aggregate"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/boundary"
)

// Metric extracts one value from an aggregated summary.
type Metric func(*aggregate.Summary) float64

// metricValue resolves a region's metric, NaN when the region has no summary.
func metricValue(r boundary.Region, m Metric) float64 {
	if r.Summary == nil {
		return math.NaN()
	}
	return m(r.Summary)
}

// ChoroplethSpec configures one single-variable map.
type ChoroplethSpec struct {
	Metric      Metric
	Title       string
	LegendLabel string
	Ramp        Ramp
	OutputPath  string
	DPI         int
}

const (
	choroplethSize = 10 * vg.Inch
	titleHeight    = 0.6 * vg.Inch
	legendHeight   = 0.9 * vg.Inch
)

// Choropleth draws a continuous-scale shaded-polygon map and writes it to
// spec.OutputPath, overwriting any existing file. Polygons without a metric
// value are shaded the neutral no-data color. No coordinate axes are drawn.
func Choropleth(regions []boundary.Region, spec ChoroplethSpec) error {
	log := zap.L().With(
		zap.String("component", "render.choropleth"),
		zap.String("output", spec.OutputPath),
	)
	log.Info("generating choropleth", zap.String("ramp", spec.Ramp.Name))

	north, south, east, west, ok := mapExtent(regions)
	if !ok {
		return eris.Errorf("render: no drawable geometry for %s", spec.OutputPath)
	}

	// Metric range over regions that have a value.
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, r := range regions {
		v := metricValue(r, spec.Metric)
		if math.IsNaN(v) {
			continue
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	hasData := maxV >= minV

	srf := newSurface(choroplethSize, choroplethSize, spec.DPI)

	titlec := draw.Crop(srf.dc, 0, 0, choroplethSize-titleHeight, 0)
	legendc := draw.Crop(srf.dc, 0.75*vg.Inch, -0.75*vg.Inch, 0, legendHeight-choroplethSize)
	plotc := draw.Crop(srf.dc, 0, 0, legendHeight, -titleHeight)

	mc := carto.NewCanvas(north, south, east, west, plotc)
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}
	for _, r := range regions {
		g, drawable := drawableGeom(r.Geom)
		if !drawable {
			continue
		}
		fill := NoData
		if v := metricValue(r, spec.Metric); hasData && !math.IsNaN(v) {
			fill = spec.Ramp.At(normalize(v, minV, maxV))
		}
		if err := mc.DrawVector(g, fill, edge, draw.GlyphStyle{}); err != nil {
			return eris.Wrapf(err, "render: draw region %s", r.Key)
		}
	}

	drawTitle(titlec, spec.Title, vg.Points(16))
	drawScaleLegend(legendc, spec, minV, maxV, hasData)

	if err := srf.writePNG(spec.OutputPath); err != nil {
		return err
	}
	log.Info("saved map")
	return nil
}

func normalize(v, minV, maxV float64) float64 {
	if maxV == minV {
		return 0.5
	}
	return (v - minV) / (maxV - minV)
}

func drawTitle(c draw.Canvas, title string, size vg.Length) {
	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	c.FillText(textStyle(size, draw.XCenter, draw.YCenter, 0), center, title)
}

// drawScaleLegend renders the horizontal continuous color bar with min/max
// tick labels and the supplied legend label beneath it.
func drawScaleLegend(c draw.Canvas, spec ChoroplethSpec, minV, maxV float64, hasData bool) {
	width := c.Max.X - c.Min.X
	height := c.Max.Y - c.Min.Y

	barMin := vg.Point{X: c.Min.X, Y: c.Min.Y + 0.55*height}
	barMax := vg.Point{X: c.Max.X, Y: c.Min.Y + 0.9*height}

	if hasData {
		const steps = 128
		for i := 0; i < steps; i++ {
			x0 := barMin.X + width*vg.Length(i)/steps
			x1 := barMin.X + width*vg.Length(i+1)/steps
			clr := spec.Ramp.At((float64(i) + 0.5) / steps)
			fillRect(c, vg.Point{X: x0, Y: barMin.Y}, vg.Point{X: x1, Y: barMax.Y}, clr)
		}
	} else {
		fillRect(c, barMin, barMax, NoData)
	}
	strokeRect(c, barMin, barMax, draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)})

	tickY := barMin.Y - vg.Points(4)
	if hasData {
		tickStyle := textStyle(vg.Points(9), draw.XCenter, draw.YTop, 0)
		c.FillText(tickStyle, vg.Point{X: barMin.X, Y: tickY}, formatTick(minV))
		c.FillText(tickStyle, vg.Point{X: barMax.X, Y: tickY}, formatTick(maxV))
	}

	labelStyle := textStyle(vg.Points(11), draw.XCenter, draw.YBottom, 0)
	c.FillText(labelStyle, vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: c.Min.Y}, spec.LegendLabel)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
