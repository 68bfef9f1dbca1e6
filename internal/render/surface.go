package render

import (
	"image/color"
	"os"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// surface is one drawing canvas scoped to a single render call. Each call
// builds its own surface and persists it before returning, so repeated
// renders within one process never share drawing state.
type surface struct {
	img *vgimg.Canvas
	dc  draw.Canvas
}

func newSurface(w, h vg.Length, dpi int) *surface {
	if dpi <= 0 {
		dpi = 300
	}
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	dc := draw.New(img)
	// White page background.
	fillRect(dc, dc.Min, dc.Max, color.White)
	return &surface{img: img, dc: dc}
}

// writePNG persists the surface to path, overwriting any existing file.
func (s *surface) writePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: s.img}).WriteTo(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "render: encode %s", path)
	}
	return eris.Wrapf(f.Close(), "render: close %s", path)
}

// textStyle builds a text style at the given size and alignment. rot is in
// radians.
func textStyle(size vg.Length, xa draw.XAlignment, ya draw.YAlignment, rot float64) draw.TextStyle {
	return draw.TextStyle{
		Color:    color.Black,
		Font:     mustFont(size),
		Rotation: rot,
		XAlign:   xa,
		YAlign:   ya,
	}
}

// mustFont resolves the standard Helvetica face shipped with the vg font set.
func mustFont(size vg.Length) vg.Font {
	fnt, err := vg.MakeFont("Helvetica", size)
	if err != nil {
		panic("render: missing font: " + err.Error())
	}
	return fnt
}

func fillRect(c draw.Canvas, min, max vg.Point, clr color.Color) {
	c.FillPolygon(clr, []vg.Point{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	})
}

func strokeRect(c draw.Canvas, min, max vg.Point, sty draw.LineStyle) {
	c.StrokeLines(sty, []vg.Point{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
		{X: min.X, Y: min.Y},
	})
}
