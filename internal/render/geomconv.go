package render

import (
	"math"

	cgeom "github.com/ctessum/geom"
	"github.com/twpayne/go-geom"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/boundary"
)

// drawableGeom converts a boundary geometry into the polygon representation
// the map canvas draws. Non-areal geometries are not drawable.
func drawableGeom(g geom.T) (cgeom.Geom, bool) {
	switch t := g.(type) {
	case *geom.Polygon:
		p := polygonRings(t)
		if len(p) == 0 {
			return nil, false
		}
		return p, true
	case *geom.MultiPolygon:
		mp := make(cgeom.MultiPolygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			if p := polygonRings(t.Polygon(i)); len(p) > 0 {
				mp = append(mp, p)
			}
		}
		if len(mp) == 0 {
			return nil, false
		}
		return mp, true
	default:
		return nil, false
	}
}

func polygonRings(p *geom.Polygon) cgeom.Polygon {
	rings := make(cgeom.Polygon, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		if len(coords) == 0 {
			continue
		}
		ring := make([]cgeom.Point, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, cgeom.Point{X: c[0], Y: c[1]})
		}
		rings = append(rings, ring)
	}
	return rings
}

// mapExtent returns the padded bounding box (N, S, E, W) of all region
// geometries. ok is false when no region has a geometry.
func mapExtent(regions []boundary.Region) (n, s, e, w float64, ok bool) {
	n, e = math.Inf(-1), math.Inf(-1)
	s, w = math.Inf(1), math.Inf(1)

	for _, r := range regions {
		if r.Geom == nil {
			continue
		}
		b := r.Geom.Bounds()
		if b == nil {
			continue
		}
		ok = true
		w = math.Min(w, b.Min(0))
		s = math.Min(s, b.Min(1))
		e = math.Max(e, b.Max(0))
		n = math.Max(n, b.Max(1))
	}
	if !ok {
		return 0, 0, 0, 0, false
	}

	// 2% margin so strokes at the extent are not clipped.
	padX := (e - w) * 0.02
	padY := (n - s) * 0.02
	return n + padY, s - padY, e + padX, w - padX, true
}
