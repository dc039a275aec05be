// Package visualization renders light-curve plots and ships artifacts to
// the object store.
package visualization

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/search"
)

// Plot dimensions.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// RenderCleaned renders the cleaned, normalized series against time as a
// PNG image.
func RenderCleaned(lc *domain.LightCurve) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s cleaned light curve", lc.StarID)
	p.X.Label.Text = "time [d]"
	p.Y.Label.Text = "normalized flux"

	pts := make(plotter.XYs, lc.Len())
	for i, s := range lc.Samples {
		pts[i].X = s.Time
		pts[i].Y = s.Flux
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("build scatter: %w", err)
	}
	scatter.Radius = vg.Points(0.8)
	p.Add(scatter)

	return renderPNG(p)
}

// RenderFolded renders the series folded at the candidate's period, with
// phase on the X axis. The transit dip shows up as a cluster of low-flux
// points at the candidate phase.
func RenderFolded(lc *domain.LightCurve, candidate domain.TransitCandidate) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s folded at P=%.4f d", lc.StarID, candidate.Period)
	p.X.Label.Text = "phase"
	p.Y.Label.Text = "normalized flux"
	p.X.Min = 0
	p.X.Max = 1

	phases := search.Fold(lc.Samples, lc.Epoch(), candidate.Period)
	pts := make(plotter.XYs, lc.Len())
	for i, s := range lc.Samples {
		pts[i].X = phases[i]
		pts[i].Y = s.Flux
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("build scatter: %w", err)
	}
	scatter.Radius = vg.Points(0.8)
	p.Add(scatter)

	return renderPNG(p)
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return buf.Bytes(), nil
}
