// Package quickview renders a single record-set parameter as a PNG plot.
package quickview

import (
	"fmt"
	"image/color"
	"io"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls the rendered image size.
type Options struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions is a wide 8x4 inch canvas.
var DefaultOptions = Options{Width: 8 * vg.Inch, Height: 4 * vg.Inch}

var (
	lineColor  = color.NRGBA{R: 31, G: 119, B: 180, A: 128}
	pointColor = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
)

// Title is the plot label for a parameter of rs.
func Title(rs *domain.OrbitThicknessRecordSet, parameter string) string {
	return fmt.Sprintf("(parameter:%s, source:%s, orbit:%s)", parameter, rs.SourceID, rs.OrbitID)
}

// Render draws parameter against time, or against record index when the
// record set has no timestamps, as a line with a scatter overlay, and writes
// the PNG to w. Zero option fields fall back to DefaultOptions.
func Render(w io.Writer, rs *domain.OrbitThicknessRecordSet, parameter string, opts Options) error {
	if rs.NRecords() == 0 {
		return domain.ErrNoData
	}
	if !rs.HasParameter(parameter) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownParameter, parameter)
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}

	y, err := rs.Values(parameter)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = Title(rs, parameter)
	p.Y.Label.Text = parameter

	x, err := abscissa(rs, p)
	if err != nil {
		return err
	}

	xys := make(plotter.XYs, len(y))
	for i := range y {
		xys[i].X, xys[i].Y = x[i], y[i]
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("plot %s: %w", parameter, err)
	}
	line.LineStyle.Width = vg.Points(0.5)
	line.LineStyle.Color = lineColor
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(1)
	points.Color = pointColor
	p.Add(line, points)

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", parameter, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// abscissa returns the x values and labels the x axis to match.
func abscissa(rs *domain.OrbitThicknessRecordSet, p *plot.Plot) ([]float64, error) {
	if rs.HasTimestamp() {
		p.X.Label.Text = "time (UTC)"
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04:05"}
		return rs.Values(domain.ParamTimestamp)
	}
	p.X.Label.Text = "record"
	x := make([]float64, rs.NRecords())
	for i := range x {
		x[i] = float64(i)
	}
	return x, nil
}
