package exporter

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
)

var (
	colorOverall  = color.RGBA{A: 255}
	colorPositive = color.RGBA{G: 128, A: 255}
	colorNegative = color.RGBA{R: 255, A: 255}
	colorZeroLine = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// WriteFigure renders one theme's cohort curves as a PNG line chart: one line
// per non-empty cohort with its sample size in the legend, a zero reference
// line, and the y axis labelled in percent.
func WriteFigure(theme car.ThemeAnalysis, window car.Window, outputPath string) error {
	overall := theme.Cohort(car.CohortOverall)
	positive := theme.Cohort(car.CohortPositive)
	negative := theme.Cohort(car.CohortNegative)

	points := curvePoints(overall, positive, negative)
	if points == 0 {
		return fmt.Errorf("theme %s has no curve data to plot", theme.Theme)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sentiment Score-based %d-Day Cumulative Abnormal Return (CAR) Comparison", window.Days())
	p.X.Label.Text = "Days since Event"
	p.Y.Label.Text = "Average Cumulative Abnormal Return (CAR)"
	p.Y.Tick.Marker = percentTicks{}
	p.Add(plotter.NewGrid())

	if err := addZeroLine(p, points); err != nil {
		return fmt.Errorf("failed to add zero line: %w", err)
	}

	series := []struct {
		cohort *car.Cohort
		label  string
		color  color.RGBA
	}{
		{overall, "All", colorOverall},
		{positive, "Positive Group", colorPositive},
		{negative, "Negative Group", colorNegative},
	}

	for _, s := range series {
		if s.cohort == nil || len(s.cohort.AvgCurve) == 0 {
			continue
		}
		line, err := plotter.NewLine(curveXYs(s.cohort.AvgCurve))
		if err != nil {
			return fmt.Errorf("failed to build %s line: %w", s.cohort.Name, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = s.color
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (n=%d)", s.label, s.cohort.N), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create figure directory: %w", err)
	}

	if err := p.Save(12*vg.Inch, 8*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("failed to save figure for %s: %w", theme.Theme, err)
	}

	return nil
}

// curveXYs converts an average curve to plotter coordinates, x being days
// since the event.
func curveXYs(curve []float64) plotter.XYs {
	xys := make(plotter.XYs, len(curve))
	for i, v := range curve {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	return xys
}

// addZeroLine draws the y=0 reference across the window.
func addZeroLine(p *plot.Plot, points int) error {
	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: float64(points - 1), Y: 0},
	})
	if err != nil {
		return err
	}
	zero.LineStyle.Color = colorZeroLine
	zero.LineStyle.Width = vg.Points(1)
	p.Add(zero)
	return nil
}

// percentTicks renders the default tick positions with percent labels.
type percentTicks struct{}

// Ticks implements plot.Ticker.
func (percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = fmt.Sprintf("%.1f%%", t.Value*100)
	}
	return ticks
}
