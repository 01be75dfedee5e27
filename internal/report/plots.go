package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultBins is the histogram bin count used by SavePlots.
const DefaultBins = 40

// SaveHistogram writes a PNG histogram of values to path.
func SaveHistogram(path, title, xLabel string, values []float64, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("histogram %q: no values", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "electrons"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %w", title, err)
	}
	h.FillColor = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)
	p.Add(plotter.NewGrid())

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SavePlots writes the pt, |eta| and relative isolation histograms of c into
// dir and returns the files written. Empty distributions are skipped.
func SavePlots(dir string, c *Collector) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}

	plots := []struct {
		file, title, xLabel string
		values              []float64
	}{
		{"electron_pt.png", "Electron pt", "pt (GeV)", c.Pt()},
		{"electron_abseta.png", "Electron |eta|", "|eta|", c.AbsEta()},
		{"electron_reliso.png", "Electron relative isolation", "combIso / pt", c.RelIso()},
	}

	var written []string
	for _, pl := range plots {
		if len(pl.values) == 0 {
			continue
		}
		path := filepath.Join(dir, pl.file)
		if err := SaveHistogram(path, pl.title, pl.xLabel, pl.values, DefaultBins); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
