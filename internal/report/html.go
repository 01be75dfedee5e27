package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/egamma.report/internal/output"
)

// RenderHTML writes an interactive page with the working-point and trigger
// match counts of s and a pt-vs-|eta| scatter of the electrons in c.
func RenderHTML(w io.Writer, s Summary, c *Collector) error {
	wp := charts.NewBar()
	wp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Electron report", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Working points", Subtitle: fmt.Sprintf("electrons=%d events=%d", s.Electrons, s.Events)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	wp.SetXAxis([]string{"veto", "loose", "medium", "tight", "photon matched"}).
		AddSeries("electrons", []opts.BarData{
			{Value: s.Veto},
			{Value: s.Loose},
			{Value: s.Medium},
			{Value: s.Tight},
			{Value: s.PhotonMatched},
		}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	hlt := charts.NewBar()
	hlt.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Trigger matches"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	hltData := make([]opts.BarData, 0, output.NElectronHLTObjects)
	for _, n := range s.HLTMatches {
		hltData = append(hltData, opts.BarData{Value: n})
	}
	hlt.SetXAxis(output.ElectronHLTObjectNames()).
		AddSeries("matched", hltData, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	pts := make([]opts.ScatterData, 0, len(c.pt))
	for i := range c.pt {
		pts = append(pts, opts.ScatterData{Value: []interface{}{c.absEta[i], c.pt[i]}})
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "pt vs |eta|", Subtitle: fmt.Sprintf("points=%d", len(pts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "|eta|", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pt (GeV)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("electrons", pts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	page := components.NewPage()
	page.PageTitle = "Electron report"
	page.AddCharts(wp, hlt, scatter)
	return page.Render(w)
}
