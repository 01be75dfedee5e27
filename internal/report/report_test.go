package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/egamma.report/internal/output"
)

func testEvents() []*output.Event {
	a := &output.Event{Number: 1}
	a.SuperClusters.CreateBack(output.SuperCluster{})
	a.SuperClusters.CreateBack(output.SuperCluster{})
	e := a.Electrons.CreateBack(output.NewElectron())
	e.Pt, e.Eta, e.Veto, e.Loose, e.Tight = 40, -1.0, true, true, true
	e.ChIso, e.NhIso, e.PhoIso, e.IsoPUOffset = 2, 1, 1, 0
	e.ChIsoPh = 0.5
	e.MatchHLT[output.HLTEl27Tight] = true
	e = a.Electrons.CreateBack(output.NewElectron())
	e.Pt, e.Eta, e.Veto = 20, 2.0, true
	e.ChIso, e.NhIso, e.PhoIso, e.IsoPUOffset = 1, 1, 0, 5

	b := &output.Event{Number: 2}
	b.SuperClusters.CreateBack(output.SuperCluster{})

	c := &output.Event{Number: 3}
	e = c.Electrons.CreateBack(output.NewElectron())
	e.Pt, e.Eta, e.Veto, e.Medium = 30, 0.5, true, true
	e.MatchHLT[output.HLTEl27Tight] = true
	e.MatchHLT[output.HLTPh175] = true

	return []*output.Event{a, b, c}
}

func testCollector() *Collector {
	c := NewCollector()
	for _, ev := range testEvents() {
		c.Add(ev)
	}
	return c
}

func TestCollector_Summary(t *testing.T) {
	s := testCollector().Summary()

	assert.Equal(t, 3, s.Events)
	assert.Equal(t, 2, s.EventsWithElectrons)
	assert.Equal(t, 3, s.Electrons)
	assert.Equal(t, 3, s.SuperClusters)
	assert.Equal(t, 3, s.Veto)
	assert.Equal(t, 1, s.Loose)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 1, s.Tight)
	assert.Equal(t, 1, s.PhotonMatched)
	assert.Equal(t, 2, s.HLTMatches[output.HLTEl27Tight])
	assert.Equal(t, 1, s.HLTMatches[output.HLTPh175])
	assert.Equal(t, 0, s.HLTMatches[output.HLTEl23Loose])

	assert.Equal(t, 3, s.Pt.N)
	assert.InDelta(t, 30.0, s.Pt.Mean, 1e-12)
	assert.InDelta(t, 10.0, s.Pt.StdDev, 1e-12)
	assert.Equal(t, 20.0, s.Pt.Min)
	assert.Equal(t, 30.0, s.Pt.Median)
	assert.Equal(t, 40.0, s.Pt.Max)

	// combIso: 2+max(0,2)=4, 1+max(0,-4)=1, 0.
	assert.Equal(t, 0.0, s.CombIso.Min)
	assert.Equal(t, 4.0, s.CombIso.Max)
	assert.InDelta(t, 5.0/3, s.CombIso.Mean, 1e-12)
	assert.InDelta(t, 0.1, s.RelIso.Max, 1e-12)
}

func TestCollector_Empty(t *testing.T) {
	s := NewCollector().Summary()
	assert.Equal(t, 0, s.Pt.N)
	assert.False(t, math.IsNaN(s.Pt.Mean))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "pt       n=0")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testCollector().Summary()))
	out := buf.String()

	assert.Contains(t, out, "events:          3 (2 with electrons)")
	assert.Contains(t, out, "veto/loose/medium/tight: 3/1/1/1")
	assert.Contains(t, out, "mean=30.000")
	assert.Contains(t, out, "hlt El27Tight  2")
	assert.Equal(t, 10+output.NElectronHLTObjects, strings.Count(out, "\n"))
}

func TestSavePlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	files, err := SavePlots(dir, testCollector())
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), f)
	}

	files, err = SavePlots(dir, NewCollector())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSaveHistogram_NoValues(t *testing.T) {
	err := SaveHistogram(filepath.Join(t.TempDir(), "x.png"), "empty", "x", nil, 10)
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	c := testCollector()
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, c.Summary(), c))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Electron report")
	assert.Contains(t, html, "Trigger matches")
	assert.Contains(t, html, "El27Tight")
}
