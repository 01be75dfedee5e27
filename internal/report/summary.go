// Package report summarises the electrons produced over a run.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/egamma.report/internal/output"
)

// Collector accumulates per-electron quantities across events.
type Collector struct {
	events              int
	eventsWithElectrons int
	superClusters       int

	pt       []float64
	absEta   []float64
	combIso  []float64
	relIso   []float64
	ecalIso  []float64
	phoMatch int

	veto, loose, medium, tight int
	hlt                        [output.NElectronHLTObjects]int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Add records every electron of ev.
func (c *Collector) Add(ev *output.Event) {
	c.events++
	c.superClusters += ev.SuperClusters.Len()
	if ev.Electrons.Len() > 0 {
		c.eventsWithElectrons++
	}
	for i := 0; i < ev.Electrons.Len(); i++ {
		e := ev.Electrons.At(i)
		c.pt = append(c.pt, e.Pt)
		c.absEta = append(c.absEta, math.Abs(e.Eta))
		iso := e.CombIso()
		c.combIso = append(c.combIso, iso)
		if e.Pt > 0 {
			c.relIso = append(c.relIso, iso/e.Pt)
		}
		c.ecalIso = append(c.ecalIso, e.EcalIso)
		if e.HasPhotonIso() {
			c.phoMatch++
		}
		if e.Veto {
			c.veto++
		}
		if e.Loose {
			c.loose++
		}
		if e.Medium {
			c.medium++
		}
		if e.Tight {
			c.tight++
		}
		for iF, m := range e.MatchHLT {
			if m {
				c.hlt[iF]++
			}
		}
	}
}

// Distribution summarises one quantity.
type Distribution struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

func describe(x []float64) Distribution {
	d := Distribution{N: len(x)}
	if len(x) == 0 {
		return d
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	d.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	d.Min = floats.Min(sorted)
	d.Max = floats.Max(sorted)
	d.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return d
}

// Summary is a snapshot of a Collector.
type Summary struct {
	Events              int
	EventsWithElectrons int
	Electrons           int
	SuperClusters       int

	Pt      Distribution
	AbsEta  Distribution
	CombIso Distribution
	RelIso  Distribution
	EcalIso Distribution

	PhotonMatched int

	Veto, Loose, Medium, Tight int

	// HLTMatches counts matched electrons per trigger category.
	HLTMatches [output.NElectronHLTObjects]int
}

// Summary computes the run summary so far.
func (c *Collector) Summary() Summary {
	return Summary{
		Events:              c.events,
		EventsWithElectrons: c.eventsWithElectrons,
		Electrons:           len(c.pt),
		SuperClusters:       c.superClusters,
		Pt:                  describe(c.pt),
		AbsEta:              describe(c.absEta),
		CombIso:             describe(c.combIso),
		RelIso:              describe(c.relIso),
		EcalIso:             describe(c.ecalIso),
		PhotonMatched:       c.phoMatch,
		Veto:                c.veto,
		Loose:               c.loose,
		Medium:              c.medium,
		Tight:               c.tight,
		HLTMatches:          c.hlt,
	}
}

// Pt returns the recorded electron transverse momenta.
func (c *Collector) Pt() []float64 { return c.pt }

// AbsEta returns the recorded electron |eta| values.
func (c *Collector) AbsEta() []float64 { return c.absEta }

// RelIso returns the recorded relative combined isolations.
func (c *Collector) RelIso() []float64 { return c.relIso }

// WriteText prints s in a fixed human-readable layout.
func WriteText(w io.Writer, s Summary) error {
	lines := []string{
		fmt.Sprintf("events:          %d (%d with electrons)", s.Events, s.EventsWithElectrons),
		fmt.Sprintf("superclusters:   %d", s.SuperClusters),
		fmt.Sprintf("electrons:       %d", s.Electrons),
		fmt.Sprintf("  veto/loose/medium/tight: %d/%d/%d/%d", s.Veto, s.Loose, s.Medium, s.Tight),
		fmt.Sprintf("  photon matched: %d", s.PhotonMatched),
		formatDistribution("pt", s.Pt),
		formatDistribution("|eta|", s.AbsEta),
		formatDistribution("combIso", s.CombIso),
		formatDistribution("relIso", s.RelIso),
		formatDistribution("ecalIso", s.EcalIso),
	}
	for i, n := range s.HLTMatches {
		lines = append(lines, fmt.Sprintf("  hlt %-10s %d", output.ElectronHLTObject(i), n))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func formatDistribution(name string, d Distribution) string {
	if d.N == 0 {
		return fmt.Sprintf("  %-8s n=0", name)
	}
	return fmt.Sprintf("  %-8s n=%d mean=%.3f std=%.3f min=%.3f median=%.3f max=%.3f",
		name, d.N, d.Mean, d.StdDev, d.Min, d.Median, d.Max)
}
