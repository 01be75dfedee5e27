package output

import (
	"math"

	"github.com/banshee-data/egamma.report/internal/event"
)

// SuperCluster is the persisted form of an ECAL supercluster.
type SuperCluster struct {
	RawPt float64
	Eta   float64
	Phi   float64
}

// ClusterRef links an electron to its supercluster. Input is filled while the
// electron is produced; Output is set only once every collection of the event
// exists and the reference has been resolved.
type ClusterRef struct {
	Input  event.Ref
	Output *SuperCluster
}

// Resolved reports whether the reference points into the output collection.
func (r ClusterRef) Resolved() bool { return r.Output != nil }

// Electron is the enriched output record of one selected electron candidate.
type Electron struct {
	Pt     float64
	Eta    float64
	Phi    float64
	Mass   float64
	Charge int

	Veto   bool
	Loose  bool
	Medium bool
	Tight  bool

	Sieie  float64
	Sipip  float64
	HOverE float64

	// Raw PF isolation and its pileup offset (area * rho).
	ChIso       float64
	NhIso       float64
	PhoIso      float64
	PuIso       float64
	IsoPUOffset float64

	// PF-cluster isolation, pileup corrected with rhoCentralCalo.
	EcalIso float64
	HcalIso float64

	// Isolation of the photon sharing the supercluster, pileup corrected.
	// NaN when no photon shares it.
	ChIsoPh float64
	NhIsoPh float64
	PhIsoPh float64

	MatchHLT [NElectronHLTObjects]bool

	// Simulation only.
	TauDecay bool
	HadDecay bool

	SuperCluster ClusterRef
}

// NewElectron returns a record with every computed field at its uncomputed default.
func NewElectron() Electron {
	nan := math.NaN()
	return Electron{ChIsoPh: nan, NhIsoPh: nan, PhIsoPh: nan}
}

// NeutralIsoCorr returns the pileup-corrected neutral isolation
// NhIso + PhoIso - IsoPUOffset.
func (e *Electron) NeutralIsoCorr() float64 {
	return e.NhIso + e.PhoIso - e.IsoPUOffset
}

// CombIso returns the combined relative-isolation numerator
// ChIso + max(0, NhIso + PhoIso - IsoPUOffset).
func (e *Electron) CombIso() float64 {
	return e.ChIso + math.Max(0, e.NeutralIsoCorr())
}

// HasPhotonIso reports whether a photon isolation was copied onto the record.
func (e *Electron) HasPhotonIso() bool {
	return !math.IsNaN(e.ChIsoPh)
}

// PtGreater orders electrons by descending transverse momentum.
func PtGreater(a, b *Electron) bool { return a.Pt > b.Pt }
