package filler

import (
	"testing"

	"github.com/banshee-data/egamma.report/internal/config"
	"github.com/banshee-data/egamma.report/internal/egamma/effarea"
	"github.com/banshee-data/egamma.report/internal/egamma/isolation"
	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/stretchr/testify/require"
)

const (
	testRho            = 10.0
	testRhoCentralCalo = 5.0
)

var testHLTFilters = []string{"f0", "f1", "f2", "f3", "f4", "f5"}

func mustTable(t *testing.T, bins ...effarea.Bin) *effarea.Table {
	t.Helper()
	tbl, err := effarea.New(bins)
	require.NoError(t, err)
	return tbl
}

func testCorrector(t *testing.T) *isolation.Corrector {
	t.Helper()
	c, err := isolation.NewCorrector(map[string]*effarea.Table{
		isolation.Comb: mustTable(t, effarea.Bin{UpperBound: 1.0, Area: 0.1}, effarea.Bin{UpperBound: 2.5, Area: 0.2}),
		isolation.Ecal: mustTable(t, effarea.Bin{UpperBound: 1.479, Area: 0.3}, effarea.Bin{UpperBound: 5, Area: 0.4}),
		isolation.Hcal: mustTable(t, effarea.Bin{UpperBound: 1.479, Area: 0.05}, effarea.Bin{UpperBound: 5, Area: 0.06}),
		isolation.PhCH: mustTable(t, effarea.Bin{UpperBound: 5, Area: 0.01}),
		isolation.PhNH: mustTable(t, effarea.Bin{UpperBound: 5, Area: 0.02}),
		isolation.PhPh: mustTable(t, effarea.Bin{UpperBound: 5, Area: 0.03}),
	})
	require.NoError(t, err)
	return c
}

func testElectronsConfig(t *testing.T, useTrigger bool) ElectronsConfig {
	t.Helper()
	cfg := config.EmptyConfig()
	cfg.Inputs.EcalIso = "ecalIso"
	cfg.Inputs.HcalIso = "hcalIso"
	cfg.HLTFilters = testHLTFilters
	ecfg := NewElectronsConfig(cfg, testCorrector(t))
	ecfg.UseTrigger = useTrigger
	return ecfg
}

// cand describes one electron candidate of a test event. Each candidate gets
// its own supercluster at the same eta/phi unless sc is set.
type cand struct {
	pt, eta, phi float64
	veto         bool
	sc           *int
}

func intPtr(v int) *int { return &v }

// buildEvent returns an event holding the candidates, one supercluster per
// candidate, all ID maps and calo isolation side maps, and no photons.
func buildEvent(cands ...cand) *event.Event {
	ev := &event.Event{
		Run: 1, Lumi: 1, Number: 42,
		BoolMaps:  map[string]event.BoolMap{},
		FloatMaps: map[string]event.FloatMap{},
		Scalars:   map[string]float64{"rho": testRho, "rhoCentralCalo": testRhoCentralCalo},
	}

	var veto, loose, medium, tight []bool
	var ecal, hcal []float64
	for i, c := range cands {
		scIdx := i
		if c.sc != nil {
			scIdx = *c.sc
		}
		ev.Electrons = append(ev.Electrons, event.Candidate{
			Pt: c.pt, Eta: c.eta, Phi: c.phi, Charge: -1,
			Sieie: 0.01, Sipip: 0.02, HOverE: 0.03,
			PFIso:        event.PFIso{ChargedHadron: 1, NeutralHadron: 2, Photon: 3, PU: 4},
			SuperCluster: ev.SuperClusterRef(scIdx),
		})
		ev.SuperClusters = append(ev.SuperClusters, event.SuperCluster{RawEnergy: c.pt, Eta: c.eta, Phi: c.phi})
		veto = append(veto, c.veto)
		loose = append(loose, c.veto)
		medium = append(medium, false)
		tight = append(tight, false)
		ecal = append(ecal, 6)
		hcal = append(hcal, 7)
	}

	el := event.ElectronsCollection
	ev.BoolMaps["vetoId"] = event.BoolMap{Collection: el, Values: veto}
	ev.BoolMaps["looseId"] = event.BoolMap{Collection: el, Values: loose}
	ev.BoolMaps["mediumId"] = event.BoolMap{Collection: el, Values: medium}
	ev.BoolMaps["tightId"] = event.BoolMap{Collection: el, Values: tight}
	ev.FloatMaps["ecalIso"] = event.FloatMap{Collection: el, Values: ecal}
	ev.FloatMaps["hcalIso"] = event.FloatMap{Collection: el, Values: hcal}
	setPhotons(ev)
	return ev
}

// setPhotons replaces the photon collection and its isolation maps.
func setPhotons(ev *event.Event, photons ...event.Photon) {
	ev.Photons = photons
	ch := make([]float64, len(photons))
	nh := make([]float64, len(photons))
	ph := make([]float64, len(photons))
	for i := range photons {
		ch[i] = float64(10 * (i + 1))
		nh[i] = float64(20 * (i + 1))
		ph[i] = float64(30 * (i + 1))
	}
	pc := event.PhotonsCollection
	ev.FloatMaps["photonChIso"] = event.FloatMap{Collection: pc, Values: ch}
	ev.FloatMaps["photonNhIso"] = event.FloatMap{Collection: pc, Values: nh}
	ev.FloatMaps["photonPhIso"] = event.FloatMap{Collection: pc, Values: ph}
}

func newTestProducer(t *testing.T, cfg ElectronsConfig) (*Producer, *ElectronsFiller) {
	t.Helper()
	sc, err := NewSuperClustersFiller(SuperClustersName)
	require.NoError(t, err)
	el, err := NewElectronsFiller("electrons", cfg)
	require.NoError(t, err)
	p, err := NewProducer(sc, el)
	require.NoError(t, err)
	return p, el
}
