package filler

import (
	"math"

	"github.com/banshee-data/egamma.report/internal/config"
	"github.com/banshee-data/egamma.report/internal/egamma/isolation"
	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/kinematics"
	"github.com/banshee-data/egamma.report/internal/objmap"
	"github.com/banshee-data/egamma.report/internal/output"
)

// TriggerMatchDR is the maximum angular separation between an electron and
// a trigger object for the two to match.
const TriggerMatchDR = 0.3

// ElectronsConfig is the immutable, per-run configuration of an
// ElectronsFiller.
type ElectronsConfig struct {
	// Corrector must hold the comb, ecal, hcal, phCH, phNH and phPh tables.
	Corrector *isolation.Corrector

	MinPt  float64
	MaxEta float64

	UseTrigger bool
	// HLTFilters holds one filter label per output.ElectronHLTObject.
	HLTFilters []string

	Inputs config.InputLabels

	PhotonChIso string
	PhotonNhIso string
	PhotonPhIso string

	// SuperClusters names the filler whose identity maps resolve the
	// electrons' supercluster references.
	SuperClusters string
}

// NewElectronsConfig builds an ElectronsConfig from the run configuration.
func NewElectronsConfig(cfg *config.Config, corr *isolation.Corrector) ElectronsConfig {
	ch, nh, ph := cfg.GetPhotonIsoLabels()
	return ElectronsConfig{
		Corrector:     corr,
		MinPt:         cfg.GetMinPt(),
		MaxEta:        cfg.GetMaxEta(),
		UseTrigger:    cfg.GetUseTrigger(),
		HLTFilters:    append([]string(nil), cfg.HLTFilters...),
		Inputs:        cfg.GetInputs(),
		PhotonChIso:   ch,
		PhotonNhIso:   nh,
		PhotonPhIso:   ph,
		SuperClusters: SuperClustersName,
	}
}

// ElectronsFiller selects electron candidates, enriches them with corrected
// isolation, photon cross-matching and trigger matching, ranks them by pt,
// and links them to the supercluster collection.
type ElectronsFiller struct {
	base
	cfg ElectronsConfig

	eleEleMap *objmap.Map[event.Ref, output.Electron]
	scEleMap  *objmap.Map[event.Ref, output.Electron]
}

// NewElectronsFiller validates cfg and returns a filler named name.
func NewElectronsFiller(name string, cfg ElectronsConfig) (*ElectronsFiller, error) {
	if cfg.Corrector == nil {
		return nil, configErrorf(name, "no effective-area corrector")
	}
	for _, table := range []string{isolation.Comb, isolation.Ecal, isolation.Hcal, isolation.PhCH, isolation.PhNH, isolation.PhPh} {
		if !cfg.Corrector.Has(table) {
			return nil, configErrorf(name, "effective-area table %q not loaded", table)
		}
	}
	if cfg.UseTrigger && len(cfg.HLTFilters) != output.NElectronHLTObjects {
		return nil, configErrorf(name, "hltFilters has %d entries, want %d", len(cfg.HLTFilters), output.NElectronHLTObjects)
	}
	if cfg.SuperClusters == "" {
		cfg.SuperClusters = SuperClustersName
	}
	cfg.HLTFilters = append([]string(nil), cfg.HLTFilters...)

	f := &ElectronsFiller{base: newBase(name), cfg: cfg}

	var err error
	if f.eleEleMap, err = objmap.Get[event.Ref, output.Electron](f.maps, PairGsfElectronElectron); err != nil {
		return nil, err
	}
	if f.scEleMap, err = objmap.Get[event.Ref, output.Electron](f.maps, PairSuperClusterElectron); err != nil {
		return nil, err
	}

	diagf("%s: minPt=%g maxEta=%g useTrigger=%v", name, cfg.MinPt, cfg.MaxEta, cfg.UseTrigger)
	return f, nil
}

// Select returns the indices of the candidates with pt >= minPt,
// |eta| <= maxEta and a passing veto ID, in input order.
func Select(candidates []event.Candidate, vetoID event.BoolMap, minPt, maxEta float64) ([]int, error) {
	var selected []int
	for i := range candidates {
		c := &candidates[i]
		if c.Pt < minPt {
			continue
		}
		if math.Abs(c.Eta) > maxEta {
			continue
		}
		veto, err := vetoID.Get(event.Ref{Collection: event.ElectronsCollection, Index: i})
		if err != nil {
			return nil, err
		}
		if !veto {
			continue
		}
		selected = append(selected, i)
	}
	return selected, nil
}

// electronProducts holds the per-event inputs read once per Fill.
type electronProducts struct {
	looseID, mediumID, tightID event.BoolMap
	phCHIso, phNHIso, phPhIso  event.FloatMap
	ecalIso, hcalIso           *event.FloatMap
	rho, rhoCentralCalo        float64
	hltObjects                 [output.NElectronHLTObjects][]*event.TriggerObject
}

func (f *ElectronsFiller) readProducts(in *event.Event) (*electronProducts, event.BoolMap, error) {
	labels := f.cfg.Inputs
	p := &electronProducts{}

	missing := func(err error) error { return configErrorf(f.name, "%v", err) }

	vetoID, err := in.BoolMap(labels.VetoID)
	if err != nil {
		return nil, vetoID, missing(err)
	}
	if p.looseID, err = in.BoolMap(labels.LooseID); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.mediumID, err = in.BoolMap(labels.MediumID); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.tightID, err = in.BoolMap(labels.TightID); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.phCHIso, err = in.FloatMap(f.cfg.PhotonChIso); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.phNHIso, err = in.FloatMap(f.cfg.PhotonNhIso); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.phPhIso, err = in.FloatMap(f.cfg.PhotonPhIso); err != nil {
		return nil, vetoID, missing(err)
	}
	p.ecalIso = in.OptionalFloatMap(labels.EcalIso)
	p.hcalIso = in.OptionalFloatMap(labels.HcalIso)
	if p.rho, err = in.Scalar(labels.Rho); err != nil {
		return nil, vetoID, missing(err)
	}
	if p.rhoCentralCalo, err = in.Scalar(labels.RhoCentralCalo); err != nil {
		return nil, vetoID, missing(err)
	}

	if f.cfg.UseTrigger {
		for i := range in.TriggerObjects {
			obj := &in.TriggerObjects[i]
			for iF, label := range f.cfg.HLTFilters {
				if obj.HasFilterLabel(label) {
					p.hltObjects[iF] = append(p.hltObjects[iF], obj)
				}
			}
		}
	}
	return p, vetoID, nil
}

// Fill implements Filler.
func (f *ElectronsFiller) Fill(out *output.Event, in *event.Event) error {
	p, vetoID, err := f.readProducts(in)
	if err != nil {
		return err
	}

	selected, err := Select(in.Electrons, vetoID, f.cfg.MinPt, f.cfg.MaxEta)
	if err != nil {
		return inconsistencyf(f.name, err, "veto ID lookup")
	}

	outElectrons := &out.Electrons
	// ptrList[i] is the input identity of the i-th record before sorting.
	ptrList := make([]event.Ref, 0, len(selected))

	for _, iEl := range selected {
		inRef := in.ElectronRef(iEl)
		rec := outElectrons.CreateBack(output.NewElectron())
		if err := f.enrich(rec, in, iEl, p); err != nil {
			return err
		}
		ptrList = append(ptrList, inRef)
	}

	originalIndices := outElectrons.Sort(output.PtGreater)

	for iP := 0; iP != outElectrons.Len(); iP++ {
		rec := outElectrons.At(iP)
		inRef := ptrList[originalIndices[iP]]
		if err := f.eleEleMap.Add(inRef, rec); err != nil {
			return inconsistencyf(f.name, err, "electron identity map")
		}
		if err := f.scEleMap.Add(rec.SuperCluster.Input, rec); err != nil {
			return inconsistencyf(f.name, err, "supercluster identity map")
		}
	}

	tracef("%s: event %s: %d/%d candidates selected", f.name, in.ID(), len(selected), len(in.Electrons))
	return nil
}

// enrich fills rec from the iEl-th input candidate.
func (f *ElectronsFiller) enrich(rec *output.Electron, in *event.Event, iEl int, p *electronProducts) error {
	inEl := &in.Electrons[iEl]
	inRef := in.ElectronRef(iEl)

	sc, err := in.SuperCluster(inEl.SuperCluster)
	if err != nil {
		return inconsistencyf(f.name, err, "electron %s supercluster", inRef)
	}
	scEta := math.Abs(sc.Eta)
	corr := f.cfg.Corrector

	rec.Pt = inEl.Pt
	rec.Eta = inEl.Eta
	rec.Phi = inEl.Phi
	rec.Mass = inEl.Mass
	rec.Charge = inEl.Charge

	rec.Veto = true
	var idErr error
	get := func(m event.BoolMap) bool {
		v, err := m.Get(inRef)
		if err != nil && idErr == nil {
			idErr = err
		}
		return v
	}
	rec.Loose = get(p.looseID)
	rec.Medium = get(p.mediumID)
	rec.Tight = get(p.tightID)
	if idErr != nil {
		return inconsistencyf(f.name, idErr, "ID lookup for %s", inRef)
	}

	rec.Sieie = inEl.Sieie
	rec.Sipip = inEl.Sipip
	rec.HOverE = inEl.HOverE

	rec.ChIso = inEl.PFIso.ChargedHadron
	rec.NhIso = inEl.PFIso.NeutralHadron
	rec.PhoIso = inEl.PFIso.Photon
	rec.PuIso = inEl.PFIso.PU
	if rec.IsoPUOffset, err = corr.Offset(isolation.Comb, scEta, p.rho); err != nil {
		return configErrorf(f.name, "%v", err)
	}

	ecalRaw, hcalRaw, err := f.clusterIso(inEl, inRef, p)
	if err != nil {
		return err
	}
	if rec.EcalIso, err = corr.Correct(isolation.Ecal, ecalRaw, scEta, p.rhoCentralCalo); err != nil {
		return configErrorf(f.name, "%v", err)
	}
	if rec.HcalIso, err = corr.Correct(isolation.Hcal, hcalRaw, scEta, p.rhoCentralCalo); err != nil {
		return configErrorf(f.name, "%v", err)
	}

	if err := f.matchPhotons(rec, in, inEl.SuperCluster, scEta, p); err != nil {
		return err
	}

	if f.cfg.UseTrigger {
		rec.MatchHLT = matchTrigger(inEl, &p.hltObjects)
	}

	if !in.IsRealData {
		rec.TauDecay = false
		rec.HadDecay = false
	}

	rec.SuperCluster = output.ClusterRef{Input: inEl.SuperCluster}
	return nil
}

// clusterIso returns the raw ECAL and HCAL PF-cluster isolation of a
// candidate, preferring the value the candidate carries itself.
func (f *ElectronsFiller) clusterIso(inEl *event.Candidate, inRef event.Ref, p *electronProducts) (ecal, hcal float64, err error) {
	if iso, ok := inEl.EmbeddedClusterIso(); ok {
		return iso.Ecal, iso.Hcal, nil
	}
	if p.ecalIso == nil {
		return 0, 0, configErrorf(f.name, "ECAL PF cluster iso missing")
	}
	if ecal, err = p.ecalIso.Get(inRef); err != nil {
		return 0, 0, inconsistencyf(f.name, err, "ECAL PF cluster iso for %s", inRef)
	}
	if p.hcalIso == nil {
		return 0, 0, configErrorf(f.name, "HCAL PF cluster iso missing")
	}
	if hcal, err = p.hcalIso.Get(inRef); err != nil {
		return 0, 0, inconsistencyf(f.name, err, "HCAL PF cluster iso for %s", inRef)
	}
	return ecal, hcal, nil
}

// matchPhotons copies the corrected isolation of every photon built from
// the same supercluster onto rec. When several photons share it, the last
// one wins.
func (f *ElectronsFiller) matchPhotons(rec *output.Electron, in *event.Event, scRef event.Ref, scEta float64, p *electronProducts) error {
	corr := f.cfg.Corrector
	for iPh := range in.Photons {
		if in.Photons[iPh].SuperCluster != scRef {
			continue
		}
		phRef := in.PhotonRef(iPh)
		ch, err1 := p.phCHIso.Get(phRef)
		nh, err2 := p.phNHIso.Get(phRef)
		ph, err3 := p.phPhIso.Get(phRef)
		if err := firstErr(err1, err2, err3); err != nil {
			return inconsistencyf(f.name, err, "photon isolation for %s", phRef)
		}

		var err error
		if rec.ChIsoPh, err = corr.Correct(isolation.PhCH, ch, scEta, p.rho); err != nil {
			return configErrorf(f.name, "%v", err)
		}
		if rec.NhIsoPh, err = corr.Correct(isolation.PhNH, nh, scEta, p.rho); err != nil {
			return configErrorf(f.name, "%v", err)
		}
		if rec.PhIsoPh, err = corr.Correct(isolation.PhPh, ph, scEta, p.rho); err != nil {
			return configErrorf(f.name, "%v", err)
		}
	}
	return nil
}

// matchTrigger flags each category with a trigger object within
// TriggerMatchDR of the candidate. The first object in range decides; no
// closest-match search is done.
func matchTrigger(inEl *event.Candidate, hltObjects *[output.NElectronHLTObjects][]*event.TriggerObject) [output.NElectronHLTObjects]bool {
	var match [output.NElectronHLTObjects]bool
	for iF := range hltObjects {
		for _, obj := range hltObjects[iF] {
			if kinematics.DeltaR(inEl.Eta, inEl.Phi, obj.Eta, obj.Phi) < TriggerMatchDR {
				match[iF] = true
				break
			}
		}
	}
	return match
}

// SetRefs points every electron at the output supercluster built from its
// input supercluster.
func (f *ElectronsFiller) SetRefs(maps objmap.Registry) error {
	store, err := maps.Store(f.cfg.SuperClusters)
	if err != nil {
		return inconsistencyf(f.name, err, "supercluster maps")
	}
	scMap, err := objmap.Get[event.Ref, output.SuperCluster](store, PairSuperClusterSuperCluster)
	if err != nil {
		return inconsistencyf(f.name, err, "supercluster maps")
	}

	for rec, scRef := range f.scEleMap.Bwd {
		outSC, ok := scMap.Lookup(scRef)
		if !ok {
			return inconsistencyf(f.name, nil, "supercluster %s has no output counterpart", scRef)
		}
		rec.SuperCluster.Output = outSC
	}
	return nil
}

// BranchNames implements Filler. Simulation-only branches are dropped for
// real data and matchHLT is dropped when trigger matching is off.
func (f *ElectronsFiller) BranchNames(isRealData bool) output.BranchList {
	var l output.BranchList
	if isRealData {
		for _, b := range []string{".tauDecay", ".hadDecay", ".matchedGen_"} {
			l = append(l, "!"+f.name+b)
		}
	}
	if !f.cfg.UseTrigger {
		l = append(l, "!"+f.name+".matchHLT")
	}
	return l
}

// UseTrigger reports whether trigger matching is enabled.
func (f *ElectronsFiller) UseTrigger() bool { return f.cfg.UseTrigger }

// HLTFilters returns the configured filter label per trigger category.
func (f *ElectronsFiller) HLTFilters() []string {
	return append([]string(nil), f.cfg.HLTFilters...)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
