package sqlite

import (
	"github.com/banshee-data/egamma.report/internal/output"
)

const (
	electronsCollection     = "electrons"
	superClustersCollection = "superClusters"
)

type electronColumn struct {
	branch string
	column string
	value  func(e *output.Electron, scIndex map[*output.SuperCluster]int) interface{}
}

func floatCol(branch, column string, get func(e *output.Electron) float64) electronColumn {
	return electronColumn{branch, column, func(e *output.Electron, _ map[*output.SuperCluster]int) interface{} {
		return nullFloat(get(e))
	}}
}

func boolCol(branch, column string, get func(e *output.Electron) bool) electronColumn {
	return electronColumn{branch, column, func(e *output.Electron, _ map[*output.SuperCluster]int) interface{} {
		return get(e)
	}}
}

// electronColumns maps every persisted electron branch to its column.
var electronColumns = []electronColumn{
	floatCol("pt", "pt", func(e *output.Electron) float64 { return e.Pt }),
	floatCol("eta", "eta", func(e *output.Electron) float64 { return e.Eta }),
	floatCol("phi", "phi", func(e *output.Electron) float64 { return e.Phi }),
	floatCol("mass", "mass", func(e *output.Electron) float64 { return e.Mass }),
	{"charge", "charge", func(e *output.Electron, _ map[*output.SuperCluster]int) interface{} { return e.Charge }},
	boolCol("veto", "veto", func(e *output.Electron) bool { return e.Veto }),
	boolCol("loose", "loose", func(e *output.Electron) bool { return e.Loose }),
	boolCol("medium", "medium", func(e *output.Electron) bool { return e.Medium }),
	boolCol("tight", "tight", func(e *output.Electron) bool { return e.Tight }),
	floatCol("sieie", "sieie", func(e *output.Electron) float64 { return e.Sieie }),
	floatCol("sipip", "sipip", func(e *output.Electron) float64 { return e.Sipip }),
	floatCol("hOverE", "h_over_e", func(e *output.Electron) float64 { return e.HOverE }),
	floatCol("chIso", "ch_iso", func(e *output.Electron) float64 { return e.ChIso }),
	floatCol("nhIso", "nh_iso", func(e *output.Electron) float64 { return e.NhIso }),
	floatCol("phoIso", "pho_iso", func(e *output.Electron) float64 { return e.PhoIso }),
	floatCol("puIso", "pu_iso", func(e *output.Electron) float64 { return e.PuIso }),
	floatCol("isoPUOffset", "iso_pu_offset", func(e *output.Electron) float64 { return e.IsoPUOffset }),
	floatCol("ecalIso", "ecal_iso", func(e *output.Electron) float64 { return e.EcalIso }),
	floatCol("hcalIso", "hcal_iso", func(e *output.Electron) float64 { return e.HcalIso }),
	floatCol("chIsoPh", "ch_iso_ph", func(e *output.Electron) float64 { return e.ChIsoPh }),
	floatCol("nhIsoPh", "nh_iso_ph", func(e *output.Electron) float64 { return e.NhIsoPh }),
	floatCol("phIsoPh", "ph_iso_ph", func(e *output.Electron) float64 { return e.PhIsoPh }),
	{"matchHLT", "match_hlt", func(e *output.Electron, _ map[*output.SuperCluster]int) interface{} {
		return MatchHLTBits(e.MatchHLT)
	}},
	boolCol("tauDecay", "tau_decay", func(e *output.Electron) bool { return e.TauDecay }),
	boolCol("hadDecay", "had_decay", func(e *output.Electron) bool { return e.HadDecay }),
	{"superCluster_", "supercluster_idx", func(e *output.Electron, scIndex map[*output.SuperCluster]int) interface{} {
		if idx, ok := scIndex[e.SuperCluster.Output]; ok {
			return idx
		}
		return nil
	}},
}

func electronColumnNames() []string {
	names := make([]string, len(electronColumns))
	for i, c := range electronColumns {
		names[i] = c.column
	}
	return names
}

func (s *Store) electronValues(e *output.Electron, scIndex map[*output.SuperCluster]int) []interface{} {
	vals := make([]interface{}, len(electronColumns))
	for i, c := range electronColumns {
		if !s.branches.Enabled(electronsCollection + "." + c.branch) {
			continue
		}
		vals[i] = c.value(e, scIndex)
	}
	return vals
}

func superClusterColumnNames() []string {
	return []string{"raw_pt", "eta", "phi"}
}

func (s *Store) superClusterValues(sc *output.SuperCluster) []interface{} {
	vals := []interface{}{nullFloat(sc.RawPt), nullFloat(sc.Eta), nullFloat(sc.Phi)}
	for i, b := range output.SuperClusterBranches {
		if !s.branches.Enabled(superClustersCollection + "." + b) {
			vals[i] = nil
		}
	}
	return vals
}

// MatchHLTBits packs trigger matches into an integer, bit i set when
// category i matched.
func MatchHLTBits(match [output.NElectronHLTObjects]bool) int64 {
	var bits int64
	for i, m := range match {
		if m {
			bits |= 1 << i
		}
	}
	return bits
}
