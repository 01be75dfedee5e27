package filler

import (
	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/kinematics"
	"github.com/banshee-data/egamma.report/internal/objmap"
	"github.com/banshee-data/egamma.report/internal/output"
)

// SuperClustersName is the conventional name of the supercluster filler.
const SuperClustersName = "superClusters"

// SuperClustersFiller copies every input supercluster to the output and
// records the input -> output association other fillers resolve against.
type SuperClustersFiller struct {
	base
	scMap *objmap.Map[event.Ref, output.SuperCluster]
}

// NewSuperClustersFiller returns a filler named name.
func NewSuperClustersFiller(name string) (*SuperClustersFiller, error) {
	f := &SuperClustersFiller{base: newBase(name)}
	var err error
	if f.scMap, err = objmap.Get[event.Ref, output.SuperCluster](f.maps, PairSuperClusterSuperCluster); err != nil {
		return nil, err
	}
	return f, nil
}

// Fill implements Filler.
func (f *SuperClustersFiller) Fill(out *output.Event, in *event.Event) error {
	outSCs := &out.SuperClusters
	for i := range in.SuperClusters {
		sc := &in.SuperClusters[i]
		outSCs.CreateBack(output.SuperCluster{
			RawPt: kinematics.PtFromEnergy(sc.RawEnergy, sc.Eta),
			Eta:   sc.Eta,
			Phi:   sc.Phi,
		})
	}

	// Map only after the collection stops growing so the pointers stay valid.
	for i := 0; i != outSCs.Len(); i++ {
		if err := f.scMap.Add(in.SuperClusterRef(i), outSCs.At(i)); err != nil {
			return inconsistencyf(f.name, err, "supercluster identity map")
		}
	}

	tracef("%s: event %s: %d superclusters", f.name, in.ID(), outSCs.Len())
	return nil
}

// SetRefs implements Filler. Superclusters reference nothing.
func (f *SuperClustersFiller) SetRefs(objmap.Registry) error { return nil }

// BranchNames implements Filler.
func (f *SuperClustersFiller) BranchNames(bool) output.BranchList { return nil }
