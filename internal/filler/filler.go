package filler

import (
	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/objmap"
	"github.com/banshee-data/egamma.report/internal/output"
)

// Identity map pairs shared between fillers.
var (
	PairGsfElectronElectron      = objmap.Pair{In: "GsfElectron", Out: "Electron"}
	PairSuperClusterElectron     = objmap.Pair{In: "SuperCluster", Out: "Electron"}
	PairSuperClusterSuperCluster = objmap.Pair{In: "SuperCluster", Out: "SuperCluster"}
)

// Filler produces one output collection per event.
type Filler interface {
	// Name identifies the filler and prefixes its branches.
	Name() string
	// Fill reads in and writes the filler's collection in out. It may only
	// touch its own identity maps.
	Fill(out *output.Event, in *event.Event) error
	// SetRefs resolves cross-collection references. It runs after every
	// filler has filled the current event.
	SetRefs(maps objmap.Registry) error
	// BranchNames returns branch selections ("!name" disables) for the run.
	BranchNames(isRealData bool) output.BranchList
	// ObjectMaps returns the filler's identity maps.
	ObjectMaps() *objmap.Store
}

// base carries the name and identity-map store common to every filler.
type base struct {
	name string
	maps *objmap.Store
}

func newBase(name string) base {
	return base{name: name, maps: objmap.NewStore()}
}

func (b *base) Name() string              { return b.name }
func (b *base) ObjectMaps() *objmap.Store { return b.maps }
