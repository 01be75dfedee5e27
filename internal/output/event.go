package output

import "github.com/banshee-data/egamma.report/internal/event"

// Event holds every output collection of one processed event.
type Event struct {
	Run        uint32
	Lumi       uint32
	Number     uint64
	IsRealData bool

	Electrons     Collection[Electron]
	SuperClusters Collection[SuperCluster]
}

// Reset clears the collections and copies the event header from in.
func (e *Event) Reset(in *event.Event) {
	e.Run = in.Run
	e.Lumi = in.Lumi
	e.Number = in.Number
	e.IsRealData = in.IsRealData
	e.Electrons.Reset()
	e.SuperClusters.Reset()
}
