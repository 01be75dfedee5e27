package filler

import (
	"fmt"

	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/objmap"
	"github.com/banshee-data/egamma.report/internal/output"
)

// Producer runs a fixed set of fillers over one event at a time.
//
// ProcessEvent is not safe for concurrent use: the output event and the
// identity maps are reused across events.
type Producer struct {
	fillers  []Filler
	registry objmap.Registry
	out      output.Event

	processed int
	aborted   int
}

// NewProducer returns a Producer running fillers in the given order. Filler
// names must be unique.
func NewProducer(fillers ...Filler) (*Producer, error) {
	p := &Producer{registry: make(objmap.Registry, len(fillers))}
	for _, f := range fillers {
		if _, dup := p.registry[f.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate filler name %q", ErrConfiguration, f.Name())
		}
		p.registry[f.Name()] = f.ObjectMaps()
		p.fillers = append(p.fillers, f)
	}
	return p, nil
}

// ProcessEvent fills every collection for in and then resolves
// cross-collection references. The returned event is valid until the next
// call. On error the event is abandoned and nil is returned.
func (p *Producer) ProcessEvent(in *event.Event) (*output.Event, error) {
	p.out.Reset(in)
	for _, f := range p.fillers {
		f.ObjectMaps().Reset()
	}

	for _, f := range p.fillers {
		if err := f.Fill(&p.out, in); err != nil {
			return nil, p.abort(in, "fill", err)
		}
	}

	// Every collection of the event exists from here on.

	for _, f := range p.fillers {
		if err := f.SetRefs(p.registry); err != nil {
			return nil, p.abort(in, "setRefs", err)
		}
	}

	p.processed++
	return &p.out, nil
}

func (p *Producer) abort(in *event.Event, phase string, err error) error {
	p.aborted++
	opsf("event %s aborted in %s: %v", in.ID(), phase, err)
	return fmt.Errorf("event %s: %s: %w", in.ID(), phase, err)
}

// BranchNames merges the branch selections of every filler.
func (p *Producer) BranchNames(isRealData bool) output.BranchList {
	var l output.BranchList
	for _, f := range p.fillers {
		l = append(l, f.BranchNames(isRealData)...)
	}
	return l
}

// Registry exposes the identity maps of every filler.
func (p *Producer) Registry() objmap.Registry { return p.registry }

// Stats returns the number of processed and aborted events.
func (p *Producer) Stats() (processed, aborted int) { return p.processed, p.aborted }
