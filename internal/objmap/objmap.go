// Package objmap records, per event, which output record was produced from
// which input object. Each filler owns a Store of maps, one per
// (input type, output type) pair; other fillers read them through a Registry
// once every collection of the event has been filled.
package objmap

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicate is returned when either side of an association is already mapped.
	ErrDuplicate = errors.New("identity already mapped")
	// ErrTypeMismatch is returned when a pair is requested with different key or value types.
	ErrTypeMismatch = errors.New("identity map type mismatch")
	// ErrUnknownStore is returned when a registry has no store for a filler name.
	ErrUnknownStore = errors.New("no identity map store")
)

// Map is a bijection between input identities K and output records *V.
// Lookups in either direction are O(1) expected.
type Map[K comparable, V any] struct {
	Fwd map[K]*V
	Bwd map[*V]K
}

// NewMap returns an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{Fwd: make(map[K]*V), Bwd: make(map[*V]K)}
}

// Add associates key with rec. Each key maps to at most one record and each
// record maps back to exactly one key.
func (m *Map[K, V]) Add(key K, rec *V) error {
	if rec == nil {
		return fmt.Errorf("add %v: nil record", key)
	}
	if _, ok := m.Fwd[key]; ok {
		return fmt.Errorf("%w: input %v", ErrDuplicate, key)
	}
	if prev, ok := m.Bwd[rec]; ok {
		return fmt.Errorf("%w: record already mapped from %v", ErrDuplicate, prev)
	}
	m.Fwd[key] = rec
	m.Bwd[rec] = key
	return nil
}

// Lookup returns the record produced from key.
func (m *Map[K, V]) Lookup(key K) (*V, bool) {
	rec, ok := m.Fwd[key]
	return rec, ok
}

// Reverse returns the input identity rec was produced from.
func (m *Map[K, V]) Reverse(rec *V) (K, bool) {
	key, ok := m.Bwd[rec]
	return key, ok
}

// Len returns the number of associations.
func (m *Map[K, V]) Len() int { return len(m.Fwd) }

// Reset drops every association.
func (m *Map[K, V]) Reset() {
	clear(m.Fwd)
	clear(m.Bwd)
}

// Pair names an (input type, output type) combination.
type Pair struct {
	In  string
	Out string
}

func (p Pair) String() string { return p.In + "->" + p.Out }

type resetter interface{ Reset() }

// Store holds the maps of one filler.
type Store struct {
	maps map[Pair]resetter
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{maps: make(map[Pair]resetter)}
}

// Get returns the map registered under pair, creating it on first use.
func Get[K comparable, V any](s *Store, pair Pair) (*Map[K, V], error) {
	if existing, ok := s.maps[pair]; ok {
		m, ok := existing.(*Map[K, V])
		if !ok {
			return nil, fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, pair, existing)
		}
		return m, nil
	}
	m := NewMap[K, V]()
	s.maps[pair] = m
	return m, nil
}

// Pairs lists the registered pairs in a stable order.
func (s *Store) Pairs() []Pair {
	out := make([]Pair, 0, len(s.maps))
	for p := range s.maps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Reset clears every map in the store.
func (s *Store) Reset() {
	for _, m := range s.maps {
		m.Reset()
	}
}

// Registry gives read access to every filler's store, keyed by filler name.
type Registry map[string]*Store

// Store returns the named filler's store.
func (r Registry) Store(name string) (*Store, error) {
	s, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrUnknownStore, name)
	}
	return s, nil
}
