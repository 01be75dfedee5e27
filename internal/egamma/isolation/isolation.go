// Package isolation applies effective-area pileup corrections to isolation
// sums: corrected = raw - area(|eta|) * rho.
package isolation

import (
	"fmt"
	"sort"

	"github.com/banshee-data/egamma.report/internal/egamma/effarea"
)

// Table names used by the electron filler.
const (
	Comb = "comb" // combined PF isolation (neutral + photon)
	Ecal = "ecal" // ECAL PF-cluster isolation
	Hcal = "hcal" // HCAL PF-cluster isolation
	PhCH = "phCH" // photon charged-hadron isolation
	PhNH = "phNH" // photon neutral-hadron isolation
	PhPh = "phPh" // photon photon isolation
)

// Corrector holds a named, immutable set of effective-area tables.
type Corrector struct {
	tables map[string]*effarea.Table
}

// NewCorrector wraps already-loaded tables. The map is copied.
func NewCorrector(tables map[string]*effarea.Table) (*Corrector, error) {
	c := &Corrector{tables: make(map[string]*effarea.Table, len(tables))}
	for name, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("effective-area table %q is nil", name)
		}
		c.tables[name] = t
	}
	return c, nil
}

// LoadCorrector loads one table per name from the given paths. The first
// failure is returned and names the offending table.
func LoadCorrector(paths map[string]string) (*Corrector, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make(map[string]*effarea.Table, len(paths))
	for _, name := range names {
		t, err := effarea.Load(paths[name])
		if err != nil {
			return nil, fmt.Errorf("load %s effective area: %w", name, err)
		}
		tables[name] = t
	}
	return NewCorrector(tables)
}

// Table returns the named table.
func (c *Corrector) Table(name string) (*effarea.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("no effective-area table named %q", name)
	}
	return t, nil
}

// Has reports whether the named table is loaded.
func (c *Corrector) Has(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// Offset returns area(|eta|) * rho for the named table.
func (c *Corrector) Offset(name string, eta, rho float64) (float64, error) {
	t, err := c.Table(name)
	if err != nil {
		return 0, err
	}
	return t.Area(eta) * rho, nil
}

// Correct returns raw - area(|eta|) * rho for the named table.
func (c *Corrector) Correct(name string, raw, eta, rho float64) (float64, error) {
	off, err := c.Offset(name, eta, rho)
	if err != nil {
		return 0, err
	}
	return raw - off, nil
}
