// Package config loads the run configuration of the electron filler: effective
// area table paths, selection thresholds, trigger settings and the labels of
// the input products.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical configuration file.
const DefaultConfigPath = "config/electrons.defaults.json"

// Config is the root configuration. Pointer fields are optional; the Get*
// accessors supply defaults for anything left unset.
type Config struct {
	// Effective-area tables
	CombIsoEA *string `json:"comb_iso_ea,omitempty" yaml:"comb_iso_ea,omitempty"`
	EcalIsoEA *string `json:"ecal_iso_ea,omitempty" yaml:"ecal_iso_ea,omitempty"`
	HcalIsoEA *string `json:"hcal_iso_ea,omitempty" yaml:"hcal_iso_ea,omitempty"`

	Photons PhotonConfig `json:"photons" yaml:"photons"`

	// Selection
	MinPt  *float64 `json:"min_pt,omitempty" yaml:"min_pt,omitempty"`
	MaxEta *float64 `json:"max_eta,omitempty" yaml:"max_eta,omitempty"`

	// Trigger matching
	UseTrigger *bool    `json:"use_trigger,omitempty" yaml:"use_trigger,omitempty"`
	HLTFilters []string `json:"hlt_filters,omitempty" yaml:"hlt_filters,omitempty"`

	Inputs InputLabels `json:"inputs" yaml:"inputs"`

	// baseDir anchors relative table paths; set by Load.
	baseDir string
}

// PhotonConfig holds the photon-side effective areas and isolation map labels.
type PhotonConfig struct {
	ChIsoEA *string `json:"ch_iso_ea,omitempty" yaml:"ch_iso_ea,omitempty"`
	NhIsoEA *string `json:"nh_iso_ea,omitempty" yaml:"nh_iso_ea,omitempty"`
	PhIsoEA *string `json:"ph_iso_ea,omitempty" yaml:"ph_iso_ea,omitempty"`

	ChIso string `json:"ch_iso,omitempty" yaml:"ch_iso,omitempty"`
	NhIso string `json:"nh_iso,omitempty" yaml:"nh_iso,omitempty"`
	PhIso string `json:"ph_iso,omitempty" yaml:"ph_iso,omitempty"`
}

// InputLabels names the per-event products read by the fillers. Empty labels
// fall back to the conventional names; EcalIso and HcalIso stay empty unless
// configured, meaning no side map is available.
type InputLabels struct {
	VetoID         string `json:"veto_id,omitempty" yaml:"veto_id,omitempty"`
	LooseID        string `json:"loose_id,omitempty" yaml:"loose_id,omitempty"`
	MediumID       string `json:"medium_id,omitempty" yaml:"medium_id,omitempty"`
	TightID        string `json:"tight_id,omitempty" yaml:"tight_id,omitempty"`
	EcalIso        string `json:"ecal_iso,omitempty" yaml:"ecal_iso,omitempty"`
	HcalIso        string `json:"hcal_iso,omitempty" yaml:"hcal_iso,omitempty"`
	Rho            string `json:"rho,omitempty" yaml:"rho,omitempty"`
	RhoCentralCalo string `json:"rho_central_calo,omitempty" yaml:"rho_central_calo,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyConfig returns a Config with every optional field unset.
func EmptyConfig() *Config {
	return &Config{}
}

// Load reads a Config from a .json, .yaml or .yml file. Relative table paths
// are resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	switch ext := filepath.Ext(cleanPath); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}
	cfg.baseDir = filepath.Dir(cleanPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/egamma/effarea/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	required := []struct {
		key string
		val *string
	}{
		{"comb_iso_ea", c.CombIsoEA},
		{"ecal_iso_ea", c.EcalIsoEA},
		{"hcal_iso_ea", c.HcalIsoEA},
		{"photons.ch_iso_ea", c.Photons.ChIsoEA},
		{"photons.nh_iso_ea", c.Photons.NhIsoEA},
		{"photons.ph_iso_ea", c.Photons.PhIsoEA},
	}
	for _, r := range required {
		if r.val == nil || *r.val == "" {
			return fmt.Errorf("%s must be set", r.key)
		}
	}

	if c.MaxEta != nil && *c.MaxEta < 0 {
		return fmt.Errorf("max_eta must be non-negative, got %f", *c.MaxEta)
	}

	if c.GetUseTrigger() && len(c.HLTFilters) == 0 {
		return fmt.Errorf("use_trigger requires hlt_filters")
	}

	return nil
}

// ResolvePath anchors a relative path at the directory of the loaded file.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// EffectiveAreaPaths returns the resolved table paths keyed by table name
// (comb, ecal, hcal, phCH, phNH, phPh).
func (c *Config) EffectiveAreaPaths() map[string]string {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return c.ResolvePath(*p)
	}
	return map[string]string{
		"comb": deref(c.CombIsoEA),
		"ecal": deref(c.EcalIsoEA),
		"hcal": deref(c.HcalIsoEA),
		"phCH": deref(c.Photons.ChIsoEA),
		"phNH": deref(c.Photons.NhIsoEA),
		"phPh": deref(c.Photons.PhIsoEA),
	}
}

// GetMinPt returns the min_pt value or the default (no minimum).
func (c *Config) GetMinPt() float64 {
	if c.MinPt == nil {
		return -1
	}
	return *c.MinPt
}

// GetMaxEta returns the max_eta value or the default (no maximum).
func (c *Config) GetMaxEta() float64 {
	if c.MaxEta == nil {
		return 10
	}
	return *c.MaxEta
}

// GetUseTrigger returns the use_trigger value or the default.
func (c *Config) GetUseTrigger() bool {
	if c.UseTrigger == nil {
		return false
	}
	return *c.UseTrigger
}

// GetInputs returns the input labels with conventional names filled in.
func (c *Config) GetInputs() InputLabels {
	in := c.Inputs
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&in.VetoID, "vetoId")
	def(&in.LooseID, "looseId")
	def(&in.MediumID, "mediumId")
	def(&in.TightID, "tightId")
	def(&in.Rho, "rho")
	def(&in.RhoCentralCalo, "rhoCentralCalo")
	return in
}

// GetPhotonIsoLabels returns the photon isolation map labels with defaults.
func (c *Config) GetPhotonIsoLabels() (ch, nh, ph string) {
	ch, nh, ph = c.Photons.ChIso, c.Photons.NhIso, c.Photons.PhIso
	if ch == "" {
		ch = "photonChIso"
	}
	if nh == "" {
		nh = "photonNhIso"
	}
	if ph == "" {
		ph = "photonPhIso"
	}
	return ch, nh, ph
}
