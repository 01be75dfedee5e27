package event

import (
	"errors"
	"fmt"
	"slices"
)

// Collection names.
const (
	ElectronsCollection      = "electrons"
	PhotonsCollection        = "photons"
	SuperClustersCollection  = "superClusters"
	TriggerObjectsCollection = "triggerObjects"
)

var (
	// ErrMissingProduct is returned when a named value map or scalar is not in the event.
	ErrMissingProduct = errors.New("product not found in event")
	// ErrBadRef is returned when a Ref does not address an element of the expected collection.
	ErrBadRef = errors.New("invalid reference")
)

// Ref identifies one element of one collection within an event.
type Ref struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
}

// IsNull reports whether the ref points nowhere.
func (r Ref) IsNull() bool { return r.Collection == "" }

func (r Ref) String() string {
	if r.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s[%d]", r.Collection, r.Index)
}

// PFIso holds the raw particle-flow isolation sums of a candidate.
type PFIso struct {
	ChargedHadron float64 `json:"sumChargedHadronPt"`
	NeutralHadron float64 `json:"sumNeutralHadronEt"`
	Photon        float64 `json:"sumPhotonEt"`
	PU            float64 `json:"sumPUPt"`
}

// ClusterIso holds raw calorimeter PF-cluster isolation sums.
type ClusterIso struct {
	Ecal float64 `json:"ecal"`
	Hcal float64 `json:"hcal"`
}

// Candidate is a reconstructed electron candidate.
type Candidate struct {
	Pt     float64 `json:"pt"`
	Eta    float64 `json:"eta"`
	Phi    float64 `json:"phi"`
	Mass   float64 `json:"mass"`
	Charge int     `json:"charge"`

	Sieie  float64 `json:"sieie"` // full 5x5 sigma_ieta_ieta
	Sipip  float64 `json:"sipip"` // full 5x5 sigma_iphi_iphi
	HOverE float64 `json:"hOverE"`

	PFIso PFIso `json:"pfIso"`

	// ClusterIso is set only for candidate formats that carry PF-cluster
	// isolation themselves. When nil, the value comes from side maps.
	ClusterIso *ClusterIso `json:"clusterIso,omitempty"`

	SuperCluster Ref `json:"superCluster"`
}

// EmbeddedClusterIso returns the candidate's own PF-cluster isolation, if it has one.
func (c *Candidate) EmbeddedClusterIso() (ClusterIso, bool) {
	if c.ClusterIso == nil {
		return ClusterIso{}, false
	}
	return *c.ClusterIso, true
}

// Photon is a photon candidate reconstructed independently from the same
// superclusters as the electrons.
type Photon struct {
	Pt           float64 `json:"pt"`
	Eta          float64 `json:"eta"`
	Phi          float64 `json:"phi"`
	SuperCluster Ref     `json:"superCluster"`
}

// SuperCluster is a localized ECAL energy deposit.
type SuperCluster struct {
	RawEnergy float64 `json:"rawEnergy"`
	Eta       float64 `json:"eta"`
	Phi       float64 `json:"phi"`
}

// TriggerObject is an HLT object with the filter labels it passed.
type TriggerObject struct {
	Pt           float64  `json:"pt"`
	Eta          float64  `json:"eta"`
	Phi          float64  `json:"phi"`
	FilterLabels []string `json:"filterLabels"`
}

// HasFilterLabel reports whether the object passed the named filter.
func (o *TriggerObject) HasFilterLabel(label string) bool {
	return slices.Contains(o.FilterLabels, label)
}
