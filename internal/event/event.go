package event

import "fmt"

// Event bundles every input product of one collision event.
type Event struct {
	Run        uint32 `json:"run"`
	Lumi       uint32 `json:"lumi"`
	Number     uint64 `json:"event"`
	IsRealData bool   `json:"isRealData"`

	Electrons      []Candidate     `json:"electrons"`
	Photons        []Photon        `json:"photons"`
	SuperClusters  []SuperCluster  `json:"superClusters"`
	TriggerObjects []TriggerObject `json:"triggerObjects"`

	BoolMaps  map[string]BoolMap  `json:"boolMaps,omitempty"`
	FloatMaps map[string]FloatMap `json:"floatMaps,omitempty"`
	Scalars   map[string]float64  `json:"scalars,omitempty"`
}

// ID returns a run:lumi:event string for log messages.
func (e *Event) ID() string {
	return fmt.Sprintf("%d:%d:%d", e.Run, e.Lumi, e.Number)
}

// ElectronRef returns the identity of the i-th electron candidate.
func (e *Event) ElectronRef(i int) Ref { return Ref{Collection: ElectronsCollection, Index: i} }

// PhotonRef returns the identity of the i-th photon candidate.
func (e *Event) PhotonRef(i int) Ref { return Ref{Collection: PhotonsCollection, Index: i} }

// SuperClusterRef returns the identity of the i-th supercluster.
func (e *Event) SuperClusterRef(i int) Ref { return Ref{Collection: SuperClustersCollection, Index: i} }

// SuperCluster dereferences a supercluster ref.
func (e *Event) SuperCluster(ref Ref) (*SuperCluster, error) {
	if err := checkRef(SuperClustersCollection, len(e.SuperClusters), ref); err != nil {
		return nil, err
	}
	return &e.SuperClusters[ref.Index], nil
}

// BoolMap returns the named boolean value map.
func (e *Event) BoolMap(label string) (BoolMap, error) {
	m, ok := e.BoolMaps[label]
	if !ok {
		return BoolMap{}, fmt.Errorf("%w: bool map %q", ErrMissingProduct, label)
	}
	return m, nil
}

// FloatMap returns the named float value map.
func (e *Event) FloatMap(label string) (FloatMap, error) {
	m, ok := e.FloatMaps[label]
	if !ok {
		return FloatMap{}, fmt.Errorf("%w: float map %q", ErrMissingProduct, label)
	}
	return m, nil
}

// OptionalFloatMap returns the named float value map, or nil when absent.
func (e *Event) OptionalFloatMap(label string) *FloatMap {
	if label == "" {
		return nil
	}
	m, ok := e.FloatMaps[label]
	if !ok {
		return nil
	}
	return &m
}

// Scalar returns the named per-event scalar.
func (e *Event) Scalar(label string) (float64, error) {
	v, ok := e.Scalars[label]
	if !ok {
		return 0, fmt.Errorf("%w: scalar %q", ErrMissingProduct, label)
	}
	return v, nil
}
