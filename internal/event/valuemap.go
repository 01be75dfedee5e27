package event

import "fmt"

// BoolMap associates one boolean with every element of a collection.
type BoolMap struct {
	Collection string `json:"collection"`
	Values     []bool `json:"values"`
}

// Get returns the value for ref.
func (m BoolMap) Get(ref Ref) (bool, error) {
	if err := checkRef(m.Collection, len(m.Values), ref); err != nil {
		return false, err
	}
	return m.Values[ref.Index], nil
}

// FloatMap associates one float with every element of a collection.
type FloatMap struct {
	Collection string    `json:"collection"`
	Values     []float64 `json:"values"`
}

// Get returns the value for ref.
func (m FloatMap) Get(ref Ref) (float64, error) {
	if err := checkRef(m.Collection, len(m.Values), ref); err != nil {
		return 0, err
	}
	return m.Values[ref.Index], nil
}

func checkRef(collection string, n int, ref Ref) error {
	if ref.Collection != collection {
		return fmt.Errorf("%w: %s looked up in map over %q", ErrBadRef, ref, collection)
	}
	if ref.Index < 0 || ref.Index >= n {
		return fmt.Errorf("%w: %s out of range (size %d)", ErrBadRef, ref, n)
	}
	return nil
}
