package filler

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks errors caused by the run configuration or by a
	// required input product that is not available. Never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrInconsistency marks input that contradicts itself or another
	// filler's output, such as a reference with no counterpart. It points
	// at a bug upstream, not at malformed data.
	ErrInconsistency = errors.New("upstream inconsistency")
)

func configErrorf(filler, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", filler, ErrConfiguration, fmt.Sprintf(format, args...))
}

func inconsistencyf(filler string, err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		return fmt.Errorf("%s: %w: %s: %w", filler, ErrInconsistency, msg, err)
	}
	return fmt.Errorf("%s: %w: %s", filler, ErrInconsistency, msg)
}
