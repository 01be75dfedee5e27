package event

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source decodes a stream of JSON-encoded events (one object per event,
// typically one per line).
type Source struct {
	dec    *json.Decoder
	closer io.Closer
	count  int
}

// NewSource reads events from r.
func NewSource(r io.Reader) *Source {
	return &Source{dec: json.NewDecoder(bufio.NewReaderSize(r, 1<<20))}
}

// OpenSource opens a JSON-lines event file.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open event source: %w", err)
	}
	s := NewSource(f)
	s.closer = f
	return s, nil
}

// Next returns the next event, or io.EOF once the stream is exhausted.
func (s *Source) Next() (*Event, error) {
	var ev Event
	if err := s.dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode event %d: %w", s.count, err)
	}
	s.count++
	return &ev, nil
}

// Count returns the number of events decoded so far.
func (s *Source) Count() int { return s.count }

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
