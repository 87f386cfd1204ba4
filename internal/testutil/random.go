package testutil

import "sync"

// SequenceSource replays fixed draws. Each value is reduced modulo n, and
// the sequence wraps around when exhausted. With no values it always
// returns 0.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Draws reports how many values were consumed.
func (s *SequenceSource) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
