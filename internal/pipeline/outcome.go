package pipeline

import "sync"

// Outcome names the terminal disposition of one page through the gate.
// Rejections are distinct outcomes, not errors, so callers can count them
// separately.
type Outcome string

const (
	// OutcomeAccepted means the page was stored.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeNoURL means the page carried no usable URL.
	OutcomeNoURL Outcome = "no-url"
	// OutcomeDuplicateURL means the URL was already processed.
	OutcomeDuplicateURL Outcome = "dup-url"
	// OutcomeDuplicateContent means identical text was already stored
	// under another URL.
	OutcomeDuplicateContent Outcome = "dup-content"
	// OutcomeTooShort means the resolved text was below the minimum
	// length.
	OutcomeTooShort Outcome = "short"
)

// Stats counts gate outcomes for a run. The fetch layer delivers responses
// from multiple goroutines, so the counters are mutex-protected.
type Stats struct {
	mu     sync.Mutex
	counts map[Outcome]int
}

// NewStats creates an empty outcome counter.
func NewStats() *Stats {
	return &Stats{counts: make(map[Outcome]int)}
}

// Inc increments the counter for an outcome.
func (s *Stats) Inc(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[o]++
}

// Get returns the count for an outcome.
func (s *Stats) Get(o Outcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[o]
}

// Total returns the number of pages processed.
func (s *Stats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Fields returns the counters as alternating key-value pairs for logging.
func (s *Stats) Fields() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcomes := []Outcome{
		OutcomeAccepted, OutcomeNoURL, OutcomeDuplicateURL,
		OutcomeDuplicateContent, OutcomeTooShort,
	}
	fields := make([]any, 0, 2*len(outcomes))
	for _, o := range outcomes {
		fields = append(fields, string(o), s.counts[o])
	}
	return fields
}
