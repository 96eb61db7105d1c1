package metrics

import "time"

// Entry is one evaluation appended to a session's history.
type Entry struct {
	EvaluatedAt time.Time `json:"evaluatedAt"`
	Scorer      string    `json:"scorer"`
	Fallback    bool      `json:"fallback"`
	Metrics     Record    `json:"metrics"`
}

// History is the append-only evaluation log of a session.
type History []Entry

// Append returns a history with e added at the end. The receiver's backing
// array is never written through, so earlier snapshots stay intact.
func (h History) Append(e Entry) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, e)
}

// Average computes the per-metric mean. ok is false for an empty history.
func (h History) Average() (Record, bool) {
	if len(h) == 0 {
		return Record{}, false
	}

	sums := make(map[Name]float64, len(Names))
	for _, entry := range h {
		for _, name := range Names {
			v, _ := entry.Metrics.Value(name)
			sums[name] += v
		}
	}

	var avg Record
	n := float64(len(h))
	for _, name := range Names {
		avg.set(name, sums[name]/n)
	}
	return avg, true
}
