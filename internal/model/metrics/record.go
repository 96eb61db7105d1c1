package metrics

import "math"

// Name enumerates the metrics carried by every Record.
type Name string

const (
	Politeness            Name = "politenessScore"
	Professionalism       Name = "professionalism"
	ProblemResolution     Name = "problemResolution"
	Clarity               Name = "clarity"
	EmotionalIntelligence Name = "emotionalIntelligence"
	TechnicalAccuracy     Name = "technicalAccuracy"
	Completion            Name = "completionScore"
	ResponseSpeed         Name = "responseSpeed"
	EngagementDuration    Name = "engagementDuration"
)

// Names lists every recognised metric in display order.
var Names = []Name{
	Politeness,
	Professionalism,
	ProblemResolution,
	Clarity,
	EmotionalIntelligence,
	TechnicalAccuracy,
	Completion,
	ResponseSpeed,
	EngagementDuration,
}

// ScorerNames are the metrics an external scorer is expected to supply.
var ScorerNames = []Name{
	Politeness,
	Professionalism,
	ProblemResolution,
	Clarity,
	EmotionalIntelligence,
	TechnicalAccuracy,
	Completion,
}

// OwnedByScorer are the scorer metrics nothing local replaces. A scorer
// result is usable once these are present; politeness is always taken from
// the keyword analyzer.
var OwnedByScorer = []Name{
	Professionalism,
	ProblemResolution,
	Clarity,
	EmotionalIntelligence,
	TechnicalAccuracy,
	Completion,
}

// FallbackValue substitutes every scorer-derived metric when scoring fails
// or a field is missing. The same value is used on both paths.
const FallbackValue = 50.0

// Scores is a partial metric set, as returned by a scorer.
type Scores map[Name]float64

// FallbackScores returns the fixed scorer fallback set.
func FallbackScores() Scores {
	out := make(Scores, len(ScorerNames))
	for _, name := range ScorerNames {
		out[name] = FallbackValue
	}
	return out
}

// Complete reports whether every scorer-owned metric is present and finite.
func (s Scores) Complete() bool {
	for _, name := range OwnedByScorer {
		v, ok := s[name]
		if !ok || !finite(v) {
			return false
		}
	}
	return true
}

// Record is a complete metric set. Every field is always populated.
type Record struct {
	Politeness            float64 `json:"politenessScore"`
	Professionalism       float64 `json:"professionalism"`
	ProblemResolution     float64 `json:"problemResolution"`
	Clarity               float64 `json:"clarity"`
	EmotionalIntelligence float64 `json:"emotionalIntelligence"`
	TechnicalAccuracy     float64 `json:"technicalAccuracy"`
	Completion            float64 `json:"completionScore"`
	ResponseSpeed         float64 `json:"responseSpeed"`
	EngagementDuration    float64 `json:"engagementDuration"`
}

// Value returns the value of a named metric.
func (r Record) Value(name Name) (float64, bool) {
	switch name {
	case Politeness:
		return r.Politeness, true
	case Professionalism:
		return r.Professionalism, true
	case ProblemResolution:
		return r.ProblemResolution, true
	case Clarity:
		return r.Clarity, true
	case EmotionalIntelligence:
		return r.EmotionalIntelligence, true
	case TechnicalAccuracy:
		return r.TechnicalAccuracy, true
	case Completion:
		return r.Completion, true
	case ResponseSpeed:
		return r.ResponseSpeed, true
	case EngagementDuration:
		return r.EngagementDuration, true
	default:
		return 0, false
	}
}

func (r *Record) set(name Name, v float64) {
	switch name {
	case Politeness:
		r.Politeness = v
	case Professionalism:
		r.Professionalism = v
	case ProblemResolution:
		r.ProblemResolution = v
	case Clarity:
		r.Clarity = v
	case EmotionalIntelligence:
		r.EmotionalIntelligence = v
	case TechnicalAccuracy:
		r.TechnicalAccuracy = v
	case Completion:
		r.Completion = v
	case ResponseSpeed:
		r.ResponseSpeed = v
	case EngagementDuration:
		r.EngagementDuration = v
	}
}

// Map flattens the record into a name-keyed map holding all nine keys.
func (r Record) Map() map[Name]float64 {
	out := make(map[Name]float64, len(Names))
	for _, name := range Names {
		v, _ := r.Value(name)
		out[name] = v
	}
	return out
}

// FromScores seeds a record from scorer output. Missing or non-finite
// scorer metrics take FallbackValue; locally computed metrics start at 0.
func FromScores(s Scores) Record {
	var r Record
	for _, name := range ScorerNames {
		v, ok := s[name]
		if !ok || !finite(v) {
			v = FallbackValue
		}
		r.set(name, v)
	}
	return r
}

// With returns a copy of r with one metric overwritten.
func (r Record) With(name Name, v float64) Record {
	r.set(name, v)
	return r
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
