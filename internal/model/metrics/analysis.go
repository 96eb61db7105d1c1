package metrics

// Analysis is the derived summary attached to each evaluation.
type Analysis struct {
	Metrics        Record   `json:"metrics"`
	Suggestions    []string `json:"suggestions"`
	CriticalIssues []string `json:"criticalIssues"`
	OverallRating  float64  `json:"overallRating"`
}

// Analyze builds the summary for a record. Suggestions and issues are not
// generated yet and are always empty.
func Analyze(r Record) Analysis {
	return Analysis{
		Metrics:        r,
		Suggestions:    []string{},
		CriticalIssues: []string{},
		OverallRating:  r.Completion,
	}
}

// Grade buckets a score for display.
type Grade string

const (
	GradeExcellent        Grade = "excellent"
	GradeGood             Grade = "good"
	GradeAverage          Grade = "average"
	GradeNeedsImprovement Grade = "needs-improvement"
)

// GradeOf maps a score onto its display bucket.
func GradeOf(score float64) Grade {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	case score >= 40:
		return GradeAverage
	default:
		return GradeNeedsImprovement
	}
}

// Grades grades every metric except engagementDuration, which is a length
// proxy rather than a score.
func Grades(r Record) map[Name]Grade {
	out := make(map[Name]Grade, len(Names)-1)
	for _, name := range Names {
		if name == EngagementDuration {
			continue
		}
		v, _ := r.Value(name)
		out[name] = GradeOf(v)
	}
	return out
}
