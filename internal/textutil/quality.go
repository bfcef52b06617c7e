package textutil

// Similarity score boundaries shared by the matcher and the report command.
const (
	ExactScore         = 1.0
	ExcellentThreshold = 0.80
	UsableThreshold    = 0.70
	FairThreshold      = 0.50
	PoorThreshold      = 0.30
)

// NoMatchLabel is the sentinel written into reports for files that matched
// nothing. Cached entries carrying it are never trusted as matches.
const NoMatchLabel = "NO MATCH"

// Quality maps a similarity score to a human-readable tier.
func Quality(score float64) string {
	switch {
	case score >= ExactScore:
		return "EXACT"
	case score >= ExcellentThreshold:
		return "EXCELLENT"
	case score >= UsableThreshold:
		return "GOOD"
	case score >= FairThreshold:
		return "FAIR"
	case score >= PoorThreshold:
		return "POOR"
	default:
		return NoMatchLabel
	}
}
