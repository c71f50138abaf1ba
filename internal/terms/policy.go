package terms

import "time"

// ViewLimit caps every ranked view.
const ViewLimit = 5

// Policy holds the tunable consolidation parameters.
type Policy struct {
	// MergeWindow is how long after a record's creation a similar query from
	// the same origin still refines it in place.
	MergeWindow time.Duration
	// MaxMergeDistance is the largest edit distance treated as a refinement.
	MaxMergeDistance int
	// GlobalCacheTTL is how long the global frequency view may be stale.
	GlobalCacheTTL time.Duration
	// SuggestionLimit caps substring suggestions. It never exceeds ViewLimit.
	SuggestionLimit int
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{
		MergeWindow:      time.Minute,
		MaxMergeDistance: 5,
		GlobalCacheTTL:   15 * time.Second,
		SuggestionLimit:  ViewLimit,
	}
}

// withDefaults fills zero or invalid fields from DefaultPolicy and clamps
// SuggestionLimit to ViewLimit.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MergeWindow <= 0 {
		p.MergeWindow = def.MergeWindow
	}
	if p.MaxMergeDistance < 0 {
		p.MaxMergeDistance = def.MaxMergeDistance
	}
	if p.GlobalCacheTTL < 0 {
		p.GlobalCacheTTL = def.GlobalCacheTTL
	}
	if p.SuggestionLimit <= 0 || p.SuggestionLimit > ViewLimit {
		p.SuggestionLimit = def.SuggestionLimit
	}
	return p
}
