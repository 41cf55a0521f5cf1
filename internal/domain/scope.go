package domain

// Scope selects which reviews an aggregation counts.
type Scope string

const (
	// ScopeAll counts every review row regardless of moderation flags.
	ScopeAll Scope = "all"
	// ScopePublic counts only reviews in the Visible state.
	ScopePublic Scope = "public"
)

// ScopeFor returns the scope a caller is entitled to.
func ScopeFor(s *Student) Scope {
	if s.IsAdmin() {
		return ScopeAll
	}
	return ScopePublic
}
