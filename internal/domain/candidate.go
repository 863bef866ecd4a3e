package domain

// CandidateKind classifies one destination in a resolution plan.
type CandidateKind string

const (
	// CandidatePrimaryApp is a platform-specific custom-scheme URI.
	// Risky: silently no-ops when the app is absent.
	CandidatePrimaryApp CandidateKind = "primary_app"

	// CandidateSecondaryApp is a generic protocol handler tried after
	// the primary app URI fails (email only: mailto).
	CandidateSecondaryApp CandidateKind = "secondary_app"

	// CandidateStore is the platform's app-store listing. Offered as an
	// explicit user choice, never auto-attempted.
	CandidateStore CandidateKind = "store"

	// CandidateWeb is the guaranteed terminal fallback, always last.
	CandidateWeb CandidateKind = "web"
)

// Candidate is one destination the engine may attempt for an action.
// The list built for an action is ordered and immutable for the
// lifetime of the resolution session.
type Candidate struct {
	URI  string        `json:"uri"`
	Kind CandidateKind `json:"kind"`
}

// Attemptable reports whether the candidate is launched with a
// detection window (app candidates only). Store and web candidates
// are confirmed-safe destinations and need no detection.
func (c Candidate) Attemptable() bool {
	return c.Kind == CandidatePrimaryApp || c.Kind == CandidateSecondaryApp
}
