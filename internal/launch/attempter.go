package launch

import (
	"fmt"

	"github.com/EOPeakDesigns/applink/internal/domain"
)

// Navigator is the collaborator that performs actual navigation for
// the page. Implementations own the DOM side; the engine only decides
// what to navigate to and when.
type Navigator interface {
	// Navigate replaces the main document location with uri.
	Navigate(uri string) error

	// OpenTab opens uri in a new browsing context.
	OpenTab(uri string) error
}

// Attempter performs a single best-effort navigation attempt toward a
// candidate without permanently losing control of the page.
type Attempter struct {
	nav     Navigator
	desktop bool
}

// NewAttempter creates an attempter. desktop selects the new-tab
// policy for confirmed-safe destinations.
func NewAttempter(nav Navigator, desktop bool) *Attempter {
	return &Attempter{nav: nav, desktop: desktop}
}

// Attempt fires one navigation attempt and returns immediately.
//
// Custom-scheme candidates go through the main document location, not
// a hidden auxiliary frame: only main-frame navigation reliably
// produces the visibility and focus signals the detector depends on.
// The cost is a possible error interstitial on browsers where the
// scheme is entirely unregistered.
//
// A returned error means the navigation call itself failed (malformed
// scheme, collaborator refusal) and is treated by the caller as an
// immediate detection timeout.
func (a *Attempter) Attempt(c domain.Candidate) error {
	if c.URI == "" {
		return fmt.Errorf("candidate %s has no uri", c.Kind)
	}

	switch c.Kind {
	case domain.CandidateWeb, domain.CandidateStore:
		// Confirmed-safe destination: replacing the page (or opening a
		// tab on desktop) cannot strand the user.
		if a.desktop {
			return a.nav.OpenTab(c.URI)
		}
		return a.nav.Navigate(c.URI)
	default:
		return a.nav.Navigate(c.URI)
	}
}
