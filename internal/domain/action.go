package domain

import "fmt"

// Action is a user-initiated request to reach an external destination.
// It is created at click time, consumed synchronously by a resolution
// session, and never persisted.
type Action struct {
	// Platform names the target network.
	Platform Platform

	// WebURL is the canonical HTTPS destination. It is the source of
	// truth and must always be present: whatever else fails, the user
	// can land here.
	WebURL string

	// Email is the recipient address for the email platform
	// (data-email attribute).
	Email string

	// DisplayName is an optional name used to template a greeting in
	// the email body (data-name attribute).
	DisplayName string
}

// Validate checks the action carries enough data to resolve.
func (a Action) Validate() error {
	if a.WebURL == "" {
		return fmt.Errorf("action for platform %q has no web url", a.Platform)
	}
	if a.Platform == PlatformEmail && a.Email == "" {
		return fmt.Errorf("email action has no recipient address")
	}
	return nil
}
