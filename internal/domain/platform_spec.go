package domain

import "time"

// PlatformSpec is the canonical runtime description of one platform's
// destinations.
//
// It is NOT tied to the YAML registry file, Redis or any other source.
// All inputs (builtin defaults, file, cache) are merged into this
// structure. URI templates use {token}, {url}, {email}, {subject} and
// {body} placeholders, expanded by the resolver.
type PlatformSpec struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, equal to the platform enum value.
	ID Platform

	// DisplayName is the human-readable platform name, shown by the
	// chooser collaborator. Example: "Instagram"
	DisplayName string

	// ─────────────────────────────
	// Destination templates
	// (may be overwritten by a registry reload)
	// ─────────────────────────────

	// AppScheme is the primary custom-scheme URI template.
	// Example: instagram://user?username={token}
	AppScheme string

	// SecondaryScheme is an optional second app URI template tried
	// after the primary fails. Example: mailto:{email}?subject={subject}
	SecondaryScheme string

	// WebTemplate is an optional web destination template that replaces
	// the action's canonical WebURL (email: webmail compose URL).
	WebTemplate string

	// TokenFrom selects which path segment of the web URL carries the
	// identifying token: "first", "last", or empty when no token is
	// needed to build the app URI.
	TokenFrom string

	// ─────────────────────────────
	// Store listings (by OS family)
	// ─────────────────────────────

	// StoreIOS is the App Store listing URL, empty if none.
	StoreIOS string

	// StoreAndroid is the Play Store listing URL, empty if none.
	StoreAndroid string

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// Sources indicates where this spec was discovered from.
	// Example: builtin, file, redis
	Sources []string

	// CreatedAt is the first time the spec was registered.
	CreatedAt time.Time

	// UpdatedAt is updated on any mutation.
	UpdatedAt time.Time
}

// NeedsToken reports whether the primary app URI cannot be built
// without a token extracted from the web URL.
func (s *PlatformSpec) NeedsToken() bool {
	return s.TokenFrom != ""
}
