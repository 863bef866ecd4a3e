package domain

// Platform identifies the external network or channel an action targets.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformEmail     Platform = "email"
	PlatformOther     Platform = "other"
)

// ParsePlatform maps a raw data-platform attribute value to a Platform.
// Anything unrecognized maps to PlatformOther, which resolves to the
// web destination only.
func ParsePlatform(raw string) Platform {
	switch Platform(raw) {
	case PlatformInstagram, PlatformFacebook, PlatformTwitter, PlatformLinkedIn, PlatformEmail:
		return Platform(raw)
	default:
		return PlatformOther
	}
}

// Known reports whether the platform is one of the enumerated networks
// (i.e. not the catch-all PlatformOther).
func (p Platform) Known() bool {
	return p != PlatformOther && p != ""
}
