package env

import (
	"regexp"
	"strings"
)

// Snapshot captures the ambient platform signals a client reports at
// click time. It is a value: classification has no side effects and is
// re-evaluated per call since the viewport can change between clicks.
type Snapshot struct {
	UserAgent     string `json:"user_agent"`
	CoarsePointer bool   `json:"coarse_pointer"` // primary pointer is coarse (touch)
	NoHover       bool   `json:"no_hover"`       // primary input cannot hover
	TouchPoints   int    `json:"touch_points"`
	ViewportWidth int    `json:"viewport_width"`
}

// Facts are the derived device facts. Exactly one of IsMobile and
// IsDesktop is true for any snapshot.
type Facts struct {
	IsMobile      bool `json:"is_mobile"`
	IsDesktop     bool `json:"is_desktop"`
	IsIOSLike     bool `json:"is_ios_like"`
	IsAndroidLike bool `json:"is_android_like"`
}

// mobilePattern matches the device-identifier strings of known mobile
// browsers. This is the primary signal.
var mobilePattern = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|windows phone|blackberry|opera mini|iemobile|mobile`)

// touchGuardWidth caps the viewport width at which the secondary
// touch heuristic may classify a device as mobile. Desktop browsers
// with touch-emulation tooling active report touch capabilities but
// keep a wide viewport.
const touchGuardWidth = 1024

// Classify derives device facts from a snapshot.
//
// The identifier string wins when it matches a known mobile pattern;
// the pointer/hover/touch heuristic catches devices the pattern does
// not recognize, guarded by viewport width.
func Classify(s Snapshot) Facts {
	ua := strings.ToLower(s.UserAgent)

	mobile := mobilePattern.MatchString(s.UserAgent)
	if !mobile && s.CoarsePointer && s.NoHover && s.TouchPoints > 0 &&
		s.ViewportWidth > 0 && s.ViewportWidth <= touchGuardWidth {
		mobile = true
	}

	f := Facts{}

	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		f.IsIOSLike = true
	case strings.Contains(ua, "macintosh") && s.TouchPoints > 1:
		// iPadOS Safari reports a desktop Macintosh identifier but
		// still exposes multiple touch points.
		f.IsIOSLike = true
		mobile = true
	case strings.Contains(ua, "android"):
		f.IsAndroidLike = true
	}

	f.IsMobile = mobile
	f.IsDesktop = !mobile
	return f
}
