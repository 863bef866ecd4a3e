package redis

import "fmt"

const (
	// KeyPrefixPlatform is the prefix for platform spec keys
	KeyPrefixPlatform = "applink:platform:"
	// KeyPrefixPlan is the prefix for cached candidate plans
	KeyPrefixPlan = "applink:plan:"
	// KeyAllPlatforms is the key for the set of all platform IDs
	KeyAllPlatforms = "applink:platforms:all"
	// KeyUsage is the hash holding per-platform resolution counters
	KeyUsage = "applink:usage"
)

// PlatformKey returns the Redis key for a platform spec by ID
func PlatformKey(id string) string {
	return KeyPrefixPlatform + id
}

// PlanKey returns the Redis key for a cached candidate plan. The
// fingerprint folds the action and the environment class together, so
// a mobile iOS plan never collides with a desktop one.
func PlanKey(fingerprint string) string {
	return KeyPrefixPlan + fingerprint
}

// AllPlatformsKey returns the key for the set of all platform IDs
func AllPlatformsKey() string {
	return KeyAllPlatforms
}

// ExtractPlatformID extracts the platform ID from a Redis key
func ExtractPlatformID(key string) (string, error) {
	if len(key) <= len(KeyPrefixPlatform) {
		return "", fmt.Errorf("invalid platform key: %s", key)
	}
	return key[len(KeyPrefixPlatform):], nil
}
