package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/EOPeakDesigns/applink/internal/domain"
)

// Mapper converts platforms.yaml entries to domain.PlatformSpec values.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapPlatforms converts a parsed Config to []*domain.PlatformSpec.
// Entries with an unknown platform key or a malformed scheme template
// are skipped rather than failing the whole reload.
func (m *Mapper) MapPlatforms(config *Config) ([]*domain.PlatformSpec, error) {
	var specs []*domain.PlatformSpec
	now := time.Now()

	for name, props := range config.Platforms {
		platform := domain.ParsePlatform(name)
		if !platform.Known() {
			continue
		}
		if !validScheme(props.AppScheme) {
			continue
		}
		if props.TokenFrom != "" && props.TokenFrom != "first" && props.TokenFrom != "last" {
			continue
		}

		displayName := props.DisplayName
		if displayName == "" {
			displayName = capitalize(name)
		}

		specs = append(specs, &domain.PlatformSpec{
			ID:              platform,
			DisplayName:     displayName,
			AppScheme:       props.AppScheme,
			SecondaryScheme: props.SecondaryScheme,
			WebTemplate:     props.WebTemplate,
			TokenFrom:       props.TokenFrom,
			StoreIOS:        props.Store.IOS,
			StoreAndroid:    props.Store.Android,
			Sources:         []string{"file"},
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("no valid platforms found in registry config")
	}

	return specs, nil
}

// capitalize upper-cases the first byte. Platform keys are ASCII enum values.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// validScheme checks a URI template looks like a scheme-qualified URI
// (custom scheme or mailto).
func validScheme(template string) bool {
	if template == "" {
		return false
	}
	return strings.Contains(template, "://") || strings.HasPrefix(template, "mailto:")
}
