package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/registry"
)

const defaultEmailSubject = "Hello"

// Resolver builds the ordered candidate list for an action. Ordering
// is fixed: primaryApp, secondaryApp, store, web. The web candidate is
// always present and always last; nothing is ever fabricated for a
// platform the registry does not know.
type Resolver struct {
	registry *registry.Index
}

// New creates a resolver over a platform registry.
func New(reg *registry.Index) *Resolver {
	return &Resolver{registry: reg}
}

// DisplayName returns the registry's display name for a platform,
// falling back to the raw enum value for unregistered platforms.
func (r *Resolver) DisplayName(p domain.Platform) string {
	if spec, ok := r.registry.Get(p); ok {
		return spec.DisplayName
	}
	return string(p)
}

// Resolve produces the prioritized destinations for one action.
func (r *Resolver) Resolve(action domain.Action, facts env.Facts) []domain.Candidate {
	web := domain.Candidate{URI: action.WebURL, Kind: domain.CandidateWeb}

	spec, ok := r.registry.Get(action.Platform)
	if !ok || !action.Platform.Known() {
		return []domain.Candidate{web}
	}

	if action.Platform == domain.PlatformEmail {
		return r.resolveEmail(action, spec)
	}

	var candidates []domain.Candidate

	token := ExtractToken(action.WebURL, spec.TokenFrom)
	if primary, ok := expandScheme(spec.AppScheme, action, token); ok {
		candidates = append(candidates, domain.Candidate{URI: primary, Kind: domain.CandidatePrimaryApp})
	}

	if store := storeURL(spec, facts); store != "" {
		candidates = append(candidates, domain.Candidate{URI: store, Kind: domain.CandidateStore})
	}

	return append(candidates, web)
}

// resolveEmail builds the email plan: app-specific compose URI first,
// generic mailto second, webmail compose as the terminal web entry.
func (r *Resolver) resolveEmail(action domain.Action, spec *domain.PlatformSpec) []domain.Candidate {
	var candidates []domain.Candidate

	if primary, ok := expandScheme(spec.AppScheme, action, ""); ok {
		candidates = append(candidates, domain.Candidate{URI: primary, Kind: domain.CandidatePrimaryApp})
	}
	if secondary, ok := expandScheme(spec.SecondaryScheme, action, ""); ok {
		candidates = append(candidates, domain.Candidate{URI: secondary, Kind: domain.CandidateSecondaryApp})
	}

	webURI := action.WebURL
	if spec.WebTemplate != "" {
		if expanded, ok := expandScheme(spec.WebTemplate, action, ""); ok {
			webURI = expanded
		}
	}

	return append(candidates, domain.Candidate{URI: webURI, Kind: domain.CandidateWeb})
}

// ExtractToken pulls the identifying token (e.g. a username) out of
// the web URL's path. from selects "first" or "last" path segment;
// empty means the platform needs no token. A leading @ is stripped.
func ExtractToken(webURL, from string) string {
	if from == "" {
		return ""
	}

	u, err := url.Parse(webURL)
	if err != nil {
		return ""
	}

	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	token := segments[0]
	if from == "last" {
		token = segments[len(segments)-1]
	}
	return strings.TrimPrefix(token, "@")
}

// expandScheme fills a URI template's placeholders from the action.
// Returns ok=false when the template is empty or a required
// placeholder has no value, in which case the candidate is omitted.
func expandScheme(template string, action domain.Action, token string) (string, bool) {
	if template == "" {
		return "", false
	}
	if strings.Contains(template, "{token}") && token == "" {
		return "", false
	}
	if strings.Contains(template, "{email}") && action.Email == "" {
		return "", false
	}

	subject := defaultEmailSubject
	body := ""
	if action.DisplayName != "" {
		body = fmt.Sprintf("Hi %s,", action.DisplayName)
	}

	replacer := strings.NewReplacer(
		"{token}", url.PathEscape(token),
		"{url}", queryEscape(action.WebURL),
		"{email}", action.Email,
		"{subject}", queryEscape(subject),
		"{body}", queryEscape(body),
	)
	return replacer.Replace(template), true
}

// storeURL picks the store listing for the environment's OS family.
// Store candidates are only offered on mobile; desktops get no store
// listing since the web destination always works there.
func storeURL(spec *domain.PlatformSpec, facts env.Facts) string {
	if !facts.IsMobile {
		return ""
	}
	switch {
	case facts.IsIOSLike:
		return spec.StoreIOS
	case facts.IsAndroidLike:
		return spec.StoreAndroid
	default:
		return ""
	}
}

// queryEscape percent-encodes a value for use inside a URI query,
// using %20 rather than + for spaces so mailto bodies render correctly.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
