package registry

import (
	"time"

	"github.com/EOPeakDesigns/applink/internal/domain"
)

// Defaults returns the builtin platform specs. The registry works out
// of the box with these; a platforms.yaml file can override or extend
// them at runtime.
func Defaults() []*domain.PlatformSpec {
	now := time.Now()
	specs := []*domain.PlatformSpec{
		{
			ID:           domain.PlatformInstagram,
			DisplayName:  "Instagram",
			AppScheme:    "instagram://user?username={token}",
			TokenFrom:    "first",
			StoreIOS:     "https://apps.apple.com/app/instagram/id389801252",
			StoreAndroid: "https://play.google.com/store/apps/details?id=com.instagram.android",
		},
		{
			ID:           domain.PlatformFacebook,
			DisplayName:  "Facebook",
			AppScheme:    "fb://facewebmodal/f?href={url}",
			StoreIOS:     "https://apps.apple.com/app/facebook/id284882215",
			StoreAndroid: "https://play.google.com/store/apps/details?id=com.facebook.katana",
		},
		{
			ID:           domain.PlatformTwitter,
			DisplayName:  "X",
			AppScheme:    "twitter://user?screen_name={token}",
			TokenFrom:    "first",
			StoreIOS:     "https://apps.apple.com/app/x/id333903271",
			StoreAndroid: "https://play.google.com/store/apps/details?id=com.twitter.android",
		},
		{
			ID:           domain.PlatformLinkedIn,
			DisplayName:  "LinkedIn",
			AppScheme:    "linkedin://in/{token}",
			TokenFrom:    "last",
			StoreIOS:     "https://apps.apple.com/app/linkedin/id288429040",
			StoreAndroid: "https://play.google.com/store/apps/details?id=com.linkedin.android",
		},
		{
			ID:              domain.PlatformEmail,
			DisplayName:     "Email",
			AppScheme:       "googlegmail://co?to={email}&subject={subject}&body={body}",
			SecondaryScheme: "mailto:{email}?subject={subject}&body={body}",
			WebTemplate:     "https://mail.google.com/mail/?view=cm&fs=1&to={email}&su={subject}&body={body}",
		},
	}

	for _, s := range specs {
		s.Sources = []string{"builtin"}
		s.CreatedAt = now
		s.UpdatedAt = now
	}
	return specs
}
