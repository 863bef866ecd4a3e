package registry

// Config represents the top-level structure of platforms.yaml.
type Config struct {
	Platforms map[string]PlatformProps `yaml:"platforms"`
}

// PlatformProps contains the destination templates for one platform.
type PlatformProps struct {
	DisplayName     string     `yaml:"display_name,omitempty"`
	AppScheme       string     `yaml:"app_scheme"`
	SecondaryScheme string     `yaml:"secondary_scheme,omitempty"`
	WebTemplate     string     `yaml:"web_template,omitempty"`
	TokenFrom       string     `yaml:"token_from,omitempty"`
	Store           StoreProps `yaml:"store,omitempty"`
}

// StoreProps lists the store listing URLs by OS family.
type StoreProps struct {
	IOS     string `yaml:"ios,omitempty"`
	Android string `yaml:"android,omitempty"`
}
