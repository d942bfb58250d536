package models

// Credentials for one publishing platform.
type Credentials struct {
	Token        string `json:"token"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Settings is the persisted vault of the content factory.
type Settings struct {
	BackendURL string           `json:"backendUrl" validate:"omitempty,url"`
	MongoURI   string           `json:"mongoUri"`
	Frequency  int              `json:"frequency" validate:"gte=10,lte=360,step=10"`
	MasterKey  string           `json:"masterKey"`
	TikTok     Credentials      `json:"tiktok"`
	YouTube    Credentials      `json:"youtube"`
	Platforms  []PlatformStatus `json:"platforms"`
}

// DefaultSettings returns first-run settings: blank master key, both platforms linked.
func DefaultSettings(backendURL string, frequency int) Settings {
	return Settings{
		BackendURL: backendURL,
		Frequency:  frequency,
		Platforms: []PlatformStatus{
			{Platform: "TikTok", Linked: true},
			{Platform: "YouTube", Linked: true},
		},
	}
}

// SetupRequired reports whether no master key has been chosen yet.
func (s Settings) SetupRequired() bool {
	return s.MasterKey == ""
}

// Redacted returns a copy safe to hand to other services.
func (s Settings) Redacted() Settings {
	s.MasterKey = ""
	s.Platforms = append([]PlatformStatus(nil), s.Platforms...)
	return s
}

// LinkedPlatforms counts platforms marked linked.
func (s Settings) LinkedPlatforms() int {
	n := 0
	for _, p := range s.Platforms {
		if p.Linked {
			n++
		}
	}
	return n
}

// AutoPostRequest is the body sent to the companion's /auto-post endpoint.
type AutoPostRequest struct {
	Item        GenerationResult `json:"item"`
	Credentials Settings         `json:"credentials"`
}
