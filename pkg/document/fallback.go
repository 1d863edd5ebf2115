package document

// DefaultRefreshSeconds is how often consumers should re-read the file.
const DefaultRefreshSeconds = 86400

// Default sampling temperatures per provider.
const (
	GroqTemperature   = 0.1
	GeminiTemperature = 0.3
)

// Fallback returns the static document written when a run cannot produce a
// regular one. Its lists are fixed literals and do not follow the configured
// deny and fallback lists.
func Fallback() ModelsDocument {
	return ModelsDocument{
		Version: FallbackVersion,
		Providers: Providers{
			{Name: Groq, Config: ProviderConfig{
				Prefer:             []string{"llama-3.1-70b-versatile", "llama-3.1-8b-instant"},
				Deny:               NewDenySet("llama3-8b-8192"),
				DefaultTemperature: GroqTemperature,
			}},
			{Name: Gemini, Config: ProviderConfig{
				Prefer:             []string{"gemini-1.5-pro", "gemini-2.0-flash"},
				Deny:               NewDenySet("gemini-1.5-flash"),
				DefaultTemperature: GeminiTemperature,
			}},
		},
		RefreshSeconds: DefaultRefreshSeconds,
	}
}
