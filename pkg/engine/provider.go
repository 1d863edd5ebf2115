package engine

import (
	"net/http"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/germanamz/modelsync/pkg/document"
	"github.com/germanamz/modelsync/pkg/providers/gemini"
	"github.com/germanamz/modelsync/pkg/providers/groq"
)

// ListerFactory creates a Lister for one provider from its config, a
// non-empty API key, and the shared HTTP client.
type ListerFactory func(cfg ProviderConfig, key string, client *http.Client) discovery.Lister

func newGroq(cfg ProviderConfig, key string, client *http.Client) discovery.Lister {
	return groq.New(cfg.BaseURL, key, client)
}

func newGemini(cfg ProviderConfig, key string, client *http.Client) discovery.Lister {
	return gemini.New(cfg.BaseURL, key, client)
}

// defaultFactories returns the built-in listers keyed by provider name.
func defaultFactories() map[string]ListerFactory {
	return map[string]ListerFactory{
		document.Groq:   newGroq,
		document.Gemini: newGemini,
	}
}
