// Package groq lists the models offered by Groq's OpenAI-compatible API.
package groq

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/germanamz/modelsync/pkg/modeladapter"
)

// DefaultBaseURL is the base URL for the Groq API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

var _ discovery.Lister = (*Lister)(nil)

// Lister fetches the model list from the Groq models endpoint.
type Lister struct {
	modeladapter.ModelAdapter
}

// New creates a Lister with the given base URL, API key and HTTP client.
// A nil client falls back to a client with modeladapter.DefaultTimeout.
func New(baseURL, apiKey string, client *http.Client) *Lister {
	l := &Lister{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: apiKey}, client),
	}
	l.Headers = map[string]string{"Content-Type": "application/json"}
	l.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders
	return l
}

// ListModels returns the ids of every entry in the response's data array,
// without empty ids, deduplicated and sorted.
func (l *Lister) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := l.GetJSON(ctx, "/models", &resp); err != nil {
		return nil, fmt.Errorf("groq: %w", err)
	}

	seen := make(map[string]struct{}, len(resp.Data))
	ids := make([]string, 0, len(resp.Data))

	for _, m := range resp.Data {
		if m.ID == "" {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		ids = append(ids, m.ID)
	}

	sort.Strings(ids)

	return ids, nil
}

// API response types.

type modelsResponse struct {
	Object string     `json:"object"`
	Data   []apiModel `json:"data"`
}

type apiModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
	Active  bool   `json:"active"`
}
