// Package gemini lists the models offered by the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/germanamz/modelsync/pkg/modeladapter"
)

// DefaultBaseURL is the base URL for the Gemini API (no trailing slash).
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const (
	namePrefix     = "models/"
	generateMethod = "generateContent"
)

var _ discovery.Lister = (*Lister)(nil)

// Lister fetches the model list from the Gemini models endpoint.
type Lister struct {
	modeladapter.ModelAdapter
}

// New creates a Lister for the Gemini API. The key travels as the "key"
// query parameter.
func New(baseURL, apiKey string, client *http.Client) *Lister {
	// HeaderParser is not set: the Gemini API does not return rate limit
	// headers on the models endpoint.
	return &Lister{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: apiKey, Query: "key"}, client),
	}
}

// ListModels returns the names of models that support generateContent, with
// the "models/" prefix stripped, deduplicated and sorted. Entries whose name
// lacks the prefix, or is nothing but the prefix, are dropped.
func (l *Lister) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := l.GetJSON(ctx, "/v1beta/models", &resp); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	seen := make(map[string]struct{}, len(resp.Models))
	names := make([]string, 0, len(resp.Models))

	for _, m := range resp.Models {
		if !slices.Contains(m.SupportedGenerationMethods, generateMethod) {
			continue
		}

		name, ok := strings.CutPrefix(m.Name, namePrefix)
		if !ok || name == "" {
			continue
		}

		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// --- response types ---

type modelsResponse struct {
	Models        []apiModel `json:"models"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiModel struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}
