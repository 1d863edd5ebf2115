// Package providers groups the model listers for each supported provider.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/modelsync/pkg/providers/groq] — Groq's OpenAI-compatible /models endpoint, bearer auth
//   - [github.com/germanamz/modelsync/pkg/providers/gemini] — Gemini's /v1beta/models endpoint, query-string key, generateContent filter
//
// Every lister embeds [github.com/germanamz/modelsync/pkg/modeladapter.ModelAdapter]
// and satisfies [github.com/germanamz/modelsync/pkg/discovery.Lister].
package providers
