// Package modeladapter provides the HTTP plumbing shared by provider model
// listers.
//
// It contains:
//   - embeddable [ModelAdapter] base struct with request building, header or query-string auth, and custom headers
//   - [ModelAdapter.GetJSON], which maps 429 to [RateLimitError] and other non-2xx statuses to [StatusError]
//   - rate limit header parsing ([RateLimitInfo], [ParseOpenAIRateLimitHeaders])
//
// This package contains no provider-specific code. Concrete listers live in
// separate packages under pkg/providers that embed ModelAdapter.
package modeladapter
