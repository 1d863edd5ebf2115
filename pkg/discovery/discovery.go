// Package discovery runs one provider's model listing and folds every outcome
// into a [Result], so a failing provider never aborts the caller.
package discovery

import (
	"context"
	"log/slog"
)

// Lister returns the model identifiers a provider currently offers,
// deduplicated and sorted.
type Lister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ListerFunc adapts a plain function to a Lister.
type ListerFunc func(ctx context.Context) ([]string, error)

// ListModels calls f.
func (f ListerFunc) ListModels(ctx context.Context) ([]string, error) { return f(ctx) }

// Status describes how a provider's discovery ended.
type Status string

const (
	// OK means the provider answered and Models holds its identifiers.
	OK Status = "ok"
	// Skipped means no credential was configured and no call was made.
	Skipped Status = "skipped"
	// Failed means the call failed; Err holds the reason.
	Failed Status = "failed"
)

// Result is the outcome of discovering one provider's models. Models is empty
// unless Status is OK.
type Result struct {
	Provider string
	Status   Status
	Models   []string
	Err      error
}

// Discover lists the models of the named provider. An empty key skips the
// network call. newLister is only called when a key is present.
func Discover(ctx context.Context, log *slog.Logger, provider, key string, newLister func(key string) Lister) Result {
	if key == "" {
		log.WarnContext(ctx, "no api key configured, skipping model discovery", "provider", provider)
		return Result{Provider: provider, Status: Skipped}
	}

	models, err := newLister(key).ListModels(ctx)
	if err != nil {
		log.ErrorContext(ctx, "model discovery failed", "provider", provider, "error", err)
		return Result{Provider: provider, Status: Failed, Err: err}
	}

	log.InfoContext(ctx, "models discovered", "provider", provider, "count", len(models))

	return Result{Provider: provider, Status: OK, Models: models}
}
