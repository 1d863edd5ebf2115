// Package engine is the composition root of a modelsync run. It turns a
// [Config] into listers, runs discovery and ranking for every provider,
// assembles the models document and persists it.
//
// Failures are absorbed in two tiers: a provider whose discovery fails
// contributes no candidates (see [github.com/germanamz/modelsync/pkg/discovery.Result]),
// and anything else that goes wrong replaces the output with the static
// fallback document (see [Outcome]). A run never reports failure to its caller.
package engine
