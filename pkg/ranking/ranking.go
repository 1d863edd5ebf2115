// Package ranking turns discovered model ids into a provider's preference list.
package ranking

// Filter returns the candidates that are not in deny, keeping their order.
func Filter(candidates []string, deny map[string]struct{}) []string {
	live := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, denied := deny[id]; denied {
			continue
		}
		live = append(live, id)
	}
	return live
}

// Prefer removes every id in deny from candidates, keeping the candidates'
// order. When nothing is left it returns a copy of fallback instead, so the
// result is never empty as long as fallback is not.
func Prefer(candidates []string, deny map[string]struct{}, fallback []string) []string {
	if live := Filter(candidates, deny); len(live) > 0 {
		return live
	}

	out := make([]string, len(fallback))
	copy(out, fallback)

	return out
}
