package primo

import (
	"context"
	"fmt"
)

// probeQueries are common words expected to match in any catalogue.
var probeQueries = []string{"the", "book", "science", "history", "a"}

// Verify checks a library configuration by running probe searches until one
// returns results. It reports the successful query and result count, or an
// error describing the most likely cause of failure.
func Verify(ctx context.Context, c SearchClient, cfg LibraryConfig) (string, error) {
	var lastErr error

	for _, q := range probeQueries {
		docs, err := c.Search(ctx, cfg, SearchRequest{
			Query: q,
			Field: "any",
			Limit: 5,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(docs) > 0 {
			return fmt.Sprintf("found %d results for %q", len(docs), q), nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("API error: %w", lastErr)
	}
	return "", fmt.Errorf("no results for any probe query (config may be incorrect)")
}
