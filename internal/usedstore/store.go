// Package usedstore tracks URLs already turned into drafts so consecutive
// runs do not repeat stories. Two backends exist behind one interface:
// Redis with TTL-based expiry, and a JSON file with retention pruning for
// setups without Redis.
package usedstore

import "context"

// Store is the used-item tracking contract consumed by the pipeline.
type Store interface {
	// IsUsed reports whether the URL was drafted within the retention window.
	IsUsed(ctx context.Context, url string) (bool, error)
	// MarkUsed records the URLs as drafted now.
	MarkUsed(ctx context.Context, urls []string) error
	// Count returns the number of currently tracked URLs.
	Count(ctx context.Context) (int, error)
	// Clear forgets all tracked URLs.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
