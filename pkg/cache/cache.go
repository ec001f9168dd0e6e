// Package cache stores computed minimum locations so repeated runs over the
// same almanac text skip the scan.
//
// Ranged scans can take minutes, so the solver caches each result under a key
// derived from a SHA-256 hash of the input text and the search mode. Backends:
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI default)
//   - [RedisCache]: shared cache for several API instances
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ResultKey(cache.Hash(input), cache.ResultKeyOpts{Mode: "ranged"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLResult is how long a computed location stays cached. Results are a pure
// function of the input text, so the TTL only bounds disk and memory use.
const TTLResult = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts holds the solver options that change a result.
type ResultKeyOpts struct {
	Mode string `json:"mode"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey returns the key for the minimum location of the input with
	// the given hash.
	ResultKey(inputHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces keys of the form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}
