package cache

import (
	"golang.org/x/sync/singleflight"

	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
)

// Flight deduplicates concurrent computes of the same fingerprint
// within this process. Cross-process coalescing is intentionally
// absent; the cache TTL absorbs the rare double compute.
type Flight struct {
	group singleflight.Group
}

// Do runs fn at most once per in-flight key. Callers that arrive while
// a compute is running wait for and share its result; shared reports
// whether the result was delivered to more than one caller.
func (f *Flight) Do(key string, fn func() (*domain.Analysis, error)) (*domain.Analysis, bool, error) {
	v, err, shared := f.group.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*domain.Analysis), shared, nil
}
