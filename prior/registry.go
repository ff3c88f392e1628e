package prior

// Registry memoizes Cache instances by the hyperparameter triple that
// determines their contents. Grounded on the teacher's generic
// fuzzer.LRU[K,V] (github.com/google/syzkaller/pkg/fuzzer/lru.go),
// repurposed here from "recently seen corpus hashes" to "recently built
// prior caches" — train.Train uses one Registry per call (the caller's
// Params.PriorCache, or a private one), so in practice it rarely evicts,
// but it is correct across repeated Train calls
// with different params in the same process, unlike the source's lazy
// global.
type Registry struct {
	cache *lru[cacheKey, *Cache]
}

type cacheKey struct {
	nrules      int
	lambda, eta float64
}

// NewRegistry returns a Registry holding at most capacity distinct Caches.
func NewRegistry(capacity int) *Registry {
	return &Registry{cache: newLRU[cacheKey, *Cache](capacity)}
}

// Get returns the Cache for (nrules, lambda, eta), building and storing one
// on first use.
func (r *Registry) Get(nrules int, lambda, eta float64) (*Cache, error) {
	key := cacheKey{nrules, lambda, eta}
	return r.cache.getOrCreate(key, func() (*Cache, error) {
		return NewCache(nrules, lambda, eta)
	})
}
