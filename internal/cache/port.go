package cache

// Cache is the port for the page cache: a flat mapping from URL to page body.
// Implementations are responsible for their own persistence.
type Cache interface {
	// Get returns the stored value and true, or "" and false when absent.
	Get(key string) (string, bool)

	// Put stores value under key, overwriting any previous value.
	Put(key string, value string) error

	// Len reports the number of entries.
	Len() int
}
