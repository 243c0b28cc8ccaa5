package desk

// DocumentStore persists named JSON documents ("settings", "history").
// Put must be durable before it returns.
type DocumentStore interface {
	// Get returns the stored document, or nil and no error if it does not exist.
	Get(name string) ([]byte, error)

	// Put replaces the named document.
	Put(name string, data []byte) error

	// Close releases the underlying resources.
	Close() error
}
