package core

// Service is the entry point for inventory operations. It holds no
// mutable state; concurrency safety is delegated to the Store.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}
