package simpledrive

import "context"

// NoopInvalidator is an Invalidator that does nothing. Useful for tests
// and for library embedders with no external cache to invalidate.
type NoopInvalidator struct{}

// NewNoopInvalidator creates a new no-op invalidator
func NewNoopInvalidator() *NoopInvalidator {
	return &NoopInvalidator{}
}

func (n *NoopInvalidator) Invalidate(ctx context.Context, path string) error {
	return nil
}
