package repository

import "context"

// Locker guards cluster-wide singleton work such as the property tick
type Locker interface {
	// TryLock returns a release func and true when the lock was acquired
	TryLock(ctx context.Context, key int64) (func(), bool, error)
}
