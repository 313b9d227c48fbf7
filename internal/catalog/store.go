package catalog

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateItem: an item with the same class name already exists.
	// Not user-visible; the reconciler treats it as an idempotent no-op.
	ErrDuplicateItem = errors.New("item class name already exists")
	// ErrNotListed: vendor does not sell the item.
	ErrNotListed = errors.New("vendor does not sell item")
)

// Store is the world-database surface the reconciler needs. The pgx
// implementation lives in repo.go; tests use an in-memory fake.
type Store interface {
	// CreateItem materializes the item in a single transaction, allocating
	// the next class id. Returns ErrDuplicateItem if the class name is taken.
	CreateItem(ctx context.Context, it Item) (classID uint32, err error)

	// FindItemByClassName returns 0, nil when no item matches.
	FindItemByClassName(ctx context.Context, className string) (uint32, error)

	// AddToVendor lists the item on the vendor. Already listed -> no-op.
	AddToVendor(ctx context.Context, vendorID, classID uint32) error

	// RemoveFromVendor delists the item. Not listed -> ErrNotListed.
	RemoveFromVendor(ctx context.Context, vendorID, classID uint32) error

	// ListVendorItems returns the items currently listed on the vendor.
	ListVendorItems(ctx context.Context, vendorID uint32) ([]Item, error)
}
