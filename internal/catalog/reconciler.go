package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
)

// ProductSource is what the reconciler needs from the remote API.
type ProductSource interface {
	Products(ctx context.Context) ([]terminal.Product, error)
}

// Events receives catalog change notifications. Optional.
type Events interface {
	ItemCreated(ctx context.Context, productID, className string, classID uint32)
	ItemRetired(ctx context.Context, productID string, classID uint32)
}

// Reconciler diffs the remote catalog against redis-tracked state and keeps
// the vendor's listing in sync. State lives on the task object, not a global;
// the caller runs Tick from a single cooperative loop, so there is no lock:
// re-entry is suppressed by the interval guard alone.
type Reconciler struct {
	Source   ProductSource
	Store    Store
	Redis    *redis.Client
	Events   Events
	VendorID uint32

	Interval    time.Duration
	IncomingTTL time.Duration
	Logger      *zap.Logger

	lastRun time.Time
}

func NewReconciler(src ProductSource, store Store, rdb *redis.Client, vendorID uint32, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		Source:      src,
		Store:       store,
		Redis:       rdb,
		VendorID:    vendorID,
		Interval:    12 * time.Hour,
		IncomingTTL: redisx.TTLIncoming,
		Logger:      logger,
	}
}

// Tick runs a pass when the interval has elapsed. Pass failures are logged
// and abandoned; the next pass self-heals via the class-name idempotence check.
func (r *Reconciler) Tick(ctx context.Context) {
	if time.Since(r.lastRun) < r.Interval {
		return
	}
	r.lastRun = time.Now()

	r.Logger.Info("running coffee catalog sync")
	if err := r.RunOnce(ctx); err != nil {
		r.Logger.Error("coffee catalog sync failed", zap.Error(err))
	}
}

// RunOnce executes one reconciliation pass.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	if err := r.Redis.Del(ctx, redisx.KeyProductsIncoming).Err(); err != nil {
		return err
	}

	products, err := r.Source.Products(ctx)
	if err != nil {
		return err
	}

	for _, p := range products {
		if err := r.Redis.SAdd(ctx, redisx.KeyProductsIncoming, p.ID).Err(); err != nil {
			return err
		}
		raw, err := json.Marshal(p)
		if err != nil {
			r.Logger.Warn("skipping product, marshal failed", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		if err := r.Redis.HSet(ctx, redisx.KeyProductDetails, p.ID, raw).Err(); err != nil {
			return err
		}
	}

	retired, err := r.Redis.SDiff(ctx, redisx.KeyProductsVendor, redisx.KeyProductsIncoming).Result()
	if err != nil {
		return err
	}
	for _, productID := range retired {
		r.retireProduct(ctx, productID)
	}

	toAdd, err := r.Redis.SDiff(ctx, redisx.KeyProductsIncoming, redisx.KeyProductsCreated).Result()
	if err != nil {
		return err
	}
	for _, productID := range toAdd {
		r.materializeProduct(ctx, productID)
	}

	// Safety net: kalau pass berikutnya mati di tengah jalan, incoming set
	// tidak nyangkut selamanya.
	if err := r.Redis.Expire(ctx, redisx.KeyProductsIncoming, r.IncomingTTL).Err(); err != nil {
		return err
	}
	return nil
}

// retireProduct delists every item mapped to the product. Missing mapping is
// logged and skipped, never fatal to the pass.
func (r *Reconciler) retireProduct(ctx context.Context, productID string) {
	classIDs, err := r.mappedItems(ctx, productID)
	if err != nil || len(classIDs) == 0 {
		r.Logger.Warn("no valid item mapping for retired product",
			zap.String("product_id", productID), zap.Error(err))
		return
	}

	for _, classID := range classIDs {
		r.Logger.Info("removing retired coffee item from vendor",
			zap.Uint32("class_id", classID), zap.Uint32("vendor_id", r.VendorID))
		err := r.Store.RemoveFromVendor(ctx, r.VendorID, classID)
		if errors.Is(err, ErrNotListed) {
			r.Logger.Warn("vendor does not sell retired item", zap.Uint32("class_id", classID))
		} else if err != nil {
			r.Logger.Error("failed to remove item from vendor", zap.Uint32("class_id", classID), zap.Error(err))
			continue
		}
		if r.Events != nil {
			r.Events.ItemRetired(ctx, productID, classID)
		}
	}

	if err := r.Redis.SRem(ctx, redisx.KeyProductsVendor, productID).Err(); err != nil {
		r.Logger.Error("failed to drop product from vendor set", zap.String("product_id", productID), zap.Error(err))
	}
}

// materializeProduct creates local items for every variant of the product and
// lists them on the vendor. Idempotent per variant via the class name.
func (r *Reconciler) materializeProduct(ctx context.Context, productID string) {
	raw, err := r.Redis.HGet(ctx, redisx.KeyProductDetails, productID).Result()
	if err != nil {
		r.Logger.Warn("no valid details for product", zap.String("product_id", productID), zap.Error(err))
		return
	}
	var p terminal.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		r.Logger.Warn("failed to decode product details", zap.String("product_id", productID), zap.Error(err))
		return
	}

	variants := p.Variants
	if len(variants) == 0 {
		// product tanpa variant -> satu item saja
		variants = []terminal.Variant{{Name: "0oz"}}
	}

	var classIDs []uint32
	for _, v := range variants {
		it := BuildItem(p, v)
		classID, err := r.Store.CreateItem(ctx, it)
		if errors.Is(err, ErrDuplicateItem) {
			// already materialized oleh pass sebelumnya; pastikan masih dijual
			r.Logger.Warn("item already exists, re-listing", zap.String("class_name", it.ClassName))
			classID, err = r.Store.FindItemByClassName(ctx, it.ClassName)
			if err != nil || classID == 0 {
				r.Logger.Error("failed to look up existing item", zap.String("class_name", it.ClassName), zap.Error(err))
				continue
			}
		} else if err != nil {
			r.Logger.Error("failed to create item", zap.String("class_name", it.ClassName), zap.Error(err))
			continue
		} else {
			r.Logger.Info("created coffee item",
				zap.String("class_name", it.ClassName), zap.Uint32("class_id", classID),
				zap.String("product_id", productID), zap.Int("value", it.Value))
			if r.Events != nil {
				r.Events.ItemCreated(ctx, productID, it.ClassName, classID)
			}
		}

		if err := r.Store.AddToVendor(ctx, r.VendorID, classID); err != nil {
			r.Logger.Error("failed to list item on vendor", zap.Uint32("class_id", classID), zap.Error(err))
			continue
		}
		classIDs = append(classIDs, classID)
	}

	if len(classIDs) == 0 {
		return
	}
	if err := r.recordMapping(ctx, productID, classIDs); err != nil {
		r.Logger.Error("failed to record product mapping", zap.String("product_id", productID), zap.Error(err))
		return
	}
	if err := r.Redis.SAdd(ctx, redisx.KeyProductsCreated, productID).Err(); err != nil {
		r.Logger.Error("failed to mark product created", zap.String("product_id", productID), zap.Error(err))
		return
	}
	if err := r.Redis.SAdd(ctx, redisx.KeyProductsVendor, productID).Err(); err != nil {
		r.Logger.Error("failed to mark product vendor-listed", zap.String("product_id", productID), zap.Error(err))
	}
}

func (r *Reconciler) mappedItems(ctx context.Context, productID string) ([]uint32, error) {
	raw, err := r.Redis.HGet(ctx, redisx.KeyProductToItems, productID).Result()
	if err != nil {
		return nil, err
	}
	var ids []uint32
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Reconciler) recordMapping(ctx context.Context, productID string, classIDs []uint32) error {
	raw, err := json.Marshal(classIDs)
	if err != nil {
		return err
	}
	if err := r.Redis.HSet(ctx, redisx.KeyProductToItems, productID, raw).Err(); err != nil {
		return err
	}
	for _, id := range classIDs {
		if err := r.Redis.HSet(ctx, redisx.KeyItemToProduct, id, productID).Err(); err != nil {
			return err
		}
	}
	return nil
}
