package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Class ids below this are reserved for hand-authored world content.
const minGeneratedClassID = 100000

type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

// CreateItem: cek nama di dalam transaksi supaya concurrent pass tidak bikin
// duplikat, alokasi max+1, insert satu row. Satu unit = satu transaksi;
// gagal di sini tidak nge-rollback item yang sudah commit sebelumnya.
func (r *Repo) CreateItem(ctx context.Context, it Item) (uint32, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing uint32
	err = tx.QueryRow(ctx, `SELECT class_id FROM items WHERE class_name=$1`, it.ClassName).Scan(&existing)
	if err == nil {
		return 0, ErrDuplicateItem
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var classID uint32
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(class_id), $1) + 1 FROM items WHERE class_id >= $1
	`, minGeneratedClassID).Scan(&classID)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO items(
			class_id, class_name, name, plural_name, use_text, short_desc, long_desc,
			value, stack_size, max_stack_size, encumbrance, usable, is_subscription,
			icon_id, boost_value
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		classID, it.ClassName, it.Name, it.PluralName, it.UseText, it.ShortDesc, it.LongDesc,
		it.Value, it.StackSize, it.MaxStackSize, it.Encumbrance, it.Usable, it.IsSubscription,
		it.IconID, it.BoostValue,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return classID, nil
}

func (r *Repo) FindItemByClassName(ctx context.Context, className string) (uint32, error) {
	var id uint32
	err := r.DB.QueryRow(ctx, `SELECT class_id FROM items WHERE class_name=$1`, className).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) AddToVendor(ctx context.Context, vendorID, classID uint32) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// idempotent: vendor sudah jual -> biarkan
	_, err = tx.Exec(ctx, `
		INSERT INTO vendor_items(vendor_id, item_class_id)
		VALUES ($1,$2)
		ON CONFLICT (vendor_id, item_class_id) DO NOTHING`,
		vendorID, classID,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) RemoveFromVendor(ctx context.Context, vendorID, classID uint32) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		DELETE FROM vendor_items WHERE vendor_id=$1 AND item_class_id=$2`,
		vendorID, classID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotListed
	}
	return tx.Commit(ctx)
}

func (r *Repo) ListVendorItems(ctx context.Context, vendorID uint32) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.class_id, i.class_name, i.name, i.plural_name, i.use_text,
		       i.short_desc, i.long_desc, i.value, i.stack_size, i.max_stack_size,
		       i.encumbrance, i.usable, i.is_subscription, i.icon_id, i.boost_value
		FROM items i
		JOIN vendor_items v ON v.item_class_id = i.class_id
		WHERE v.vendor_id = $1
		ORDER BY i.class_id`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ClassID, &it.ClassName, &it.Name, &it.PluralName, &it.UseText,
			&it.ShortDesc, &it.LongDesc, &it.Value, &it.StackSize, &it.MaxStackSize,
			&it.Encumbrance, &it.Usable, &it.IsSubscription, &it.IconID, &it.BoostValue,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
