package cart

import (
	"context"
	"database/sql"
	"fmt"

	"modora-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByOwner(ctx context.Context, owner Owner) (*Cart, error)
	CreateCart(ctx context.Context, owner Owner) (*Cart, error)
	AddItem(ctx context.Context, cartID string, item Item) error
	SetItemQuantity(ctx context.Context, cartID string, key ItemKey, quantity int) error
	RemoveItem(ctx context.Context, cartID string, key ItemKey) error
	ReplaceItems(ctx context.Context, cartID string, items []Item) error
	AssignToUser(ctx context.Context, cartID string, userID uint) error
	Clear(ctx context.Context, cartID string) error
	Delete(ctx context.Context, cartID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByOwner(ctx context.Context, owner Owner) (*Cart, error) {
	var (
		query string
		arg   any
	)
	switch {
	case owner.UserID != nil:
		query = `SELECT id, user_id, guest_id, total_price, created_at, updated_at FROM carts WHERE user_id = $1`
		arg = *owner.UserID
	case owner.GuestID != nil && *owner.GuestID != "":
		query = `SELECT id, user_id, guest_id, total_price, created_at, updated_at FROM carts WHERE guest_id = $1`
		arg = *owner.GuestID
	default:
		return nil, ErrCartNotFound
	}

	c := &Cart{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID,
		&c.UserID,
		&c.GuestID,
		&c.TotalPrice,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items

	return c, nil
}

func (r *repository) getItems(ctx context.Context, cartID string) ([]Item, error) {
	query := `
	SELECT
		product_id,
		name,
		image,
		price,
		size,
		color,
		quantity
	FROM cart_items
	WHERE cart_id = $1
	ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ProductID,
			&it.Name,
			&it.Image,
			&it.Price,
			&it.Size,
			&it.Color,
			&it.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) CreateCart(ctx context.Context, owner Owner) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCart"),
	)

	query := `
	INSERT INTO carts (user_id, guest_id)
	VALUES ($1, $2)
	RETURNING id, user_id, guest_id, total_price, created_at, updated_at
	`

	c := &Cart{Items: []Item{}}
	err := r.db.QueryRowContext(ctx, query, owner.UserID, owner.GuestID).Scan(
		&c.ID,
		&c.UserID,
		&c.GuestID,
		&c.TotalPrice,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart", zap.Error(err))
		return nil, err
	}

	log.Info("cart created", zap.String("cart_id", c.ID))
	return c, nil
}

// recomputeTotal derives total_price from the line items inside the same
// transaction as the structural change, so a cart is never visible with a
// total that disagrees with its items.
func recomputeTotal(ctx context.Context, tx *sql.Tx, cartID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET total_price = (
			SELECT COALESCE(SUM(price * quantity), 0)
			FROM cart_items
			WHERE cart_id = $1
		),
		updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}

func (r *repository) AddItem(ctx context.Context, cartID string, item Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Same (product, size, color) increments instead of duplicating the row.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, name, image, price, size, color, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (cart_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, cartID, item.ProductID, item.Name, item.Image, item.Price, item.Size, item.Color, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) SetItemQuantity(ctx context.Context, cartID string, key ItemKey, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3 AND size = $4 AND color = $5
	`, quantity, cartID, key.ProductID, key.Size, key.Color)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) RemoveItem(ctx context.Context, cartID string, key ItemKey) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND size = $3 AND color = $4
	`, cartID, key.ProductID, key.Size, key.Color)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ReplaceItems(ctx context.Context, cartID string, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}

	for _, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, name, image, price, size, color, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, cartID, it.ProductID, it.Name, it.Image, it.Price, it.Size, it.Color, it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert merged cart item: %w", err)
		}
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) AssignToUser(ctx context.Context, cartID string, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET user_id = $1, guest_id = NULL, updated_at = NOW()
		WHERE id = $2
	`, userID, cartID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, cartID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}

	if err := recomputeTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, cartID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}
