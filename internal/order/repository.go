package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"modora-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	MarkPaid(ctx context.Context, id string, conf PaymentConfirmation, paidAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status, markDelivered bool) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id,
	user_id,
	ship_address,
	ship_city,
	ship_postal_code,
	ship_country,
	payment_method,
	total_price,
	status,
	is_paid,
	paid_at,
	payment_id,
	payment_status,
	payment_email,
	is_delivered,
	delivered_at,
	created_at,
	updated_at
`

func scanOrderRow(scan func(dest ...any) error) (*Order, error) {
	o := &Order{}
	err := scan(
		&o.ID,
		&o.UserID,
		&o.ShippingAddress.Address,
		&o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country,
		&o.PaymentMethod,
		&o.TotalPrice,
		&o.Status,
		&o.IsPaid,
		&o.PaidAt,
		&o.PaymentID,
		&o.PaymentStatus,
		&o.PaymentEmail,
		&o.IsDelivered,
		&o.DeliveredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Uint("user_id", o.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
	INSERT INTO orders (
		user_id,
		ship_address,
		ship_city,
		ship_postal_code,
		ship_country,
		payment_method,
		total_price,
		status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + orderColumns

	created, err := scanOrderRow(tx.QueryRowContext(
		ctx,
		query,
		o.UserID,
		o.ShippingAddress.Address,
		o.ShippingAddress.City,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country,
		o.PaymentMethod,
		o.TotalPrice,
		StatusPending,
	).Scan)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, it := range o.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, price, size, color, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, created.ID, it.ProductID, it.Name, it.Image, it.Price, it.Size, it.Color, it.Quantity)
		if err != nil {
			log.Error("failed to insert order item", zap.Error(err))
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created.Items = o.Items

	log.Info("order created",
		zap.String("order_id", created.ID),
		zap.Float64("total_price", created.TotalPrice),
	)

	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	o, err := scanOrderRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) getItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, image, price, size, color, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
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

	return items, rows.Err()
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrderRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.getItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}

	return orders, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE user_id = $1
	ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

// MarkPaid stamps the payment exactly once; an already-paid order matches no
// row and the call reports nothing to do.
func (r *repository) MarkPaid(ctx context.Context, id string, conf PaymentConfirmation, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE,
		    paid_at = $1,
		    payment_id = $2,
		    payment_status = $3,
		    payment_email = $4,
		    updated_at = NOW()
		WHERE id = $5 AND is_paid = FALSE
	`, paidAt, conf.PaymentID, conf.Status, conf.Email, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// UpdateStatus sets the status and, when the order is being delivered,
// stamps delivered_at only if it has never been set.
func (r *repository) UpdateStatus(ctx context.Context, id string, status Status, markDelivered bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    is_delivered = CASE WHEN $2 THEN TRUE ELSE is_delivered END,
		    delivered_at = CASE WHEN $2 AND delivered_at IS NULL THEN NOW() ELSE delivered_at END,
		    updated_at = NOW()
		WHERE id = $3
	`, status, markDelivered, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
