package product

import (
	"context"
	"database/sql"
	"fmt"

	"modora-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetList(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	Update(ctx context.Context, id string, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	name,
	description,
	price,
	images,
	sizes,
	colors,
	count_in_stock,
	created_at,
	updated_at
`

func scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		pq.Array(&p.Images),
		pq.Array(&p.Sizes),
		pq.Array(&p.Colors),
		&p.CountInStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `
	SELECT ` + productColumns + `
	FROM products
	WHERE id = $1
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) GetList(ctx context.Context, opts ListOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetList"),
	)

	finalLimit := 20
	if opts.Limit > 0 {
		finalLimit = opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := 1
	if opts.Page > 0 {
		finalPage = opts.Page
	}
	offset := (finalPage - 1) * finalLimit

	query := `
	SELECT ` + productColumns + `
	FROM products
	ORDER BY created_at DESC
	LIMIT $1
	OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, finalLimit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, finalLimit)
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			pq.Array(&p.Images),
			pq.Array(&p.Sizes),
			pq.Array(&p.Colors),
			&p.CountInStock,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return result, nil
}

func (r *repository) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	query := `
	INSERT INTO products (
		name,
		description,
		price,
		images,
		sizes,
		colors,
		count_in_stock
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(
		ctx,
		query,
		params.Name,
		params.Description,
		params.Price,
		pq.Array(params.Images),
		pq.Array(params.Sizes),
		pq.Array(params.Colors),
		params.CountInStock,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

func (r *repository) Update(ctx context.Context, id string, params UpdateProductParams) (*Product, error) {
	query := `
	UPDATE products
	SET
		name = COALESCE($1, name),
		description = COALESCE($2, description),
		price = COALESCE($3, price),
		images = COALESCE($4, images),
		sizes = COALESCE($5, sizes),
		colors = COALESCE($6, colors),
		count_in_stock = COALESCE($7, count_in_stock),
		updated_at = NOW()
	WHERE id = $8
	RETURNING ` + productColumns

	var images, sizes, colors interface{}
	if params.Images != nil {
		images = pq.Array(params.Images)
	}
	if params.Sizes != nil {
		sizes = pq.Array(params.Sizes)
	}
	if params.Colors != nil {
		colors = pq.Array(params.Colors)
	}

	p, err := scanProduct(r.db.QueryRowContext(
		ctx,
		query,
		params.Name,
		params.Description,
		params.Price,
		images,
		sizes,
		colors,
		params.CountInStock,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
