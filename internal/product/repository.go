package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wyzar-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, seller_id, name, description, images, price,
	category, quantity, delivery_time, country_of_origin, created_at`

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argIndex := 1

	if opts.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, opts.Category)
		argIndex++
	}

	if opts.SellerID != nil {
		query += fmt.Sprintf(" AND seller_id = $%d", argIndex)
		args = append(args, *opts.SellerID)
		argIndex++
	}

	offset := (opts.Page - 1) * opts.Limit
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, seller_id, name, description, images, price,
			category, quantity, delivery_time, country_of_origin
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		p.ID,
		p.SellerID,
		p.Name,
		p.Description,
		pq.Array(p.Images),
		p.Price,
		p.Category,
		p.Quantity,
		p.DeliveryTime,
		p.CountryOfOrigin,
	).Scan(&p.CreatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert product",
			zap.String("product_id", p.ID.String()),
			zap.Error(err),
		)
	}

	return err
}

func scanProduct(scan func(dest ...any) error) (*Product, error) {
	var p Product
	err := scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Description,
		pq.Array(&p.Images),
		&p.Price,
		&p.Category,
		&p.Quantity,
		&p.DeliveryTime,
		&p.CountryOfOrigin,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
