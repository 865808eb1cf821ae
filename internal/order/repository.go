package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wyzar-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetProductsForCheckout(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]CheckoutProduct, error)
	CreateOrder(ctx context.Context, o *Order) error
	SetPaymentReference(ctx context.Context, orderID uuid.UUID, reference string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]Order, error)

	// MarkPaid transitions Pending -> Paid and decrements stock for every
	// line item, all in one transaction. Returns ErrNoPendingOrder when
	// the order already left Pending.
	MarkPaid(ctx context.Context, orderID uuid.UUID, gatewayRef, gatewayStatus string) error

	// MarkCancelled transitions Pending -> Cancelled without touching stock.
	MarkCancelled(ctx context.Context, orderID uuid.UUID, gatewayStatus string) error

	// MarkFailed transitions Pending -> Failed after a failed payment
	// initiation.
	MarkFailed(ctx context.Context, orderID uuid.UUID) error

	// ExpirePending cancels Pending orders created before the cutoff and
	// returns how many were affected.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProductsForCheckout(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]CheckoutProduct, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductsForCheckout"),
	)

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, quantity, COALESCE(images[1], '')
		FROM products
		WHERE id = ANY($1)`,
		pq.Array(idStrings),
	)
	if err != nil {
		log.Error("failed to query checkout products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make(map[uuid.UUID]CheckoutProduct, len(ids))
	for rows.Next() {
		var p CheckoutProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Image); err != nil {
			log.Error("failed to scan checkout product", zap.Error(err))
			return nil, err
		}
		products[p.ID] = p
	}

	return products, rows.Err()
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, user_id, full_name, street, city, country, phone,
			total_price, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		o.ID,
		o.UserID,
		o.ShippingAddress.FullName,
		o.ShippingAddress.Street,
		o.ShippingAddress.City,
		o.ShippingAddress.Country,
		o.ShippingAddress.Phone,
		o.TotalPrice,
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity, image)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Quantity,
			item.Image,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted", zap.Float64("total", o.TotalPrice))
	return nil
}

func (r *repository) SetPaymentReference(ctx context.Context, orderID uuid.UUID, reference string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_reference = $1, updated_at = NOW()
		WHERE id = $2`,
		reference, orderID)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, full_name, street, city, country, phone,
			total_price, status, payment_reference, payment_status,
			paid_at, created_at, updated_at
		FROM orders WHERE id = $1`,
		id,
	).Scan(
		&o.ID,
		&o.UserID,
		&o.ShippingAddress.FullName,
		&o.ShippingAddress.Street,
		&o.ShippingAddress.City,
		&o.ShippingAddress.Country,
		&o.ShippingAddress.Phone,
		&o.TotalPrice,
		&o.Status,
		&o.PaymentReference,
		&o.PaymentStatus,
		&o.PaidAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity, image
		FROM order_items WHERE order_id = $1`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, full_name, street, city, country, phone,
			total_price, status, payment_reference, payment_status,
			paid_at, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ShippingAddress.FullName,
			&o.ShippingAddress.Street,
			&o.ShippingAddress.City,
			&o.ShippingAddress.Country,
			&o.ShippingAddress.Phone,
			&o.TotalPrice,
			&o.Status,
			&o.PaymentReference,
			&o.PaymentStatus,
			&o.PaidAt,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, oi.name, oi.price, oi.quantity, oi.image
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1`,
		userID)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID uuid.UUID
		var item Item
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return orders, itemRows.Err()
}

func (r *repository) MarkPaid(ctx context.Context, orderID uuid.UUID, gatewayRef, gatewayStatus string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MarkPaid"),
		zap.String("order_id", orderID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Conditional update closes the race between concurrent callbacks:
	// only one caller observes an affected row.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_reference = $2, payment_status = $3,
			paid_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = $5`,
		StatusPaid, gatewayRef, gatewayStatus, orderID, StatusPending)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoPendingOrder
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = $1`,
		orderID)
	if err != nil {
		return err
	}

	type decrement struct {
		productID uuid.UUID
		quantity  int
	}
	var decrements []decrement
	for rows.Next() {
		var d decrement
		if err := rows.Scan(&d.productID, &d.quantity); err != nil {
			rows.Close()
			return err
		}
		decrements = append(decrements, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range decrements {
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET quantity = GREATEST(quantity - $1, 0) WHERE id = $2`,
			d.quantity, d.productID)
		if err != nil {
			log.Error("failed to decrement stock",
				zap.String("product_id", d.productID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order marked as paid", zap.String("gateway_ref", gatewayRef))
	return nil
}

func (r *repository) MarkCancelled(ctx context.Context, orderID uuid.UUID, gatewayStatus string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		StatusCancelled, gatewayStatus, orderID, StatusPending)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoPendingOrder
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, orderID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		StatusFailed, orderID, StatusPending)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNoPendingOrder
	}
	return nil
}

func (r *repository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3`,
		StatusCancelled, StatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
