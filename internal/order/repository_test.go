package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetProductsForCheckout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	id1 := uuid.New()
	id2 := uuid.New()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "price", "quantity", "coalesce"}).
			AddRow(id1.String(), "Clay Pot", 10.0, 5, "pot.jpg").
			AddRow(id2.String(), "Basket", 4.5, 2, "")

		mock.ExpectQuery(`SELECT id, name, price, quantity, COALESCE\(images\[1\], ''\)\s+FROM products\s+WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]string{id1.String(), id2.String()})).
			WillReturnRows(rows)

		products, err := repo.GetProductsForCheckout(ctx, []uuid.UUID{id1, id2})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Clay Pot", products[id1].Name)
		assert.Equal(t, 4.5, products[id2].Price)
	})

	t.Run("MissingRowsAreAbsentFromMap", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "price", "quantity", "coalesce"}).
			AddRow(id1.String(), "Clay Pot", 10.0, 5, "pot.jpg")

		mock.ExpectQuery(`SELECT id, name, price, quantity`).
			WillReturnRows(rows)

		products, err := repo.GetProductsForCheckout(ctx, []uuid.UUID{id1, id2})
		require.NoError(t, err)
		_, ok := products[id2]
		assert.False(t, ok)
	})
}

func TestRepository_CreateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	productID := uuid.New()
	o := &Order{
		ID:     orderID,
		UserID: 1,
		ShippingAddress: ShippingAddress{
			FullName: "Jane Buyer",
			City:     "Harare",
			Country:  "ZW",
		},
		TotalPrice: 20,
		Status:     StatusPending,
		Items: []Item{
			{ProductID: productID, Name: "Clay Pot", Price: 10, Quantity: 2, Image: "pot.jpg"},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(orderID, 1, "Jane Buyer", "", "Harare", "ZW", "", 20.0, StatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(orderID, productID, "Clay Pot", 10.0, 2, "pot.jpg").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CreateOrder(ctx, o))
		assert.False(t, o.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemInsertFailureRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		assert.Error(t, repo.CreateOrder(ctx, o))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	productID := uuid.New()

	t.Run("DecrementsStockInSameTx", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusPaid, "PN-100", "Paid", orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT product_id, quantity FROM order_items WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
				AddRow(productID.String(), 2))
		mock.ExpectExec(`UPDATE products SET quantity = GREATEST\(quantity - \$1, 0\)`).
			WithArgs(2, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.MarkPaid(ctx, orderID, "PN-100", "Paid"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		// The conditional update matches no row once the order left
		// Pending, so stock is never touched twice.
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusPaid, "PN-100", "Paid", orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.Equal(t, ErrNoPendingOrder, repo.MarkPaid(ctx, orderID, "PN-100", "Paid"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StockUpdateFailureRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT product_id, quantity FROM order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
				AddRow(productID.String(), 2))
		mock.ExpectExec(`UPDATE products`).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		assert.Error(t, repo.MarkPaid(ctx, orderID, "PN-100", "Paid"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_MarkCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusCancelled, "Cancelled", orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkCancelled(ctx, orderID, "Cancelled"))
	})

	t.Run("NotPending", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, ErrNoPendingOrder, repo.MarkCancelled(ctx, orderID, "Cancelled"))
	})
}

func TestRepository_ExpirePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(`UPDATE orders`).
		WithArgs(StatusCancelled, StatusPending, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpirePending(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
