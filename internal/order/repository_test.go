package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id",
		"ship_address", "ship_city", "ship_postal_code", "ship_country",
		"payment_method", "total_price", "status",
		"is_paid", "paid_at", "payment_id", "payment_status", "payment_email",
		"is_delivered", "delivered_at",
		"created_at", "updated_at",
	})
}

func pendingOrderRow(id string, userID uint, total float64) *sqlmock.Rows {
	return orderRows().AddRow(
		id, userID,
		"12 Market Street", "Bandung", "40111", "ID",
		"card", total, string(StatusPending),
		false, nil, nil, nil, nil,
		false, nil,
		time.Now(), time.Now(),
	)
}

func orderItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "name", "image", "price", "size", "color", "quantity",
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	o := &Order{
		UserID: 7,
		Items: []Item{
			{ProductID: "prod-a", Name: "Tee", Image: "tee.jpg", Price: 10, Size: "M", Color: "Red", Quantity: 3},
			{ProductID: "prod-b", Name: "Cap", Image: "cap.jpg", Price: 20, Color: "Black", Quantity: 1},
		},
		ShippingAddress: Address{Address: "12 Market Street", City: "Bandung", PostalCode: "40111", Country: "ID"},
		PaymentMethod:   "card",
		TotalPrice:      50,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(uint(7), "12 Market Street", "Bandung", "40111", "ID", "card", 50.0, string(StatusPending)).
			WillReturnRows(pendingOrderRow("ord-1", 7, 50))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs("ord-1", "prod-a", "Tee", "tee.jpg", 10.0, "M", "Red", 3).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs("ord-1", "prod-b", "Cap", "cap.jpg", 20.0, "", "Black", 1).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		created, err := repo.Create(context.Background(), o)
		require.NoError(t, err)
		assert.Equal(t, "ord-1", created.ID)
		assert.Equal(t, StatusPending, created.Status)
		assert.Len(t, created.Items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back when an item insert fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(pendingOrderRow("ord-2", 7, 50))
		mock.ExpectExec("INSERT INTO order_items").
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), o)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("ord-1").
			WillReturnRows(pendingOrderRow("ord-1", 7, 50))
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WithArgs("ord-1").
			WillReturnRows(orderItemRows().
				AddRow("prod-a", "Tee", "tee.jpg", 10.0, "M", "Red", 3))

		o, err := repo.GetByID(context.Background(), "ord-1")
		require.NoError(t, err)
		assert.Equal(t, uint(7), o.UserID)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "prod-a", o.Items[0].ProductID)
		assert.False(t, o.IsPaid)
		assert.Nil(t, o.PaidAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("nope").
			WillReturnRows(orderRows())

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id").
		WithArgs(uint(7)).
		WillReturnRows(pendingOrderRow("ord-2", 7, 20).AddRow(
			"ord-1", 7,
			"12 Market Street", "Bandung", "40111", "ID",
			"card", 50.0, string(StatusDelivered),
			true, time.Now(), "pay-1", "PAID", "payer@example.com",
			true, time.Now(),
			time.Now(), time.Now(),
		))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs("ord-2").
		WillReturnRows(orderItemRows())
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs("ord-1").
		WillReturnRows(orderItemRows().
			AddRow("prod-a", "Tee", "tee.jpg", 10.0, "M", "Red", 5))

	orders, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-2", orders[0].ID)
	assert.True(t, orders[1].IsDelivered)
	assert.Len(t, orders[1].Items, 1)
}

func TestRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	conf := PaymentConfirmation{PaymentID: "pay-1", Status: "PAID"}
	paidAt := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(paidAt, "pay-1", "PAID", "", "ord-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkPaid(context.Background(), "ord-1", conf, paidAt)
		assert.NoError(t, err)
	})

	t.Run("Already paid matches no row", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(paidAt, "pay-1", "PAID", "", "ord-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPaid(context.Background(), "ord-1", conf, paidAt)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(string(StatusDelivered), true, "ord-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "ord-1", StatusDelivered, true)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(string(StatusShipped), false, "nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "nope", StatusShipped, false)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM orders").
			WithArgs("ord-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "ord-1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM orders").
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), ErrOrderNotFound)
	})
}
