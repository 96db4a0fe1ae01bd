package db

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Shop/internal/events"
	"Shop/internal/models"
)

// newTestStore создаёт Store поверх замоканного соединения.
func newTestStore(t *testing.T, subscribers ...events.Subscriber) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStore(mockDB, subscribers...), mock
}

func TestSaveCartItemComputesTotalFromCurrentPrice(t *testing.T) {
	var got []events.CartItemEvent
	store, mock := newTestStore(t, func(e events.CartItemEvent) {
		got = append(got, e)
	})

	// Товар стоит 100.00, в позиции 3 штуки — сумма обязана стать 300.00.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT price FROM products").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("100.00"))
	mock.ExpectQuery("INSERT INTO cart_items").
		WithArgs(int64(1), int64(2), int64(7), 3, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(1, "300.00"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(2), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := store.SaveCartItem(models.CartItem{
		CustomerID: 1,
		CartID:     2,
		ProductID:  7,
		Quantity:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), item.ID)
	assert.Equal(t, "300.00", item.TotalPrice.StringFixed(2))

	// Подписчик вызван ровно один раз, с created=true для новой позиции.
	require.Len(t, got, 1)
	assert.True(t, got[0].Created)
	assert.Equal(t, int64(10), got[0].Item.ID)
	assert.Equal(t, "300.00", got[0].Item.TotalPrice.StringFixed(2))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", got[0].ID.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCartItemUpdateNotifiesCreatedFalse(t *testing.T) {
	var got []events.CartItemEvent
	store, mock := newTestStore(t, func(e events.CartItemEvent) {
		got = append(got, e)
	})

	// Обновление существующей позиции: цена перечитывается заново,
	// старые 100.00 за штуку заменяются текущими 120.00.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT price FROM products").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("120.00"))
	mock.ExpectExec("UPDATE cart_items SET").
		WithArgs(int64(10), int64(1), int64(2), int64(7), 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(1, "240.00"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(2), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := store.SaveCartItem(models.CartItem{
		ID:         10,
		CustomerID: 1,
		CartID:     2,
		ProductID:  7,
		Quantity:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, "240.00", item.TotalPrice.StringFixed(2))
	require.Len(t, got, 1)
	assert.False(t, got[0].Created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCartItemWithoutProduct(t *testing.T) {
	notified := 0
	store, mock := newTestStore(t, func(events.CartItemEvent) { notified++ })

	_, err := store.SaveCartItem(models.CartItem{CustomerID: 1, CartID: 2, Quantity: 1})
	require.ErrorIs(t, err, ErrProductNotSet)

	assert.Zero(t, notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCartItemUnknownProduct(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT price FROM products").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))
	mock.ExpectRollback()

	_, err := store.SaveCartItem(models.CartItem{CustomerID: 1, CartID: 2, ProductID: 99, Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найден")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCartItemDefaultsQuantityToOne(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT price FROM products").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("50.00"))
	mock.ExpectQuery("INSERT INTO cart_items").
		WithArgs(int64(1), int64(2), int64(7), 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(1, "50.00"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(2), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := store.SaveCartItem(models.CartItem{CustomerID: 1, CartID: 2, ProductID: 7})
	require.NoError(t, err)

	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "50.00", item.TotalPrice.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCartRecomputesTotals(t *testing.T) {
	store, mock := newTestStore(t)

	// В корзине две позиции на 300.00 и 50.00 —
	// после сохранения итоги обязаны стать 2 и 350.00.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE carts SET customer_id").
		WithArgs(int64(5), int64(1), false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(2, "350.00"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(5), 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cart, err := store.SaveCart(models.Cart{ID: 5, CustomerID: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, cart.TotalProducts)
	assert.Equal(t, "350.00", cart.TotalPrice.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCartItemUpdatesCartTotals(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT cart_id FROM cart_items").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(int64(2)))
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(0, "0"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(2), 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.DeleteCartItem(10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCartItemNotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT cart_id FROM cart_items").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}))
	mock.ExpectRollback()

	err := store.DeleteCartItem(404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartProducts(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id, customer_id, cart_id, product_id, quantity, total_price").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "cart_id", "product_id", "quantity", "total_price"}).
			AddRow(int64(10), int64(1), int64(2), int64(7), 3, "300.00").
			AddRow(int64(11), int64(1), int64(2), int64(8), 1, "50.00"))

	items, err := store.GetCartProducts(2)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ProductID)
	assert.Equal(t, "300.00", items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, "50.00", items[1].TotalPrice.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateActiveCartCreatesWhenMissing(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id, customer_id, total_products, total_price, in_order").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "total_products", "total_price", "in_order"}))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO carts").
		WithArgs(int64(1), false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(0, "0"))
	mock.ExpectExec("UPDATE carts SET total_products").
		WithArgs(int64(6), 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cart, err := store.GetOrCreateActiveCart(1)
	require.NoError(t, err)

	assert.Equal(t, int64(6), cart.ID)
	assert.False(t, cart.InOrder)
	assert.Zero(t, cart.TotalProducts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
