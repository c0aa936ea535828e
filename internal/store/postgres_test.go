package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easyorder-core/internal/domain"
)

var orderColumns = []string{
	"id", "restaurant_id", "total_amount", "status", "order_type",
	"payment_type", "delivery_address", "currency", "created_at",
}

func newStore(t *testing.T) (*PostgresOrderStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresOrderStore(db), mock
}

func TestGetOrder(t *testing.T) {
	s, mock := newStore(t)
	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ord-1", "rest-1", 25.50, "CONFIRMED", "DELIVERY", "CARD", "12 Main St", "eur", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = $1")).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "name", "option_ids", "option_names", "quantity", "price"}).
			AddRow("item-burger", "Burger", "{opt-cheese,opt-large}", `{Cheese,"Large size"}`, 2, 11.50).
			AddRow("item-soda", "Soda", "{}", "{}", 1, 2.50))

	order, err := s.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.Equal(t, domain.OrderDelivery, order.Type)
	require.Len(t, order.Items, 2)
	assert.Equal(t, []string{"opt-cheese", "opt-large"}, order.Items[0].OptionIDs)
	assert.Equal(t, []string{"Cheese", "Large size"}, order.Items[0].OptionNames)
	assert.Empty(t, order.Items[1].OptionIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := s.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	s, mock := newStore(t)
	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = $1")).
		WithArgs("PREPARING", "ord-1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ord-1", "rest-1", 25.50, "PREPARING", "DELIVERY", "CARD", "12 Main St", "eur", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = $1")).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "name", "option_ids", "option_names", "quantity", "price"}))

	order, err := s.UpdateOrderStatus(context.Background(), "ord-1", domain.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, order.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = $1")).
		WithArgs("PREPARING", "missing").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := s.UpdateOrderStatus(context.Background(), "missing", domain.StatusPreparing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrdersOldestFirst(t *testing.T) {
	s, mock := newStore(t)
	early := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC")).
		WithArgs("rest-1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ord-1", "rest-1", 10.0, "CONFIRMED", "COLLECTION", "CASH", "", "eur", early).
			AddRow("ord-2", "rest-1", 20.0, "PENDING", "DELIVERY", "CARD", "2 High St", "eur", late))
	for _, id := range []string{"ord-1", "ord-2"} {
		mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "name", "option_ids", "option_names", "quantity", "price"}))
	}

	orders, err := s.ListOrders(context.Background(), "rest-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-1", orders[0].ID)
	assert.Equal(t, "ord-2", orders[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderAutoAcceptPicksConfirmed(t *testing.T) {
	s, mock := newStore(t)
	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT auto_accept FROM restaurants WHERE id = $1")).
		WithArgs("rest-1").
		WillReturnRows(sqlmock.NewRows([]string{"auto_accept"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("rest-1", "CONFIRMED", "DELIVERY", "CARD", "12 Main St", "eur", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("ord-1", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, base_price FROM menu_items")).
		WithArgs("item-burger", "rest-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "base_price"}).AddRow("Burger", 8.50))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, price FROM menu_options")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "price"}).AddRow("Large size", 2.00))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET total_amount = $1")).
		WithArgs(21.0, "ord-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := s.CreateOrder(context.Background(), domain.OrderRequest{
		RestaurantID: "rest-1",
		Items: []domain.OrderRequestItem{
			{MenuItemID: "item-burger", Quantity: 2, OptionIDs: []string{"opt-large"}},
		},
		Type:         domain.OrderDelivery,
		Payment:      domain.PaymentCard,
		DeliveryAddr: "12 Main St",
		Currency:     "eur",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.Equal(t, 21.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 10.50, order.Items[0].Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderUnknownRestaurant(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT auto_accept FROM restaurants WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"auto_accept"}))
	mock.ExpectRollback()

	_, err := s.CreateOrder(context.Background(), domain.OrderRequest{
		RestaurantID: "ghost",
		Items:        []domain.OrderRequestItem{{MenuItemID: "item-1", Quantity: 1}},
		Type:         domain.OrderCollection,
		Payment:      domain.PaymentCash,
		Currency:     "eur",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderUnknownOptionRollsBack(t *testing.T) {
	s, mock := newStore(t)
	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT auto_accept FROM restaurants WHERE id = $1")).
		WithArgs("rest-1").
		WillReturnRows(sqlmock.NewRows([]string{"auto_accept"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("ord-1", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, base_price FROM menu_items")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "base_price"}).AddRow("Burger", 8.50))
	// Only one of the two requested options resolves.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, price FROM menu_options")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "price"}).AddRow("Cheese", 1.00))
	mock.ExpectRollback()

	_, err := s.CreateOrder(context.Background(), domain.OrderRequest{
		RestaurantID: "rest-1",
		Items: []domain.OrderRequestItem{
			{MenuItemID: "item-burger", Quantity: 1, OptionIDs: []string{"opt-cheese", "opt-ghost"}},
		},
		Type:     domain.OrderCollection,
		Payment:  domain.PaymentCash,
		Currency: "eur",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantTarget(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT delivery_time FROM restaurants WHERE id = $1")).
		WithArgs("rest-1").
		WillReturnRows(sqlmock.NewRows([]string{"delivery_time"}).AddRow(45))

	minutes, err := s.RestaurantTarget(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.Equal(t, 45, minutes)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT delivery_time FROM restaurants WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"delivery_time"}))

	_, err = s.RestaurantTarget(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
