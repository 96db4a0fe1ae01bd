package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Shop/internal/models"
)

func TestRegisterBotCustomerNew(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(100500)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO bot_customers").
		WithArgs(int64(100500), "Иван", "ivan", nil, nil, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id, user_id, name, username, phone, address, is_admin").
		WithArgs(int64(100500)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "name", "username", "phone", "address", "is_admin"}).
			AddRow(int64(1), int64(100500), "Иван", "ivan", nil, nil, false))

	customer, err := store.RegisterBotCustomer(models.BotCustomer{
		UserID:   100500,
		Name:     "Иван",
		Username: "ivan",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), customer.ID)
	assert.Equal(t, int64(100500), customer.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterBotCustomerExistingUpdatesProfile(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(100500)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE bot_customers").
		WithArgs(int64(100500), "Иван Петров", "ivan", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, user_id, name, username, phone, address, is_admin").
		WithArgs(int64(100500)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "name", "username", "phone", "address", "is_admin"}).
			AddRow(int64(1), int64(100500), "Иван Петров", "ivan", "+79991234567", nil, true))

	customer, err := store.RegisterBotCustomer(models.BotCustomer{
		UserID:   100500,
		Name:     "Иван Петров",
		Username: "ivan",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	assert.True(t, customer.IsAdmin)
	assert.Equal(t, "+79991234567", customer.Phone.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSiteCustomer(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("INSERT INTO site_customers").
		WithArgs("acc-7f3e", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	customer, err := store.CreateSiteCustomer(models.SiteCustomer{AccountID: "acc-7f3e"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), customer.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
