package models

import (
	"database/sql"
)

// SiteCustomer represents a customer profile coming from the web site.
// SiteCustomer — профиль покупателя с сайта.
// Сама учётная запись живёт во внешнем identity-провайдере,
// здесь хранится только непрозрачная ссылка на неё.
type SiteCustomer struct {
	ID        int64
	AccountID string `validate:"required"` // идентификатор учётной записи во внешнем провайдере
	Phone     sql.NullString
	Address   sql.NullString
	// Заказы покупателя доступны через orders.customer_site_id,
	// см. ListOrdersByCustomer.
}

// BotCustomer represents a customer profile coming from the chat bot.
// BotCustomer — профиль покупателя из чат-бота.
type BotCustomer struct {
	ID       int64
	UserID   int64  `validate:"required"` // внешний числовой ID пользователя бота, уникален
	Name     string `validate:"required,max=50"`
	Username string `validate:"max=50"`
	Phone    sql.NullString
	Address  sql.NullString
	IsAdmin  bool
}
