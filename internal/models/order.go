package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Shop/internal/constants"
)

// CustomerKind различает источник покупателя в заказе.
type CustomerKind string

const (
	CustomerFromSite CustomerKind = "site"
	CustomerFromBot  CustomerKind = "bot"
)

// CustomerRef — ссылка на покупателя заказа: либо профиль с сайта,
// либо профиль из бота, ровно один из двух. Инвариант «ровно один»
// проверяется при конструировании, а не соглашением по двум
// необязательным внешним ключам.
type CustomerRef struct {
	Kind CustomerKind
	ID   int64
}

// SiteCustomerRef создаёт ссылку на покупателя с сайта.
func SiteCustomerRef(id int64) CustomerRef {
	return CustomerRef{Kind: CustomerFromSite, ID: id}
}

// BotCustomerRef создаёт ссылку на покупателя из бота.
func BotCustomerRef(id int64) CustomerRef {
	return CustomerRef{Kind: CustomerFromBot, ID: id}
}

// Validate проверяет, что ссылка указывает на конкретного покупателя.
func (r CustomerRef) Validate() error {
	switch r.Kind {
	case CustomerFromSite, CustomerFromBot:
	default:
		return fmt.Errorf("неизвестный тип покупателя: %q", r.Kind)
	}
	if r.ID <= 0 {
		return errors.New("покупатель заказа не указан")
	}
	return nil
}

// Order — одно оформление заказа.
// Структурно неизменяем после создания, кроме смены статуса
// (UpdateOrderStatus). CreatedAt выставляется один раз при вставке
// и при последующих сохранениях не трогается.
type Order struct {
	ID         int64
	Customer   CustomerRef
	Name       string `validate:"required,max=255"`
	Phone      string `validate:"required,max=20"`
	CartID     sql.NullInt64
	Address    sql.NullString
	Status     string // см. constants.OrderStatuses
	BuyingType string // см. constants.BuyingTypes
	Comment    sql.NullString
	CreatedAt  time.Time
}

// Validate проверяет заказ перед записью: ссылку на покупателя,
// обязательные поля и значения перечислений.
func (o Order) Validate() error {
	if err := o.Customer.Validate(); err != nil {
		return err
	}
	if err := Validate.Struct(o); err != nil {
		return err
	}
	if !constants.IsValidOrderStatus(o.Status) {
		return fmt.Errorf("неизвестный статус заказа: %q", o.Status)
	}
	if !constants.IsValidBuyingType(o.BuyingType) {
		return fmt.Errorf("неизвестный способ получения заказа: %q", o.BuyingType)
	}
	return nil
}
