package models

import (
	"github.com/shopspring/decimal"
)

// CartItem — позиция корзины (товар + количество).
// TotalPrice — производное поле: quantity * текущая цена товара,
// пересчитывается при каждом сохранении позиции. Цена берётся из
// товара на момент сохранения, а не фиксируется при добавлении:
// при изменении цены товара позиция переоценивается задним числом.
type CartItem struct {
	ID         int64
	CustomerID int64 `validate:"required"` // владелец — покупатель из бота
	CartID     int64 `validate:"required"`
	ProductID  int64 `validate:"required"`
	Quantity   int   `validate:"required,min=1"`
	TotalPrice decimal.Decimal
}

// Cart — корзина покупателя из бота.
// TotalProducts и TotalPrice — кэши по текущему набору позиций,
// поддерживаются транзакционно при каждом изменении позиций
// (SaveCartItem / DeleteCartItem) и при явном SaveCart.
type Cart struct {
	ID            int64
	CustomerID    int64 `validate:"required"`
	TotalProducts int
	TotalPrice    decimal.Decimal
	InOrder       bool // корзина уже оформлена в заказ
}
