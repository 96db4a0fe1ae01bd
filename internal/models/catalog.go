package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Category — категория каталога. Дерево строится по ParentID;
// товары разрешено привязывать только к листовым категориям
// (без дочерних), проверка выполняется при сохранении товара.
type Category struct {
	ID       int64
	Title    string `validate:"required,max=50"` // уникальность обеспечивает БД
	Slug     string // производное поле, пересчитывается из Title при каждом сохранении
	ParentID sql.NullInt64
}

// IsRoot сообщает, является ли категория корневой.
func (c Category) IsRoot() bool {
	return !c.ParentID.Valid
}

// Product — товар каталога. Image хранит непрозрачную ссылку на картинку
// во внешнем медиа-хранилище, само хранилище вне этого ядра.
type Product struct {
	ID          int64
	Title       string `validate:"required,max=50"`
	Description string `validate:"max=200"`
	Image       string
	CategoryID  int64           `validate:"required"`
	Price       decimal.Decimal // NUMERIC(9,2) в БД
}
