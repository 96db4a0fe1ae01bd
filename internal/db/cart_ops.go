package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"Shop/internal/models"
)

// ErrProductNotSet возвращается при сохранении позиции корзины без товара.
// Без товара производную сумму посчитать нельзя, молчаливый ноль недопустим.
var ErrProductNotSet = errors.New("в позиции корзины не указан товар")

// beginSerializable начинает транзакцию с уровнем изоляции SERIALIZABLE.
// Пересчёт итогов корзины из позиций должен быть атомарным относительно
// конкурирующих изменений тех же позиций, иначе возможна потеря обновления.
func (s *Store) beginSerializable() (*sql.Tx, error) {
	return s.DB.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// recalcCartTotals пересчитывает кэшируемые итоги корзины по текущему
// набору её позиций. Вызывается только внутри транзакции, которая
// изменяет позиции или саму корзину.
func recalcCartTotals(tx *sql.Tx, cartID int64) (int, decimal.Decimal, error) {
	var totalProducts int
	var totalPrice decimal.Decimal
	err := tx.QueryRow(`
        SELECT COUNT(*), COALESCE(SUM(total_price), 0)
        FROM cart_items WHERE cart_id=$1`, cartID).Scan(&totalProducts, &totalPrice)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("ошибка пересчёта итогов корзины #%d: %v", cartID, err)
	}

	_, err = tx.Exec(`
        UPDATE carts SET total_products=$2, total_price=$3 WHERE id=$1`,
		cartID, totalProducts, totalPrice)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("ошибка записи итогов корзины #%d: %v", cartID, err)
	}
	return totalProducts, totalPrice, nil
}

// SaveCartItem вставляет или обновляет позицию корзины.
// Сумма позиции — это количество, умноженное на ТЕКУЩУЮ цену товара:
// цена перечитывается из БД при каждом сохранении, а не замораживается
// при добавлении. В той же транзакции пересчитываются итоги владеющей
// корзины. После фиксации подписчики получают событие с флагом created.
func (s *Store) SaveCartItem(item models.CartItem) (models.CartItem, error) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.ProductID == 0 {
		return item, ErrProductNotSet
	}
	if err := models.Validate.Struct(item); err != nil {
		return item, err
	}

	tx, err := s.beginSerializable()
	if err != nil {
		log.Printf("SaveCartItem: ошибка начала транзакции: %v", err)
		return item, err
	}
	defer tx.Rollback()

	var price decimal.Decimal
	err = tx.QueryRow("SELECT price FROM products WHERE id=$1", item.ProductID).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			return item, fmt.Errorf("товар #%d не найден", item.ProductID)
		}
		log.Printf("SaveCartItem: ошибка чтения цены товара #%d: %v", item.ProductID, err)
		return item, err
	}
	item.TotalPrice = price.Mul(decimal.NewFromInt(int64(item.Quantity)))

	created := item.ID == 0
	if created {
		err = tx.QueryRow(`
            INSERT INTO cart_items (customer_id, cart_id, product_id, quantity, total_price)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id`,
			item.CustomerID, item.CartID, item.ProductID, item.Quantity, item.TotalPrice).Scan(&item.ID)
	} else {
		_, err = tx.Exec(`
            UPDATE cart_items SET customer_id=$2, cart_id=$3, product_id=$4, quantity=$5, total_price=$6 WHERE id=$1`,
			item.ID, item.CustomerID, item.CartID, item.ProductID, item.Quantity, item.TotalPrice)
	}
	if err != nil {
		log.Printf("SaveCartItem: ошибка сохранения позиции корзины #%d: %v", item.CartID, err)
		return item, err
	}

	if _, _, err = recalcCartTotals(tx, item.CartID); err != nil {
		log.Printf("SaveCartItem: %v", err)
		return item, err
	}

	if err = tx.Commit(); err != nil {
		log.Printf("SaveCartItem: ошибка фиксации транзакции: %v", err)
		return item, err
	}

	s.notifyCartItemSaved(item, created)
	return item, nil
}

// DeleteCartItem удаляет позицию и пересчитывает итоги владеющей корзины
// в одной транзакции.
func (s *Store) DeleteCartItem(id int64) error {
	tx, err := s.beginSerializable()
	if err != nil {
		log.Printf("DeleteCartItem: ошибка начала транзакции: %v", err)
		return err
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRow("SELECT cart_id FROM cart_items WHERE id=$1", id).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		log.Printf("DeleteCartItem: ошибка чтения позиции #%d: %v", id, err)
		return err
	}

	if _, err = tx.Exec("DELETE FROM cart_items WHERE id=$1", id); err != nil {
		log.Printf("DeleteCartItem: ошибка удаления позиции #%d: %v", id, err)
		return err
	}

	if _, _, err = recalcCartTotals(tx, cartID); err != nil {
		log.Printf("DeleteCartItem: %v", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Printf("DeleteCartItem: ошибка фиксации транзакции: %v", err)
		return err
	}
	return nil
}

// SaveCart вставляет или обновляет корзину. Итоги (число позиций и общая
// сумма) всегда выводятся из текущего набора позиций внутри транзакции
// сохранения; значения из переданной структуры игнорируются.
func (s *Store) SaveCart(cart models.Cart) (models.Cart, error) {
	if err := models.Validate.Struct(cart); err != nil {
		return cart, err
	}

	tx, err := s.beginSerializable()
	if err != nil {
		log.Printf("SaveCart: ошибка начала транзакции: %v", err)
		return cart, err
	}
	defer tx.Rollback()

	if cart.ID == 0 {
		err = tx.QueryRow(`
            INSERT INTO carts (customer_id, in_order)
            VALUES ($1, $2)
            RETURNING id`,
			cart.CustomerID, cart.InOrder).Scan(&cart.ID)
	} else {
		_, err = tx.Exec(`
            UPDATE carts SET customer_id=$2, in_order=$3 WHERE id=$1`,
			cart.ID, cart.CustomerID, cart.InOrder)
	}
	if err != nil {
		log.Printf("SaveCart: ошибка сохранения корзины покупателя #%d: %v", cart.CustomerID, err)
		return cart, err
	}

	cart.TotalProducts, cart.TotalPrice, err = recalcCartTotals(tx, cart.ID)
	if err != nil {
		log.Printf("SaveCart: %v", err)
		return cart, err
	}

	if err = tx.Commit(); err != nil {
		log.Printf("SaveCart: ошибка фиксации транзакции: %v", err)
		return cart, err
	}
	return cart, nil
}

// GetCartByID извлекает корзину по её ID.
func (s *Store) GetCartByID(id int64) (models.Cart, error) {
	var c models.Cart
	err := s.DB.QueryRow(`
        SELECT id, customer_id, total_products, total_price, in_order
        FROM carts WHERE id=$1`, id).Scan(
		&c.ID, &c.CustomerID, &c.TotalProducts, &c.TotalPrice, &c.InOrder)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		log.Printf("GetCartByID: ошибка получения корзины #%d: %v", id, err)
		return c, err
	}
	return c, nil
}

// GetOrCreateActiveCart возвращает неоформленную корзину покупателя,
// создавая её при необходимости. У покупателя в каждый момент не больше
// одной активной корзины: оформленные (in_order=TRUE) не переиспользуются.
func (s *Store) GetOrCreateActiveCart(customerID int64) (models.Cart, error) {
	var c models.Cart
	err := s.DB.QueryRow(`
        SELECT id, customer_id, total_products, total_price, in_order
        FROM carts WHERE customer_id=$1 AND in_order=FALSE
        ORDER BY id LIMIT 1`, customerID).Scan(
		&c.ID, &c.CustomerID, &c.TotalProducts, &c.TotalPrice, &c.InOrder)
	if err == nil {
		return c, nil
	}
	if err != sql.ErrNoRows {
		log.Printf("GetOrCreateActiveCart: ошибка поиска корзины покупателя #%d: %v", customerID, err)
		return c, err
	}

	return s.SaveCart(models.Cart{CustomerID: customerID})
}

// GetCartProducts возвращает текущие позиции корзины.
func (s *Store) GetCartProducts(cartID int64) ([]models.CartItem, error) {
	rows, err := s.DB.Query(`
        SELECT id, customer_id, cart_id, product_id, quantity, total_price
        FROM cart_items WHERE cart_id=$1 ORDER BY id`, cartID)
	if err != nil {
		log.Printf("GetCartProducts: ошибка получения позиций корзины #%d: %v", cartID, err)
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var i models.CartItem
		if err := rows.Scan(&i.ID, &i.CustomerID, &i.CartID, &i.ProductID, &i.Quantity, &i.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// MarkCartInOrder помечает корзину оформленной в заказ.
func (s *Store) MarkCartInOrder(cartID int64) error {
	res, err := s.DB.Exec("UPDATE carts SET in_order=TRUE WHERE id=$1", cartID)
	if err != nil {
		log.Printf("MarkCartInOrder: ошибка пометки корзины #%d: %v", cartID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
