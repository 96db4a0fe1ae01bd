package db

import (
	"database/sql"
	"fmt"
	"log"

	"Shop/internal/constants"
	"Shop/internal/models"
	"Shop/internal/utils"
)

// customerRefColumns раскладывает ссылку на покупателя по двум nullable
// внешним ключам таблицы orders. Ограничение CHECK в схеме дублирует
// инвариант «ровно один» на уровне БД.
func customerRefColumns(ref models.CustomerRef) (siteID, botID sql.NullInt64) {
	switch ref.Kind {
	case models.CustomerFromSite:
		siteID = sql.NullInt64{Int64: ref.ID, Valid: true}
	case models.CustomerFromBot:
		botID = sql.NullInt64{Int64: ref.ID, Valid: true}
	}
	return siteID, botID
}

// scanCustomerRef собирает ссылку на покупателя из колонок заказа.
func scanCustomerRef(siteID, botID sql.NullInt64) (models.CustomerRef, error) {
	switch {
	case siteID.Valid && !botID.Valid:
		return models.SiteCustomerRef(siteID.Int64), nil
	case botID.Valid && !siteID.Valid:
		return models.BotCustomerRef(botID.Int64), nil
	}
	return models.CustomerRef{}, fmt.Errorf("в заказе должен быть заполнен ровно один покупатель (site=%v, bot=%v)", siteID.Valid, botID.Valid)
}

// CreateOrder создает заказ. Ссылка на покупателя проверяется до записи,
// телефон нормализуется, статус и способ получения берутся по умолчанию,
// если не заданы. created_at выставляется один раз при вставке и больше
// не меняется. Если заказ оформлен из корзины, корзина в той же
// транзакции помечается in_order=TRUE.
func (s *Store) CreateOrder(order models.Order) (models.Order, error) {
	if order.Status == "" {
		order.Status = constants.STATUS_NEW
	}
	if order.BuyingType == "" {
		order.BuyingType = constants.BUYING_TYPE_SELF
	}

	phone, err := utils.ValidatePhoneNumber(order.Phone)
	if err != nil {
		return order, fmt.Errorf("некорректный телефон в заказе: %v", err)
	}
	order.Phone = phone

	if err := order.Validate(); err != nil {
		return order, err
	}

	siteID, botID := customerRefColumns(order.Customer)

	tx, err := s.DB.Begin()
	if err != nil {
		log.Printf("CreateOrder: ошибка начала транзакции: %v", err)
		return order, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
        INSERT INTO orders (customer_site_id, customer_bot_id, name, phone, cart_id,
                            address, status, buying_type, comment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        RETURNING id, created_at`,
		siteID, botID, order.Name, order.Phone, order.CartID,
		order.Address, order.Status, order.BuyingType, order.Comment).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		log.Printf("CreateOrder: ошибка вставки заказа: %v", err)
		return order, err
	}

	if order.CartID.Valid {
		if _, err = tx.Exec("UPDATE carts SET in_order=TRUE WHERE id=$1", order.CartID.Int64); err != nil {
			log.Printf("CreateOrder: ошибка пометки корзины #%d: %v", order.CartID.Int64, err)
			return order, err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Printf("CreateOrder: ошибка фиксации транзакции: %v", err)
		return order, err
	}

	log.Printf("Заказ #%d успешно создан (покупатель %s #%d).", order.ID, order.Customer.Kind, order.Customer.ID)
	return order, nil
}

// GetOrderByID извлекает заказ по его ID.
func (s *Store) GetOrderByID(id int64) (models.Order, error) {
	var o models.Order
	var siteID, botID sql.NullInt64

	err := s.DB.QueryRow(`
        SELECT id, customer_site_id, customer_bot_id, name, phone, cart_id,
               address, status, buying_type, comment, created_at
        FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &siteID, &botID, &o.Name, &o.Phone, &o.CartID,
		&o.Address, &o.Status, &o.BuyingType, &o.Comment, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return o, err
		}
		log.Printf("GetOrderByID: ошибка получения заказа #%d: %v", id, err)
		return o, err
	}

	o.Customer, err = scanCustomerRef(siteID, botID)
	if err != nil {
		log.Printf("GetOrderByID: заказ #%d: %v", id, err)
		return o, err
	}
	return o, nil
}

// UpdateOrderStatus переводит заказ в новый статус. Порядок переходов
// на уровне модели не ограничивается, проверяется только само значение.
// created_at при обновлении не трогается.
func (s *Store) UpdateOrderStatus(id int64, status string) error {
	if !constants.IsValidOrderStatus(status) {
		return fmt.Errorf("неизвестный статус заказа: %q", status)
	}

	res, err := s.DB.Exec("UPDATE orders SET status=$2 WHERE id=$1", id, status)
	if err != nil {
		log.Printf("UpdateOrderStatus: ошибка обновления статуса заказа #%d: %v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	log.Printf("Заказ #%d переведен в статус '%s' (%s).", id, status, constants.StatusDisplayMap[status])
	return nil
}

// ListOrdersByCustomer возвращает заказы покупателя, новые первыми.
func (s *Store) ListOrdersByCustomer(ref models.CustomerRef) ([]models.Order, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	column := "customer_bot_id"
	if ref.Kind == models.CustomerFromSite {
		column = "customer_site_id"
	}

	rows, err := s.DB.Query(`
        SELECT id, customer_site_id, customer_bot_id, name, phone, cart_id,
               address, status, buying_type, comment, created_at
        FROM orders WHERE `+column+`=$1 ORDER BY created_at DESC, id DESC`, ref.ID)
	if err != nil {
		log.Printf("ListOrdersByCustomer: ошибка получения заказов покупателя %s #%d: %v", ref.Kind, ref.ID, err)
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var siteID, botID sql.NullInt64
		if err := rows.Scan(&o.ID, &siteID, &botID, &o.Name, &o.Phone, &o.CartID,
			&o.Address, &o.Status, &o.BuyingType, &o.Comment, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.Customer, err = scanCustomerRef(siteID, botID); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
