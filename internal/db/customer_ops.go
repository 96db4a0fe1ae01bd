package db

import (
	"database/sql"
	"log"

	"Shop/internal/models"
)

// CreateSiteCustomer создает профиль покупателя с сайта.
// Учётная запись во внешнем identity-провайдере уже должна существовать.
func (s *Store) CreateSiteCustomer(customer models.SiteCustomer) (models.SiteCustomer, error) {
	if err := models.Validate.Struct(customer); err != nil {
		return customer, err
	}

	err := s.DB.QueryRow(`
        INSERT INTO site_customers (account_id, phone, address)
        VALUES ($1, $2, $3)
        RETURNING id`,
		customer.AccountID, customer.Phone, customer.Address).Scan(&customer.ID)
	if err != nil {
		log.Printf("CreateSiteCustomer: ошибка вставки профиля для учётной записи %s: %v", customer.AccountID, err)
		return customer, err
	}

	log.Printf("Создан профиль покупателя с сайта #%d (учётная запись %s).", customer.ID, customer.AccountID)
	return customer, nil
}

// GetSiteCustomerByID извлекает профиль покупателя с сайта по его ID.
func (s *Store) GetSiteCustomerByID(id int64) (models.SiteCustomer, error) {
	var c models.SiteCustomer
	err := s.DB.QueryRow(`
        SELECT id, account_id, phone, address
        FROM site_customers WHERE id=$1`, id).Scan(
		&c.ID, &c.AccountID, &c.Phone, &c.Address)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		log.Printf("GetSiteCustomerByID: ошибка получения профиля #%d: %v", id, err)
		return c, err
	}
	return c, nil
}

// RegisterBotCustomer регистрирует нового покупателя из бота или обновляет
// существующего. Бот присылает профиль при каждом /start, поэтому имя,
// никнейм и флаг администратора обновляются всегда.
// RegisterBotCustomer registers a new bot customer or updates an existing one.
func (s *Store) RegisterBotCustomer(customer models.BotCustomer) (models.BotCustomer, error) {
	if err := models.Validate.Struct(customer); err != nil {
		return customer, err
	}

	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM bot_customers WHERE user_id=$1)", customer.UserID).Scan(&exists)
	if err != nil {
		log.Printf("RegisterBotCustomer: ошибка проверки существования покупателя user_id %d: %v", customer.UserID, err)
		return customer, err
	}

	if !exists {
		_, err = s.DB.Exec(`
            INSERT INTO bot_customers (user_id, name, username, phone, address, is_admin)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			customer.UserID, customer.Name, customer.Username, customer.Phone, customer.Address, customer.IsAdmin)
		if err != nil {
			log.Printf("RegisterBotCustomer: ошибка вставки нового покупателя user_id %d: %v", customer.UserID, err)
			return customer, err
		}
		log.Printf("Зарегистрирован новый покупатель из бота с user_id %d", customer.UserID)
	} else {
		_, err = s.DB.Exec(`
            UPDATE bot_customers
            SET name=$2, username=$3, is_admin=$4
            WHERE user_id=$1`,
			customer.UserID, customer.Name, customer.Username, customer.IsAdmin)
		if err != nil {
			log.Printf("RegisterBotCustomer: ошибка обновления покупателя user_id %d: %v", customer.UserID, err)
			return customer, err
		}
	}

	// После регистрации или если покупатель уже существует, получаем его данные
	return s.GetBotCustomerByUserID(customer.UserID)
}

// GetBotCustomerByUserID извлекает покупателя из бота по внешнему user_id.
// Возвращает sql.ErrNoRows, если покупатель не найден.
func (s *Store) GetBotCustomerByUserID(userID int64) (models.BotCustomer, error) {
	var c models.BotCustomer
	err := s.DB.QueryRow(`
        SELECT id, user_id, name, username, phone, address, is_admin
        FROM bot_customers WHERE user_id=$1`, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Username, &c.Phone, &c.Address, &c.IsAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		log.Printf("GetBotCustomerByUserID: ошибка получения покупателя user_id %d: %v", userID, err)
		return c, err
	}
	return c, nil
}

// UpdateBotCustomerContact сохраняет телефон и адрес покупателя из бота
// (заполняются по ходу оформления заказа).
func (s *Store) UpdateBotCustomerContact(userID int64, phone, address sql.NullString) error {
	res, err := s.DB.Exec(`
        UPDATE bot_customers SET phone=$2, address=$3 WHERE user_id=$1`,
		userID, phone, address)
	if err != nil {
		log.Printf("UpdateBotCustomerContact: ошибка обновления контактов user_id %d: %v", userID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
