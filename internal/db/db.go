// Файл: internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"Shop/internal/config"
	"Shop/internal/events"
	"Shop/internal/models"
)

// Store — слой хранения магазина. Держит пул соединений с БД и список
// подписчиков на событие сохранения позиции корзины. Подписчики
// передаются при конструировании (или через Subscribe до начала
// работы), глобального состояния на уровне процесса нет.
type Store struct {
	DB          *sql.DB
	subscribers []events.Subscriber
}

// NewStore оборачивает готовое соединение с БД. Используется в тестах
// и там, где пул открывает вызывающая сторона.
func NewStore(db *sql.DB, subscribers ...events.Subscriber) *Store {
	return &Store{DB: db, subscribers: subscribers}
}

// InitStore открывает соединение с базой данных, выполняет миграции
// и возвращает готовое хранилище.
func InitStore(cfg *config.Config, subscribers ...events.Subscriber) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %v", err)
	}

	log.Println("Успешное подключение к базе данных.")

	s := NewStore(db, subscribers...)
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Subscribe добавляет подписчика. Вызывается при старте процесса,
// до начала работы с корзинами; потокобезопасность не требуется.
func (s *Store) Subscribe(sub events.Subscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// Close закрывает пул соединений.
func (s *Store) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("Ошибка закрытия соединения с базой данных: %v", err)
		}
	}
}

// notifyCartItemSaved синхронно рассылает событие сохранения позиции
// корзины всем подписчикам. Вызывается строго после фиксации транзакции.
func (s *Store) notifyCartItemSaved(item models.CartItem, created bool) {
	if len(s.subscribers) == 0 {
		return
	}
	e := events.NewCartItemEvent(item, created)
	for _, sub := range s.subscribers {
		sub(e)
	}
}

// migrate создаёт таблицы, если их ещё нет.
func (s *Store) migrate() (err error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %v", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Printf("Откат транзакции из-за ошибки: %v", err)
			tx.Rollback()
		}
	}()

	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS site_customers (
            id SERIAL PRIMARY KEY,
            account_id VARCHAR(255) UNIQUE NOT NULL,
            phone VARCHAR(20),
            address VARCHAR(255)
        );
        CREATE TABLE IF NOT EXISTS bot_customers (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL,
            name VARCHAR(50) NOT NULL,
            username VARCHAR(50) NOT NULL DEFAULT '',
            phone VARCHAR(20),
            address VARCHAR(255),
            is_admin BOOLEAN NOT NULL DEFAULT FALSE
        );
        CREATE TABLE IF NOT EXISTS categories (
            id SERIAL PRIMARY KEY,
            title VARCHAR(50) UNIQUE NOT NULL,
            slug VARCHAR(64) NOT NULL,
            parent_id INTEGER REFERENCES categories(id) ON DELETE CASCADE
        );
        CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            title VARCHAR(50) NOT NULL,
            description VARCHAR(200) NOT NULL DEFAULT '',
            image TEXT NOT NULL DEFAULT '',
            category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
            price NUMERIC(9,2) NOT NULL
        );
        CREATE TABLE IF NOT EXISTS carts (
            id SERIAL PRIMARY KEY,
            customer_id INTEGER NOT NULL REFERENCES bot_customers(id) ON DELETE CASCADE,
            total_products INTEGER NOT NULL DEFAULT 0,
            total_price NUMERIC(9,2) NOT NULL DEFAULT 0,
            in_order BOOLEAN NOT NULL DEFAULT FALSE
        );
        CREATE TABLE IF NOT EXISTS cart_items (
            id SERIAL PRIMARY KEY,
            customer_id INTEGER NOT NULL REFERENCES bot_customers(id) ON DELETE CASCADE,
            cart_id INTEGER NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
            product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
            total_price NUMERIC(9,2) NOT NULL DEFAULT 0
        );
        CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            customer_site_id INTEGER REFERENCES site_customers(id) ON DELETE CASCADE,
            customer_bot_id INTEGER REFERENCES bot_customers(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            phone VARCHAR(20) NOT NULL,
            cart_id INTEGER REFERENCES carts(id) ON DELETE SET NULL,
            address VARCHAR(1024),
            status VARCHAR(100) NOT NULL DEFAULT 'new',
            buying_type VARCHAR(100) NOT NULL DEFAULT 'self_pickup',
            comment TEXT,
            created_at TIMESTAMP NOT NULL,
            CHECK ((customer_site_id IS NULL) <> (customer_bot_id IS NULL))
        );
        CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);
        CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
        CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
        CREATE INDEX IF NOT EXISTS idx_orders_customer_bot_id ON orders(customer_bot_id);
        CREATE INDEX IF NOT EXISTS idx_orders_customer_site_id ON orders(customer_site_id);
    `

	if _, err = tx.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("ошибка создания таблиц: %v", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции миграции: %v", err)
	}

	log.Println("Миграции выполнены.")
	return nil
}
