package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"Shop/internal/models"
)

// ErrCategoryNotLeaf возвращается при попытке привязать товар к категории,
// у которой есть подкатегории.
var ErrCategoryNotLeaf = errors.New("товар можно привязать только к листовой категории")

// SaveProduct вставляет или обновляет товар. Категория товара обязана быть
// листовой: проверка числа потомков выполняется в той же транзакции,
// что и запись.
func (s *Store) SaveProduct(product models.Product) (models.Product, error) {
	if err := models.Validate.Struct(product); err != nil {
		return product, err
	}
	if product.Price.IsNegative() {
		return product, fmt.Errorf("цена товара не может быть отрицательной: %s", product.Price.StringFixed(2))
	}

	tx, err := s.DB.Begin()
	if err != nil {
		log.Printf("SaveProduct: ошибка начала транзакции: %v", err)
		return product, err
	}
	defer tx.Rollback()

	var childCount int
	err = tx.QueryRow("SELECT COUNT(*) FROM categories WHERE parent_id=$1", product.CategoryID).Scan(&childCount)
	if err != nil {
		log.Printf("SaveProduct: ошибка проверки категории #%d: %v", product.CategoryID, err)
		return product, err
	}
	if childCount > 0 {
		return product, fmt.Errorf("%w: у категории #%d есть %d подкатегорий", ErrCategoryNotLeaf, product.CategoryID, childCount)
	}

	if product.ID == 0 {
		err = tx.QueryRow(`
            INSERT INTO products (title, description, image, category_id, price)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id`,
			product.Title, product.Description, product.Image, product.CategoryID, product.Price).Scan(&product.ID)
	} else {
		_, err = tx.Exec(`
            UPDATE products SET title=$2, description=$3, image=$4, category_id=$5, price=$6 WHERE id=$1`,
			product.ID, product.Title, product.Description, product.Image, product.CategoryID, product.Price)
	}
	if err != nil {
		log.Printf("SaveProduct: ошибка сохранения товара '%s': %v", product.Title, err)
		return product, err
	}

	if err = tx.Commit(); err != nil {
		log.Printf("SaveProduct: ошибка фиксации транзакции: %v", err)
		return product, err
	}
	return product, nil
}

// GetProductByID извлекает товар по его ID.
func (s *Store) GetProductByID(id int64) (models.Product, error) {
	var p models.Product
	err := s.DB.QueryRow(`
        SELECT id, title, description, image, category_id, price
        FROM products WHERE id=$1`, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &p.CategoryID, &p.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, err
		}
		log.Printf("GetProductByID: ошибка получения товара #%d: %v", id, err)
		return p, err
	}
	return p, nil
}

// GetProductsByCategory возвращает товары листовой категории.
func (s *Store) GetProductsByCategory(categoryID int64) ([]models.Product, error) {
	rows, err := s.DB.Query(`
        SELECT id, title, description, image, category_id, price
        FROM products WHERE category_id=$1 ORDER BY title`, categoryID)
	if err != nil {
		log.Printf("GetProductsByCategory: ошибка получения товаров категории #%d: %v", categoryID, err)
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.CategoryID, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// DeleteProduct удаляет товар. Позиции корзин с этим товаром
// удаляются каскадом на уровне БД; итоги затронутых корзин при этом
// нужно пересчитать явным SaveCart.
func (s *Store) DeleteProduct(id int64) error {
	res, err := s.DB.Exec("DELETE FROM products WHERE id=$1", id)
	if err != nil {
		log.Printf("DeleteProduct: ошибка удаления товара #%d: %v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
