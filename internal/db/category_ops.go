package db

import (
	"database/sql"
	"log"

	"github.com/gosimple/slug"

	"Shop/internal/models"
)

// SaveCategory вставляет или обновляет категорию. Slug — производное поле:
// перед каждой записью он пересчитывается из названия, значение из
// переданной структуры игнорируется. Уникальность названия обеспечивает
// ограничение БД, его нарушение возвращается ошибкой как есть.
func (s *Store) SaveCategory(category models.Category) (models.Category, error) {
	if err := models.Validate.Struct(category); err != nil {
		return category, err
	}

	category.Slug = slug.Make(category.Title)

	var err error
	if category.ID == 0 {
		err = s.DB.QueryRow(`
            INSERT INTO categories (title, slug, parent_id)
            VALUES ($1, $2, $3)
            RETURNING id`,
			category.Title, category.Slug, category.ParentID).Scan(&category.ID)
	} else {
		_, err = s.DB.Exec(`
            UPDATE categories SET title=$2, slug=$3, parent_id=$4 WHERE id=$1`,
			category.ID, category.Title, category.Slug, category.ParentID)
	}
	if err != nil {
		log.Printf("SaveCategory: ошибка сохранения категории '%s': %v", category.Title, err)
		return category, err
	}

	return category, nil
}

// GetCategoryByID извлекает категорию по её ID.
func (s *Store) GetCategoryByID(id int64) (models.Category, error) {
	var c models.Category
	err := s.DB.QueryRow(`
        SELECT id, title, slug, parent_id
        FROM categories WHERE id=$1`, id).Scan(
		&c.ID, &c.Title, &c.Slug, &c.ParentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		log.Printf("GetCategoryByID: ошибка получения категории #%d: %v", id, err)
		return c, err
	}
	return c, nil
}

// GetCategoryBySlug извлекает категорию по slug.
func (s *Store) GetCategoryBySlug(categorySlug string) (models.Category, error) {
	var c models.Category
	err := s.DB.QueryRow(`
        SELECT id, title, slug, parent_id
        FROM categories WHERE slug=$1`, categorySlug).Scan(
		&c.ID, &c.Title, &c.Slug, &c.ParentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		log.Printf("GetCategoryBySlug: ошибка получения категории '%s': %v", categorySlug, err)
		return c, err
	}
	return c, nil
}

// GetChildCategories возвращает прямых потомков категории.
func (s *Store) GetChildCategories(parentID int64) ([]models.Category, error) {
	rows, err := s.DB.Query(`
        SELECT id, title, slug, parent_id
        FROM categories WHERE parent_id=$1 ORDER BY title`, parentID)
	if err != nil {
		log.Printf("GetChildCategories: ошибка получения потомков категории #%d: %v", parentID, err)
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.ParentID); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetRootCategories возвращает категории верхнего уровня.
func (s *Store) GetRootCategories() ([]models.Category, error) {
	rows, err := s.DB.Query(`
        SELECT id, title, slug, parent_id
        FROM categories WHERE parent_id IS NULL ORDER BY title`)
	if err != nil {
		log.Printf("GetRootCategories: ошибка получения корневых категорий: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.ParentID); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountChildCategories возвращает число прямых потомков категории.
// Листовая категория (ноль потомков) — единственная, к которой можно
// привязывать товары.
func (s *Store) CountChildCategories(categoryID int64) (int, error) {
	var n int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM categories WHERE parent_id=$1", categoryID).Scan(&n)
	if err != nil {
		log.Printf("CountChildCategories: ошибка подсчёта потомков категории #%d: %v", categoryID, err)
		return 0, err
	}
	return n, nil
}

// DeleteCategory удаляет категорию. Потомки и товары категории
// удаляются каскадом на уровне БД.
func (s *Store) DeleteCategory(id int64) error {
	res, err := s.DB.Exec("DELETE FROM categories WHERE id=$1", id)
	if err != nil {
		log.Printf("DeleteCategory: ошибка удаления категории #%d: %v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
