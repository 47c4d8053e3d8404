package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCategoryRepository) List() ([]domain.Category, error) {
	query := `
        SELECT c.id, c.nombre, c.slug, COALESCE(c.descripcion, ''), COALESCE(c.imagen, ''),
               c.activo, c.created_at, COUNT(p.id) AS total_productos
        FROM categorias c
        LEFT JOIN productos p ON c.id = p.categoria_id AND p.activo = TRUE
        WHERE c.activo = TRUE
        GROUP BY c.id
        ORDER BY c.nombre ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.Image,
			&category.Active,
			&category.CreatedAt,
			&category.ProductCount,
		); err != nil {
			r.log.Errorf("Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during categories iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	r.log.Infof("Retrieved %d categories", len(categories))
	return categories, nil
}

func (r *postgresCategoryRepository) GetBySlug(slug string) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.QueryRow(`
        SELECT id, nombre, slug, COALESCE(descripcion, ''), COALESCE(imagen, ''), activo, created_at
        FROM categorias
        WHERE slug = $1 AND activo = TRUE`, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.Image,
		&category.Active,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category %q not found", slug)
			return nil, fmt.Errorf("categoría %s: %w", slug, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get category %q: %v", slug, err)
		return nil, fmt.Errorf("could not get category: %w", err)
	}

	rows, err := r.db.Query(`
        SELECT id, nombre, slug, COALESCE(descripcion_corta, ''), precio, COALESCE(precio_anterior, 0),
               COALESCE(imagen_principal, ''), stock, ventas
        FROM productos
        WHERE categoria_id = $1 AND activo = TRUE
        ORDER BY destacado DESC, ventas DESC
        LIMIT 20`, category.ID)
	if err != nil {
		r.log.Errorf("Failed to query products for category %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not get category products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.ShortDescription,
			&product.Price,
			&product.PreviousPrice,
			&product.MainImage,
			&product.Stock,
			&product.Sales,
		); err != nil {
			r.log.Errorf("Failed to scan product row for category %d: %v", category.ID, err)
			return nil, fmt.Errorf("error scanning category product: %w", err)
		}
		product.DiscountPercent = domain.DiscountFor(product.Price, product.PreviousPrice)
		category.Products = append(category.Products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category products: %w", err)
	}
	category.ProductCount = len(category.Products)

	r.log.Infof("Category %q retrieved with %d products", slug, len(category.Products))
	return category, nil
}

func (r *postgresCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	query := `
        INSERT INTO categorias (nombre, slug, descripcion, imagen)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err := r.db.QueryRow(query,
		category.Name,
		category.Slug,
		nullString(category.Description),
		nullString(category.Image),
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create category with duplicate slug %q", category.Slug)
			return nil, domain.NewValidationError("Ya existe una categoría con ese nombre o slug")
		}
		r.log.Errorf("Failed to create category %q: %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}

	category.Active = true
	r.log.Infof("Category created with ID %d, slug %q", category.ID, category.Slug)
	return category, nil
}

func (r *postgresCategoryRepository) Update(id int, updates map[string]interface{}) error {
	allowed := map[string]bool{"nombre": true, "slug": true, "descripcion": true, "imagen": true, "activo": true}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1
	for key, value := range updates {
		if !allowed[key] {
			r.log.Warnf("Skipping unknown field %q in category update %d", key, id)
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
		args = append(args, value)
		argCounter++
	}
	if len(setClauses) == 0 {
		return domain.NewValidationError("No hay campos para actualizar")
	}

	query := "UPDATE categorias SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Category update %d hit duplicate slug", id)
			return domain.NewValidationError("Ya existe una categoría con ese slug")
		}
		r.log.Errorf("Failed to update category %d: %v", id, err)
		return fmt.Errorf("could not update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm category update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Category %d not found for update", id)
		return fmt.Errorf("categoría %d: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Category %d updated", id)
	return nil
}

func (r *postgresCategoryRepository) SoftDelete(id int) error {
	result, err := r.db.Exec(`UPDATE categorias SET activo = FALSE WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to soft delete category %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Category %d not found for delete", id)
		return fmt.Errorf("categoría %d: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Category %d deactivated", id)
	return nil
}
