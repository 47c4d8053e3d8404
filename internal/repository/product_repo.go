package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

const productColumns = `
        p.id, p.nombre, p.slug, COALESCE(p.descripcion, ''), COALESCE(p.descripcion_corta, ''),
        p.precio, COALESCE(p.precio_anterior, 0), p.stock, COALESCE(p.categoria_id, 0),
        COALESCE(p.imagen_principal, ''), p.activo, p.destacado, p.ventas, p.vistas, p.created_at,
        COALESCE(c.nombre, ''), COALESCE(c.slug, '')`

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := scanner.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.ShortDescription,
		&product.Price,
		&product.PreviousPrice,
		&product.Stock,
		&product.CategoryID,
		&product.MainImage,
		&product.Active,
		&product.Featured,
		&product.Sales,
		&product.Views,
		&product.CreatedAt,
		&product.CategoryName,
		&product.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	product.DiscountPercent = domain.DiscountFor(product.Price, product.PreviousPrice)
	return product, nil
}

func (r *postgresProductRepository) List(filter domain.ProductFilter) ([]domain.Product, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := `SELECT ` + productColumns + `
        FROM productos p
        LEFT JOIN categorias c ON p.categoria_id = c.id
        WHERE p.activo = TRUE`
	countQuery := `SELECT COUNT(*)
        FROM productos p
        LEFT JOIN categorias c ON p.categoria_id = c.id
        WHERE p.activo = TRUE`

	args := []interface{}{}
	countArgs := []interface{}{}
	argCounter := 1

	if filter.Category != "" {
		clause := fmt.Sprintf(" AND (c.id::text = $%d OR c.slug = $%d)", argCounter, argCounter)
		query += clause
		countQuery += clause
		args = append(args, filter.Category)
		countArgs = append(countArgs, filter.Category)
		argCounter++
	}
	if filter.FeaturedOnly {
		query += " AND p.destacado = TRUE"
		countQuery += " AND p.destacado = TRUE"
	}

	switch filter.Sort {
	case "precio_asc":
		query += " ORDER BY p.precio ASC"
	case "precio_desc":
		query += " ORDER BY p.precio DESC"
	case "nombre":
		query += " ORDER BY p.nombre ASC"
	case "ventas":
		query += " ORDER BY p.ventas DESC"
	default:
		query += " ORDER BY p.created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, 0, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, 0, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products iteration: %v", err)
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	var total int
	if err := r.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		r.log.Errorf("Failed to count products: %v", err)
		return nil, 0, fmt.Errorf("could not count products: %w", err)
	}

	r.log.Infof("Retrieved %d products (limit %d, offset %d)", len(products), filter.Limit, filter.Offset)
	return products, total, nil
}

func (r *postgresProductRepository) GetByIDOrSlug(key string) (*domain.Product, error) {
	base := `SELECT ` + productColumns + `
        FROM productos p
        LEFT JOIN categorias c ON p.categoria_id = c.id
        WHERE p.activo = TRUE AND `

	var row *sql.Row
	if id, convErr := strconv.Atoi(key); convErr == nil {
		row = r.db.QueryRow(base+`p.id = $1`, id)
	} else {
		row = r.db.QueryRow(base+`p.slug = $1`, key)
	}

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product %q not found", key)
			return nil, fmt.Errorf("producto %s: %w", key, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get product %q: %v", key, err)
		return nil, fmt.Errorf("could not get product: %w", err)
	}

	imageRows, err := r.db.Query(`SELECT imagen FROM producto_imagenes WHERE producto_id = $1 ORDER BY orden`, product.ID)
	if err != nil {
		r.log.Errorf("Failed to query images for product %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not get product images: %w", err)
	}
	defer imageRows.Close()
	for imageRows.Next() {
		var image string
		if err := imageRows.Scan(&image); err != nil {
			r.log.Errorf("Failed to scan image row for product %d: %v", product.ID, err)
			return nil, fmt.Errorf("error scanning product image: %w", err)
		}
		product.Images = append(product.Images, image)
	}
	if err = imageRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	// View counter is best effort: a failed bump never hides the product.
	if _, err := r.db.Exec(`UPDATE productos SET vistas = vistas + 1 WHERE id = $1`, product.ID); err != nil {
		r.log.Warnf("Failed to bump view counter for product %d: %v", product.ID, err)
	}

	relatedRows, err := r.db.Query(`
        SELECT id, nombre, slug, precio, COALESCE(precio_anterior, 0), COALESCE(imagen_principal, '')
        FROM productos
        WHERE categoria_id = $1 AND id != $2 AND activo = TRUE
        LIMIT 4`, product.CategoryID, product.ID)
	if err != nil {
		r.log.Errorf("Failed to query related products for %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not get related products: %w", err)
	}
	defer relatedRows.Close()
	for relatedRows.Next() {
		var related domain.Product
		if err := relatedRows.Scan(&related.ID, &related.Name, &related.Slug, &related.Price, &related.PreviousPrice, &related.MainImage); err != nil {
			r.log.Errorf("Failed to scan related product row: %v", err)
			return nil, fmt.Errorf("error scanning related product: %w", err)
		}
		related.DiscountPercent = domain.DiscountFor(related.Price, related.PreviousPrice)
		product.Related = append(product.Related, related)
	}
	if err = relatedRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related products: %w", err)
	}

	r.log.Infof("Product %d retrieved (%d images, %d related)", product.ID, len(product.Images), len(product.Related))
	return product, nil
}

func (r *postgresProductRepository) Search(term string) ([]domain.Product, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + productColumns + `
        FROM productos p
        LEFT JOIN categorias c ON p.categoria_id = c.id
        WHERE p.activo = TRUE
          AND (p.nombre ILIKE $1 OR p.descripcion ILIKE $1 OR p.descripcion_corta ILIKE $1)
        ORDER BY p.ventas DESC, p.nombre ASC
        LIMIT 20`

	rows, err := r.db.Query(query, pattern)
	if err != nil {
		r.log.Errorf("Failed to search products for %q: %v", term, err)
		return nil, fmt.Errorf("could not search products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row during search: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	r.log.Infof("Search %q matched %d products", term, len(products))
	return products, nil
}

func (r *postgresProductRepository) Create(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO productos (
            nombre, slug, descripcion, descripcion_corta,
            precio, precio_anterior, stock, stock_minimo,
            categoria_id, imagen_principal, destacado
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at`

	var previousPrice sql.NullFloat64
	if product.PreviousPrice > 0 {
		previousPrice = sql.NullFloat64{Float64: product.PreviousPrice, Valid: true}
	}
	var categoryID sql.NullInt64
	if product.CategoryID != 0 {
		categoryID = sql.NullInt64{Int64: int64(product.CategoryID), Valid: true}
	}
	minStock := product.MinStock
	if minStock == 0 {
		minStock = 5
	}

	err := r.db.QueryRow(query,
		product.Name,
		product.Slug,
		nullString(product.Description),
		nullString(product.ShortDescription),
		product.Price,
		previousPrice,
		product.Stock,
		minStock,
		categoryID,
		nullString(product.MainImage),
		product.Featured,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create product with duplicate slug %q", product.Slug)
			return nil, domain.NewValidationError("Ya existe un producto con ese nombre o slug")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create product with non-existent category %d", product.CategoryID)
			return nil, domain.NewValidationError("La categoría %d no existe", product.CategoryID)
		}
		r.log.Errorf("Failed to create product %q: %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	product.Active = true
	r.log.Infof("Product created with ID %d, slug %q", product.ID, product.Slug)
	return product, nil
}

func (r *postgresProductRepository) Update(id int, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return domain.NewValidationError("No hay campos para actualizar")
	}

	allowed := map[string]bool{
		"nombre": true, "slug": true, "descripcion": true, "descripcion_corta": true,
		"precio": true, "precio_anterior": true, "stock": true, "stock_minimo": true,
		"categoria_id": true, "imagen_principal": true, "destacado": true, "activo": true,
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1
	for key, value := range updates {
		if !allowed[key] {
			r.log.Warnf("Skipping unknown field %q in product update %d", key, id)
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
		args = append(args, value)
		argCounter++
	}
	if len(setClauses) == 0 {
		return domain.NewValidationError("No hay campos para actualizar")
	}

	query := "UPDATE productos SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Product update %d hit duplicate slug", id)
			return domain.NewValidationError("Ya existe un producto con ese slug")
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Product update %d references non-existent category", id)
			return domain.NewValidationError("La categoría no existe")
		}
		r.log.Errorf("Failed to update product %d: %v", id, err)
		return fmt.Errorf("could not update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to read rows affected for product %d: %v", id, err)
		return fmt.Errorf("could not confirm product update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Product %d not found for update", id)
		return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Product %d updated (%d fields)", id, len(setClauses))
	return nil
}

func (r *postgresProductRepository) SoftDelete(id int) (string, error) {
	var name string
	err := r.db.QueryRow(`SELECT nombre FROM productos WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product %d not found for delete", id)
			return "", fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to look up product %d for delete: %v", id, err)
		return "", fmt.Errorf("could not look up product: %w", err)
	}

	if _, err := r.db.Exec(`UPDATE productos SET activo = FALSE WHERE id = $1`, id); err != nil {
		r.log.Errorf("Failed to soft delete product %d: %v", id, err)
		return "", fmt.Errorf("could not delete product: %w", err)
	}

	r.log.Infof("Product %d (%s) deactivated", id, name)
	return name, nil
}
