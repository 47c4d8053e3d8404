package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

// maxNumberAttempts bounds how many times a checkout regenerates its order
// number after hitting the unique constraint on pedidos.numero_pedido.
const maxNumberAttempts = 3

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// GenerateOrderNumber composes a human-readable order number from the current
// date and a 4-digit random suffix: PED-YYYYMMDD-RRRR. Uniqueness is enforced
// by the database constraint, not here.
func GenerateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("PED-%04d%02d%02d-%04d", now.Year(), int(now.Month()), now.Day(), rand.Intn(10000))
}

func isOrderNumberConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "pedidos_numero_pedido_key"
}

func (r *postgresOrderRepository) Checkout(request *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	var result *domain.CheckoutResult
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		result, err = r.checkoutOnce(request)
		if err != nil && isOrderNumberConflict(err) {
			r.log.Warnf("Order number collision on attempt %d, regenerating", attempt)
			continue
		}
		return result, err
	}
	r.log.Errorf("Exhausted %d order number attempts: %v", maxNumberAttempts, err)
	return nil, fmt.Errorf("could not allocate a unique order number: %w", err)
}

// checkoutOnce runs one attempt of the order transaction. Every product row
// in the cart is read with FOR UPDATE so a concurrent checkout of the same
// product serializes behind this one and cannot jointly overdraw stock.
func (r *postgresOrderRepository) checkoutOnce(request *domain.CheckoutRequest) (result *domain.CheckoutResult, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin checkout transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back checkout transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback checkout transaction: %v", rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			r.log.Errorf("Failed to commit checkout transaction: %v", cErr)
			err = fmt.Errorf("failed to commit checkout transaction: %w", cErr)
			result = nil
		}
	}()

	productQuery := `
        SELECT id, nombre, precio, stock, imagen_principal
        FROM productos
        WHERE id = $1 AND activo = TRUE
        FOR UPDATE`

	var subtotal float64
	lines := make([]domain.OrderLine, 0, len(request.Items))

	// Quantities already claimed by earlier cart lines, so a cart that names
	// the same product twice is checked against what is actually left.
	remaining := make(map[int]int)

	for _, item := range request.Items {
		var (
			id    int
			name  string
			price float64
			stock int
			image sql.NullString
		)
		err = tx.QueryRow(productQuery, item.ProductID).Scan(&id, &name, &price, &stock, &image)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				r.log.Warnf("Checkout references unavailable product %d", item.ProductID)
				err = &domain.ProductUnavailableError{ProductID: item.ProductID}
				return nil, err
			}
			r.log.Errorf("Failed to lock product %d for checkout: %v", item.ProductID, err)
			err = fmt.Errorf("could not read product %d: %w", item.ProductID, err)
			return nil, err
		}

		available, seen := remaining[id]
		if !seen {
			available = stock
		}
		if available < item.Quantity {
			r.log.Warnf("Insufficient stock for product %d (%s): requested %d, available %d", id, name, item.Quantity, available)
			err = &domain.InsufficientStockError{ProductName: name, Available: available}
			return nil, err
		}
		remaining[id] = available - item.Quantity

		lineSubtotal := price * float64(item.Quantity)
		subtotal += lineSubtotal
		lines = append(lines, domain.OrderLine{
			ProductID:    id,
			ProductName:  name,
			ProductImage: image.String,
			UnitPrice:    price,
			Quantity:     item.Quantity,
			Subtotal:     lineSubtotal,
		})
	}

	shipping := domain.ShippingFor(subtotal)
	total := subtotal + shipping
	number := GenerateOrderNumber()

	var userID sql.NullInt64
	if request.UserID > 0 {
		userID = sql.NullInt64{Int64: request.UserID, Valid: true}
	}

	orderQuery := `
        INSERT INTO pedidos (
            numero_pedido, usuario_id, nombre_cliente, email, telefono,
            direccion, ciudad, codigo_postal,
            subtotal, envio, total, metodo_pago, notas
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id`

	var orderID int
	err = tx.QueryRow(orderQuery,
		number,
		userID,
		request.CustomerName,
		request.Email,
		request.Phone,
		request.Address,
		request.City,
		nullString(request.PostalCode),
		subtotal,
		shipping,
		total,
		request.PaymentMethod,
		nullString(request.Notes),
	).Scan(&orderID)
	if err != nil {
		if isOrderNumberConflict(err) {
			// Bubble up untouched so Checkout can retry with a fresh number.
			return nil, err
		}
		r.log.Errorf("Failed to insert order %s: %v", number, err)
		err = fmt.Errorf("could not create order entry: %w", err)
		return nil, err
	}

	lineQuery := `
        INSERT INTO pedido_detalles (
            pedido_id, producto_id, nombre_producto, imagen_producto,
            precio_unitario, cantidad, subtotal
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	stmt, err := tx.Prepare(lineQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order line statement: %v", err)
		err = fmt.Errorf("could not prepare line statement: %w", err)
		return nil, err
	}
	defer stmt.Close()

	stockQuery := `
        UPDATE productos
        SET stock = stock - $1, ventas = ventas + $1
        WHERE id = $2`

	for _, line := range lines {
		_, err = stmt.Exec(orderID, line.ProductID, line.ProductName, nullString(line.ProductImage), line.UnitPrice, line.Quantity, line.Subtotal)
		if err != nil {
			r.log.Errorf("Failed to insert line (product %d) for order %d: %v", line.ProductID, orderID, err)
			err = fmt.Errorf("could not create order line (product %d): %w", line.ProductID, err)
			return nil, err
		}

		_, err = tx.Exec(stockQuery, line.Quantity, line.ProductID)
		if err != nil {
			r.log.Errorf("Failed to adjust stock for product %d (order %d): %v", line.ProductID, orderID, err)
			err = fmt.Errorf("could not adjust stock for product %d: %w", line.ProductID, err)
			return nil, err
		}
	}

	r.log.Infof("Order %s (id %d) created with %d lines, total %.2f", number, orderID, len(lines), total)
	return &domain.CheckoutResult{OrderID: orderID, OrderNumber: number}, nil
}

func (r *postgresOrderRepository) List(filter domain.OrderFilter) ([]domain.Order, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := `
        SELECT p.id, p.numero_pedido, p.nombre_cliente, p.email, p.telefono,
               p.total, p.estado, p.estado_pago, p.metodo_pago, p.created_at,
               COUNT(pd.id) AS cantidad_items
        FROM pedidos p
        LEFT JOIN pedido_detalles pd ON p.id = pd.pedido_id
        WHERE TRUE`
	countQuery := `SELECT COUNT(*) FROM pedidos WHERE TRUE`

	args := []interface{}{}
	countArgs := []interface{}{}
	argCounter := 1

	if filter.Status != "" {
		clause := fmt.Sprintf(" AND estado = $%d", argCounter)
		query += fmt.Sprintf(" AND p.estado = $%d", argCounter)
		countQuery += clause
		args = append(args, filter.Status)
		countArgs = append(countArgs, filter.Status)
		argCounter++
	}
	if filter.DateFrom != "" {
		query += fmt.Sprintf(" AND DATE(p.created_at) >= $%d", argCounter)
		countQuery += fmt.Sprintf(" AND DATE(created_at) >= $%d", argCounter)
		args = append(args, filter.DateFrom)
		countArgs = append(countArgs, filter.DateFrom)
		argCounter++
	}
	if filter.DateTo != "" {
		query += fmt.Sprintf(" AND DATE(p.created_at) <= $%d", argCounter)
		countQuery += fmt.Sprintf(" AND DATE(created_at) <= $%d", argCounter)
		args = append(args, filter.DateTo)
		countArgs = append(countArgs, filter.DateTo)
		argCounter++
	}

	query += fmt.Sprintf(" GROUP BY p.id ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, 0, fmt.Errorf("could not list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Number,
			&order.CustomerName,
			&order.Email,
			&order.Phone,
			&order.Total,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&order.CreatedAt,
			&order.ItemCount,
		); err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, 0, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	var total int
	if err := r.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		r.log.Errorf("Failed to count orders: %v", err)
		return nil, 0, fmt.Errorf("could not count orders: %w", err)
	}

	r.log.Infof("Retrieved %d orders (limit %d, offset %d)", len(orders), filter.Limit, filter.Offset)
	return orders, total, nil
}

func (r *postgresOrderRepository) GetByIDOrNumber(key string) (*domain.Order, error) {
	base := `
        SELECT id, numero_pedido, COALESCE(usuario_id, 0), nombre_cliente, email, telefono,
               direccion, ciudad, COALESCE(codigo_postal, ''),
               subtotal, envio, total, metodo_pago, COALESCE(notas, ''),
               estado, estado_pago, created_at
        FROM pedidos`

	var row *sql.Row
	if id, convErr := strconv.Atoi(key); convErr == nil {
		row = r.db.QueryRow(base+` WHERE id = $1`, id)
	} else {
		row = r.db.QueryRow(base+` WHERE numero_pedido = $1`, key)
	}

	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.Number,
		&order.UserID,
		&order.CustomerName,
		&order.Email,
		&order.Phone,
		&order.Address,
		&order.City,
		&order.PostalCode,
		&order.Subtotal,
		&order.Shipping,
		&order.Total,
		&order.PaymentMethod,
		&order.Notes,
		&order.Status,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %q not found", key)
			return nil, fmt.Errorf("pedido %s: %w", key, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get order %q: %v", key, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderLines(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.ItemCount = len(items)

	r.log.Infof("Order %d retrieved with %d lines", order.ID, len(items))
	return order, nil
}

func (r *postgresOrderRepository) getOrderLines(orderID int) ([]domain.OrderLine, error) {
	query := `
        SELECT id, pedido_id, producto_id, nombre_producto, COALESCE(imagen_producto, ''),
               precio_unitario, cantidad, subtotal
        FROM pedido_detalles
        WHERE pedido_id = $1
        ORDER BY id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		r.log.Errorf("Failed to query lines for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.ProductImage,
			&line.UnitPrice,
			&line.Quantity,
			&line.Subtotal,
		); err != nil {
			r.log.Errorf("Failed to scan line row for order %d: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order lines iteration for order %d: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}
	return lines, nil
}

func (r *postgresOrderRepository) UpdateStatus(id int, update domain.OrderStatusUpdate) error {
	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	if update.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("estado = $%d", argCounter))
		args = append(args, *update.Status)
		argCounter++
	}
	if update.PaymentStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("estado_pago = $%d", argCounter))
		args = append(args, *update.PaymentStatus)
		argCounter++
	}
	if len(setClauses) == 0 {
		return domain.NewValidationError("No hay campos para actualizar")
	}

	query := "UPDATE pedidos SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.log.Errorf("Failed to update status for order %d: %v", id, err)
		return fmt.Errorf("could not update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to read rows affected for order %d: %v", id, err)
		return fmt.Errorf("could not confirm order update: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Order %d not found for status update", id)
		return fmt.Errorf("pedido %d: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Order %d status updated", id)
	return nil
}

func (r *postgresOrderRepository) ListByUser(userID int64) ([]domain.Order, error) {
	query := `
        SELECT p.id, p.numero_pedido, p.total, p.estado, p.estado_pago, p.created_at,
               COUNT(pd.id) AS cantidad_items
        FROM pedidos p
        LEFT JOIN pedido_detalles pd ON p.id = pd.pedido_id
        WHERE p.usuario_id = $1
        GROUP BY p.id
        ORDER BY p.created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.log.Errorf("Failed to list orders for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Number,
			&order.Total,
			&order.Status,
			&order.PaymentStatus,
			&order.CreatedAt,
			&order.ItemCount,
		); err != nil {
			r.log.Errorf("Failed to scan order row for user %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during user orders iteration for user %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	r.log.Infof("Retrieved %d orders for user %d", len(orders), userID)
	return orders, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
