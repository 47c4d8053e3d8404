package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusConfirmed OrderStatus = "confirmado"
	StatusPreparing OrderStatus = "preparando"
	StatusShipped   OrderStatus = "enviado"
	StatusDelivered OrderStatus = "entregado"
	StatusCancelled OrderStatus = "cancelado"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pendiente"
	PaymentPaid     PaymentStatus = "pagado"
	PaymentRejected PaymentStatus = "rechazado"
)

const (
	// Orders above this subtotal ship for free; everything else pays the
	// flat fee. Amounts are in pesos.
	FreeShippingThreshold = 50000.0
	FlatShippingFee       = 5000.0

	DefaultCity          = "Tucumán"
	DefaultPaymentMethod = "efectivo"
)

type Order struct {
	ID            int           `json:"id"`
	Number        string        `json:"numero_pedido"`
	UserID        int64         `json:"usuario_id,omitempty"`
	CustomerName  string        `json:"nombre_cliente"`
	Email         string        `json:"email"`
	Phone         string        `json:"telefono"`
	Address       string        `json:"direccion"`
	City          string        `json:"ciudad"`
	PostalCode    string        `json:"codigo_postal,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	Shipping      float64       `json:"envio"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"metodo_pago"`
	Notes         string        `json:"notas,omitempty"`
	Status        OrderStatus   `json:"estado"`
	PaymentStatus PaymentStatus `json:"estado_pago"`
	ItemCount     int           `json:"cantidad_items,omitempty"`
	Items         []OrderLine   `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// OrderLine is a denormalized snapshot of the product at purchase time.
// Prices are copied, not referenced, so historical orders stay accurate when
// the product record later changes.
type OrderLine struct {
	ID           int     `json:"id,omitempty"`
	OrderID      int     `json:"pedido_id,omitempty"`
	ProductID    int     `json:"producto_id"`
	ProductName  string  `json:"nombre_producto"`
	ProductImage string  `json:"imagen_producto,omitempty"`
	UnitPrice    float64 `json:"precio_unitario"`
	Quantity     int     `json:"cantidad"`
	Subtotal     float64 `json:"subtotal"`
}

type CheckoutItem struct {
	ProductID int `json:"producto_id"`
	Quantity  int `json:"cantidad"`
}

// CheckoutRequest carries the proposed cart and delivery details. Item prices
// are deliberately absent: unit prices are always re-read from the catalog
// inside the checkout transaction.
type CheckoutRequest struct {
	CustomerName  string         `json:"nombre_cliente"`
	Email         string         `json:"email"`
	Phone         string         `json:"telefono"`
	Address       string         `json:"direccion"`
	City          string         `json:"ciudad"`
	PostalCode    string         `json:"codigo_postal"`
	Items         []CheckoutItem `json:"items"`
	PaymentMethod string         `json:"metodo_pago"`
	Notes         string         `json:"notas"`

	// Set from the bearer token when the buyer is logged in, never from JSON.
	UserID int64 `json:"-"`
}

type CheckoutResult struct {
	OrderID     int    `json:"pedido_id"`
	OrderNumber string `json:"numero_pedido"`
}

type OrderFilter struct {
	Status   string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

type OrderStatusUpdate struct {
	Status        *OrderStatus   `json:"estado"`
	PaymentStatus *PaymentStatus `json:"estado_pago"`
}

type OrderRepository interface {
	// Checkout runs the whole order transaction: per-item stock validation
	// against freshly locked product rows, order + line inserts and stock /
	// sales adjustments, committed together or not at all.
	Checkout(request *CheckoutRequest) (*CheckoutResult, error)
	List(filter OrderFilter) ([]Order, int, error)
	GetByIDOrNumber(key string) (*Order, error)
	UpdateStatus(id int, update OrderStatusUpdate) error
	ListByUser(userID int64) ([]Order, error)
}

type OrderUseCase interface {
	Checkout(request *CheckoutRequest) (*CheckoutResult, error)
	ListOrders(filter OrderFilter) ([]Order, int, error)
	GetOrder(key string) (*Order, error)
	UpdateOrderStatus(id int, update OrderStatusUpdate) error
	ListMyOrders(userID int64) ([]Order, error)
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsValidPaymentStatus(status PaymentStatus) bool {
	switch status {
	case PaymentPending, PaymentPaid, PaymentRejected:
		return true
	default:
		return false
	}
}

// ShippingFor applies the flat-fee rule: free above the threshold, flat
// otherwise. The threshold is strict (exactly 50000 still pays shipping).
func ShippingFor(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}
