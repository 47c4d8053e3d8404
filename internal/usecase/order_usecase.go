package usecase

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/events"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

// Same shape the original storefront accepted: local@domain.tld, no spaces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	publisher events.Publisher
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, publisher events.Publisher, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		publisher: publisher,
		log:       logger,
	}
}

// Checkout validates the request shape before any storage access, applies
// defaults and hands the cart to the order transaction. Pricing is decided
// inside the transaction, never here.
func (uc *orderUseCase) Checkout(request *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	request.CustomerName = strings.TrimSpace(request.CustomerName)
	request.Email = strings.TrimSpace(request.Email)
	request.Phone = strings.TrimSpace(request.Phone)
	request.Address = strings.TrimSpace(request.Address)

	if request.CustomerName == "" || request.Email == "" || request.Phone == "" || request.Address == "" || len(request.Items) == 0 {
		uc.log.Warn("Checkout rejected: missing required fields or empty cart")
		return nil, domain.NewValidationError("Faltan campos requeridos o el carrito está vacío")
	}
	if !emailPattern.MatchString(request.Email) {
		uc.log.Warnf("Checkout rejected: invalid email %q", request.Email)
		return nil, domain.NewValidationError("Email inválido")
	}
	for _, item := range request.Items {
		if item.ProductID <= 0 {
			return nil, domain.NewValidationError("El carrito contiene un producto inválido")
		}
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError("La cantidad debe ser mayor a cero")
		}
	}

	if request.City == "" {
		request.City = domain.DefaultCity
	}
	if request.PaymentMethod == "" {
		request.PaymentMethod = domain.DefaultPaymentMethod
	}

	uc.log.Infof("Checkout validated for %s (%d items)", request.Email, len(request.Items))

	result, err := uc.orderRepo.Checkout(request)
	if err != nil {
		uc.log.Warnf("Checkout failed for %s: %v", request.Email, err)
		return nil, err
	}

	// Event delivery is best effort; the order is already committed.
	if err := uc.publisher.PublishOrderCreated(result, request); err != nil {
		uc.log.Errorf("Failed to publish order-created event for %s: %v", result.OrderNumber, err)
	}

	uc.log.Infof("Order %s created (id %d)", result.OrderNumber, result.OrderID)
	return result, nil
}

func (uc *orderUseCase) ListOrders(filter domain.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != "" && !domain.IsValidStatus(domain.OrderStatus(filter.Status)) {
		return nil, 0, domain.NewValidationError("Estado inválido: %s", filter.Status)
	}
	return uc.orderRepo.List(filter)
}

func (uc *orderUseCase) GetOrder(key string) (*domain.Order, error) {
	if strings.TrimSpace(key) == "" {
		return nil, domain.NewValidationError("Identificador de pedido inválido")
	}
	return uc.orderRepo.GetByIDOrNumber(key)
}

func (uc *orderUseCase) UpdateOrderStatus(id int, update domain.OrderStatusUpdate) error {
	if id <= 0 {
		return domain.NewValidationError("Identificador de pedido inválido")
	}
	if update.Status == nil && update.PaymentStatus == nil {
		return domain.NewValidationError("No hay campos para actualizar")
	}
	if update.Status != nil && !domain.IsValidStatus(*update.Status) {
		return domain.NewValidationError("Estado inválido: %s", *update.Status)
	}
	if update.PaymentStatus != nil && !domain.IsValidPaymentStatus(*update.PaymentStatus) {
		return domain.NewValidationError("Estado de pago inválido: %s", *update.PaymentStatus)
	}

	uc.log.Infof("Updating status for order %d", id)
	return uc.orderRepo.UpdateStatus(id, update)
}

func (uc *orderUseCase) ListMyOrders(userID int64) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("Usuario inválido")
	}
	return uc.orderRepo.ListByUser(userID)
}
