package usecase

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type fakeOrderRepo struct {
	checkoutFn     func(request *domain.CheckoutRequest) (*domain.CheckoutResult, error)
	updateStatusFn func(id int, update domain.OrderStatusUpdate) error
	checkoutCalls  int
	lastRequest    *domain.CheckoutRequest
}

func (f *fakeOrderRepo) Checkout(request *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	f.checkoutCalls++
	f.lastRequest = request
	if f.checkoutFn != nil {
		return f.checkoutFn(request)
	}
	return &domain.CheckoutResult{OrderID: 1, OrderNumber: "PED-20260901-0001"}, nil
}

func (f *fakeOrderRepo) List(domain.OrderFilter) ([]domain.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) GetByIDOrNumber(string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) UpdateStatus(id int, update domain.OrderStatusUpdate) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(id, update)
	}
	return nil
}

func (f *fakeOrderRepo) ListByUser(int64) ([]domain.Order, error) {
	return nil, nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishOrderCreated(*domain.CheckoutResult, *domain.CheckoutRequest) error {
	f.published++
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func validCheckout() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		CustomerName: "Juan Pérez",
		Email:        "juan@example.com",
		Phone:        "3815551234",
		Address:      "Av. Aconquija 1500",
		Items:        []domain.CheckoutItem{{ProductID: 1, Quantity: 2}},
	}
}

func TestCheckout_RejectsMissingFields(t *testing.T) {
	repo := &fakeOrderRepo{}
	publisher := &fakePublisher{}
	uc := NewOrderUseCase(repo, publisher, testLogger())

	cases := map[string]func(r *domain.CheckoutRequest){
		"sin nombre":    func(r *domain.CheckoutRequest) { r.CustomerName = "   " },
		"sin email":     func(r *domain.CheckoutRequest) { r.Email = "" },
		"sin telefono":  func(r *domain.CheckoutRequest) { r.Phone = "" },
		"sin direccion": func(r *domain.CheckoutRequest) { r.Address = "" },
		"carrito vacio": func(r *domain.CheckoutRequest) { r.Items = nil },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			request := validCheckout()
			mutate(request)

			result, err := uc.Checkout(request)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, domain.IsBusinessError(err))
		})
	}

	assert.Zero(t, repo.checkoutCalls)
	assert.Zero(t, publisher.published)
}

func TestCheckout_RejectsInvalidEmail(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUseCase(repo, &fakePublisher{}, testLogger())

	for _, email := range []string{"no-arroba", "dos espacios@mail.com", "sin@tld"} {
		request := validCheckout()
		request.Email = email

		_, err := uc.Checkout(request)
		require.Error(t, err, "email %q", email)

		var validation *domain.ValidationError
		assert.True(t, errors.As(err, &validation))
	}
	assert.Zero(t, repo.checkoutCalls)
}

func TestCheckout_RejectsBadQuantities(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUseCase(repo, &fakePublisher{}, testLogger())

	request := validCheckout()
	request.Items = []domain.CheckoutItem{{ProductID: 1, Quantity: 0}}
	_, err := uc.Checkout(request)
	require.Error(t, err)

	request = validCheckout()
	request.Items = []domain.CheckoutItem{{ProductID: 0, Quantity: 1}}
	_, err = uc.Checkout(request)
	require.Error(t, err)

	assert.Zero(t, repo.checkoutCalls)
}

func TestCheckout_AppliesDefaults(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUseCase(repo, &fakePublisher{}, testLogger())

	request := validCheckout()
	request.City = ""
	request.PaymentMethod = ""

	_, err := uc.Checkout(request)
	require.NoError(t, err)
	require.NotNil(t, repo.lastRequest)
	assert.Equal(t, domain.DefaultCity, repo.lastRequest.City)
	assert.Equal(t, domain.DefaultPaymentMethod, repo.lastRequest.PaymentMethod)
}

func TestCheckout_PublishesAfterCommit(t *testing.T) {
	repo := &fakeOrderRepo{}
	publisher := &fakePublisher{}
	uc := NewOrderUseCase(repo, publisher, testLogger())

	result, err := uc.Checkout(validCheckout())
	require.NoError(t, err)
	assert.Equal(t, "PED-20260901-0001", result.OrderNumber)
	assert.Equal(t, 1, publisher.published)
}

func TestCheckout_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	publisher := &fakePublisher{err: errors.New("broker down")}
	uc := NewOrderUseCase(repo, publisher, testLogger())

	result, err := uc.Checkout(validCheckout())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1, publisher.published)
}

func TestCheckout_RepoErrorPassesThrough(t *testing.T) {
	stockErr := &domain.InsufficientStockError{ProductName: "Mate Imperial", Available: 1}
	repo := &fakeOrderRepo{
		checkoutFn: func(*domain.CheckoutRequest) (*domain.CheckoutResult, error) {
			return nil, stockErr
		},
	}
	publisher := &fakePublisher{}
	uc := NewOrderUseCase(repo, publisher, testLogger())

	result, err := uc.Checkout(validCheckout())
	require.Error(t, err)
	assert.Nil(t, result)

	var got *domain.InsufficientStockError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "Mate Imperial", got.ProductName)
	assert.Zero(t, publisher.published)
}

func TestUpdateOrderStatus_Validation(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewOrderUseCase(repo, &fakePublisher{}, testLogger())

	err := uc.UpdateOrderStatus(0, domain.OrderStatusUpdate{})
	require.Error(t, err)

	err = uc.UpdateOrderStatus(1, domain.OrderStatusUpdate{})
	require.Error(t, err)

	bogus := domain.OrderStatus("volando")
	err = uc.UpdateOrderStatus(1, domain.OrderStatusUpdate{Status: &bogus})
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))

	badPayment := domain.PaymentStatus("fiado")
	err = uc.UpdateOrderStatus(1, domain.OrderStatusUpdate{PaymentStatus: &badPayment})
	require.Error(t, err)

	shipped := domain.StatusShipped
	err = uc.UpdateOrderStatus(1, domain.OrderStatusUpdate{Status: &shipped})
	require.NoError(t, err)
}

func TestListOrders_RejectsUnknownStatus(t *testing.T) {
	uc := NewOrderUseCase(&fakeOrderRepo{}, &fakePublisher{}, testLogger())

	_, _, err := uc.ListOrders(domain.OrderFilter{Status: "perdido"})
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))

	_, _, err = uc.ListOrders(domain.OrderFilter{Status: "pendiente"})
	require.NoError(t, err)
}

func TestListMyOrders_RejectsInvalidUser(t *testing.T) {
	uc := NewOrderUseCase(&fakeOrderRepo{}, &fakePublisher{}, testLogger())

	_, err := uc.ListMyOrders(0)
	require.Error(t, err)

	_, err = uc.ListMyOrders(12)
	require.NoError(t, err)
}
