package delivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/middleware"
)

type fakeOrderUseCase struct {
	checkoutFn  func(request *domain.CheckoutRequest) (*domain.CheckoutResult, error)
	lastRequest *domain.CheckoutRequest
}

func (f *fakeOrderUseCase) Checkout(request *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	f.lastRequest = request
	if f.checkoutFn != nil {
		return f.checkoutFn(request)
	}
	return &domain.CheckoutResult{OrderID: 42, OrderNumber: "PED-20260901-0042"}, nil
}

func (f *fakeOrderUseCase) ListOrders(domain.OrderFilter) ([]domain.Order, int, error) {
	return []domain.Order{{ID: 1, Number: "PED-20260901-0001"}}, 1, nil
}

func (f *fakeOrderUseCase) GetOrder(key string) (*domain.Order, error) {
	if key == "42" {
		return &domain.Order{ID: 42, Number: "PED-20260901-0042"}, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderUseCase) UpdateOrderStatus(int, domain.OrderStatusUpdate) error { return nil }

func (f *fakeOrderUseCase) ListMyOrders(int64) ([]domain.Order, error) { return nil, nil }

func passThrough(c *gin.Context) { c.Next() }

func newOrderRouter(uc domain.OrderUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	handler := NewOrderHandler(uc, logger)
	handler.RegisterRoutes(router.Group("/api"), passThrough, passThrough, passThrough)
	return router
}

func doCheckout(t *testing.T, router *gin.Engine, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/api/pedidos", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var envelope Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"nombre_cliente": "Juan Pérez",
		"email":          "juan@example.com",
		"telefono":       "3815551234",
		"direccion":      "Av. Aconquija 1500",
		"items": []map[string]int{
			{"producto_id": 1, "cantidad": 2},
		},
	}
}

func TestCheckoutEndpoint_Created(t *testing.T) {
	uc := &fakeOrderUseCase{}
	router := newOrderRouter(uc)

	recorder, envelope := doCheckout(t, router, checkoutBody())

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Pedido creado exitosamente", envelope.Message)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), data["pedido_id"])
	assert.Equal(t, "PED-20260901-0042", data["numero_pedido"])
}

func TestCheckoutEndpoint_BusinessErrorIs400(t *testing.T) {
	uc := &fakeOrderUseCase{
		checkoutFn: func(*domain.CheckoutRequest) (*domain.CheckoutResult, error) {
			return nil, &domain.InsufficientStockError{ProductName: "Mate Imperial", Available: 1}
		},
	}
	router := newOrderRouter(uc)

	recorder, envelope := doCheckout(t, router, checkoutBody())

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Stock insuficiente para Mate Imperial. Disponibles: 1", envelope.Error)
}

func TestCheckoutEndpoint_StorageFaultIs500Generic(t *testing.T) {
	uc := &fakeOrderUseCase{
		checkoutFn: func(*domain.CheckoutRequest) (*domain.CheckoutResult, error) {
			return nil, errors.New("pq: connection refused")
		},
	}
	router := newOrderRouter(uc)

	recorder, envelope := doCheckout(t, router, checkoutBody())

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.False(t, envelope.Success)
	// Storage details never leak to the client.
	assert.Equal(t, "Error al crear pedido", envelope.Error)
}

func TestCheckoutEndpoint_MalformedBodyIs400(t *testing.T) {
	router := newOrderRouter(&fakeOrderUseCase{})

	request := httptest.NewRequest(http.MethodPost, "/api/pedidos", bytes.NewBufferString("{no es json"))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckoutEndpoint_UserIDComesFromContextNotBody(t *testing.T) {
	uc := &fakeOrderUseCase{}

	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	authenticated := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(7))
		c.Next()
	}
	NewOrderHandler(uc, logger).RegisterRoutes(router.Group("/api"), authenticated, passThrough, passThrough)

	body := checkoutBody()
	body["usuario_id"] = 999 // must be ignored

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	request := httptest.NewRequest(http.MethodPost, "/api/pedidos", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, uc.lastRequest)
	assert.Equal(t, int64(7), uc.lastRequest.UserID)
}

func TestGetOrderEndpoint_NotFoundIs404(t *testing.T) {
	router := newOrderRouter(&fakeOrderUseCase{})

	request := httptest.NewRequest(http.MethodGet, "/api/pedidos/999", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListOrdersEndpoint_Paginated(t *testing.T) {
	router := newOrderRouter(&fakeOrderUseCase{})

	request := httptest.NewRequest(http.MethodGet, "/api/pedidos?limit=10", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.Total)
	assert.Equal(t, 10, envelope.Pagination.Limit)
	assert.Equal(t, 1, envelope.Pagination.Pages)
}
