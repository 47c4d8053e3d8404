package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/middleware"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, optionalAuth, requireAuth, requireAdmin gin.HandlerFunc) {
	orders := router.Group("/pedidos")
	{
		orders.POST("", optionalAuth, h.Checkout)
		orders.GET("/mis-pedidos", requireAuth, h.MyOrders)
		orders.GET("", requireAuth, requireAdmin, h.ListOrders)
		orders.GET("/:id", requireAuth, requireAdmin, h.GetOrder)
		orders.PATCH("/:id/estado", requireAuth, requireAdmin, h.UpdateStatus)
	}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var request domain.CheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.log.Warnf("Failed to bind checkout body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	request.UserID = middleware.UserID(c)

	result, err := h.useCase.Checkout(&request)
	if err != nil {
		h.log.Warnf("Checkout failed: %v", err)
		FailFromError(c, err, "Error al crear pedido")
		return
	}

	h.log.Infof("Order %s created via API", result.OrderNumber)
	SuccessResponse(c, http.StatusCreated, "Pedido creado exitosamente", result)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := domain.OrderFilter{
		Status:   c.Query("estado"),
		DateFrom: c.Query("fecha_desde"),
		DateTo:   c.Query("fecha_hasta"),
		Limit:    limit,
		Offset:   offset,
	}

	orders, total, err := h.useCase.ListOrders(filter)
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		FailFromError(c, err, "Error al obtener pedidos")
		return
	}

	PaginatedResponse(c, orders, NewPagination(total, filter.Limit, filter.Offset))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.useCase.GetOrder(c.Param("id"))
	if err != nil {
		h.log.Warnf("Failed to get order %q: %v", c.Param("id"), err)
		FailFromError(c, err, "Pedido no encontrado")
		return
	}
	SuccessResponse(c, http.StatusOK, "", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Identificador de pedido inválido")
		return
	}

	var update domain.OrderStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warnf("Failed to bind status update for order %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.useCase.UpdateOrderStatus(id, update); err != nil {
		h.log.Warnf("Failed to update order %d: %v", id, err)
		FailFromError(c, err, "Error al actualizar pedido")
		return
	}

	SuccessResponse(c, http.StatusOK, "Pedido actualizado exitosamente", nil)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID := middleware.UserID(c)
	orders, err := h.useCase.ListMyOrders(userID)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %d: %v", userID, err)
		FailFromError(c, err, "Error al obtener pedidos")
		return
	}
	SuccessResponse(c, http.StatusOK, "", orders)
}
