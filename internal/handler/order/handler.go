package order

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/service/order"
	"github.com/orderdesk/order-api/pkg/errors"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PATCH("/:id", h.Update)
		orders.POST("/:id/cancel", h.Cancel)
		orders.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "order created", created)
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	var filter model.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.BindError(c, err)
		return
	}

	orders, total, err := h.svc.List(c.Request.Context(), actor, &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "orders retrieved", handler.NewPaginated(orders, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := parseID(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "order retrieved", detail)
}

func (h *Handler) Update(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := parseID(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.svc.UpdateFields(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "order updated", updated)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := parseID(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	// Body is optional; an empty cancellation reason is fine.
	var req model.CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.svc.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "order cancelled", cancelled)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := parseID(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, model.OrderStatus(req.Status), req.Comment)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "order status updated", updated)
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.Validation("invalid order ID", err)
	}
	return id, nil
}
