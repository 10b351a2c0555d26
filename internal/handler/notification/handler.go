package notification

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/service/notification"
	"github.com/orderdesk/order-api/pkg/errors"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/notifications")
	{
		grp.GET("", h.List)
		grp.GET("/unread-count", h.UnreadCount)
		grp.PATCH("/:id/read", h.MarkRead)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	var filter model.NotificationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.BindError(c, err)
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), actor, &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "notifications retrieved", handler.NewPaginated(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) MarkRead(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, errors.Validation("invalid notification ID", err))
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "notification marked as read", n)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	count, err := h.svc.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "unread count retrieved", gin.H{"unread": count})
}
