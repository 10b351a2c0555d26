package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/service/user"
	"github.com/orderdesk/order-api/pkg/errors"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", h.Me)
		users.GET("", h.List)
		users.PATCH("/:id/role", h.UpdateRole)
	}
}

func (h *Handler) Me(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	u, err := h.svc.Get(c.Request.Context(), actor.ID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "profile retrieved", u)
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	var filter model.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		handler.BindError(c, err)
		return
	}

	users, total, err := h.svc.List(c.Request.Context(), actor, &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "users retrieved", handler.NewPaginated(users, filter.Page, filter.PageSize, total))
}

func (h *Handler) UpdateRole(c *gin.Context) {
	actor, _ := handler.CurrentActor(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, errors.Validation("invalid user ID", err))
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	u, err := h.svc.UpdateRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "role updated", u)
}
