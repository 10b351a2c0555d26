package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/service/auth"
	"github.com/orderdesk/order-api/pkg/errors"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the actor in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.resolve(c)
		if err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}

		c.Set(handler.ContextActor, actor)
		c.Next()
	}
}

// AuthenticateOptional resolves the actor when a token is present but lets
// anonymous requests through. Used on registration, where an admin token
// unlocks staff/admin account creation.
func (m *AuthMiddleware) AuthenticateOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if actor, err := m.resolve(c); err == nil {
				c.Set(handler.ContextActor, actor)
			}
		}
		c.Next()
	}
}

// RequireStaff rejects customers before the handler runs.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := handler.CurrentActor(c)
		if !ok || !actor.Role.IsStaff() {
			handler.Error(c, errors.Forbidden(""))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (model.Actor, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return model.Actor{}, errors.Unauthorized("missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return model.Actor{}, errors.Unauthorized("invalid authorization format")
	}

	claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		return model.Actor{}, errors.Unauthorized("invalid token")
	}

	return model.Actor{ID: claims.UserID, Role: claims.Role}, nil
}
