package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/canchas-booking/internal/dto"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes mounts login on e and everything else on the authenticated group.
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, api *echo.Group) {
	e.POST("/api/v1/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	users := middleware.RequirePermission(session.ModuleUsers)
	api.GET("/users", h.ListUsers, users)
	api.POST("/users", h.RegisterUser, users)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Login(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      dto.ToUserResponse(res.User),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), actorOf(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req dto.RegisterUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.svc.Register(c.Request().Context(), actorOf(c), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}
