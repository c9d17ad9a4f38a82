package handler

import (
	"net/http"

	"github.com/Eursukkul/canchas-booking/internal/dto"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type ClientHandler struct {
	svc service.ClientService
}

func NewClientHandler(svc service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) RegisterRoutes(api *echo.Group) {
	perm := middleware.RequirePermission(session.ModuleClients)

	api.GET("/clients", h.ListClients, perm)
	api.POST("/clients", h.CreateClient, perm)
	api.GET("/clients/:id", h.GetClient, perm)
	api.PUT("/clients/:id", h.UpdateClient, perm)
	api.DELETE("/clients/:id", h.DeleteClient, perm)
}

func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req dto.ClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := req.ToModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.Create(c.Request().Context(), actorOf(c), client); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// ListClients supports ?q= search over name, surname and document and
// ?inactive=true to include deactivated clients.
func (h *ClientHandler) ListClients(c echo.Context) error {
	filter := repository.ClientFilter{
		Search:          c.QueryParam("q"),
		IncludeInactive: c.QueryParam("inactive") == "true",
	}

	clients, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.ClientResponse, len(clients))
	for i := range clients {
		resp[i] = dto.ToClientResponse(&clients[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	client, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

func (h *ClientHandler) UpdateClient(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := req.ToModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	client.ID = id

	updated, err := h.svc.Update(c.Request().Context(), actorOf(c), client)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToClientResponse(updated))
}

func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actorOf(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
