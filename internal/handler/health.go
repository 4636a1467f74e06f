package handler

import (
	"net/http"
	"time"

	"restaurant-webhooks/internal/dto"

	"github.com/labstack/echo/v4"
)

const serviceName = "webhooks"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
	})
}
