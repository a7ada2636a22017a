package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/core/seed"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
)

// SeedHandler はデータベース初期化 API です。
type SeedHandler struct {
	svc seed.UseCase
	log zerolog.Logger
}

// NewSeedHandler は SeedHandler を生成します。
func NewSeedHandler(svc seed.UseCase, log zerolog.Logger) *SeedHandler {
	return &SeedHandler{svc: svc, log: log}
}

// Seed は GET /seed_db を処理します。
func (h *SeedHandler) Seed(c echo.Context) error {
	result, err := h.svc.Seed(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	logger.FromContext(c.Request().Context(), h.log).Info().
		Int("departments", result.Departments).
		Int("roles", result.Roles).
		Int("employees", result.Employees).
		Msg("database seeded")

	return c.JSON(http.StatusOK, messageResponse{Message: "Database seeded!"})
}
