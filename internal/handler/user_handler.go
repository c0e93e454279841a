package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"catalog/internal/errors"
	"catalog/internal/middleware"
	"catalog/internal/service"
)

// UserHandler handles the authenticated-user endpoints.
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Info godoc
// @Summary Get the authenticated user's record
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/info [get]
func (h *UserHandler) Info(c echo.Context) error {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.authService.UserInfo(c.Request().Context(), ident.Username)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// user may be nil if the record vanished since the token was issued;
	// the surface reports that as a null body.
	return c.JSON(http.StatusOK, user)
}
