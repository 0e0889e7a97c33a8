package delivery_http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	model "feed-service/internal/domain/models"
	auth_service "feed-service/internal/domain/ports/input/auth"
	ports "feed-service/internal/domain/ports/output"
)

type AuthHandler struct {
	auth auth_service.Service
	log  ports.Logger
}

func NewAuthHandler(auth auth_service.Service, log ports.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type signupRequest struct {
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signupResponse struct {
	UserID string `json:"userId"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Signup(c.Request().Context(), &model.SignupDTO{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, signupResponse{UserID: user.ID})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
