package http

import (
	"net/http"

	useruc "smart-loan-recovery/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *useruc.Usecase }

func NewUserHandler(uc *useruc.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type registerUserReq struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=borrower lender"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Register(c.Request().Context(), useruc.RegisterInput{Name: req.Name, Role: req.Role})
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) List(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dtos)
}
