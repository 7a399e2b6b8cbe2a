package http

import (
	"net/http"
	"strconv"

	recoveryuc "smart-loan-recovery/internal/usecase/recovery"

	"github.com/labstack/echo/v4"
)

type RecoveryHandler struct{ uc *recoveryuc.Usecase }

func NewRecoveryHandler(uc *recoveryuc.Usecase) *RecoveryHandler {
	return &RecoveryHandler{uc: uc}
}

// Recommend returns the risk score and recovery action for a loan.
// missed_payments is an optional query param; no caller in the stack
// computes it from the schedule, so it defaults to 0.
func (h *RecoveryHandler) Recommend(c echo.Context) error {
	missed := 0
	if raw := c.QueryParam("missed_payments"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missed_payments must be a non-negative integer"})
		}
		missed = n
	}

	dto, err := h.uc.Recommend(c.Request().Context(), c.Param("loan_id"), missed)
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}
