package http

import (
	"net/http"

	appmw "smart-loan-recovery/internal/adapter/middleware"
	loanuc "smart-loan-recovery/internal/usecase/loan"
	useruc "smart-loan-recovery/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	loans *loanuc.Usecase
	users *useruc.Usecase
}

func NewLoanHandler(loans *loanuc.Usecase, users *useruc.Usecase) *LoanHandler {
	return &LoanHandler{loans: loans, users: users}
}

type createLoanReq struct {
	BorrowerID     string  `json:"borrower_id"     validate:"required,hex32"`
	LenderID       string  `json:"lender_id"       validate:"required,hex32"`
	Principal      float64 `json:"principal"       validate:"required,gt=0,dec2"`
	InterestRate   float64 `json:"interest_rate"   validate:"gte=0"`
	DurationMonths int     `json:"duration_months" validate:"required,gte=1"`
}

// requireLender loads the session actor and checks the capability.
// Returns nil and writes the response when the check fails.
func (h *LoanHandler) requireLender(c echo.Context) (*useruc.UserDTO, bool) {
	uid, _ := c.Get(appmw.CtxUserID).(string)
	actor, err := h.users.Get(c.Request().Context(), uid)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return nil, false
	}
	if !h.users.CanCreateLoan(actor) {
		_ = c.JSON(http.StatusForbidden, ErrorResponse{Error: "insufficient permissions"})
		return nil, false
	}
	return actor, true
}

func (h *LoanHandler) Create(c echo.Context) error {
	if _, ok := h.requireLender(c); !ok {
		return nil
	}

	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.loans.Create(c.Request().Context(), loanuc.CreateLoanInput{
		BorrowerID:     req.BorrowerID,
		LenderID:       req.LenderID,
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.loans.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	dtos, err := h.loans.List(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) RecordRepayment(c echo.Context) error {
	dto, err := h.loans.RecordRepayment(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

// FlagOverdues is the cron-style sweep endpoint; lender-only, like
// creation.
func (h *LoanHandler) FlagOverdues(c echo.Context) error {
	if _, ok := h.requireLender(c); !ok {
		return nil
	}
	n, err := h.loans.FlagOverdues(c.Request().Context())
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{"flagged_count": n})
}
