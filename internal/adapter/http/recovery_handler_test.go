package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	loanDomain "smart-loan-recovery/internal/domain/loan"
	"smart-loan-recovery/internal/testutil/loanmock"
	recoveryuc "smart-loan-recovery/internal/usecase/recovery"

	"gorm.io/gorm"
)

func recoveryHandlerWithLoan(status loanDomain.Status) *RecoveryHandler {
	return NewRecoveryHandler(recoveryuc.NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return &loanDomain.Loan{LoanID: loanID, Status: status}, nil
		},
	}))
}

func TestRecommend_OverdueLoan(t *testing.T) {
	e := newEchoWithValidator()
	h := recoveryHandlerWithLoan(loanDomain.StatusOverdue)

	req := httptest.NewRequest(stdhttp.MethodPost, "/recommend/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("a", 32))

	if err := h.Recommend(c); err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got recoveryuc.RecommendationDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.RiskScore != 0.8 || got.RecommendedAction != recoveryuc.ActionEscalateToCollection {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestRecommend_MissedPaymentsParam(t *testing.T) {
	e := newEchoWithValidator()
	h := recoveryHandlerWithLoan(loanDomain.StatusActive)

	req := httptest.NewRequest(stdhttp.MethodPost, "/recommend/x?missed_payments=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("a", 32))

	if err := h.Recommend(c); err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	var got recoveryuc.RecommendationDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	// low score, but the history branch escalates on its own
	if got.RiskScore != 0.2 || got.RecommendedAction != recoveryuc.ActionEscalateToCollection {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestRecommend_BadMissedPaymentsParam(t *testing.T) {
	e := newEchoWithValidator()
	h := recoveryHandlerWithLoan(loanDomain.StatusActive)

	req := httptest.NewRequest(stdhttp.MethodPost, "/recommend/x?missed_payments=lots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("a", 32))

	if err := h.Recommend(c); err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommend_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := NewRecoveryHandler(recoveryuc.NewUsecase(&loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}))

	req := httptest.NewRequest(stdhttp.MethodPost, "/recommend/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("a", 32))

	if err := h.Recommend(c); err != nil {
		t.Fatalf("Recommend error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
