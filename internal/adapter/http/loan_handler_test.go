package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appmw "smart-loan-recovery/internal/adapter/middleware"
	loanDomain "smart-loan-recovery/internal/domain/loan"
	"smart-loan-recovery/internal/domain/uow"
	userDomain "smart-loan-recovery/internal/domain/user"
	"smart-loan-recovery/internal/testutil/loanmock"
	"smart-loan-recovery/internal/testutil/uowmock"
	"smart-loan-recovery/internal/testutil/usermock"
	loanuc "smart-loan-recovery/internal/usecase/loan"
	useruc "smart-loan-recovery/internal/usecase/user"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

const (
	lenderID   = "11111111111111111111111111111111"
	borrowerID = "22222222222222222222222222222222"
)

// usersWithRoles resolves the two fixed test actors.
func usersWithRoles() *useruc.Usecase {
	return useruc.NewUsecase(&usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*userDomain.User, error) {
			switch userID {
			case lenderID:
				return &userDomain.User{UserID: lenderID, Name: "Bob", Role: userDomain.RoleLender}, nil
			case borrowerID:
				return &userDomain.User{UserID: borrowerID, Name: "Alice", Role: userDomain.RoleBorrower}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	})
}

func newLoanContext(t *testing.T, e *echo.Echo, method, path string, body *bytes.Reader, actor string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != "" {
		c.Set(appmw.CtxUserID, actor)
	}
	return c, rec
}

// -------- create --------

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{}
	h := NewLoanHandler(loanuc.NewUsecase(repo, uowmock.New()), usersWithRoles())

	body := mustJSON(map[string]any{
		"borrower_id":     borrowerID,
		"lender_id":       lenderID,
		"principal":       10000,
		"interest_rate":   5.5,
		"duration_months": 12,
	})
	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/loans", body, lenderID)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var got loanuc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.BorrowerID != borrowerID || got.Principal != 10000 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if len(got.Schedule) != 12 {
		t.Fatalf("schedule length = %d, want 12", len(got.Schedule))
	}
	if got.Status != string(loanDomain.StatusActive) {
		t.Fatalf("status = %s, want active", got.Status)
	}
}

func TestCreateLoan_ForbiddenForBorrower(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(loanuc.NewUsecase(&loanmock.Repo{}, uowmock.New()), usersWithRoles())

	body := mustJSON(map[string]any{
		"borrower_id":     borrowerID,
		"lender_id":       lenderID,
		"principal":       10000,
		"duration_months": 12,
	})
	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/loans", body, borrowerID)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateLoan_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(loanuc.NewUsecase(&loanmock.Repo{}, uowmock.New()), usersWithRoles())

	body := mustJSON(map[string]any{
		"borrower_id":     "NOT_HEX_32",
		"lender_id":       lenderID,
		"principal":       100.001,
		"duration_months": 0,
	})
	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/loans", body, lenderID)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if er.Error != "validation failed" {
		t.Fatalf("error = %q, want %q", er.Error, "validation failed")
	}
	if !containsFieldMsg(er.Details, "BorrowerID", "32-char lowercase hex") {
		t.Fatalf("missing hex32 detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Principal", "2 decimal places") {
		t.Fatalf("missing dec2 detail: %+v", er.Details)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(loanuc.NewUsecase(&loanmock.Repo{}, uowmock.New()), usersWithRoles())

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"borrower_id":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(appmw.CtxUserID, lenderID)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// -------- reads --------

func TestGetLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := NewLoanHandler(loanuc.NewUsecase(repo, uowmock.New()), usersWithRoles())

	c, rec := newLoanContext(t, e, stdhttp.MethodGet, "/loans/x", nil, "")
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("c", 32))

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// -------- repayment --------

func TestRecordRepayment_ResolvesToActive(t *testing.T) {
	e := newEchoWithValidator()
	lid := strings.Repeat("d", 32)
	stored := &loanDomain.Loan{
		LoanID:     lid,
		BorrowerID: borrowerID,
		LenderID:   lenderID,
		Schedule: loanDomain.Schedule{
			time.Now().UTC().AddDate(0, 0, -10),
			time.Now().UTC().AddDate(0, 0, 50),
		},
		Status: loanDomain.StatusOverdue,
	}
	repo := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			if loanID != lid {
				return nil, gorm.ErrRecordNotFound
			}
			return stored, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: repo})
	h := NewLoanHandler(loanuc.NewUsecase(repo, tx), usersWithRoles())

	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/loans/x/repayments", nil, borrowerID)
	c.SetParamNames("loan_id")
	c.SetParamValues(lid)

	if err := h.RecordRepayment(c); err != nil {
		t.Fatalf("RecordRepayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got loanuc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(loanDomain.StatusActive) {
		t.Fatalf("status = %s, want active", got.Status)
	}
	if got.LastRepaymentDate == nil {
		t.Fatal("last_repayment_date not set")
	}
}

// -------- overdue sweep --------

func TestFlagOverdues_LenderOnly(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(loanuc.NewUsecase(&loanmock.Repo{}, uowmock.New()), usersWithRoles())

	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/overdues", nil, borrowerID)
	if err := h.FlagOverdues(c); err != nil {
		t.Fatalf("FlagOverdues error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestFlagOverdues_ReturnsCount(t *testing.T) {
	e := newEchoWithValidator()
	lid := strings.Repeat("e", 32)
	stored := &loanDomain.Loan{
		LoanID:   lid,
		Schedule: loanDomain.Schedule{time.Now().UTC().AddDate(0, 0, -5)},
		Status:   loanDomain.StatusActive,
	}
	repo := &loanmock.Repo{
		ListFn: func(ctx context.Context) ([]loanDomain.Loan, error) {
			return []loanDomain.Loan{*stored}, nil
		},
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return stored, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: repo})
	h := NewLoanHandler(loanuc.NewUsecase(repo, tx), usersWithRoles())

	c, rec := newLoanContext(t, e, stdhttp.MethodPost, "/overdues", nil, lenderID)
	if err := h.FlagOverdues(c); err != nil {
		t.Fatalf("FlagOverdues error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got["flagged_count"] != 1 {
		t.Fatalf("flagged_count = %d, want 1", got["flagged_count"])
	}
}
