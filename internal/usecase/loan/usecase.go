package loan

import (
	"context"
	"errors"
	"time"

	"smart-loan-recovery/internal/domain/loan"
	"smart-loan-recovery/internal/domain/uow"
	"smart-loan-recovery/pkg/id"

	"gorm.io/gorm"
)

// daysPerInstallment is a fixed 30-day month approximation, not
// calendar-month arithmetic.
const daysPerInstallment = 30

type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

// Create issues a loan with one installment per month, due
// disbursement+30k days out. Party ids are not checked for existence;
// that is the caller's concern.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if len(in.BorrowerID) != 32 || len(in.LenderID) != 32 {
		return nil, loan.ErrInvalidParty
	}
	if in.DurationMonths < 1 {
		return nil, loan.ErrInvalidDuration
	}

	now := time.Now().UTC()
	schedule := make(loan.Schedule, 0, in.DurationMonths)
	for k := 1; k <= in.DurationMonths; k++ {
		schedule = append(schedule, now.AddDate(0, 0, daysPerInstallment*k))
	}

	l := &loan.Loan{
		LoanID:           id.NewID32(),
		BorrowerID:       in.BorrowerID,
		LenderID:         in.LenderID,
		Principal:        in.Principal,
		InterestRate:     in.InterestRate,
		DisbursementDate: now,
		StartDate:        now,
		Schedule:         schedule,
		Status:           loan.StatusActive,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// RecordRepayment stamps the repayment time and resolves status: repaid
// once the final installment date has passed, otherwise back to active —
// any repayment clears overdue standing while the schedule still runs.
func (u *Usecase) RecordRepayment(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		now := time.Now().UTC()
		l.LastRepaymentDate = &now
		if len(l.Schedule) > 0 && now.After(l.FinalDue()) {
			l.Status = loan.StatusRepaid
		} else {
			l.Status = loan.StatusActive
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// FlagOverdues is the caller-driven batch sweep: every active loan whose
// first installment date has passed turns overdue. Each loan is
// re-checked under its own row lock, so concurrent repayments are not
// clobbered and repeat sweeps flag nothing new.
func (u *Usecase) FlagOverdues(ctx context.Context) (int, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	flagged := 0
	for i := range loans {
		if !overdueCandidate(&loans[i], now) {
			continue
		}
		err := u.uow.WithinLoanTx(ctx, loans[i].LoanID, func(r uow.Repos, l *loan.Loan) error {
			if !overdueCandidate(l, now) {
				return nil
			}
			l.Status = loan.StatusOverdue
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			flagged++
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return flagged, err
		}
	}
	return flagged, nil
}

func overdueCandidate(l *loan.Loan, now time.Time) bool {
	return l.Status == loan.StatusActive && len(l.Schedule) > 0 && now.After(l.FirstDue())
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		BorrowerID:        l.BorrowerID,
		LenderID:          l.LenderID,
		Principal:         l.Principal,
		InterestRate:      l.InterestRate,
		DisbursementDate:  l.DisbursementDate,
		StartDate:         l.StartDate,
		Schedule:          l.Schedule,
		LastRepaymentDate: l.LastRepaymentDate,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt,
	}
}
