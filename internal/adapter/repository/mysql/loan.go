package mysql

import (
	"context"

	loanDomain "smart-loan-recovery/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if !out.Status.Valid() {
		return nil, loanDomain.ErrUnknownStatus
	}
	return &out, nil
}

// GetByLoanIDForUpdate locks the row for the rest of the transaction.
// sqlite has no FOR UPDATE; its single-writer model covers the same race.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	res := q.Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if !out.Status.Valid() {
		return nil, loanDomain.ErrUnknownStatus
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		if !out[i].Status.Valid() {
			return nil, loanDomain.ErrUnknownStatus
		}
	}
	return out, nil
}
