package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the remainder of the
	// enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
