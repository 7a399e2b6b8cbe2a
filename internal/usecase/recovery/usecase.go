package recovery

import (
	"context"
	"errors"

	"smart-loan-recovery/internal/domain/loan"

	"gorm.io/gorm"
)

type Usecase struct{ repo loan.Repository }

func NewUsecase(r loan.Repository) *Usecase { return &Usecase{repo: r} }

type RecommendationDTO struct {
	LoanID            string  `json:"loan_id"`
	RiskScore         float64 `json:"risk_score"`
	RecommendedAction Action  `json:"recommended_action"`
}

// Recommend reads the loan's current persisted state and maps it to a
// recovery action; it never mutates anything.
func (u *Usecase) Recommend(ctx context.Context, loanID string, missedPayments int) (*RecommendationDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}

	risk := RiskScore(l)
	return &RecommendationDTO{
		LoanID:            l.LoanID,
		RiskScore:         risk,
		RecommendedAction: RecommendAction(risk, missedPayments),
	}, nil
}
