package loan

import "time"

type CreateLoanInput struct {
	BorrowerID     string  `json:"borrower_id"`
	LenderID       string  `json:"lender_id"`
	Principal      float64 `json:"principal"`
	InterestRate   float64 `json:"interest_rate"`
	DurationMonths int     `json:"duration_months"`
}

type LoanDTO struct {
	LoanID            string      `json:"loan_id"`
	BorrowerID        string      `json:"borrower_id"`
	LenderID          string      `json:"lender_id"`
	Principal         float64     `json:"principal"`
	InterestRate      float64     `json:"interest_rate"`
	DisbursementDate  time.Time   `json:"disbursement_date"`
	StartDate         time.Time   `json:"start_date"`
	Schedule          []time.Time `json:"repayment_schedule"`
	LastRepaymentDate *time.Time  `json:"last_repayment_date,omitempty"`
	Status            string      `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
}
