package loan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidDuration = errors.New("duration must be at least one month")
	ErrInvalidParty    = errors.New("party id must be 32-char hex")
	ErrUnknownStatus   = errors.New("unknown loan status")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusOverdue   Status = "overdue"
	StatusDefaulted Status = "defaulted"
	StatusRepaid    Status = "repaid"
)

// ParseStatus maps the storage tag back to a Status; unknown tags
// surface ErrUnknownStatus instead of leaking a bogus value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusOverdue, StatusDefaulted, StatusRepaid:
		return Status(s), nil
	}
	return "", ErrUnknownStatus
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Schedule is the ordered list of installment due dates, persisted as a
// JSON array of RFC3339 timestamps in a TEXT column.
type Schedule []time.Time

func (s Schedule) Value() (driver.Value, error) {
	b, err := json.Marshal([]time.Time(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Schedule) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("schedule: cannot scan %T", src)
	}
	return json.Unmarshal(b, (*[]time.Time)(s))
}

type Loan struct {
	// Internal numeric PK
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	LoanID     string `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID string `gorm:"column:borrower_id;size:32;index:idx_loans_borrower" json:"borrower_id"`
	LenderID   string `gorm:"column:lender_id;size:32;index:idx_loans_lender" json:"lender_id"`
	// Carried as descriptive data; the tracker never computes with them.
	Principal    float64 `gorm:"column:principal" json:"principal"`
	InterestRate float64 `gorm:"column:interest_rate" json:"interest_rate"`

	DisbursementDate  time.Time  `gorm:"column:disbursement_date" json:"disbursement_date"`
	StartDate         time.Time  `gorm:"column:start_date" json:"start_date"`
	Schedule          Schedule   `gorm:"column:repayment_schedule;type:text" json:"repayment_schedule"`
	LastRepaymentDate *time.Time `gorm:"column:last_repayment_date" json:"last_repayment_date,omitempty"`
	Status            Status     `gorm:"column:status;size:16;not null" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// FirstDue / FinalDue bound the schedule. Overdue detection keys on the
// first installment, repayment resolution on the last one.
func (l *Loan) FirstDue() time.Time { return l.Schedule[0] }
func (l *Loan) FinalDue() time.Time { return l.Schedule[len(l.Schedule)-1] }
