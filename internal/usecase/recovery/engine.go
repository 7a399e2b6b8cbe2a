package recovery

import "smart-loan-recovery/internal/domain/loan"

type Action string

const (
	ActionSendReminder         Action = "send_reminder"
	ActionRenegotiateTerms     Action = "renegotiate_terms"
	ActionEscalateToCollection Action = "escalate_to_collection"
)

// RiskScore is a two-point step function keyed on current status alone.
// It deliberately ignores amount, rate, elapsed time and payment history.
func RiskScore(l *loan.Loan) float64 {
	if l.Status == loan.StatusOverdue {
		return 0.8
	}
	return 0.2
}

// RecommendAction evaluates ordered guards, first match wins.
// missedPayments is supplied by the caller, not derived from the
// schedule.
func RecommendAction(riskScore float64, missedPayments int) Action {
	switch {
	case riskScore > 0.7 || missedPayments > 2:
		return ActionEscalateToCollection
	case riskScore > 0.4 || missedPayments > 0:
		return ActionRenegotiateTerms
	default:
		return ActionSendReminder
	}
}
