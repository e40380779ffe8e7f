package domain

// MismatchReason explains why a ledger transaction does not satisfy an intent.
type MismatchReason string

const (
	ReasonTransactionFailed MismatchReason = "transaction_failed"
	ReasonRecipientMissing  MismatchReason = "recipient_missing"
	ReasonAmountMismatch    MismatchReason = "amount_mismatch"
	ReasonTokenMismatch     MismatchReason = "token_mismatch"
	ReasonReferenceMissing  MismatchReason = "reference_missing"

	// Identity claim failures.
	ReasonSubjectMissing  MismatchReason = "subject_missing"
	ReasonAuthTimeMissing MismatchReason = "auth_time_missing"
	ReasonIssuedAtMissing MismatchReason = "issued_at_missing"
)

// Verdict is the outcome of a pure validation predicate.
type Verdict struct {
	Valid  bool
	Reason MismatchReason
	Detail string
}

// Valid is the passing verdict.
func Valid() Verdict {
	return Verdict{Valid: true}
}

// Invalid builds a failing verdict.
func Invalid(reason MismatchReason, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}
