package models

import "time"

// TransactionStatus is the payment attempt state. Values are kept in
// Spanish to match the gateway callback contract.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pendiente"
	TransactionPaid      TransactionStatus = "pagado"
	TransactionFailed    TransactionStatus = "fallido"
	TransactionCancelled TransactionStatus = "cancelado"
)

// Valid reports whether the status is a known final or pending state.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionPaid, TransactionFailed, TransactionCancelled:
		return true
	}
	return false
}

// Final reports whether the status terminates the pending state.
func (s TransactionStatus) Final() bool {
	return s == TransactionPaid || s == TransactionFailed || s == TransactionCancelled
}

// Transaction records a payment attempt keyed by the externally issued
// order reference. Rows are never deleted.
type Transaction struct {
	ID        string            `db:"id" json:"id"`
	Reference string            `db:"reference" json:"reference"`
	UserID    string            `db:"user_id" json:"user_id"`
	CourseID  string            `db:"course_id" json:"course_id"`
	Amount    float64           `db:"amount" json:"amount"`
	Currency  string            `db:"currency" json:"currency"`
	Status    TransactionStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}
