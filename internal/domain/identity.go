package domain

import "time"

// AccountStatus is the lifecycle state of an account as reported by the
// identity system.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

// IdentityProjectionRow is the local read model of one account. It is
// upserted only by the event consumer; LastEventSeq makes the apply
// idempotent under at-least-once delivery.
type IdentityProjectionRow struct {
	AccountID    string
	Status       AccountStatus
	Profile      map[string]any
	LastEventSeq int64
	UpdatedAt    time.Time
}

// WordsUsable reports whether custom dictionary words of this account should
// be honored during analysis. Unknown accounts (no row yet) are handled by
// the caller: their words are honored until identity state says otherwise.
func (r IdentityProjectionRow) WordsUsable() bool {
	return r.Status == AccountActive || r.Status == AccountSuspended
}

// IdentityEvent is one consumed identity-change event.
// Seq increases monotonically per account; the transport is assumed to
// preserve per-account order on first delivery.
type IdentityEvent struct {
	EventID   string
	AccountID string
	Status    AccountStatus
	Profile   map[string]any
	Seq       int64
}

// Validate checks structural validity of a consumed event.
func (e IdentityEvent) Validate() error {
	var errs []FieldError
	if e.AccountID == "" {
		errs = append(errs, FieldError{Field: "accountId", Message: "required"})
	}
	if e.Seq <= 0 {
		errs = append(errs, FieldError{Field: "seq", Message: "must be positive"})
	}
	switch e.Status {
	case AccountActive, AccountSuspended, AccountDeleted:
	default:
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
