package scans

import "fmt"

// RejectionReason classifies why an admission attempt did not succeed.
type RejectionReason string

const (
	ReasonNotFound      RejectionReason = "not_found"
	ReasonInvalidStatus RejectionReason = "invalid_status"
	ReasonAlreadyUsed   RejectionReason = "already_used"
	ReasonDuplicate     RejectionReason = "duplicate"
	ReasonConflict      RejectionReason = "conflict"
	ReasonTransient     RejectionReason = "transient_error"
)

// String returns the string representation of RejectionReason
func (r RejectionReason) String() string {
	return string(r)
}

// IsRetryable reports whether an attempt rejected for this reason may be
// submitted again. Only transient failures qualify; every other reason is
// terminal and must never be auto-retried.
func (r RejectionReason) IsRetryable() bool {
	return r == ReasonTransient
}

// QueuedStatus is the lifecycle state of a locally captured scan.
type QueuedStatus string

const (
	QueuedPending QueuedStatus = "PENDING"
	QueuedSynced  QueuedStatus = "SYNCED"
	QueuedFailed  QueuedStatus = "FAILED"
)

// IsValid checks if the queued scan status is valid
func (s QueuedStatus) IsValid() bool {
	switch s {
	case QueuedPending, QueuedSynced, QueuedFailed:
		return true
	}
	return false
}

// String returns the string representation of QueuedStatus
func (s QueuedStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed.
func (s QueuedStatus) IsTerminal() bool {
	return s == QueuedSynced || s == QueuedFailed
}

// Method identifies how the credential was captured at the gate.
type Method string

const (
	MethodQR     Method = "QR"
	MethodNFC    Method = "NFC"
	MethodManual Method = "MANUAL"
)

// IsValid checks if the scan method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodQR, MethodNFC, MethodManual:
		return true
	}
	return false
}

// OperationKind is the tagged variant behind the wire-level operation type.
// Matching on it is exhaustive, so an unhandled operation is a compile-time
// problem rather than a silently ignored string.
type OperationKind int

const (
	// OperationAccess is a gate admission attempt.
	OperationAccess OperationKind = iota
	// OperationPayment is an NFC wallet charge, handled by the payment
	// pipeline rather than the admission path.
	OperationPayment
)

// ParseOperationKind converts the wire value into its variant.
func ParseOperationKind(s string) (OperationKind, error) {
	switch s {
	case "", "access":
		return OperationAccess, nil
	case "payment":
		return OperationPayment, nil
	default:
		return 0, fmt.Errorf("unknown operation type %q", s)
	}
}

// String returns the wire representation of OperationKind
func (k OperationKind) String() string {
	switch k {
	case OperationAccess:
		return "access"
	case OperationPayment:
		return "payment"
	}
	return "unknown"
}
