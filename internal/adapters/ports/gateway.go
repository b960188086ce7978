package ports

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// Action identifies one of the protocol's supported operation types.
// The value is the element-name prefix used on the wire
// (<AuthorisationRequest>, <AuthorisationResponse>, ...).
type Action string

const (
	ActionAuthorisation Action = "Authorisation"
	ActionSale          Action = "Sale"
	ActionCapture       Action = "Capture"
	ActionCancel        Action = "Cancel"
	ActionRefund        Action = "Refund"
	ActionRecurring     Action = "RecurringOperation"
	ActionStatus        Action = "Status"
)

// RequestTag returns the envelope element name carrying this action's request
func (a Action) RequestTag() string {
	return string(a) + "Request"
}

// ResponseTag returns the envelope element name expected in the reply
func (a Action) ResponseTag() string {
	return string(a) + "Response"
}

// Invoice describes the order a transaction settles
type Invoice struct {
	OrderID      string
	Description  string
	Amount       decimal.Decimal // formatted on the wire as a 2-decimal fixed-point string
	Currency     string          // ISO 4217 alphabetic code
	Installments int             // 0 = no installment plan
}

// Card carries full card data for Authorisation/Sale requests
type Card struct {
	PAN        string
	ExpMonth   int // 1-12
	ExpYear    int // four-digit year
	CVV        string
	HolderName string
}

// ThreeDSecure carries 3-D Secure authentication evidence. Absence is valid
// (non-3DS flow); the block is attached only when the caller supplies it.
type ThreeDSecure struct {
	EnrollmentStatus     string
	AuthenticationStatus string
	CAVV                 string
	XID                  string
	ECI                  string
}

// Outcome is the uniform result record returned by every gateway operation
type Outcome struct {
	// Success is true iff the gateway resolved the transaction to the
	// approval code ("00"). Business declines return Success=false with a
	// human-readable Message, never an error.
	Success bool

	// Message is the normalized human-readable result
	Message string

	// Category classifies the outcome (approved, declined, insufficient
	// funds, fraud, ...) for callers that branch on error families instead
	// of raw vendor codes
	Category pkgerrors.ErrorCategory

	// AuthorizationID identifies the transaction for follow-on operations.
	// For Authorisation/Sale it has the form "<paymethod>;<txid>" and can be
	// passed verbatim to Capture/Void/Credit/Recurring.
	AuthorizationID string

	// RawFields echoes the decoded reply fields for auditing
	RawFields map[string]string
}

// Gateway defines the uniform charge/credit/store surface of the adapter.
// Implementations are safe for concurrent use: every call builds its own
// envelope and message id, and no state is shared across calls beyond the
// immutable merchant credentials.
type Gateway interface {
	// Authorize reserves funds without capturing them
	Authorize(ctx context.Context, invoice Invoice, card Card, tds *ThreeDSecure) (*Outcome, error)

	// Purchase authorizes and captures in one exchange (Sale)
	Purchase(ctx context.Context, invoice Invoice, card Card, tds *ThreeDSecure) (*Outcome, error)

	// Capture settles a prior authorization. The authorization argument is
	// the AuthorizationID returned by Authorize.
	Capture(ctx context.Context, invoice Invoice, authorization string) (*Outcome, error)

	// Void cancels a prior authorization before settlement
	Void(ctx context.Context, invoice Invoice, authorization string) (*Outcome, error)

	// Credit refunds a settled transaction
	Credit(ctx context.Context, invoice Invoice, authorization string) (*Outcome, error)

	// Recurring charges a follow-on installment against an initial transaction
	Recurring(ctx context.Context, invoice Invoice, authorization string) (*Outcome, error)

	// Status queries the current state of a prior transaction by TxId
	Status(ctx context.Context, txID string) (*Outcome, error)
}
