package errors

import (
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryApproved          ErrorCategory = "approved"
	CategoryDeclined          ErrorCategory = "declined"
	CategoryInsufficientFunds ErrorCategory = "insufficient_funds"
	CategoryInvalidCard       ErrorCategory = "invalid_card"
	CategoryExpiredCard       ErrorCategory = "expired_card"
	CategoryFraud             ErrorCategory = "fraud"
	CategoryFraudReview       ErrorCategory = "fraud_review"
	CategorySystemError       ErrorCategory = "system_error"
	CategoryNetworkError      ErrorCategory = "network_error"
	CategoryInvalidRequest    ErrorCategory = "invalid_request"
	CategoryProtocolError     ErrorCategory = "protocol_error"
)

// PaymentError represents a gateway-reported payment error with detailed context
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Err            error
	Details        map[string]interface{}
}

func (e *PaymentError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Code, e.Message, e.GatewayMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory, retriable bool) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// NewNetworkError wraps a transport failure as a network-category error.
// IsRetriable signals that the failure is transient rather than terminal;
// whether and how to resend remains a caller decision.
func NewNetworkError(message string, err error) *PaymentError {
	return &PaymentError{
		Code:           "network_error",
		Message:        message,
		GatewayMessage: err.Error(),
		Category:       CategoryNetworkError,
		IsRetriable:    true,
		Err:            err,
		Details:        make(map[string]interface{}),
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ProtocolError represents a fatal wire-protocol failure: a digest mismatch,
// unparseable XML, or a missing required envelope node. No financial field of
// the offending message can be trusted, so these are never retried
// automatically.
type ProtocolError struct {
	Reason  string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error (%s): %s", e.Reason, e.Message)
}

// NewProtocolError creates a new protocol error
func NewProtocolError(reason, message string) *ProtocolError {
	return &ProtocolError{
		Reason:  reason,
		Message: message,
	}
}
