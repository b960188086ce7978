package modirum

import (
	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// ApprovalCode is the only status code that makes a transaction successful.
// Every other recognized code is a business decline, not an exception.
const ApprovalCode = "00"

// errorCodes maps gateway error codes (ErrorMessage/ErrorCode and per-action
// ErrorCode values) to normalized messages. These cover authentication
// failures, malformed messages and unsupported operations reported by the
// gateway itself, as opposed to issuer decisions.
var errorCodes = map[string]string{
	"M1": "Invalid merchant id",
	"M2": "Merchant not permitted to perform this operation",
	"M3": "Invalid merchant authentication",
	"M4": "Merchant account suspended",

	"I1": "Invalid message format",
	"I2": "Unknown protocol version",
	"I3": "Malformed XML document",
	"I4": "Missing required element",
	"I5": "Invalid element value",
	"I6": "Invalid message digest",

	"A1": "Authentication failed",
	"A2": "Invalid shared secret",

	"O1": "Unsupported operation",
	"O2": "Operation not permitted in current transaction state",
	"O3": "Original transaction not found",
	"O4": "Transaction already captured",
	"O5": "Transaction already cancelled",
	"O6": "Refund amount exceeds captured amount",

	"S1": "Internal system error",
	"S2": "Gateway temporarily unavailable",

	"D1": "Duplicate message id",
}

// statusCodes maps issuer-style response codes to normalized descriptions.
// The table follows the ISO 8583 action-code space plus the alphanumeric
// extensions the gateway relays verbatim from the card networks.
var statusCodes = map[string]string{
	"00": "Approved or completed successfully",
	"01": "Refer to card issuer",
	"02": "Refer to card issuer, special conditions",
	"03": "Invalid merchant",
	"04": "Pick up card",
	"05": "Do not honor",
	"06": "Error",
	"07": "Pick up card, special conditions",
	"08": "Honor with identification",
	"09": "Request in progress",
	"10": "Approved for partial amount",
	"11": "Approved (VIP)",
	"12": "Invalid transaction",
	"13": "Invalid amount",
	"14": "Invalid card number",
	"15": "No such issuer",
	"16": "Approved, update track 3",
	"17": "Customer cancellation",
	"18": "Customer dispute",
	"19": "Re-enter transaction",
	"20": "Invalid response",
	"21": "No action taken",
	"22": "Suspected malfunction",
	"23": "Unacceptable transaction fee",
	"24": "File update not supported by receiver",
	"25": "Unable to locate record on file",
	"26": "Duplicate file update record",
	"27": "File update field edit error",
	"28": "File update file locked out",
	"29": "File update not successful, contact acquirer",
	"30": "Format error",
	"31": "Bank not supported by switch",
	"32": "Completed partially",
	"33": "Expired card, pick up",
	"34": "Suspected fraud, pick up",
	"35": "Card acceptor contact acquirer, pick up",
	"36": "Restricted card, pick up",
	"37": "Card acceptor call acquirer security, pick up",
	"38": "Allowable PIN tries exceeded, pick up",
	"39": "No credit account",
	"40": "Requested function not supported",
	"41": "Lost card, pick up",
	"42": "No universal account",
	"43": "Stolen card, pick up",
	"44": "No investment account",
	"51": "Insufficient funds",
	"52": "No checking account",
	"53": "No savings account",
	"54": "Expired card",
	"55": "Incorrect PIN",
	"56": "No card record",
	"57": "Transaction not permitted to cardholder",
	"58": "Transaction not permitted to terminal",
	"59": "Suspected fraud",
	"60": "Card acceptor contact acquirer",
	"61": "Exceeds withdrawal amount limit",
	"62": "Restricted card",
	"63": "Security violation",
	"64": "Original amount incorrect",
	"65": "Exceeds withdrawal frequency limit",
	"66": "Card acceptor call acquirer security",
	"67": "Hard capture, pick up card at ATM",
	"68": "Response received too late",
	"70": "Contact card issuer",
	"71": "PIN not changed",
	"75": "Allowable number of PIN tries exceeded",
	"76": "Unable to locate previous message",
	"77": "Repeat data inconsistent with previous message",
	"78": "Blocked, first use",
	"79": "Already reversed",
	"80": "Invalid date",
	"81": "Cryptographic error found in PIN",
	"82": "Negative CVV results",
	"83": "Unable to verify PIN",
	"84": "Invalid authorization life cycle",
	"85": "No reason to decline",
	"86": "Cannot verify PIN",
	"87": "Purchase amount only, no cash back allowed",
	"88": "Cryptographic failure",
	"89": "Unacceptable PIN, transaction declined, retry",
	"90": "Cutoff is in process",
	"91": "Issuer unavailable or switch inoperative",
	"92": "Destination cannot be found for routing",
	"93": "Transaction cannot be completed, violation of law",
	"94": "Duplicate transmission",
	"95": "Reconcile error",
	"96": "System malfunction",
	"97": "Reconciliation totals reset",
	"98": "MAC error",
	"99": "Reserved for national use",

	"1A": "Additional customer authentication required",
	"6P": "Verification data failed",
	"B1": "Surcharge amount not permitted",
	"B2": "Surcharge not supported",
	"N0": "Force STIP",
	"N3": "Cash service not available",
	"N4": "Cash back request exceeds issuer limit",
	"N7": "Decline for CVV2 failure",
	"P2": "Invalid biller information",
	"P5": "PIN change or unblock request declined",
	"P6": "Unsafe PIN",
	"Q1": "Card authentication failed",
	"R0": "Stop payment order",
	"R1": "Revocation of authorization order",
	"R3": "Revocation of all authorizations order",
	"Z3": "Unable to go online",
}

// StatusMessage resolves an issuer status code to its normalized description.
// Unmapped codes degrade to the raw gateway-supplied fallback; the lookup is
// total and never fails.
func StatusMessage(code, fallback string) string {
	if message, ok := statusCodes[code]; ok {
		return message
	}
	return fallback
}

// ErrorCodeMessage resolves a gateway error code to its normalized message,
// falling back to the raw description for unmapped codes
func ErrorCodeMessage(code, fallback string) string {
	if message, ok := errorCodes[code]; ok {
		return message
	}
	return fallback
}

// IsApproved reports whether a resolved status code means success
func IsApproved(code string) bool {
	return code == ApprovalCode
}

// ErrorCodeCategory classifies a gateway error code by its family letter so
// callers can branch on category instead of individual codes. Unknown codes
// degrade to the system-error category.
func ErrorCodeCategory(code string) pkgerrors.ErrorCategory {
	// The gateway rejected our digest; same trust failure as a bad inbound one
	if code == "I6" {
		return pkgerrors.CategoryProtocolError
	}

	if code == "" {
		return pkgerrors.CategorySystemError
	}
	switch code[0] {
	case 'M', 'A', 'I', 'O', 'D':
		return pkgerrors.CategoryInvalidRequest
	default:
		return pkgerrors.CategorySystemError
	}
}

// statusCategories classifies the issuer codes that callers commonly branch
// on. Codes absent from this map are plain declines.
var statusCategories = map[string]pkgerrors.ErrorCategory{
	"00": pkgerrors.CategoryApproved,

	"51": pkgerrors.CategoryInsufficientFunds,
	"61": pkgerrors.CategoryInsufficientFunds,
	"65": pkgerrors.CategoryInsufficientFunds,

	"33": pkgerrors.CategoryExpiredCard,
	"54": pkgerrors.CategoryExpiredCard,

	"14": pkgerrors.CategoryInvalidCard,
	"15": pkgerrors.CategoryInvalidCard,
	"56": pkgerrors.CategoryInvalidCard,
	"82": pkgerrors.CategoryInvalidCard,
	"6P": pkgerrors.CategoryInvalidCard,
	"N7": pkgerrors.CategoryInvalidCard,
	"Q1": pkgerrors.CategoryInvalidCard,

	"04": pkgerrors.CategoryFraud,
	"07": pkgerrors.CategoryFraud,
	"35": pkgerrors.CategoryFraud,
	"36": pkgerrors.CategoryFraud,
	"37": pkgerrors.CategoryFraud,
	"41": pkgerrors.CategoryFraud,
	"43": pkgerrors.CategoryFraud,
	"63": pkgerrors.CategoryFraud,

	"34": pkgerrors.CategoryFraudReview,
	"59": pkgerrors.CategoryFraudReview,

	"06": pkgerrors.CategorySystemError,
	"19": pkgerrors.CategorySystemError,
	"22": pkgerrors.CategorySystemError,
	"68": pkgerrors.CategorySystemError,
	"90": pkgerrors.CategorySystemError,
	"91": pkgerrors.CategorySystemError,
	"92": pkgerrors.CategorySystemError,
	"96": pkgerrors.CategorySystemError,
	"Z3": pkgerrors.CategorySystemError,
}

// StatusCategory classifies a resolved status code. The lookup is total:
// unmapped codes, including the empty code of an unmatched free-text
// description, fall back to a plain decline.
func StatusCategory(code string) pkgerrors.ErrorCategory {
	if category, ok := statusCategories[code]; ok {
		return category
	}
	return pkgerrors.CategoryDeclined
}
