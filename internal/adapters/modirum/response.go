package modirum

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"

	"github.com/kevin07696/vpos-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// digestErrorCode is the synthetic error code for replies whose digest does
// not verify
const digestErrorCode = "500"

// responseCodePattern extracts the trailing status code from a free-text
// description of the form "<bank>, <network> response code <code>".
// This is the most fragile part of the integration: the gateway may change
// the text format without notice, so unmatched descriptions pass through raw.
var responseCodePattern = regexp.MustCompile(`^[^,]+, \S+ response code (\w+)$`)

// Response is the decoded reply record. It is constructed once per call from
// the parsed reply and never mutated afterwards.
type Response struct {
	ErrorCode    string // "0" when the gateway reported no error
	Code         string // resolved status/response code
	Message      string
	TxID         string
	PaymentRef   string
	Status       string
	RiskScore    string
	OrderID      string
	PaymentTotal string
}

// Success reports whether the resolved code is the approval code
func (r *Response) Success() bool {
	return IsApproved(r.Code)
}

type vposDocument struct {
	XMLName xml.Name     `xml:"VPOS"`
	Message replyMessage `xml:"Message"`
}

type replyMessage struct {
	MessageID    string      `xml:"messageId,attr"`
	ErrorMessage *errorNode  `xml:"ErrorMessage"`
	Authorised   *actionNode `xml:"AuthorisationResponse"`
	Sold         *actionNode `xml:"SaleResponse"`
	Captured     *actionNode `xml:"CaptureResponse"`
	Cancelled    *actionNode `xml:"CancelResponse"`
	Refunded     *actionNode `xml:"RefundResponse"`
	Recurred     *actionNode `xml:"RecurringOperationResponse"`
	Queried      *actionNode `xml:"StatusResponse"`
}

type errorNode struct {
	ErrorCode   string `xml:"ErrorCode"`
	Description string `xml:"Description"`
}

type actionNode struct {
	ErrorCode    string `xml:"ErrorCode"`
	Description  string `xml:"Description"`
	TxID         string `xml:"TxId"`
	PaymentRef   string `xml:"PaymentRef"`
	RiskScore    string `xml:"RiskScore"`
	Status       string `xml:"Status"`
	OrderID      string `xml:"OrderId"`
	PaymentTotal string `xml:"PaymentTotal"`
}

func (m *replyMessage) node(action ports.Action) *actionNode {
	switch action {
	case ports.ActionAuthorisation:
		return m.Authorised
	case ports.ActionSale:
		return m.Sold
	case ports.ActionCapture:
		return m.Captured
	case ports.ActionCancel:
		return m.Cancelled
	case ports.ActionRefund:
		return m.Refunded
	case ports.ActionRecurring:
		return m.Recurred
	case ports.ActionStatus:
		return m.Queried
	}
	return nil
}

// Parse decodes a raw reply body into a Response record, failing closed.
//
// The digest is verified before anything else: on mismatch a synthetic error
// record is returned and no other field of the reply is read. Structurally
// invalid bodies (missing Message node, unparseable XML, missing action
// response node) fail loudly with a protocol error, since none of their
// financial fields can be trusted.
func Parse(rawBody string, action ports.Action, secret string) (*Response, error) {
	if err := VerifyBody(rawBody, secret); err != nil {
		var protoErr *pkgerrors.ProtocolError
		if errors.As(err, &protoErr) && protoErr.Reason == "digest_mismatch" {
			return &Response{
				ErrorCode: digestErrorCode,
				Code:      digestErrorCode,
				Message:   "Invalid digest.",
			}, nil
		}
		return nil, err
	}

	var doc vposDocument
	if err := xml.Unmarshal([]byte(rawBody), &doc); err != nil {
		return nil, pkgerrors.NewProtocolError("malformed_xml", err.Error())
	}

	// Gateway-level error: the message carries an ErrorMessage node instead
	// of an action response
	if em := doc.Message.ErrorMessage; em != nil {
		return &Response{
			ErrorCode: em.ErrorCode,
			Code:      em.ErrorCode,
			Message:   ErrorCodeMessage(em.ErrorCode, em.Description),
		}, nil
	}

	node := doc.Message.node(action)
	if node == nil {
		return nil, pkgerrors.NewProtocolError("missing_response_node",
			fmt.Sprintf("response contains no %s node", action.ResponseTag()))
	}

	// Action-scoped gateway error
	if node.ErrorCode != "" {
		return &Response{
			ErrorCode: node.ErrorCode,
			Code:      node.ErrorCode,
			Message:   ErrorCodeMessage(node.ErrorCode, node.Description),
			OrderID:   node.OrderID,
		}, nil
	}

	resp := &Response{
		ErrorCode:    "0",
		Message:      node.Description,
		TxID:         node.TxID,
		PaymentRef:   node.PaymentRef,
		Status:       node.Status,
		RiskScore:    node.RiskScore,
		OrderID:      node.OrderID,
		PaymentTotal: node.PaymentTotal,
	}

	if match := responseCodePattern.FindStringSubmatch(node.Description); match != nil {
		resp.Code = match[1]
		resp.Message = StatusMessage(match[1], node.Description)
	}

	return resp, nil
}
