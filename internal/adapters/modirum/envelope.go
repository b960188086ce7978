package modirum

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kevin07696/vpos-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

const (
	protocolVersion = "1.0"
	protocolLang    = "en"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
)

// Envelope is an immutable, fully built message ready for signing. One
// envelope exists per request; it is never reused or mutated after signing.
type Envelope struct {
	messageID string
	action    ports.Action
	payMethod string
	message   string
}

// MessageID returns the envelope's correlation identifier
func (e Envelope) MessageID() string { return e.messageID }

// Action returns the action the envelope carries
func (e Envelope) Action() ports.Action { return e.action }

// PayMethod returns the card scheme tag the envelope was built with, if any
func (e Envelope) PayMethod() string { return e.payMethod }

// MessageXML returns the serialized <Message> subtree
func (e Envelope) MessageXML() string { return e.message }

// SignedBody canonicalizes the message, appends the keyed digest and wraps
// both in the outer VPOS document posted to the gateway
func (e Envelope) SignedBody(secret string) (string, error) {
	canonical := Canonicalize(e.message)
	if !canonicalReady(canonical) {
		return "", pkgerrors.NewProtocolError("bad_root_fragment",
			"message does not start with the expected root fragment")
	}

	digest := Sign(canonical, secret)

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<VPOS xmlns="` + ProtocolNamespace + `">`)
	b.WriteString(e.message)
	b.WriteString("<Digest>" + digest + "</Digest></VPOS>")
	return b.String(), nil
}

// Builder assembles action-specific envelopes for one merchant. It holds no
// per-call state: every method returns a fresh immutable envelope with its
// own message id, so a single builder is safe to share across goroutines.
type Builder struct {
	mid string
}

// NewBuilder creates an envelope builder bound to a merchant id
func NewBuilder(merchantID string) *Builder {
	return &Builder{mid: merchantID}
}

// Authorisation builds an envelope reserving funds on a card
func (b *Builder) Authorisation(invoice ports.Invoice, card ports.Card, tds *ports.ThreeDSecure) (Envelope, error) {
	return b.cardEnvelope(ports.ActionAuthorisation, invoice, card, tds)
}

// Sale builds an envelope authorizing and capturing in one exchange
func (b *Builder) Sale(invoice ports.Invoice, card ports.Card, tds *ports.ThreeDSecure) (Envelope, error) {
	return b.cardEnvelope(ports.ActionSale, invoice, card, tds)
}

// Capture builds an envelope settling a prior authorization
func (b *Builder) Capture(invoice ports.Invoice, authorization string) (Envelope, error) {
	return b.referenceEnvelope(ports.ActionCapture, invoice, authorization)
}

// Cancel builds an envelope voiding a prior authorization
func (b *Builder) Cancel(invoice ports.Invoice, authorization string) (Envelope, error) {
	return b.referenceEnvelope(ports.ActionCancel, invoice, authorization)
}

// Refund builds an envelope crediting a settled transaction
func (b *Builder) Refund(invoice ports.Invoice, authorization string) (Envelope, error) {
	return b.referenceEnvelope(ports.ActionRefund, invoice, authorization)
}

// Recurring builds an envelope charging a follow-on installment against an
// initial transaction
func (b *Builder) Recurring(invoice ports.Invoice, authorization string) (Envelope, error) {
	return b.referenceEnvelope(ports.ActionRecurring, invoice, authorization)
}

// Status builds an envelope querying a prior transaction by TxId
func (b *Builder) Status(txID string) (Envelope, error) {
	if txID == "" {
		return Envelope{}, pkgerrors.NewValidationError("tx_id", "transaction id is required")
	}

	var body strings.Builder
	b.writeAuthentication(&body)
	body.WriteString("<TransactionInfo>")
	writeElement(&body, "TxId", txID)
	body.WriteString("</TransactionInfo>")

	return b.seal(ports.ActionStatus, txID, "", body.String()), nil
}

func (b *Builder) cardEnvelope(action ports.Action, invoice ports.Invoice, card ports.Card, tds *ports.ThreeDSecure) (Envelope, error) {
	if err := validateInvoice(invoice); err != nil {
		return Envelope{}, err
	}

	payMethod, err := SchemeOf(card.PAN)
	if err != nil {
		return Envelope{}, err
	}
	if card.ExpMonth < 1 || card.ExpMonth > 12 {
		return Envelope{}, pkgerrors.NewValidationError("exp_month", "expiry month must be 1-12")
	}
	if card.ExpYear < 2000 || card.ExpYear > 2099 {
		return Envelope{}, pkgerrors.NewValidationError("exp_year", "expiry year must be a four-digit year")
	}

	var body strings.Builder
	b.writeAuthentication(&body)
	writeOrderInfo(&body, invoice)

	body.WriteString("<PaymentInfo>")
	writeElement(&body, "PayMethod", payMethod)
	writeElement(&body, "CardPan", card.PAN)
	writeElement(&body, "CardExpDate", fmt.Sprintf("%02d%02d", card.ExpYear%100, card.ExpMonth))
	writeElement(&body, "CardCvv2", card.CVV)
	writeElement(&body, "CardHolderName", card.HolderName)
	body.WriteString("</PaymentInfo>")

	if tds != nil {
		body.WriteString("<ThreeDSecure>")
		writeElement(&body, "EnrollmentStatus", tds.EnrollmentStatus)
		writeElement(&body, "AuthenticationStatus", tds.AuthenticationStatus)
		writeElement(&body, "CAVV", tds.CAVV)
		writeElement(&body, "XID", tds.XID)
		writeElement(&body, "ECI", tds.ECI)
		body.WriteString("</ThreeDSecure>")
	}

	return b.seal(action, invoice.OrderID, payMethod, body.String()), nil
}

func (b *Builder) referenceEnvelope(action ports.Action, invoice ports.Invoice, authorization string) (Envelope, error) {
	if err := validateInvoice(invoice); err != nil {
		return Envelope{}, err
	}

	payMethod, txID, err := splitReference(authorization)
	if err != nil {
		return Envelope{}, err
	}

	var body strings.Builder
	b.writeAuthentication(&body)
	writeOrderInfo(&body, invoice)

	body.WriteString("<PaymentInfo>")
	writeElement(&body, "PayMethod", payMethod)
	writeElement(&body, "TxId", txID)
	body.WriteString("</PaymentInfo>")

	return b.seal(action, invoice.OrderID, payMethod, body.String()), nil
}

// seal wraps an action body in the Message element with a fresh message id
func (b *Builder) seal(action ports.Action, orderID, payMethod, actionBody string) Envelope {
	messageID := newMessageID(orderID)

	var m strings.Builder
	m.WriteString(`<Message messageId="` + messageID + `" version="` + protocolVersion + `" lang="` + protocolLang + `">`)
	m.WriteString("<" + action.RequestTag() + ">")
	m.WriteString(actionBody)
	m.WriteString("</" + action.RequestTag() + ">")
	m.WriteString("</Message>")

	return Envelope{
		messageID: messageID,
		action:    action,
		payMethod: payMethod,
		message:   m.String(),
	}
}

func (b *Builder) writeAuthentication(w *strings.Builder) {
	w.WriteString("<Authentication>")
	writeElement(w, "Mid", b.mid)
	w.WriteString("</Authentication>")
}

func writeOrderInfo(w *strings.Builder, invoice ports.Invoice) {
	w.WriteString("<OrderInfo>")
	writeElement(w, "OrderId", invoice.OrderID)
	writeElement(w, "OrderDesc", invoice.Description)
	writeElement(w, "OrderAmount", invoice.Amount.StringFixed(2))
	writeElement(w, "Currency", invoice.Currency)
	if invoice.Installments > 0 {
		writeElement(w, "Installments", strconv.Itoa(invoice.Installments))
	}
	w.WriteString("</OrderInfo>")
}

// writeElement writes an escaped leaf element, skipping empty optional values
func writeElement(w *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	w.WriteString("<" + name + ">")
	xml.EscapeText(w, []byte(value)) //nolint:errcheck // strings.Builder never errors
	w.WriteString("</" + name + ">")
}

func validateInvoice(invoice ports.Invoice) error {
	if invoice.OrderID == "" {
		return pkgerrors.NewValidationError("order_id", "order id is required")
	}
	if invoice.Amount.IsNegative() {
		return pkgerrors.NewValidationError("amount", "amount must not be negative")
	}
	if len(invoice.Currency) != 3 {
		return pkgerrors.NewValidationError("currency", "currency must be a 3-letter ISO code")
	}
	return nil
}

// splitReference parses a "<paymethod>;<txid>" transaction reference
func splitReference(authorization string) (payMethod, txID string, err error) {
	payMethod, txID, ok := strings.Cut(authorization, ";")
	if !ok || payMethod == "" || txID == "" {
		return "", "", pkgerrors.NewValidationError("authorization",
			`transaction reference must have the form "<paymethod>;<txid>"`)
	}
	return payMethod, txID, nil
}

// newMessageID derives a collision-resistant correlation id from the order id
// and a random salt. Uniqueness is the only requirement; no replay or
// monotonicity guarantee is made by the protocol.
func newMessageID(orderID string) string {
	sum := sha1.Sum([]byte(orderID + "-" + uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
