package modirum

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/vpos-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
	"github.com/kevin07696/vpos-gateway/pkg/observability"
	"github.com/kevin07696/vpos-gateway/pkg/resilience"
)

// Config contains configuration for the VPOS gateway adapter
type Config struct {
	// Merchant credentials, immutable for the adapter's lifetime
	MerchantID   string
	SharedSecret string

	// Endpoint URLs; Live selects between them
	TestURL string
	LiveURL string
	Live    bool
}

// DefaultConfig returns default endpoints for the given mode
func DefaultConfig(live bool) *Config {
	return &Config{
		TestURL: "https://mdpay-test.modirum.com/vpos/xmlpayvpos",
		LiveURL: "https://mdpay.modirum.com/vpos/xmlpayvpos",
		Live:    live,
	}
}

// URL returns the endpoint selected by the mode flag
func (c *Config) URL() string {
	if c.Live {
		return c.LiveURL
	}
	return c.TestURL
}

// adapter drives the five-step cycle build -> sign -> send -> parse -> outcome.
// It is stateless between invocations aside from the merchant credentials:
// every call constructs its own envelope and message id, so concurrent use
// is safe.
type adapter struct {
	config    *Config
	transport ports.Transport
	builder   *Builder
	logger    *zap.Logger
	breaker   *resilience.Breaker
}

// New creates a VPOS gateway adapter
func New(config *Config, transport ports.Transport, logger *zap.Logger) ports.Gateway {
	return &adapter{
		config:    config,
		transport: transport,
		builder:   NewBuilder(config.MerchantID),
		logger:    logger,
		breaker:   resilience.NewBreaker(resilience.DefaultBreakerConfig()),
	}
}

func (a *adapter) Authorize(ctx context.Context, invoice ports.Invoice, card ports.Card, tds *ports.ThreeDSecure) (*ports.Outcome, error) {
	env, err := a.builder.Authorisation(invoice, card, tds)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Purchase(ctx context.Context, invoice ports.Invoice, card ports.Card, tds *ports.ThreeDSecure) (*ports.Outcome, error) {
	env, err := a.builder.Sale(invoice, card, tds)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Capture(ctx context.Context, invoice ports.Invoice, authorization string) (*ports.Outcome, error) {
	env, err := a.builder.Capture(invoice, authorization)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Void(ctx context.Context, invoice ports.Invoice, authorization string) (*ports.Outcome, error) {
	env, err := a.builder.Cancel(invoice, authorization)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Credit(ctx context.Context, invoice ports.Invoice, authorization string) (*ports.Outcome, error) {
	env, err := a.builder.Refund(invoice, authorization)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Recurring(ctx context.Context, invoice ports.Invoice, authorization string) (*ports.Outcome, error) {
	env, err := a.builder.Recurring(invoice, authorization)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

func (a *adapter) Status(ctx context.Context, txID string) (*ports.Outcome, error) {
	env, err := a.builder.Status(txID)
	if err != nil {
		return nil, err
	}
	return a.exchange(ctx, env)
}

// exchange performs exactly one send-parse cycle for a built envelope.
// There is no retry path: the digest and message id make a signed request
// unsafe to blindly replay against a financial endpoint, so retries are a
// caller concern.
func (a *adapter) exchange(ctx context.Context, env Envelope) (*ports.Outcome, error) {
	body, err := env.SignedBody(a.config.SharedSecret)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Sending VPOS request",
		zap.String("action", string(env.Action())),
		zap.String("message_id", env.MessageID()),
	)

	start := time.Now()
	var raw []byte
	err = a.breaker.Call(func() error {
		var callErr error
		raw, callErr = a.transport.Post(ctx, a.config.URL(), []byte(body), map[string]string{
			"Content-Type": "text/xml",
		})
		return callErr
	})
	if err != nil {
		observability.ObserveGatewayCall(string(env.Action()), observability.ResultTransportError, time.Since(start))
		a.logger.Error("VPOS transport failure",
			zap.String("action", string(env.Action())),
			zap.String("message_id", env.MessageID()),
			zap.Error(err),
		)
		return nil, pkgerrors.NewNetworkError("gateway exchange failed", err)
	}

	resp, err := Parse(string(raw), env.Action(), a.config.SharedSecret)
	if err != nil {
		observability.ObserveGatewayCall(string(env.Action()), observability.ResultProtocolError, time.Since(start))
		a.logger.Error("Untrusted VPOS response",
			zap.String("action", string(env.Action())),
			zap.String("message_id", env.MessageID()),
			zap.Error(err),
		)
		return nil, err
	}

	result := observability.ResultDeclined
	switch {
	case resp.Success():
		result = observability.ResultApproved
	case resp.ErrorCode == digestErrorCode:
		result = observability.ResultProtocolError
	}
	observability.ObserveGatewayCall(string(env.Action()), result, time.Since(start))

	a.logger.Info("Parsed VPOS response",
		zap.String("action", string(env.Action())),
		zap.String("message_id", env.MessageID()),
		zap.String("tx_id", resp.TxID),
		zap.String("code", resp.Code),
		zap.Bool("success", resp.Success()),
	)

	return &ports.Outcome{
		Success:         resp.Success(),
		Message:         resp.Message,
		Category:        outcomeCategory(resp),
		AuthorizationID: authorizationID(env, resp),
		RawFields:       rawFields(resp),
	}, nil
}

// outcomeCategory classifies a decoded reply: digest failures are protocol
// errors, gateway-reported error codes map by family, and issuer status codes
// map through the status table.
func outcomeCategory(resp *Response) pkgerrors.ErrorCategory {
	switch {
	case resp.ErrorCode == digestErrorCode:
		return pkgerrors.CategoryProtocolError
	case resp.ErrorCode != "0":
		return ErrorCodeCategory(resp.ErrorCode)
	}
	return StatusCategory(resp.Code)
}

// authorizationID composes the follow-on transaction reference. Card actions
// return "<paymethod>;<txid>" so the caller can pass it straight to
// Capture/Void/Credit; reference actions echo the transaction id.
func authorizationID(env Envelope, resp *Response) string {
	if resp.TxID == "" {
		return ""
	}
	switch env.Action() {
	case ports.ActionAuthorisation, ports.ActionSale:
		return env.PayMethod() + ";" + resp.TxID
	}
	return resp.TxID
}

func rawFields(resp *Response) map[string]string {
	return map[string]string{
		"error_code":    resp.ErrorCode,
		"code":          resp.Code,
		"message":       resp.Message,
		"tx_id":         resp.TxID,
		"payment_ref":   resp.PaymentRef,
		"status":        resp.Status,
		"risk_score":    resp.RiskScore,
		"order_id":      resp.OrderID,
		"payment_total": resp.PaymentTotal,
	}
}
