package modirum

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/vpos-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// fakeTransport records the single POST each operation performs
type fakeTransport struct {
	reply    string
	err      error
	calls    int
	lastURL  string
	lastBody []byte
	headers  map[string]string
}

func (f *fakeTransport) Post(_ context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	f.calls++
	f.lastURL = url
	f.lastBody = body
	f.headers = headers
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.reply), nil
}

func testAdapter(t *testing.T, ft *fakeTransport) ports.Gateway {
	t.Helper()
	cfg := DefaultConfig(false)
	cfg.MerchantID = "MID42"
	cfg.SharedSecret = testSecret
	return New(cfg, ft, zap.NewNop())
}

func TestAdapterAuthorizeApproved(t *testing.T) {
	inner := `<AuthorisationResponse>` +
		`<Description>SomeBank, visa response code 00</Description>` +
		`<TxId>777</TxId>` +
		`<OrderId>ORD1</OrderId>` +
		`<PaymentTotal>10.00</PaymentTotal>` +
		`</AuthorisationResponse>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Authorize(context.Background(), testInvoice(), testCard(), nil)
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "Approved or completed successfully", outcome.Message)
	assert.Equal(t, pkgerrors.CategoryApproved, outcome.Category)
	assert.Equal(t, "visa;777", outcome.AuthorizationID)
	assert.Equal(t, "ORD1", outcome.RawFields["order_id"])
	assert.Equal(t, "10.00", outcome.RawFields["payment_total"])

	// Exactly one exchange against the test endpoint
	assert.Equal(t, 1, ft.calls)
	assert.Equal(t, DefaultConfig(false).TestURL, ft.lastURL)
	assert.Equal(t, "text/xml", ft.headers["Content-Type"])

	// The posted body is a signed envelope the gateway can verify
	body := string(ft.lastBody)
	assert.Contains(t, body, "<AuthorisationRequest>")
	assert.NoError(t, VerifyBody(body, testSecret))
}

func TestAdapterPurchaseDecline(t *testing.T) {
	inner := `<SaleResponse>` +
		`<Description>SomeBank, visa response code 05</Description>` +
		`<TxId>778</TxId>` +
		`</SaleResponse>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Purchase(context.Background(), testInvoice(), testCard(), nil)
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, "Do not honor", outcome.Message)
	assert.Equal(t, pkgerrors.CategoryDeclined, outcome.Category)
	assert.Equal(t, "visa;778", outcome.AuthorizationID)
}

func TestAdapterInsufficientFundsCategory(t *testing.T) {
	inner := `<SaleResponse>` +
		`<Description>SomeBank, visa response code 51</Description>` +
		`<TxId>779</TxId>` +
		`</SaleResponse>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Purchase(context.Background(), testInvoice(), testCard(), nil)
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, pkgerrors.CategoryInsufficientFunds, outcome.Category)
}

func TestAdapterGatewayErrorCategory(t *testing.T) {
	inner := `<ErrorMessage>` +
		`<ErrorCode>M1</ErrorCode>` +
		`<Description>merchant lookup failed</Description>` +
		`</ErrorMessage>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Authorize(context.Background(), testInvoice(), testCard(), nil)
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, "Invalid merchant id", outcome.Message)
	assert.Equal(t, pkgerrors.CategoryInvalidRequest, outcome.Category)
}

func TestAdapterInvalidDigestOutcome(t *testing.T) {
	inner := `<AuthorisationResponse>` +
		`<Description>SomeBank, visa response code 00</Description>` +
		`<TxId>777</TxId>` +
		`</AuthorisationResponse>`
	tampered := strings.Replace(signedReply(inner, testSecret), "<Digest>", "<Digest>x", 1)
	ft := &fakeTransport{reply: tampered}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Authorize(context.Background(), testInvoice(), testCard(), nil)
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, "Invalid digest.", outcome.Message)
	assert.Equal(t, pkgerrors.CategoryProtocolError, outcome.Category)
	assert.Empty(t, outcome.AuthorizationID)
}

func TestAdapterTransportErrorPropagatesWithoutRetry(t *testing.T) {
	ft := &fakeTransport{err: errors.New("connection refused")}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Authorize(context.Background(), testInvoice(), testCard(), nil)
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "connection refused")
	assert.ErrorIs(t, err, ft.err)

	// Transport failures surface as network-category payment errors
	var payErr *pkgerrors.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, pkgerrors.CategoryNetworkError, payErr.Category)
	assert.True(t, payErr.IsRetriable)

	// No implicit retry against a financial endpoint
	assert.Equal(t, 1, ft.calls)
}

func TestAdapterCaptureMalformedReferenceFailsBeforeSending(t *testing.T) {
	ft := &fakeTransport{}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Capture(context.Background(), testInvoice(), "no-separator")

	var valErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Nil(t, outcome)
	assert.Equal(t, 0, ft.calls)
}

func TestAdapterVoidAndCredit(t *testing.T) {
	tests := []struct {
		name    string
		call    func(ports.Gateway) (*ports.Outcome, error)
		wantTag string
	}{
		{
			name: "void sends CancelRequest",
			call: func(g ports.Gateway) (*ports.Outcome, error) {
				return g.Void(context.Background(), testInvoice(), "visa;777")
			},
			wantTag: "<CancelRequest>",
		},
		{
			name: "credit sends RefundRequest",
			call: func(g ports.Gateway) (*ports.Outcome, error) {
				return g.Credit(context.Background(), testInvoice(), "visa;777")
			},
			wantTag: "<RefundRequest>",
		},
		{
			name: "recurring sends RecurringOperationRequest",
			call: func(g ports.Gateway) (*ports.Outcome, error) {
				return g.Recurring(context.Background(), testInvoice(), "visa;777")
			},
			wantTag: "<RecurringOperationRequest>",
		},
	}

	replies := map[string]string{
		"<CancelRequest>":             `<CancelResponse><Description>SomeBank, visa response code 00</Description><TxId>800</TxId></CancelResponse>`,
		"<RefundRequest>":             `<RefundResponse><Description>SomeBank, visa response code 00</Description><TxId>801</TxId></RefundResponse>`,
		"<RecurringOperationRequest>": `<RecurringOperationResponse><Description>SomeBank, visa response code 00</Description><TxId>802</TxId></RecurringOperationResponse>`,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{reply: signedReply(replies[tt.wantTag], testSecret)}
			gateway := testAdapter(t, ft)

			outcome, err := tt.call(gateway)
			require.NoError(t, err)

			assert.True(t, outcome.Success)
			assert.Contains(t, string(ft.lastBody), tt.wantTag)
			// Reference operations echo the transaction id without a scheme prefix
			assert.NotContains(t, outcome.AuthorizationID, ";")
		})
	}
}

func TestAdapterStatus(t *testing.T) {
	inner := `<StatusResponse>` +
		`<Description>SomeBank, visa response code 00</Description>` +
		`<TxId>777</TxId>` +
		`<Status>CAPTURED</Status>` +
		`</StatusResponse>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}
	gateway := testAdapter(t, ft)

	outcome, err := gateway.Status(context.Background(), "777")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "777", outcome.AuthorizationID)
	assert.Equal(t, "CAPTURED", outcome.RawFields["status"])
	assert.Contains(t, string(ft.lastBody), "<StatusRequest>")
}

func TestAdapterLiveModeSelectsLiveURL(t *testing.T) {
	inner := `<StatusResponse><Description>SomeBank, visa response code 00</Description><TxId>1</TxId></StatusResponse>`
	ft := &fakeTransport{reply: signedReply(inner, testSecret)}

	cfg := DefaultConfig(true)
	cfg.MerchantID = "MID42"
	cfg.SharedSecret = testSecret
	gateway := New(cfg, ft, zap.NewNop())

	_, err := gateway.Status(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, cfg.LiveURL, ft.lastURL)
}
