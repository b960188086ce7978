package modirum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

// signedReply builds a well-formed, correctly digested VPOS reply body
func signedReply(inner, secret string) string {
	message := `<Message messageId="abc123" version="1.0" lang="en">` + inner + `</Message>`
	digest := Sign(Canonicalize(message), secret)
	return xmlHeader + `<VPOS xmlns="` + ProtocolNamespace + `">` + message + `<Digest>` + digest + `</Digest></VPOS>`
}

func TestSignDeterministic(t *testing.T) {
	canonical := Canonicalize(`<Message messageId="1"><A>v</A></Message>`)

	assert.Equal(t, Sign(canonical, "secret"), Sign(canonical, "secret"))
	assert.NotEqual(t, Sign(canonical, "secret"), Sign(canonical, "other"))
	assert.NotEqual(t, Sign(canonical, "secret"), Sign(canonical+" ", "secret"))
}

func TestVerifyBodyRoundTrip(t *testing.T) {
	body := signedReply(`<StatusResponse><TxId>9</TxId></StatusResponse>`, "topsecret")
	assert.NoError(t, VerifyBody(body, "topsecret"))
}

func TestVerifyBodyWrongSecret(t *testing.T) {
	body := signedReply(`<StatusResponse><TxId>9</TxId></StatusResponse>`, "topsecret")

	err := VerifyBody(body, "wrong")
	require.Error(t, err)

	var protoErr *pkgerrors.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "digest_mismatch", protoErr.Reason)
}

func TestVerifyBodyTamperDetection(t *testing.T) {
	body := signedReply(`<StatusResponse><TxId>9</TxId></StatusResponse>`, "topsecret")

	// Mutating any byte inside the signed Message subtree breaks verification
	tampered := strings.Replace(body, "<TxId>9</TxId>", "<TxId>8</TxId>", 1)
	require.NotEqual(t, body, tampered)

	err := VerifyBody(tampered, "topsecret")
	var protoErr *pkgerrors.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "digest_mismatch", protoErr.Reason)
}

func TestVerifyBodyStructuralFailures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{
			name:       "no message node",
			body:       `<VPOS><Digest>abc</Digest></VPOS>`,
			wantReason: "missing_message",
		},
		{
			name:       "no digest node",
			body:       `<VPOS><Message messageId="1"><A>v</A></Message></VPOS>`,
			wantReason: "missing_digest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyBody(tt.body, "secret")
			var protoErr *pkgerrors.ProtocolError
			require.ErrorAs(t, err, &protoErr)
			assert.Equal(t, tt.wantReason, protoErr.Reason)
		})
	}
}
