package modirum

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"regexp"

	pkgerrors "github.com/kevin07696/vpos-gateway/pkg/errors"
)

var (
	messagePattern = regexp.MustCompile(`(?s)<Message\s.*</Message>`)
	digestPattern  = regexp.MustCompile(`<Digest>([^<]*)</Digest>`)
)

// Sign computes the keyed digest over a canonicalized message:
// base64 of SHA-1 over the canonical XML bytes followed by the shared secret
func Sign(canonicalXML, secret string) string {
	sum := sha1.Sum([]byte(canonicalXML + secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyBody checks the digest of an inbound reply before any field of it is
// trusted. It extracts the <Message> subtree and the <Digest> sibling from
// the raw body, canonicalizes the subtree with the same routine used for
// signing, recomputes the digest and compares byte-for-byte.
//
// A mismatch means the entire response is untrusted and must be surfaced to
// the caller, never silently ignored.
func VerifyBody(rawBody, secret string) error {
	message := messagePattern.FindString(rawBody)
	if message == "" {
		return pkgerrors.NewProtocolError("missing_message", "response contains no Message node")
	}

	match := digestPattern.FindStringSubmatch(rawBody)
	if match == nil {
		return pkgerrors.NewProtocolError("missing_digest", "response contains no Digest node")
	}

	want := Sign(Canonicalize(message), secret)
	if !hmac.Equal([]byte(want), []byte(match[1])) {
		return pkgerrors.NewProtocolError("digest_mismatch", "Invalid digest.")
	}

	return nil
}
