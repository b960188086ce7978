package modirum

import (
	"regexp"
	"strings"
)

// ProtocolNamespace is the default namespace of every VPOS message
const ProtocolNamespace = "http://www.modirum.com/schemas"

// rootFragment is the opening root-tag fragment of a canonical message. The
// namespace declaration is spliced in immediately after it, so its length is
// part of the signed byte layout and must never change.
const rootFragment = "<Message "

// namespaceDecl is the literal declaration spliced into the root tag,
// trailing space included
const namespaceDecl = `xmlns="` + ProtocolNamespace + `" `

var (
	spaceBeforeTag = regexp.MustCompile(`\s+<`)
	spaceAfterTag  = regexp.MustCompile(`>\s+`)
)

// Canonicalize normalizes a serialized Message fragment into the exact byte
// form the gateway digests. Inter-tag whitespace is collapsed to nothing
// (whitespace inside text content is untouched) and the default namespace
// declaration is relocated to sit immediately after the root-tag fragment.
//
// The transformation is purely textual, not namespace-aware. That is a wire
// constraint of the remote protocol: any "more correct" canonicalization
// changes the signed bytes and breaks the live signature check.
func Canonicalize(xml string) string {
	s := spaceBeforeTag.ReplaceAllString(xml, "<")
	s = spaceAfterTag.ReplaceAllString(s, ">")

	// Drop an already-spliced declaration so the routine is idempotent
	s = strings.Replace(s, namespaceDecl, "", 1)

	if len(s) < len(rootFragment) {
		return s
	}
	return s[:len(rootFragment)] + namespaceDecl + s[len(rootFragment):]
}

// canonicalReady reports whether the fragment starts with the exact root
// fragment the splice point assumes. Signing anything else would produce a
// digest the gateway cannot reproduce.
func canonicalReady(xml string) bool {
	return strings.HasPrefix(xml, rootFragment)
}
