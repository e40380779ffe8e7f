// Package solanapay builds Solana Pay transfer request URLs.
package solanapay

import (
	"strings"
)

// Scheme is the URL protocol of a transfer request.
const Scheme = "solana:"

// URLParams are the optional query parameters of a transfer request.
// Empty fields are omitted from the encoded URL.
type URLParams struct {
	Amount     string
	SPLToken   string
	References []string
	Label      string
	Message    string
	Memo       string
}

// EncodeURL renders recipient and params as a transfer request. Parameters are
// emitted in a fixed order (amount, spl-token, reference..., label, message,
// memo) so equal inputs always yield byte-identical output.
func EncodeURL(recipient string, params URLParams) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(EncodeURIComponent(recipient))

	first := true
	add := func(key, value string) {
		if value == "" {
			return
		}
		if first {
			b.WriteByte('?')
			first = false
		} else {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(EncodeURIComponent(value))
	}

	add("amount", params.Amount)
	add("spl-token", params.SPLToken)
	for _, ref := range params.References {
		add("reference", ref)
	}
	add("label", params.Label)
	add("message", params.Message)
	add("memo", params.Memo)

	return b.String()
}

const upperHex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way wallets decode it: every byte
// of the UTF-8 encoding is escaped except A-Z a-z 0-9 and - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
