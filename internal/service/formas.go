package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Well-known payment-method buckets for the closing breakdown. Labels that
// match none of them fall into FormaOutras.
const (
	FormaDinheiro      = "dinheiro"
	FormaPix           = "pix"
	FormaCartaoCredito = "cartao_credito"
	FormaCartaoDebito  = "cartao_debito"
	FormaOutras        = "outras"
)

// foldForma lowercases and strips diacritics so "Cartão Crédito",
// "cartao credito" and "CARTÃO CRÉDITO" all compare equal.
func foldForma(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// bucketLabels maps folded well-known labels to their bucket. Exact match
// after folding — arbitrary configured labels bucket to FormaOutras.
var bucketLabels = map[string]string{
	"dinheiro":          FormaDinheiro,
	"pix":               FormaPix,
	"credito":           FormaCartaoCredito,
	"cartao credito":    FormaCartaoCredito,
	"cartao de credito": FormaCartaoCredito,
	"debito":            FormaCartaoDebito,
	"cartao debito":     FormaCartaoDebito,
	"cartao de debito":  FormaCartaoDebito,
}

func bucketForma(forma string) string {
	if b, ok := bucketLabels[foldForma(forma)]; ok {
		return b
	}
	return FormaOutras
}

// formaEhDinheiro reports whether the label denotes physical cash.
func formaEhDinheiro(forma string) bool {
	return bucketForma(forma) == FormaDinheiro
}

// formaAceita checks the label against the configured accepted set,
// case/accent-insensitively.
func formaAceita(forma string, aceitas []string) bool {
	f := foldForma(forma)
	for _, a := range aceitas {
		if foldForma(a) == f {
			return true
		}
	}
	return false
}
