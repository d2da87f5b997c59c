package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBucketFormaLabelsConhecidos(t *testing.T) {
	casos := map[string]string{
		"Dinheiro":          FormaDinheiro,
		"DINHEIRO":          FormaDinheiro,
		"  dinheiro  ":      FormaDinheiro,
		"PIX":               FormaPix,
		"pix":               FormaPix,
		"Cartão Crédito":    FormaCartaoCredito,
		"cartao credito":    FormaCartaoCredito,
		"Cartão de Crédito": FormaCartaoCredito,
		"Crédito":           FormaCartaoCredito,
		"Cartão Débito":     FormaCartaoDebito,
		"cartao de debito":  FormaCartaoDebito,
		"Débito":            FormaCartaoDebito,
	}
	for label, esperado := range casos {
		assert.Equal(t, esperado, bucketForma(label), "label %q", label)
	}
}

func TestBucketFormaDesconhecidaCaiEmOutras(t *testing.T) {
	assert.Equal(t, FormaOutras, bucketForma("Vale Refeição"))
	assert.Equal(t, FormaOutras, bucketForma("Cheque"))
	assert.Equal(t, FormaOutras, bucketForma(""))
	// Substrings don't match: folding is exact, not fuzzy.
	assert.Equal(t, FormaOutras, bucketForma("dinheiro vivo"))
}

func TestFormaEhDinheiro(t *testing.T) {
	assert.True(t, formaEhDinheiro("Dinheiro"))
	assert.True(t, formaEhDinheiro("DINHEIRO"))
	assert.False(t, formaEhDinheiro("PIX"))
	assert.False(t, formaEhDinheiro("Cartão Débito"))
}

func TestFormaAceita(t *testing.T) {
	aceitas := []string{"Dinheiro", "PIX", "Cartão Débito"}

	assert.True(t, formaAceita("dinheiro", aceitas))
	assert.True(t, formaAceita("Cartao Debito", aceitas))
	assert.True(t, formaAceita(" PIX ", aceitas))
	assert.False(t, formaAceita("Cartão Crédito", aceitas))
	assert.False(t, formaAceita("Cheque", aceitas))
	assert.False(t, formaAceita("Dinheiro", nil))
}

func TestFoldForma(t *testing.T) {
	assert.Equal(t, "cartao credito", foldForma("Cartão Crédito"))
	assert.Equal(t, "pix", foldForma("  PIX "))
}

func TestTipoCanonico(t *testing.T) {
	assert.Equal(t, "entrada", tipoCanonico("venda", "saida"))
	assert.Equal(t, "entrada", tipoCanonico("suprimento", "saida"))
	assert.Equal(t, "saida", tipoCanonico("sangria", "entrada"))
	assert.Equal(t, "entrada", tipoCanonico("outros", "entrada"))
	assert.Equal(t, "saida", tipoCanonico("outros", "saida"))
}

func TestRotuloDiferenca(t *testing.T) {
	assert.Equal(t, "sobra", rotuloDiferenca(dec("0.01")))
	assert.Equal(t, "falta", rotuloDiferenca(dec("-0.01")))
	assert.Equal(t, "conferido", rotuloDiferenca(dec("0")))
}
