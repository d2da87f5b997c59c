package service_test

import (
	"context"
	"testing"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguracaoGet(t *testing.T) {
	svc := service.NewConfiguracaoService(newMemStore())

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Loja de Teste", cfg.NomeLoja)
	assert.Equal(t, []string{"Dinheiro", "PIX", "Cartão Débito", "Cartão Crédito"}, cfg.FormasPagamento)
}

func TestConfiguracaoAtualizarParcial(t *testing.T) {
	svc := service.NewConfiguracaoService(newMemStore())

	nome := "Padaria Central"
	cfg, err := svc.Atualizar(context.Background(), dto.AtualizarConfiguracaoRequest{NomeLoja: &nome})
	require.NoError(t, err)
	assert.Equal(t, "Padaria Central", cfg.NomeLoja)
	// Untouched fields keep their values.
	assert.Equal(t, "Tester", cfg.Responsavel)
	assert.Len(t, cfg.FormasPagamento, 4)
}

func TestConfiguracaoAtualizarFormas(t *testing.T) {
	svc := service.NewConfiguracaoService(newMemStore())

	cfg, err := svc.Atualizar(context.Background(), dto.AtualizarConfiguracaoRequest{
		FormasPagamento: []string{" Dinheiro ", "", "PIX"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dinheiro", "PIX"}, cfg.FormasPagamento)
}

func TestConfiguracaoFormasVaziasRejeitadas(t *testing.T) {
	svc := service.NewConfiguracaoService(newMemStore())

	_, err := svc.Atualizar(context.Background(), dto.AtualizarConfiguracaoRequest{
		FormasPagamento: []string{" ", ""},
	})
	assert.ErrorIs(t, err, service.ErrFormaPagamentoInvalida)
}

// Removing a payment method from the configuration only affects future vendas;
// the accepted set is re-read on every lançamento.
func TestConfiguracaoRestringeVendasFuturas(t *testing.T) {
	store := newMemStore()
	configSvc := service.NewConfiguracaoService(store)
	caixaSvc := service.NewCaixaService(store, store, store, newStepClock(), nil)

	abrirCaixa(t, caixaSvc, 100)

	forma := "PIX"
	_, err := caixaSvc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(10),
	})
	require.NoError(t, err)

	_, err = configSvc.Atualizar(context.Background(), dto.AtualizarConfiguracaoRequest{
		FormasPagamento: []string{"Dinheiro"},
	})
	require.NoError(t, err)

	_, err = caixaSvc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(10),
	})
	assert.ErrorIs(t, err, service.ErrFormaPagamentoInvalida)
}
