package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	Operador     string          `json:"operador"      validate:"omitempty,max=200"`
	TrocoInicial decimal.Decimal `json:"troco_inicial" validate:"min=0"`
}

type FecharCaixaRequest struct {
	// ValorContado is the physically counted cash. Optional: closing never
	// fails because the count is missing or differs from the expectation.
	ValorContado *decimal.Decimal `json:"valor_contado" validate:"omitempty,min=0"`
	Observacao   *string          `json:"observacao"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotaisCaixa struct {
	TrocoInicial  decimal.Decimal `json:"troco_inicial"`
	TotalEntradas decimal.Decimal `json:"total_entradas"`
	TotalSaidas   decimal.Decimal `json:"total_saidas"`
	SaldoAtual    decimal.Decimal `json:"saldo_atual"`
}

type CaixaResponse struct {
	ID             string           `json:"id"`
	Operador       *string          `json:"operador"`
	Status         string           `json:"status"`
	DataAbertura   string           `json:"data_abertura"`
	DataFechamento *string          `json:"data_fechamento"`
	ValorContado   *decimal.Decimal `json:"valor_contado"`
	Diferenca      *decimal.Decimal `json:"diferenca"`
	// Resultado labels the diferença: "sobra" | "falta" | "conferido".
	// Only present when a valor contado was supplied at close.
	Resultado  *string `json:"resultado"`
	Observacao *string `json:"observacao"`
	TotaisCaixa
}

type StatusCaixaResponse struct {
	Aberto bool           `json:"aberto"`
	Caixa  *CaixaResponse `json:"caixa,omitempty"`
}

type PainelResponse struct {
	Caixa            CaixaResponse              `json:"caixa"`
	Totais           TotaisCaixa                `json:"totais"`
	ResumoPagamentos map[string]decimal.Decimal `json:"resumo_pagamentos"`
	ResumoCategorias map[string]decimal.Decimal `json:"resumo_categorias"`
}

// VendasPorForma is the sales breakdown by well-known payment-method bucket.
type VendasPorForma struct {
	Dinheiro      decimal.Decimal `json:"dinheiro"`
	Pix           decimal.Decimal `json:"pix"`
	CartaoCredito decimal.Decimal `json:"cartao_credito"`
	CartaoDebito  decimal.Decimal `json:"cartao_debito"`
	Outras        decimal.Decimal `json:"outras"`
	Total         decimal.Decimal `json:"total"`
}

type MovimentacoesCaixa struct {
	Sangrias         decimal.Decimal `json:"sangrias"`
	Suprimentos      decimal.Decimal `json:"suprimentos"`
	TrocoDado        decimal.Decimal `json:"troco_dado"`
	OutrosEntrada    decimal.Decimal `json:"outros_entrada"`
	OutrosSaida      decimal.Decimal `json:"outros_saida"`
	EstornosDinheiro decimal.Decimal `json:"estornos_dinheiro"`
}

// ResumoFechamentoResponse is the pre-close reconciliation view.
// DinheiroEsperado counts only physical cash movements — a subset of the
// overall saldo, which spans all payment methods.
type ResumoFechamentoResponse struct {
	TrocoInicial     decimal.Decimal    `json:"troco_inicial"`
	Vendas           VendasPorForma     `json:"vendas"`
	Movimentacoes    MovimentacoesCaixa `json:"movimentacoes"`
	DinheiroEsperado decimal.Decimal    `json:"dinheiro_esperado"`
}

type CaixaDetalheResponse struct {
	Caixa       CaixaResponse        `json:"caixa"`
	Lancamentos []LancamentoResponse `json:"lancamentos"`
}

type CaixaListResponse struct {
	Caixas []CaixaResponse `json:"caixas"`
}
