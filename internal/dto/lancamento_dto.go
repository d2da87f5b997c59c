package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarLancamentoRequest struct {
	Tipo      string `json:"tipo"      validate:"required,oneof=entrada saida"`
	Categoria string `json:"categoria" validate:"required,oneof=venda sangria suprimento outros"`
	// FormaPagamento is required for categoria=venda and must be one of the
	// configured payment methods (checked in the service, not here — the
	// accepted set is store configuration, not a static enum).
	FormaPagamento *string         `json:"forma_pagamento"`
	Valor          decimal.Decimal `json:"valor" validate:"required"`
	// ValorRecebido applies to vendas em dinheiro; troco = recebido - valor.
	ValorRecebido *decimal.Decimal `json:"valor_recebido"`
	Descricao     *string          `json:"descricao"`
}

type EstornarVendaRequest struct {
	LancamentoID string `json:"lancamento_id" validate:"required,uuid"`
	Motivo       string `json:"motivo"        validate:"required,min=3"`
}

// LancamentoFilter narrows historical ledger queries. Zero values mean "no
// filter". Date bounds are inclusive on both ends.
type LancamentoFilter struct {
	DataInicio string `form:"data_inicio"`
	DataFim    string `form:"data_fim"`
	Tipo       string `form:"tipo"`
	Categoria  string `form:"categoria"`
	CaixaID    string `form:"caixa_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LancamentoResponse struct {
	ID             string           `json:"id"`
	CaixaID        string           `json:"caixa_id"`
	DataHora       string           `json:"data_hora"`
	Tipo           string           `json:"tipo"`
	Categoria      string           `json:"categoria"`
	FormaPagamento *string          `json:"forma_pagamento"`
	Valor          decimal.Decimal  `json:"valor"`
	ValorRecebido  *decimal.Decimal `json:"valor_recebido"`
	Troco          *decimal.Decimal `json:"troco"`
	Descricao      *string          `json:"descricao"`
	Estornado      bool             `json:"estornado"`
}

// RegistrarLancamentoResponse returns the created lançamento together with
// the refreshed running totals, so the caller never needs a second request.
type RegistrarLancamentoResponse struct {
	Lancamento LancamentoResponse `json:"lancamento"`
	Totais     TotaisCaixa        `json:"totais"`
}

type LancamentoListResponse struct {
	Lancamentos []LancamentoResponse `json:"lancamentos"`
}

type EstornoResponse struct {
	ID           string `json:"id"`
	LancamentoID string `json:"lancamento_id"`
	Motivo       string `json:"motivo"`
	CreatedAt    string `json:"created_at"`
}

type EstornarVendaResponse struct {
	Venda   LancamentoResponse `json:"venda"`
	Estorno EstornoResponse    `json:"estorno"`
}
