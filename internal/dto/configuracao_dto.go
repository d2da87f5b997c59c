package dto

type ConfiguracaoResponse struct {
	NomeLoja        string   `json:"nome_loja"`
	Responsavel     string   `json:"responsavel"`
	FormasPagamento []string `json:"formas_pagamento"`
}

type AtualizarConfiguracaoRequest struct {
	NomeLoja    *string `json:"nome_loja"    validate:"omitempty,min=1,max=200"`
	Responsavel *string `json:"responsavel"  validate:"omitempty,min=1,max=200"`
	// At least one payment method must remain configured.
	FormasPagamento []string `json:"formas_pagamento" validate:"omitempty,min=1,dive,min=1"`
}
