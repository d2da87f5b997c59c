package model

import "strings"

// Configuracao is the singleton store configuration row: store identity plus
// the ordered, comma-separated list of accepted payment-method labels.
// The service treats FormasPagamento as authoritative for venda validation.
type Configuracao struct {
	ID              uint   `gorm:"primaryKey"`
	NomeLoja        string `gorm:"type:varchar(200);not null;default:'Minha Loja'"`
	Responsavel     string `gorm:"type:varchar(200);not null;default:'Responsável'"`
	FormasPagamento string `gorm:"not null;default:'Dinheiro,PIX,Cartão Débito,Cartão Crédito'"`
}

func (Configuracao) TableName() string { return "configuracoes" }

// FormasPagamentoList splits the stored labels, preserving order.
func (c *Configuracao) FormasPagamentoList() []string {
	parts := strings.Split(c.FormasPagamento, ",")
	formas := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formas = append(formas, p)
		}
	}
	return formas
}
