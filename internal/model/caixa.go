package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caixa represents the lifecycle of a cash drawer session.
// Status: "aberto" | "fechado"
// At most one caixa may be "aberto" at any time. Once fechado, the caixa
// and its lançamentos are immutable.
type Caixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Operador     *string         `gorm:"type:varchar(200)"`
	TrocoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TotalEntradas / TotalSaidas are maintained incrementally on every
	// lançamento, inside the same transaction that inserts it — the saldo
	// never requires a full rescan of the ledger.
	TotalEntradas decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSaidas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// ValorContado / Diferenca are set on close when the operator supplies a
	// physical count. Diferenca = ValorContado - dinheiro esperado.
	ValorContado   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferenca      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Observacao     *string
	Status         string     `gorm:"type:varchar(20);not null;default:'aberto';index"`
	DataAbertura   time.Time  `gorm:"not null"`
	DataFechamento *time.Time

	Lancamentos []Lancamento `gorm:"foreignKey:CaixaID"`
}

// SaldoAtual is the running balance across ALL payment methods.
func (c *Caixa) SaldoAtual() decimal.Decimal {
	return c.TrocoInicial.Add(c.TotalEntradas).Sub(c.TotalSaidas)
}

// Lancamento is an immutable event in the cash drawer ledger.
// Tipo: "entrada" | "saida"
// Categoria: "venda" | "sangria" | "suprimento" | "outros" | "estorno"
// Lançamentos are NEVER modified or deleted — refunds create inverse
// "estorno" entries instead.
type Lancamento struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID   uuid.UUID `gorm:"type:uuid;index;not null"`
	DataHora  time.Time `gorm:"not null;index"`
	Tipo      string    `gorm:"type:varchar(20);not null"`
	Categoria string    `gorm:"type:varchar(50);not null"`
	// FormaPagamento is required for vendas and must be one of the
	// configured payment methods.
	FormaPagamento *string         `gorm:"type:varchar(50)"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ValorRecebido / Troco only apply to vendas em dinheiro.
	ValorRecebido *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Troco         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Descricao     *string
	// ReferenciaID links an "estorno" entry back to the venda it reverses.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`

	Estorno *Estorno `gorm:"foreignKey:LancamentoID"`
}

// Estorno records the refund of a venda. The monetary reversal lives in a
// separate inverse lancamento (categoria "estorno"); this row carries the
// audit trail and marks the venda as refunded.
type Estorno struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LancamentoID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Motivo       string    `gorm:"not null"`
	CreatedAt    time.Time
}
