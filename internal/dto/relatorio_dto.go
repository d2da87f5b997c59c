package dto

import "github.com/shopspring/decimal"

type PeriodoResponse struct {
	Inicio string `json:"inicio"`
	Fim    string `json:"fim"`
}

type TotaisPeriodo struct {
	Entradas decimal.Decimal `json:"entradas"`
	Saidas   decimal.Decimal `json:"saidas"`
	Saldo    decimal.Decimal `json:"saldo"`
}

type CategoriaTotal struct {
	Categoria string          `json:"categoria"`
	Tipo      string          `json:"tipo"`
	Total     decimal.Decimal `json:"total"`
}

type FormaPagamentoTotal struct {
	Forma string          `json:"forma"`
	Total decimal.Decimal `json:"total"`
}

type ResumoPeriodoResponse struct {
	Periodo    PeriodoResponse       `json:"periodo"`
	Totais     TotaisPeriodo         `json:"totais"`
	Categorias []CategoriaTotal      `json:"categorias"`
	Pagamentos []FormaPagamentoTotal `json:"pagamentos"`
}

// ResumoDiarioResponse feeds the manager dashboard and the daily summary
// PDF/email: one day of sales and drawer movement, across all caixas.
type ResumoDiarioResponse struct {
	Data               string             `json:"data"`
	CaixaAberto        bool               `json:"caixa_aberto"`
	CaixaAtual         *CaixaResponse     `json:"caixa_atual"`
	TotalVendas        decimal.Decimal    `json:"total_vendas"`
	SaldoFinalDinheiro decimal.Decimal    `json:"saldo_final_dinheiro"`
	Vendas             VendasPorForma     `json:"vendas"`
	Movimentacoes      MovimentacoesCaixa `json:"movimentacoes"`
	QtdCaixas          int                `json:"qtd_caixas"`
	QtdLancamentos     int                `json:"qtd_lancamentos"`
}

type DiaSemana struct {
	Data      string          `json:"data"`
	DiaSemana string          `json:"dia_semana"`
	Total     decimal.Decimal `json:"total"`
}

type ResumoSemanaResponse struct {
	Dias        []DiaSemana     `json:"dias"`
	TotalSemana decimal.Decimal `json:"total_semana"`
}

type SangriasHojeResponse struct {
	Sangrias []LancamentoResponse `json:"sangrias"`
	Total    decimal.Decimal      `json:"total"`
}

type DatasComMovimentoResponse struct {
	Datas []string `json:"datas"`
}
