package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RelatorioService serves the historical/manager views: period summaries,
// daily and weekly aggregates, and the realtime feeds for the dashboard.
// Everything is read-only and spans caixas, open and closed.
type RelatorioService interface {
	ResumoPeriodo(ctx context.Context, inicio, fim time.Time) (*dto.ResumoPeriodoResponse, error)
	ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error)
	ResumoSemana(ctx context.Context) (*dto.ResumoSemanaResponse, error)
	UltimasMovimentacoes(ctx context.Context, n int) ([]dto.LancamentoResponse, error)
	SangriasHoje(ctx context.Context) (*dto.SangriasHojeResponse, error)
	DatasComMovimento(ctx context.Context) (*dto.DatasComMovimentoResponse, error)
}

type relatorioService struct {
	lancRepo  repository.LancamentoRepository
	caixaRepo repository.CaixaRepository
	clock     Clock
}

func NewRelatorioService(
	lancRepo repository.LancamentoRepository,
	caixaRepo repository.CaixaRepository,
	clock Clock,
) RelatorioService {
	return &relatorioService{lancRepo: lancRepo, caixaRepo: caixaRepo, clock: clock}
}

// ── ResumoPeriodo ─────────────────────────────────────────────────────────────

func (s *relatorioService) ResumoPeriodo(ctx context.Context, inicio, fim time.Time) (*dto.ResumoPeriodoResponse, error) {
	lancs, err := s.lancRepo.ListByFilter(ctx, repository.LancamentoFilter{
		DataInicio: &inicio,
		DataFim:    &fim,
	})
	if err != nil {
		return nil, colaborador(err)
	}

	var entradas, saidas decimal.Decimal
	porCategoria := make(map[[2]string]decimal.Decimal)
	porForma := make(map[string]decimal.Decimal)

	for _, l := range lancs {
		if l.Tipo == "entrada" {
			entradas = entradas.Add(l.Valor)
		} else {
			saidas = saidas.Add(l.Valor)
		}
		key := [2]string{l.Categoria, l.Tipo}
		porCategoria[key] = porCategoria[key].Add(l.Valor)

		if l.Categoria == "venda" && l.Estorno == nil {
			forma := "Não informado"
			if l.FormaPagamento != nil && *l.FormaPagamento != "" {
				forma = *l.FormaPagamento
			}
			porForma[forma] = porForma[forma].Add(l.Valor)
		}
	}

	categorias := make([]dto.CategoriaTotal, 0, len(porCategoria))
	for key, total := range porCategoria {
		categorias = append(categorias, dto.CategoriaTotal{Categoria: key[0], Tipo: key[1], Total: total})
	}
	sort.Slice(categorias, func(i, j int) bool {
		if categorias[i].Categoria != categorias[j].Categoria {
			return categorias[i].Categoria < categorias[j].Categoria
		}
		return categorias[i].Tipo < categorias[j].Tipo
	})

	pagamentos := make([]dto.FormaPagamentoTotal, 0, len(porForma))
	for forma, total := range porForma {
		pagamentos = append(pagamentos, dto.FormaPagamentoTotal{Forma: forma, Total: total})
	}
	sort.Slice(pagamentos, func(i, j int) bool { return pagamentos[i].Forma < pagamentos[j].Forma })

	return &dto.ResumoPeriodoResponse{
		Periodo: dto.PeriodoResponse{
			Inicio: inicio.Format("2006-01-02"),
			Fim:    fim.Format("2006-01-02"),
		},
		Totais: dto.TotaisPeriodo{
			Entradas: entradas,
			Saidas:   saidas,
			Saldo:    entradas.Sub(saidas),
		},
		Categorias: categorias,
		Pagamentos: pagamentos,
	}, nil
}

// ── ResumoDiario ──────────────────────────────────────────────────────────────
// One day of movement across every caixa opened that day. The expected-cash
// figure here also nets "outros" entries, since the manager view reconciles
// the whole day rather than a single drawer count.

func (s *relatorioService) ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error) {
	inicio, fim := limitesDoDia(dia)

	caixasDia, err := s.caixaRepo.ListCaixasPorPeriodo(ctx, inicio, fim)
	if err != nil {
		return nil, colaborador(err)
	}
	lancs, err := s.lancRepo.ListByFilter(ctx, repository.LancamentoFilter{
		DataInicio: &inicio,
		DataFim:    &fim,
	})
	if err != nil {
		return nil, colaborador(err)
	}

	var vendas dto.VendasPorForma
	var mov dto.MovimentacoesCaixa

	for _, l := range lancs {
		switch l.Categoria {
		case "venda":
			if l.Estorno != nil {
				continue
			}
			forma := ""
			if l.FormaPagamento != nil {
				forma = *l.FormaPagamento
			}
			switch bucketForma(forma) {
			case FormaDinheiro:
				vendas.Dinheiro = vendas.Dinheiro.Add(l.Valor)
				if l.Troco != nil && l.Troco.IsPositive() {
					mov.TrocoDado = mov.TrocoDado.Add(*l.Troco)
				}
			case FormaPix:
				vendas.Pix = vendas.Pix.Add(l.Valor)
			case FormaCartaoCredito:
				vendas.CartaoCredito = vendas.CartaoCredito.Add(l.Valor)
			case FormaCartaoDebito:
				vendas.CartaoDebito = vendas.CartaoDebito.Add(l.Valor)
			default:
				vendas.Outras = vendas.Outras.Add(l.Valor)
			}
		case "sangria":
			mov.Sangrias = mov.Sangrias.Add(l.Valor)
		case "suprimento":
			mov.Suprimentos = mov.Suprimentos.Add(l.Valor)
		case "estorno":
			if l.FormaPagamento != nil && formaEhDinheiro(*l.FormaPagamento) {
				mov.EstornosDinheiro = mov.EstornosDinheiro.Add(l.Valor)
			}
		case "outros":
			if l.Tipo == "entrada" {
				mov.OutrosEntrada = mov.OutrosEntrada.Add(l.Valor)
			} else {
				mov.OutrosSaida = mov.OutrosSaida.Add(l.Valor)
			}
		}
	}

	vendas.Total = vendas.Dinheiro.Add(vendas.Pix).
		Add(vendas.CartaoCredito).Add(vendas.CartaoDebito).Add(vendas.Outras)

	trocoInicialTotal := decimal.Zero
	for _, c := range caixasDia {
		trocoInicialTotal = trocoInicialTotal.Add(c.TrocoInicial)
	}
	saldoDinheiro := trocoInicialTotal.
		Add(vendas.Dinheiro).
		Sub(mov.TrocoDado).
		Sub(mov.Sangrias).
		Add(mov.Suprimentos).
		Add(mov.OutrosEntrada).
		Sub(mov.OutrosSaida).
		Sub(mov.EstornosDinheiro)

	resp := &dto.ResumoDiarioResponse{
		Data:               dia.Format("2006-01-02"),
		TotalVendas:        vendas.Total,
		SaldoFinalDinheiro: saldoDinheiro,
		Vendas:             vendas,
		Movimentacoes:      mov,
		QtdCaixas:          len(caixasDia),
		QtdLancamentos:     len(lancs),
	}

	aberto, err := s.caixaRepo.FindCaixaAberto(ctx)
	if err == nil {
		resp.CaixaAberto = true
		resp.CaixaAtual = caixaToResponse(aberto)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, colaborador(err)
	}
	return resp, nil
}

// ── ResumoSemana ──────────────────────────────────────────────────────────────

func (s *relatorioService) ResumoSemana(ctx context.Context) (*dto.ResumoSemanaResponse, error) {
	hoje := s.clock.Now()
	dias := make([]dto.DiaSemana, 0, 7)
	totalSemana := decimal.Zero

	for i := 6; i >= 0; i-- {
		dia := hoje.AddDate(0, 0, -i)
		inicio, fim := limitesDoDia(dia)
		lancs, err := s.lancRepo.ListByFilter(ctx, repository.LancamentoFilter{
			DataInicio: &inicio,
			DataFim:    &fim,
			Categoria:  "venda",
		})
		if err != nil {
			return nil, colaborador(err)
		}
		total := decimal.Zero
		for _, l := range lancs {
			if l.Estorno == nil {
				total = total.Add(l.Valor)
			}
		}
		dias = append(dias, dto.DiaSemana{
			Data:      dia.Format("2006-01-02"),
			DiaSemana: dia.Format("Mon"),
			Total:     total,
		})
		totalSemana = totalSemana.Add(total)
	}

	return &dto.ResumoSemanaResponse{Dias: dias, TotalSemana: totalSemana}, nil
}

// ── Realtime feeds ────────────────────────────────────────────────────────────

func (s *relatorioService) UltimasMovimentacoes(ctx context.Context, n int) ([]dto.LancamentoResponse, error) {
	if n < 1 || n > 100 {
		n = 20
	}
	lancs, err := s.lancRepo.UltimosGlobais(ctx, n)
	if err != nil {
		return nil, colaborador(err)
	}
	return lancamentosToResponse(lancs), nil
}

func (s *relatorioService) SangriasHoje(ctx context.Context) (*dto.SangriasHojeResponse, error) {
	inicio, fim := limitesDoDia(s.clock.Now())
	lancs, err := s.lancRepo.ListByFilter(ctx, repository.LancamentoFilter{
		DataInicio: &inicio,
		DataFim:    &fim,
		Categoria:  "sangria",
	})
	if err != nil {
		return nil, colaborador(err)
	}

	// ListByFilter orders ascending; the feed shows most recent first.
	total := decimal.Zero
	out := make([]dto.LancamentoResponse, 0, len(lancs))
	for i := len(lancs) - 1; i >= 0; i-- {
		out = append(out, lancamentoToResponse(&lancs[i]))
		total = total.Add(lancs[i].Valor)
	}
	return &dto.SangriasHojeResponse{Sangrias: out, Total: total}, nil
}

func (s *relatorioService) DatasComMovimento(ctx context.Context) (*dto.DatasComMovimentoResponse, error) {
	desde := s.clock.Now().AddDate(0, 0, -30)
	datas, err := s.lancRepo.DatasComMovimento(ctx, desde)
	if err != nil {
		return nil, colaborador(err)
	}
	sort.Strings(datas)
	return &dto.DatasComMovimentoResponse{Datas: datas}, nil
}

// limitesDoDia returns the inclusive [00:00:00, 23:59:59.999999999] bounds
// of the given day, in its location.
func limitesDoDia(t time.Time) (time.Time, time.Time) {
	inicio := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	fim := inicio.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return inicio, fim
}
