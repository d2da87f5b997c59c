package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/model"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Clock supplies the timestamps for abertura, lançamentos and fechamento.
// Implementations must be monotonically non-decreasing.
type Clock interface {
	Now() time.Time
}

// Notifier is informed (fire-and-forget) of drawer events. Delivery failure
// never affects the operation that triggered it.
type Notifier interface {
	NotificarAbertura(ctx context.Context, operador string, trocoInicial decimal.Decimal)
	NotificarFechamento(ctx context.Context, totalVendas decimal.Decimal, diferenca *decimal.Decimal)
	NotificarSangria(ctx context.Context, valor decimal.Decimal, descricao string)
}

type CaixaService interface {
	Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	Status(ctx context.Context) (*dto.StatusCaixaResponse, error)

	RegistrarLancamento(ctx context.Context, req dto.RegistrarLancamentoRequest) (*dto.RegistrarLancamentoResponse, error)
	Painel(ctx context.Context) (*dto.PainelResponse, error)
	ResumoFechamento(ctx context.Context) (*dto.ResumoFechamentoResponse, error)
	// ResumoCaixa is ResumoFechamento for an arbitrary caixa, open or closed.
	ResumoCaixa(ctx context.Context, id uuid.UUID) (*dto.ResumoFechamentoResponse, error)
	UltimosLancamentos(ctx context.Context, n int) ([]dto.LancamentoResponse, error)
	EstornarVenda(ctx context.Context, req dto.EstornarVendaRequest) (*dto.EstornarVendaResponse, error)

	// Historical queries — span closed caixas too.
	ListarLancamentos(ctx context.Context, f repository.LancamentoFilter) ([]dto.LancamentoResponse, error)
	ListarCaixas(ctx context.Context, status string) ([]dto.CaixaResponse, error)
	DetalhesCaixa(ctx context.Context, id uuid.UUID) (*dto.CaixaDetalheResponse, error)
}

type caixaService struct {
	repo       repository.CaixaRepository
	lancRepo   repository.LancamentoRepository
	configRepo repository.ConfiguracaoRepository
	clock      Clock
	notifier   Notifier

	// mu serializes the open/close check-and-set and every ledger append so
	// two concurrent Abrir calls can never both succeed and running totals
	// never lose an update.
	mu sync.Mutex
}

func NewCaixaService(
	repo repository.CaixaRepository,
	lancRepo repository.LancamentoRepository,
	configRepo repository.ConfiguracaoRepository,
	clock Clock,
	notifier Notifier,
) CaixaService {
	return &caixaService{
		repo:       repo,
		lancRepo:   lancRepo,
		configRepo: configRepo,
		clock:      clock,
		notifier:   notifier,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if req.TrocoInicial.IsNegative() {
		return nil, fmt.Errorf("%w: troco inicial deve ser >= 0", ErrValorInvalido)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.FindCaixaAberto(ctx); err == nil {
		return nil, ErrCaixaJaAberto
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, colaborador(err)
	}

	caixa := &model.Caixa{
		ID:           uuid.New(),
		TrocoInicial: req.TrocoInicial,
		Status:       "aberto",
		DataAbertura: s.clock.Now(),
	}
	if req.Operador != "" {
		operador := req.Operador
		caixa.Operador = &operador
	}

	if err := s.repo.CreateCaixa(ctx, caixa); err != nil {
		return nil, colaborador(err)
	}

	if s.notifier != nil {
		s.notifier.NotificarAbertura(ctx, req.Operador, req.TrocoInicial)
	}
	return caixaToResponse(caixa), nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Freezes the ledger, computes final totals and — when a counted amount is
// supplied — the diferença against the expected cash. The diferença is
// informational: closing never fails because the count is off.

func (s *caixaService) Fechar(ctx context.Context, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	if req.ValorContado != nil && req.ValorContado.IsNegative() {
		return nil, fmt.Errorf("%w: valor contado deve ser >= 0", ErrValorInvalido)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}

	if req.ValorContado != nil {
		lancs, err := s.repo.ListLancamentos(ctx, caixa.ID)
		if err != nil {
			return nil, colaborador(err)
		}
		resumo := montarResumoFechamento(caixa, lancs)
		diferenca := req.ValorContado.Sub(resumo.DinheiroEsperado)
		caixa.ValorContado = req.ValorContado
		caixa.Diferenca = &diferenca
	}
	caixa.Observacao = req.Observacao

	fechadoEm := s.clock.Now()
	caixa.DataFechamento = &fechadoEm
	caixa.Status = "fechado"

	if err := s.repo.UpdateCaixa(ctx, caixa); err != nil {
		return nil, colaborador(err)
	}

	if s.notifier != nil {
		s.notifier.NotificarFechamento(ctx, caixa.TotalEntradas, caixa.Diferenca)
	}
	return caixaToResponse(caixa), nil
}

// ── Status ────────────────────────────────────────────────────────────────────

func (s *caixaService) Status(ctx context.Context) (*dto.StatusCaixaResponse, error) {
	caixa, err := s.repo.FindCaixaAberto(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.StatusCaixaResponse{Aberto: false}, nil
	}
	if err != nil {
		return nil, colaborador(err)
	}
	return &dto.StatusCaixaResponse{Aberto: true, Caixa: caixaToResponse(caixa)}, nil
}

// ── RegistrarLancamento ───────────────────────────────────────────────────────
// Validate-then-commit: nothing is written until every check passes. The
// insert and the cached-totals bump happen in one repository transaction.

func (s *caixaService) RegistrarLancamento(ctx context.Context, req dto.RegistrarLancamentoRequest) (*dto.RegistrarLancamentoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser > 0", ErrValorInvalido)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}

	lanc := &model.Lancamento{
		ID:        uuid.New(),
		CaixaID:   caixa.ID,
		DataHora:  s.clock.Now(),
		Tipo:      tipoCanonico(req.Categoria, req.Tipo),
		Categoria: req.Categoria,
		Valor:     req.Valor,
		Descricao: req.Descricao,
	}

	switch req.Categoria {
	case "venda":
		if req.FormaPagamento == nil || *req.FormaPagamento == "" {
			return nil, fmt.Errorf("%w: venda sem forma de pagamento", ErrFormaPagamentoInvalida)
		}
		config, err := s.configRepo.GetConfig(ctx)
		if err != nil {
			return nil, colaborador(err)
		}
		if !formaAceita(*req.FormaPagamento, config.FormasPagamentoList()) {
			return nil, fmt.Errorf("%w: %q", ErrFormaPagamentoInvalida, *req.FormaPagamento)
		}
		lanc.FormaPagamento = req.FormaPagamento

		if formaEhDinheiro(*req.FormaPagamento) {
			if req.ValorRecebido == nil {
				return nil, fmt.Errorf("%w: venda em dinheiro sem valor recebido", ErrValorRecebidoInsuficiente)
			}
			if req.ValorRecebido.LessThan(req.Valor) {
				return nil, ErrValorRecebidoInsuficiente
			}
			troco := req.ValorRecebido.Sub(req.Valor)
			lanc.ValorRecebido = req.ValorRecebido
			lanc.Troco = &troco
		}
	case "outros":
		if req.Descricao == nil || *req.Descricao == "" {
			return nil, ErrDescricaoObrigatoria
		}
		lanc.FormaPagamento = req.FormaPagamento
	}

	if err := s.repo.CreateLancamento(ctx, lanc); err != nil {
		return nil, colaborador(err)
	}
	aplicarTotais(caixa, lanc.Tipo, lanc.Valor)

	if s.notifier != nil && lanc.Categoria == "sangria" {
		descricao := ""
		if lanc.Descricao != nil {
			descricao = *lanc.Descricao
		}
		s.notifier.NotificarSangria(ctx, lanc.Valor, descricao)
	}

	return &dto.RegistrarLancamentoResponse{
		Lancamento: lancamentoToResponse(lanc),
		Totais:     totaisDe(caixa),
	}, nil
}

// tipoCanonico pins the direction for the categorias whose direction is
// inherent: vendas and suprimentos always enter, sangrias always leave.
// "outros" keeps the caller-supplied direction.
func tipoCanonico(categoria, tipo string) string {
	switch categoria {
	case "venda", "suprimento":
		return "entrada"
	case "sangria":
		return "saida"
	default:
		return tipo
	}
}

// ── Painel ────────────────────────────────────────────────────────────────────

func (s *caixaService) Painel(ctx context.Context) (*dto.PainelResponse, error) {
	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}
	lancs, err := s.repo.ListLancamentos(ctx, caixa.ID)
	if err != nil {
		return nil, colaborador(err)
	}

	resumoPagamentos := make(map[string]decimal.Decimal)
	resumoCategorias := make(map[string]decimal.Decimal)
	for _, l := range lancs {
		if l.Estorno != nil {
			continue
		}
		if l.Categoria == "venda" && l.Tipo == "entrada" {
			forma := "Não informado"
			if l.FormaPagamento != nil && *l.FormaPagamento != "" {
				forma = *l.FormaPagamento
			}
			resumoPagamentos[forma] = resumoPagamentos[forma].Add(l.Valor)
		}
		resumoCategorias[l.Categoria] = resumoCategorias[l.Categoria].Add(l.Valor)
	}

	return &dto.PainelResponse{
		Caixa:            *caixaToResponse(caixa),
		Totais:           totaisDe(caixa),
		ResumoPagamentos: resumoPagamentos,
		ResumoCategorias: resumoCategorias,
	}, nil
}

// ── ResumoFechamento ──────────────────────────────────────────────────────────

func (s *caixaService) ResumoFechamento(ctx context.Context) (*dto.ResumoFechamentoResponse, error) {
	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}
	lancs, err := s.repo.ListLancamentos(ctx, caixa.ID)
	if err != nil {
		return nil, colaborador(err)
	}
	resumo := montarResumoFechamento(caixa, lancs)
	return &resumo, nil
}

func (s *caixaService) ResumoCaixa(ctx context.Context, id uuid.UUID) (*dto.ResumoFechamentoResponse, error) {
	caixa, err := s.repo.FindCaixaByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaixaNaoEncontrado
	}
	if err != nil {
		return nil, colaborador(err)
	}
	resumo := montarResumoFechamento(caixa, caixa.Lancamentos)
	return &resumo, nil
}

// montarResumoFechamento aggregates the ledger in a single pass.
//
// Expected cash counts only physical cash movement:
//
//	dinheiroEsperado = trocoInicial + vendasDinheiro − trocoDado
//	                   − sangrias + suprimentos − estornosDinheiro
//
// A refunded venda is skipped together with its inverse estorno entry when
// both live in this caixa (they cancel out); an estorno whose venda belongs
// to an earlier caixa subtracts, because the cash left this drawer.
func montarResumoFechamento(caixa *model.Caixa, lancs []model.Lancamento) dto.ResumoFechamentoResponse {
	noLedger := make(map[uuid.UUID]bool, len(lancs))
	for _, l := range lancs {
		noLedger[l.ID] = true
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
		case "outros":
			if l.Tipo == "entrada" {
				mov.OutrosEntrada = mov.OutrosEntrada.Add(l.Valor)
			} else {
				mov.OutrosSaida = mov.OutrosSaida.Add(l.Valor)
			}
		case "estorno":
			if l.ReferenciaID != nil && noLedger[*l.ReferenciaID] {
				// Same-session refund: the skipped venda and this entry
				// cancel each other.
				continue
			}
			if l.FormaPagamento != nil && formaEhDinheiro(*l.FormaPagamento) {
				mov.EstornosDinheiro = mov.EstornosDinheiro.Add(l.Valor)
			}
		}
	}

	vendas.Total = vendas.Dinheiro.Add(vendas.Pix).
		Add(vendas.CartaoCredito).Add(vendas.CartaoDebito).Add(vendas.Outras)

	esperado := caixa.TrocoInicial.
		Add(vendas.Dinheiro).
		Sub(mov.TrocoDado).
		Sub(mov.Sangrias).
		Add(mov.Suprimentos).
		Sub(mov.EstornosDinheiro)

	return dto.ResumoFechamentoResponse{
		TrocoInicial:     caixa.TrocoInicial,
		Vendas:           vendas,
		Movimentacoes:    mov,
		DinheiroEsperado: esperado,
	}
}

// ── UltimosLancamentos ────────────────────────────────────────────────────────

func (s *caixaService) UltimosLancamentos(ctx context.Context, n int) ([]dto.LancamentoResponse, error) {
	if n < 1 {
		n = 20
	}
	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}
	lancs, err := s.repo.UltimosLancamentos(ctx, caixa.ID, n)
	if err != nil {
		return nil, colaborador(err)
	}
	return lancamentosToResponse(lancs), nil
}

// ── EstornarVenda ─────────────────────────────────────────────────────────────
// Refunds a venda by appending an inverse "estorno" entry to the OPEN caixa
// (never by mutating the original). The venda may belong to a previous,
// already-closed caixa.

func (s *caixaService) EstornarVenda(ctx context.Context, req dto.EstornarVendaRequest) (*dto.EstornarVendaResponse, error) {
	vendaID, err := uuid.Parse(req.LancamentoID)
	if err != nil {
		return nil, fmt.Errorf("%w: id inválido", ErrVendaNaoEncontrada)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caixa, err := s.findAberto(ctx)
	if err != nil {
		return nil, err
	}

	venda, err := s.lancRepo.FindByID(ctx, vendaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendaNaoEncontrada
	}
	if err != nil {
		return nil, colaborador(err)
	}
	if venda.Categoria != "venda" || venda.Tipo != "entrada" {
		return nil, ErrVendaNaoEncontrada
	}
	if venda.Estorno != nil {
		return nil, ErrVendaJaEstornada
	}

	descricao := fmt.Sprintf("Estorno da venda %s: %s", venda.ID, req.Motivo)
	refID := venda.ID
	inverso := &model.Lancamento{
		ID:             uuid.New(),
		CaixaID:        caixa.ID,
		DataHora:       s.clock.Now(),
		Tipo:           "saida",
		Categoria:      "estorno",
		FormaPagamento: venda.FormaPagamento,
		Valor:          venda.Valor,
		Descricao:      &descricao,
		ReferenciaID:   &refID,
	}
	est := &model.Estorno{
		ID:           uuid.New(),
		LancamentoID: venda.ID,
		Motivo:       req.Motivo,
		CreatedAt:    inverso.DataHora,
	}

	if err := s.repo.CreateEstorno(ctx, inverso, est); err != nil {
		return nil, colaborador(err)
	}
	aplicarTotais(caixa, inverso.Tipo, inverso.Valor)
	venda.Estorno = est

	return &dto.EstornarVendaResponse{
		Venda: lancamentoToResponse(venda),
		Estorno: dto.EstornoResponse{
			ID:           est.ID.String(),
			LancamentoID: est.LancamentoID.String(),
			Motivo:       est.Motivo,
			CreatedAt:    est.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

// ── Historical queries ────────────────────────────────────────────────────────

func (s *caixaService) ListarLancamentos(ctx context.Context, f repository.LancamentoFilter) ([]dto.LancamentoResponse, error) {
	lancs, err := s.lancRepo.ListByFilter(ctx, f)
	if err != nil {
		return nil, colaborador(err)
	}
	return lancamentosToResponse(lancs), nil
}

func (s *caixaService) ListarCaixas(ctx context.Context, status string) ([]dto.CaixaResponse, error) {
	caixas, err := s.repo.ListCaixas(ctx, status)
	if err != nil {
		return nil, colaborador(err)
	}
	out := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		out = append(out, *caixaToResponse(&caixas[i]))
	}
	return out, nil
}

func (s *caixaService) DetalhesCaixa(ctx context.Context, id uuid.UUID) (*dto.CaixaDetalheResponse, error) {
	caixa, err := s.repo.FindCaixaByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaixaNaoEncontrado
	}
	if err != nil {
		return nil, colaborador(err)
	}
	return &dto.CaixaDetalheResponse{
		Caixa:       *caixaToResponse(caixa),
		Lancamentos: lancamentosToResponse(caixa.Lancamentos),
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *caixaService) findAberto(ctx context.Context) (*model.Caixa, error) {
	caixa, err := s.repo.FindCaixaAberto(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSemCaixaAberto
	}
	if err != nil {
		return nil, colaborador(err)
	}
	return caixa, nil
}

// aplicarTotais mirrors on the in-memory caixa the increment the repository
// applied to the row, so responses carry fresh totals without a re-read.
func aplicarTotais(caixa *model.Caixa, tipo string, valor decimal.Decimal) {
	if tipo == "saida" {
		caixa.TotalSaidas = caixa.TotalSaidas.Add(valor)
		return
	}
	caixa.TotalEntradas = caixa.TotalEntradas.Add(valor)
}

func totaisDe(caixa *model.Caixa) dto.TotaisCaixa {
	return dto.TotaisCaixa{
		TrocoInicial:  caixa.TrocoInicial,
		TotalEntradas: caixa.TotalEntradas,
		TotalSaidas:   caixa.TotalSaidas,
		SaldoAtual:    caixa.SaldoAtual(),
	}
}

// rotuloDiferenca labels the variance: sobra (surplus), falta (shortage) or
// conferido (exactly balanced — decimal arithmetic, no epsilon).
func rotuloDiferenca(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return "sobra"
	case d.IsNegative():
		return "falta"
	default:
		return "conferido"
	}
}

func caixaToResponse(c *model.Caixa) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:           c.ID.String(),
		Operador:     c.Operador,
		Status:       c.Status,
		DataAbertura: c.DataAbertura.Format(time.RFC3339),
		ValorContado: c.ValorContado,
		Diferenca:    c.Diferenca,
		Observacao:   c.Observacao,
		TotaisCaixa: dto.TotaisCaixa{
			TrocoInicial:  c.TrocoInicial,
			TotalEntradas: c.TotalEntradas,
			TotalSaidas:   c.TotalSaidas,
			SaldoAtual:    c.SaldoAtual(),
		},
	}
	if c.DataFechamento != nil {
		t := c.DataFechamento.Format(time.RFC3339)
		resp.DataFechamento = &t
	}
	if c.Diferenca != nil {
		rotulo := rotuloDiferenca(*c.Diferenca)
		resp.Resultado = &rotulo
	}
	return resp
}

func lancamentoToResponse(l *model.Lancamento) dto.LancamentoResponse {
	return dto.LancamentoResponse{
		ID:             l.ID.String(),
		CaixaID:        l.CaixaID.String(),
		DataHora:       l.DataHora.Format(time.RFC3339),
		Tipo:           l.Tipo,
		Categoria:      l.Categoria,
		FormaPagamento: l.FormaPagamento,
		Valor:          l.Valor,
		ValorRecebido:  l.ValorRecebido,
		Troco:          l.Troco,
		Descricao:      l.Descricao,
		Estornado:      l.Estorno != nil,
	}
}

func lancamentosToResponse(lancs []model.Lancamento) []dto.LancamentoResponse {
	out := make([]dto.LancamentoResponse, 0, len(lancs))
	for i := range lancs {
		out = append(out, lancamentoToResponse(&lancs[i]))
	}
	return out
}
