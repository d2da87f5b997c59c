package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/model"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repositories ────────────────────────────────────────────────────
// Mirror the semantics of the GORM implementations: FindCaixaAberto returns
// gorm.ErrRecordNotFound when no caixa is open, CreateLancamento bumps the
// cached totals atomically, and list operations attach Estorno records.

type memStore struct {
	mu       sync.Mutex
	caixas   map[uuid.UUID]*model.Caixa
	lancs    []model.Lancamento
	estornos map[uuid.UUID]*model.Estorno // keyed by LancamentoID (the venda)
	config   model.Configuracao
}

func newMemStore() *memStore {
	return &memStore{
		caixas:   make(map[uuid.UUID]*model.Caixa),
		estornos: make(map[uuid.UUID]*model.Estorno),
		config: model.Configuracao{
			ID:              1,
			NomeLoja:        "Loja de Teste",
			Responsavel:     "Tester",
			FormasPagamento: "Dinheiro,PIX,Cartão Débito,Cartão Crédito",
		},
	}
}

func (s *memStore) attachEstorno(l *model.Lancamento) {
	if est, ok := s.estornos[l.ID]; ok {
		l.Estorno = est
	}
}

// ── CaixaRepository ───────────────────────────────────────────────────────────

func (s *memStore) CreateCaixa(_ context.Context, c *model.Caixa) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.caixas[c.ID] = &cp
	return nil
}

func (s *memStore) FindCaixaAberto(_ context.Context) (*model.Caixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.caixas {
		if c.Status == "aberto" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindCaixaByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Lancamentos = s.lancsDoCaixa(id)
	return &cp, nil
}

func (s *memStore) UpdateCaixa(_ context.Context, c *model.Caixa) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.caixas[c.ID] = &cp
	return nil
}

func (s *memStore) ListCaixas(_ context.Context, status string) ([]model.Caixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Caixa
	for _, c := range s.caixas {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataAbertura.After(out[j].DataAbertura) })
	return out, nil
}

func (s *memStore) ListCaixasPorPeriodo(_ context.Context, inicio, fim time.Time) ([]model.Caixa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Caixa
	for _, c := range s.caixas {
		if !c.DataAbertura.Before(inicio) && !c.DataAbertura.After(fim) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataAbertura.Before(out[j].DataAbertura) })
	return out, nil
}

func (s *memStore) CreateLancamento(_ context.Context, l *model.Lancamento) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lancs = append(s.lancs, *l)
	s.bumpTotais(l.CaixaID, l.Tipo, l.Valor)
	return nil
}

func (s *memStore) CreateEstorno(_ context.Context, inverso *model.Lancamento, est *model.Estorno) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lancs = append(s.lancs, *inverso)
	cp := *est
	s.estornos[est.LancamentoID] = &cp
	s.bumpTotais(inverso.CaixaID, inverso.Tipo, inverso.Valor)
	return nil
}

func (s *memStore) bumpTotais(caixaID uuid.UUID, tipo string, valor decimal.Decimal) {
	c, ok := s.caixas[caixaID]
	if !ok {
		return
	}
	if tipo == "saida" {
		c.TotalSaidas = c.TotalSaidas.Add(valor)
	} else {
		c.TotalEntradas = c.TotalEntradas.Add(valor)
	}
}

func (s *memStore) lancsDoCaixa(caixaID uuid.UUID) []model.Lancamento {
	var out []model.Lancamento
	for _, l := range s.lancs {
		if l.CaixaID == caixaID {
			s.attachEstorno(&l)
			out = append(out, l)
		}
	}
	return out
}

func (s *memStore) ListLancamentos(_ context.Context, caixaID uuid.UUID) ([]model.Lancamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lancsDoCaixa(caixaID), nil
}

func (s *memStore) UltimosLancamentos(_ context.Context, caixaID uuid.UUID, n int) ([]model.Lancamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.lancsDoCaixa(caixaID)
	sort.Slice(all, func(i, j int) bool { return all[i].DataHora.After(all[j].DataHora) })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// ── LancamentoRepository ──────────────────────────────────────────────────────

func (s *memStore) FindByID(_ context.Context, id uuid.UUID) (*model.Lancamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lancs {
		if l.ID == id {
			s.attachEstorno(&l)
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) ListByFilter(_ context.Context, f repository.LancamentoFilter) ([]model.Lancamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Lancamento
	for _, l := range s.lancs {
		if f.CaixaID != nil && l.CaixaID != *f.CaixaID {
			continue
		}
		if f.DataInicio != nil && l.DataHora.Before(*f.DataInicio) {
			continue
		}
		if f.DataFim != nil && l.DataHora.After(*f.DataFim) {
			continue
		}
		if f.Tipo != "" && l.Tipo != f.Tipo {
			continue
		}
		if f.Categoria != "" && l.Categoria != f.Categoria {
			continue
		}
		s.attachEstorno(&l)
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataHora.Before(out[j].DataHora) })
	return out, nil
}

func (s *memStore) UltimosGlobais(_ context.Context, n int) ([]model.Lancamento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Lancamento, len(s.lancs))
	copy(all, s.lancs)
	for i := range all {
		s.attachEstorno(&all[i])
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DataHora.After(all[j].DataHora) })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *memStore) DatasComMovimento(_ context.Context, desde time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, l := range s.lancs {
		if l.DataHora.Before(desde) {
			continue
		}
		d := l.DataHora.Format("2006-01-02")
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

// ── ConfiguracaoRepository ────────────────────────────────────────────────────

func (s *memStore) GetConfig(_ context.Context) (*model.Configuracao, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.config
	return &cp, nil
}

func (s *memStore) Update(_ context.Context, c *model.Configuracao) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = *c
	return nil
}

// ── Deterministic clock ───────────────────────────────────────────────────────

// stepClock advances one second per reading so every lançamento gets a
// distinct, strictly increasing timestamp.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}
