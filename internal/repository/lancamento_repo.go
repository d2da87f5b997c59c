package repository

import (
	"context"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LancamentoFilter narrows historical ledger queries. Nil/zero fields are
// ignored; date bounds are inclusive.
type LancamentoFilter struct {
	DataInicio *time.Time
	DataFim    *time.Time
	Tipo       string
	Categoria  string
	CaixaID    *uuid.UUID
}

// LancamentoRepository serves historical queries that span caixas, open and
// closed alike — unlike CaixaRepository, which is scoped to one session.
type LancamentoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lancamento, error)
	ListByFilter(ctx context.Context, f LancamentoFilter) ([]model.Lancamento, error)
	UltimosGlobais(ctx context.Context, n int) ([]model.Lancamento, error)
	// DatasComMovimento returns distinct dates (YYYY-MM-DD) with at least one
	// lançamento since the given instant.
	DatasComMovimento(ctx context.Context, desde time.Time) ([]string, error)
}

type lancamentoRepo struct{ db *gorm.DB }

func NewLancamentoRepository(db *gorm.DB) LancamentoRepository { return &lancamentoRepo{db: db} }

func (r *lancamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lancamento, error) {
	var l model.Lancamento
	err := r.db.WithContext(ctx).Preload("Estorno").First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lancamentoRepo) ListByFilter(ctx context.Context, f LancamentoFilter) ([]model.Lancamento, error) {
	q := r.db.WithContext(ctx).Preload("Estorno").Order("data_hora ASC")
	if f.CaixaID != nil {
		q = q.Where("caixa_id = ?", *f.CaixaID)
	}
	if f.DataInicio != nil {
		q = q.Where("data_hora >= ?", *f.DataInicio)
	}
	if f.DataFim != nil {
		q = q.Where("data_hora <= ?", *f.DataFim)
	}
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	var lancs []model.Lancamento
	err := q.Find(&lancs).Error
	return lancs, err
}

func (r *lancamentoRepo) UltimosGlobais(ctx context.Context, n int) ([]model.Lancamento, error) {
	var lancs []model.Lancamento
	err := r.db.WithContext(ctx).
		Preload("Estorno").
		Order("data_hora DESC").
		Limit(n).
		Find(&lancs).Error
	return lancs, err
}

func (r *lancamentoRepo) DatasComMovimento(ctx context.Context, desde time.Time) ([]string, error) {
	var datas []string
	err := r.db.WithContext(ctx).
		Model(&model.Lancamento{}).
		Where("data_hora >= ?", desde).
		Distinct().
		Pluck("DATE(data_hora)", &datas).Error
	return datas, err
}
