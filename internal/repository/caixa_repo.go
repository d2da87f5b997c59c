package repository

import (
	"context"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	CreateCaixa(ctx context.Context, c *model.Caixa) error
	// FindCaixaAberto returns the single open caixa, or gorm.ErrRecordNotFound.
	FindCaixaAberto(ctx context.Context) (*model.Caixa, error)
	FindCaixaByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	UpdateCaixa(ctx context.Context, c *model.Caixa) error
	ListCaixas(ctx context.Context, status string) ([]model.Caixa, error)
	// ListCaixasPorPeriodo returns caixas opened within [inicio, fim].
	ListCaixasPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Caixa, error)

	// CreateLancamento inserts the lançamento and bumps the caixa cached
	// totals in a single transaction — either both land or neither does.
	CreateLancamento(ctx context.Context, l *model.Lancamento) error
	// CreateEstorno inserts the inverse lançamento and the estorno audit
	// record atomically, bumping totals like CreateLancamento.
	CreateEstorno(ctx context.Context, inverso *model.Lancamento, est *model.Estorno) error

	ListLancamentos(ctx context.Context, caixaID uuid.UUID) ([]model.Lancamento, error)
	UltimosLancamentos(ctx context.Context, caixaID uuid.UUID, n int) ([]model.Lancamento, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CreateCaixa(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindCaixaAberto(ctx context.Context) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Where("status = 'aberto'").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FindCaixaByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Preload("Lancamentos.Estorno").Preload("Lancamentos").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) UpdateCaixa(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *caixaRepo) ListCaixas(ctx context.Context, status string) ([]model.Caixa, error) {
	q := r.db.WithContext(ctx).Order("data_abertura DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var caixas []model.Caixa
	err := q.Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) ListCaixasPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := r.db.WithContext(ctx).
		Where("data_abertura >= ? AND data_abertura <= ?", inicio, fim).
		Order("data_abertura ASC").
		Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) CreateLancamento(ctx context.Context, l *model.Lancamento) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		return incrementTotais(tx, l.CaixaID, l.Tipo, l.Valor)
	})
}

func (r *caixaRepo) CreateEstorno(ctx context.Context, inverso *model.Lancamento, est *model.Estorno) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inverso).Error; err != nil {
			return err
		}
		if err := tx.Create(est).Error; err != nil {
			return err
		}
		return incrementTotais(tx, inverso.CaixaID, inverso.Tipo, inverso.Valor)
	})
}

// incrementTotais bumps the cached running totals on the caixa row. Done with
// a column expression so concurrent writers cannot lose an update.
func incrementTotais(tx *gorm.DB, caixaID uuid.UUID, tipo string, valor decimal.Decimal) error {
	col := "total_entradas"
	if tipo == "saida" {
		col = "total_saidas"
	}
	return tx.Model(&model.Caixa{}).
		Where("id = ?", caixaID).
		Update(col, gorm.Expr(col+" + ?", valor)).Error
}

func (r *caixaRepo) ListLancamentos(ctx context.Context, caixaID uuid.UUID) ([]model.Lancamento, error) {
	var lancs []model.Lancamento
	err := r.db.WithContext(ctx).
		Preload("Estorno").
		Where("caixa_id = ?", caixaID).
		Order("data_hora ASC").
		Find(&lancs).Error
	return lancs, err
}

func (r *caixaRepo) UltimosLancamentos(ctx context.Context, caixaID uuid.UUID, n int) ([]model.Lancamento, error) {
	var lancs []model.Lancamento
	err := r.db.WithContext(ctx).
		Preload("Estorno").
		Where("caixa_id = ?", caixaID).
		Order("data_hora DESC").
		Limit(n).
		Find(&lancs).Error
	return lancs, err
}
