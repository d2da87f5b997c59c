package repository

import (
	"context"

	"github.com/pedropoiani/SimplesCaixa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushRepository interface {
	// Upsert registers a subscription; re-subscribing an existing endpoint
	// reactivates it and refreshes its keys.
	Upsert(ctx context.Context, s *model.PushSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PushSubscription, error)
	List(ctx context.Context) ([]model.PushSubscription, error)
	// ListAtivas returns only active subscriptions for delivery fan-out.
	ListAtivas(ctx context.Context) ([]model.PushSubscription, error)
	Update(ctx context.Context, s *model.PushSubscription) error
	// DeactivateByEndpoint is called when a push endpoint responds 404/410.
	DeactivateByEndpoint(ctx context.Context, endpoint string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pushRepo struct{ db *gorm.DB }

func NewPushRepository(db *gorm.DB) PushRepository { return &pushRepo{db: db} }

func (r *pushRepo) Upsert(ctx context.Context, s *model.PushSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "nome_dispositivo", "ativo"}),
	}).Create(s).Error
}

func (r *pushRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PushSubscription, error) {
	var s model.PushSubscription
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pushRepo) List(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *pushRepo) ListAtivas(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.WithContext(ctx).Where("ativo = true").Find(&subs).Error
	return subs, err
}

func (r *pushRepo) Update(ctx context.Context, s *model.PushSubscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *pushRepo) DeactivateByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Model(&model.PushSubscription{}).
		Where("endpoint = ?", endpoint).
		Update("ativo", false).Error
}

func (r *pushRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PushSubscription{}, id).Error
}
