package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is a registered push-notification endpoint (one per
// device). Delivery is fire-and-forget; per-event flags let each device opt
// out of individual notification types.
type PushSubscription struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Endpoint        string    `gorm:"uniqueIndex;not null"`
	P256dh          string    `gorm:"not null"`
	Auth            string    `gorm:"not null"`
	NomeDispositivo *string   `gorm:"type:varchar(200)"`
	Ativo           bool      `gorm:"not null;default:true"`

	NotificarSangria      bool `gorm:"not null;default:true"`
	NotificarAbertura     bool `gorm:"not null;default:true"`
	NotificarFechamento   bool `gorm:"not null;default:true"`
	NotificarResumoDiario bool `gorm:"not null;default:true"`

	CreatedAt time.Time
}
