package dto

type SubscribePushRequest struct {
	Endpoint        string  `json:"endpoint" validate:"required,url"`
	P256dh          string  `json:"p256dh"   validate:"required"`
	Auth            string  `json:"auth"     validate:"required"`
	NomeDispositivo *string `json:"nome_dispositivo"`
}

type AtualizarPushRequest struct {
	Ativo                 *bool `json:"ativo"`
	NotificarSangria      *bool `json:"notificar_sangria"`
	NotificarAbertura     *bool `json:"notificar_abertura"`
	NotificarFechamento   *bool `json:"notificar_fechamento"`
	NotificarResumoDiario *bool `json:"notificar_resumo_diario"`
}

type PushSubscriptionResponse struct {
	ID                    string  `json:"id"`
	NomeDispositivo       *string `json:"nome_dispositivo"`
	Ativo                 bool    `json:"ativo"`
	NotificarSangria      bool    `json:"notificar_sangria"`
	NotificarAbertura     bool    `json:"notificar_abertura"`
	NotificarFechamento   bool    `json:"notificar_fechamento"`
	NotificarResumoDiario bool    `json:"notificar_resumo_diario"`
	CreatedAt             string  `json:"created_at"`
}
