package handler

import (
	"net/http"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PushHandler struct{ svc service.PushService }

func NewPushHandler(svc service.PushService) *PushHandler { return &PushHandler{svc: svc} }

// Subscribe godoc
// @Summary Registra (ou reativa) uma subscrição de notificações
// @Tags push
// @Accept json
// @Produce json
// @Param body body dto.SubscribePushRequest true "Dados da subscrição"
// @Success 201 {object} dto.PushSubscriptionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/push/subscrever [post]
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribePushRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista as subscrições registradas
// @Tags push
// @Produce json
// @Success 200 {array} dto.PushSubscriptionResponse
// @Router /v1/push/subscricoes [get]
func (h *PushHandler) Listar(c *gin.Context) {
	subs, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Atualizar godoc
// @Summary Atualiza as preferências de uma subscrição
// @Tags push
// @Accept json
// @Produce json
// @Param id path string true "ID da subscrição"
// @Param body body dto.AtualizarPushRequest true "Preferências"
// @Success 200 {object} dto.PushSubscriptionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/push/subscricoes/{id} [patch]
func (h *PushHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarPushRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remover godoc
// @Summary Remove uma subscrição
// @Tags push
// @Param id path string true "ID da subscrição"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/push/subscricoes/{id} [delete]
func (h *PushHandler) Remover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Remover(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
