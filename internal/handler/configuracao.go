package handler

import (
	"net/http"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracaoHandler struct{ svc service.ConfiguracaoService }

func NewConfiguracaoHandler(svc service.ConfiguracaoService) *ConfiguracaoHandler {
	return &ConfiguracaoHandler{svc: svc}
}

// Get godoc
// @Summary Configuração da loja
// @Tags configuracao
// @Produce json
// @Success 200 {object} dto.ConfiguracaoResponse
// @Router /v1/configuracao [get]
func (h *ConfiguracaoHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Atualiza a configuração da loja
// @Tags configuracao
// @Accept json
// @Produce json
// @Param body body dto.AtualizarConfiguracaoRequest true "Campos a atualizar"
// @Success 200 {object} dto.ConfiguracaoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/configuracao [put]
func (h *ConfiguracaoHandler) Atualizar(c *gin.Context) {
	var req dto.AtualizarConfiguracaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
