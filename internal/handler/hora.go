package handler

import (
	"net/http"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/infra"

	"github.com/gin-gonic/gin"
)

type HoraHandler struct{ clock *infra.SyncedClock }

func NewHoraHandler(clock *infra.SyncedClock) *HoraHandler { return &HoraHandler{clock: clock} }

// Agora godoc
// @Summary Hora corrente do servidor e estado da sincronização
// @Tags hora
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/hora [get]
func (h *HoraHandler) Agora(c *gin.Context) {
	status := h.clock.Status()
	c.JSON(http.StatusOK, gin.H{
		"agora":         h.clock.Now().Format(time.RFC3339),
		"sincronizacao": status,
	})
}

// Sincronizar godoc
// @Summary Força uma sincronização imediata com a API de hora
// @Tags hora
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} apierror.APIError
// @Router /v1/hora/sincronizar [post]
func (h *HoraHandler) Sincronizar(c *gin.Context) {
	if err := h.clock.ForceSync(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Falha ao sincronizar com a API de hora"))
		return
	}
	h.Agora(c)
}
