package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LancamentosHandler struct{ svc service.CaixaService }

func NewLancamentosHandler(svc service.CaixaService) *LancamentosHandler {
	return &LancamentosHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra um lançamento no caixa aberto
// @Tags lancamentos
// @Accept json
// @Produce json
// @Param body body dto.RegistrarLancamentoRequest true "Dados do lançamento"
// @Success 201 {object} dto.RegistrarLancamentoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/lancamentos [post]
func (h *LancamentosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarLancamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarLancamento(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Estornar godoc
// @Summary Estorna uma venda lançando a contrapartida no caixa aberto
// @Tags lancamentos
// @Accept json
// @Produce json
// @Param body body dto.EstornarVendaRequest true "Venda e motivo"
// @Success 201 {object} dto.EstornarVendaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/lancamentos/estornar [post]
func (h *LancamentosHandler) Estornar(c *gin.Context) {
	var req dto.EstornarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EstornarVenda(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista lançamentos históricos com filtros
// @Tags lancamentos
// @Produce json
// @Param data_inicio query string false "AAAA-MM-DD"
// @Param data_fim query string false "AAAA-MM-DD"
// @Param tipo query string false "entrada | saida"
// @Param categoria query string false "venda | sangria | suprimento | outros | estorno"
// @Param caixa_id query string false "ID do caixa"
// @Success 200 {object} dto.LancamentoListResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/lancamentos [get]
func (h *LancamentosHandler) Listar(c *gin.Context) {
	var q dto.LancamentoFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtro inválido: "+err.Error()))
		return
	}
	filtro, err := montarFiltro(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	lancs, err := h.svc.ListarLancamentos(c.Request.Context(), filtro)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LancamentoListResponse{Lancamentos: lancs})
}

// montarFiltro converts the query-string filter into the typed repository
// filter. Dates are whole days: data_fim extends to the end of that day.
func montarFiltro(q dto.LancamentoFilter) (repository.LancamentoFilter, error) {
	f := repository.LancamentoFilter{Tipo: q.Tipo, Categoria: q.Categoria}

	if q.DataInicio != "" {
		t, err := time.ParseInLocation("2006-01-02", q.DataInicio, time.Local)
		if err != nil {
			return f, fmt.Errorf("Parâmetro inválido: data_inicio")
		}
		f.DataInicio = &t
	}
	if q.DataFim != "" {
		t, err := time.ParseInLocation("2006-01-02", q.DataFim, time.Local)
		if err != nil {
			return f, fmt.Errorf("Parâmetro inválido: data_fim")
		}
		fim := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.DataFim = &fim
	}
	if q.CaixaID != "" {
		id, err := uuid.Parse(q.CaixaID)
		if err != nil {
			return f, fmt.Errorf("Parâmetro inválido: caixa_id")
		}
		f.CaixaID = &id
	}
	return f, nil
}
