package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type pdfGenerator func(string, *dto.CaixaDetalheResponse, *dto.ResumoFechamentoResponse) (*bytes.Buffer, error)

type CaixaHandler struct {
	svc       service.CaixaService
	configSvc service.ConfiguracaoService
}

func NewCaixaHandler(svc service.CaixaService, configSvc service.ConfiguracaoService) *CaixaHandler {
	return &CaixaHandler{svc: svc, configSvc: configSvc}
}

// Abrir godoc
// @Summary Abre um novo caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha o caixa aberto, conferindo o valor contado
// @Tags caixa
// @Accept json
// @Produce json
// @Param body body dto.FecharCaixaRequest true "Dados de fechamento"
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary Indica se há caixa aberto e o seu estado atual
// @Tags caixa
// @Produce json
// @Success 200 {object} dto.StatusCaixaResponse
// @Router /v1/caixa/status [get]
func (h *CaixaHandler) Status(c *gin.Context) {
	resp, err := h.svc.Status(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Painel godoc
// @Summary Painel do caixa aberto: totais e resumos por forma e categoria
// @Tags caixa
// @Produce json
// @Success 200 {object} dto.PainelResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/painel [get]
func (h *CaixaHandler) Painel(c *gin.Context) {
	resp, err := h.svc.Painel(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumoFechamento godoc
// @Summary Conferência pré-fechamento do caixa aberto
// @Tags caixa
// @Produce json
// @Success 200 {object} dto.ResumoFechamentoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/resumo-fechamento [get]
func (h *CaixaHandler) ResumoFechamento(c *gin.Context) {
	resp, err := h.svc.ResumoFechamento(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UltimosLancamentos godoc
// @Summary Últimos lançamentos do caixa aberto (mais recentes primeiro)
// @Tags caixa
// @Produce json
// @Param n query int false "Quantidade (padrão 20)"
// @Success 200 {object} dto.LancamentoListResponse
// @Router /v1/caixa/ultimos-lancamentos [get]
func (h *CaixaHandler) UltimosLancamentos(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("n", "20"))
	lancs, err := h.svc.UltimosLancamentos(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LancamentoListResponse{Lancamentos: lancs})
}

// Listar godoc
// @Summary Lista caixas, opcionalmente filtrados por status
// @Tags caixa
// @Produce json
// @Param status query string false "aberto | fechado"
// @Success 200 {object} dto.CaixaListResponse
// @Router /v1/caixas [get]
func (h *CaixaHandler) Listar(c *gin.Context) {
	caixas, err := h.svc.ListarCaixas(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CaixaListResponse{Caixas: caixas})
}

// Detalhes godoc
// @Summary Detalhes de um caixa com o seu livro de lançamentos
// @Tags caixa
// @Produce json
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.CaixaDetalheResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/{id} [get]
func (h *CaixaHandler) Detalhes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.DetalhesCaixa(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioPDF godoc
// @Summary Relatório A4 de um caixa em PDF
// @Tags caixa
// @Produce application/pdf
// @Param id path string true "ID do caixa"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/{id}/relatorio.pdf [get]
func (h *CaixaHandler) RelatorioPDF(c *gin.Context) {
	h.servirPDF(c, infra.GerarRelatorioCaixaPDF, "relatorio_caixa.pdf")
}

// CupomPDF godoc
// @Summary Cupom térmico (80mm) de fechamento de um caixa
// @Tags caixa
// @Produce application/pdf
// @Param id path string true "ID do caixa"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/{id}/cupom.pdf [get]
func (h *CaixaHandler) CupomPDF(c *gin.Context) {
	h.servirPDF(c, infra.GerarCupomFechamento, "cupom_fechamento.pdf")
}

func (h *CaixaHandler) servirPDF(c *gin.Context, gerar pdfGenerator, fileName string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	ctx := c.Request.Context()

	det, err := h.svc.DetalhesCaixa(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resumo, err := h.svc.ResumoCaixa(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	config, err := h.configSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	buf, err := gerar(config.NomeLoja, det, resumo)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
