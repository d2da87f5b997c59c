package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/apierror"
	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/gin-gonic/gin"
)

type RelatoriosHandler struct {
	relatorios service.RelatorioService
	caixaSvc   service.CaixaService
	configSvc  service.ConfiguracaoService
	clock      service.Clock
}

func NewRelatoriosHandler(
	relatorios service.RelatorioService,
	caixaSvc service.CaixaService,
	configSvc service.ConfiguracaoService,
	clock service.Clock,
) *RelatoriosHandler {
	return &RelatoriosHandler{relatorios: relatorios, caixaSvc: caixaSvc, configSvc: configSvc, clock: clock}
}

// ResumoPeriodo godoc
// @Summary Resumo de um período: totais, categorias e formas de pagamento
// @Tags relatorios
// @Produce json
// @Param inicio query string true "AAAA-MM-DD"
// @Param fim query string true "AAAA-MM-DD"
// @Success 200 {object} dto.ResumoPeriodoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/relatorios/periodo [get]
func (h *RelatoriosHandler) ResumoPeriodo(c *gin.Context) {
	inicio, fim, ok := h.parsePeriodo(c)
	if !ok {
		return
	}
	resp, err := h.relatorios.ResumoPeriodo(c.Request.Context(), inicio, fim)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportarPeriodoCSV godoc
// @Summary Exporta os lançamentos de um período em CSV
// @Tags relatorios
// @Produce text/csv
// @Param inicio query string true "AAAA-MM-DD"
// @Param fim query string true "AAAA-MM-DD"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /v1/relatorios/periodo.csv [get]
func (h *RelatoriosHandler) ExportarPeriodoCSV(c *gin.Context) {
	q := dto.LancamentoFilter{DataInicio: c.Query("inicio"), DataFim: c.Query("fim")}
	if q.DataInicio == "" || q.DataFim == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros obrigatórios: inicio, fim"))
		return
	}
	filtro, err := montarFiltro(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	lancs, err := h.caixaSvc.ListarLancamentos(c.Request.Context(), filtro)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lancamentos_`+q.DataInicio+"_"+q.DataFim+`.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"data_hora", "tipo", "categoria", "forma_pagamento", "valor", "valor_recebido", "troco", "descricao", "estornado"})
	for _, l := range lancs {
		forma, descricao, recebido, troco := "", "", "", ""
		if l.FormaPagamento != nil {
			forma = *l.FormaPagamento
		}
		if l.Descricao != nil {
			descricao = *l.Descricao
		}
		if l.ValorRecebido != nil {
			recebido = l.ValorRecebido.StringFixed(2)
		}
		if l.Troco != nil {
			troco = l.Troco.StringFixed(2)
		}
		_ = w.Write([]string{
			l.DataHora, l.Tipo, l.Categoria, forma,
			l.Valor.StringFixed(2), recebido, troco, descricao,
			strconv.FormatBool(l.Estornado),
		})
	}
	w.Flush()
}

// ResumoPeriodoPDF godoc
// @Summary Relatório de um período em PDF
// @Tags relatorios
// @Produce application/pdf
// @Param inicio query string true "AAAA-MM-DD"
// @Param fim query string true "AAAA-MM-DD"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /v1/relatorios/periodo.pdf [get]
func (h *RelatoriosHandler) ResumoPeriodoPDF(c *gin.Context) {
	inicio, fim, ok := h.parsePeriodo(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resumo, err := h.relatorios.ResumoPeriodo(ctx, inicio, fim)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	config, err := h.configSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	buf, err := infra.GerarRelatorioPeriodoPDF(config.NomeLoja, resumo)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.Header("Content-Disposition", `inline; filename="periodo_`+resumo.Periodo.Inicio+"_"+resumo.Periodo.Fim+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportarCaixasCSV godoc
// @Summary Exporta o histórico de caixas em CSV
// @Tags relatorios
// @Produce text/csv
// @Param status query string false "aberto | fechado"
// @Success 200 {file} binary
// @Router /v1/relatorios/caixas.csv [get]
func (h *RelatoriosHandler) ExportarCaixasCSV(c *gin.Context) {
	caixas, err := h.caixaSvc.ListarCaixas(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="caixas.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"data_abertura", "data_fechamento", "operador", "status", "troco_inicial", "total_entradas", "total_saidas", "saldo", "valor_contado", "diferenca", "resultado"})
	for _, cx := range caixas {
		fechamento, operador, contado, diferenca, resultado := "", "", "", "", ""
		if cx.DataFechamento != nil {
			fechamento = *cx.DataFechamento
		}
		if cx.Operador != nil {
			operador = *cx.Operador
		}
		if cx.ValorContado != nil {
			contado = cx.ValorContado.StringFixed(2)
		}
		if cx.Diferenca != nil {
			diferenca = cx.Diferenca.StringFixed(2)
		}
		if cx.Resultado != nil {
			resultado = *cx.Resultado
		}
		_ = w.Write([]string{
			cx.DataAbertura, fechamento, operador, cx.Status,
			cx.TrocoInicial.StringFixed(2), cx.TotalEntradas.StringFixed(2),
			cx.TotalSaidas.StringFixed(2), cx.SaldoAtual.StringFixed(2),
			contado, diferenca, resultado,
		})
	}
	w.Flush()
}

// ResumoHoje godoc
// @Summary Resumo gerencial do dia corrente
// @Tags gerente
// @Produce json
// @Success 200 {object} dto.ResumoDiarioResponse
// @Router /v1/gerente/resumo-hoje [get]
func (h *RelatoriosHandler) ResumoHoje(c *gin.Context) {
	resp, err := h.relatorios.ResumoDiario(c.Request.Context(), h.clock.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumoDia godoc
// @Summary Resumo gerencial de um dia específico
// @Tags gerente
// @Produce json
// @Param data query string true "AAAA-MM-DD"
// @Success 200 {object} dto.ResumoDiarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/gerente/resumo-dia [get]
func (h *RelatoriosHandler) ResumoDia(c *gin.Context) {
	dia, ok := h.parseDia(c)
	if !ok {
		return
	}
	resp, err := h.relatorios.ResumoDiario(c.Request.Context(), dia)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumoDiaPDF godoc
// @Summary Resumo gerencial de um dia em PDF
// @Tags gerente
// @Produce application/pdf
// @Param data query string true "AAAA-MM-DD"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /v1/gerente/resumo-dia.pdf [get]
func (h *RelatoriosHandler) ResumoDiaPDF(c *gin.Context) {
	dia, ok := h.parseDia(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resumo, err := h.relatorios.ResumoDiario(ctx, dia)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	config, err := h.configSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	buf, err := infra.GerarResumoDiarioPDF(config.NomeLoja, resumo)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.Header("Content-Disposition", `inline; filename="resumo_`+resumo.Data+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ResumoSemana godoc
// @Summary Vendas por dia dos últimos 7 dias
// @Tags gerente
// @Produce json
// @Success 200 {object} dto.ResumoSemanaResponse
// @Router /v1/gerente/semana [get]
func (h *RelatoriosHandler) ResumoSemana(c *gin.Context) {
	resp, err := h.relatorios.ResumoSemana(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SangriasHoje godoc
// @Summary Sangrias do dia corrente, mais recentes primeiro
// @Tags gerente
// @Produce json
// @Success 200 {object} dto.SangriasHojeResponse
// @Router /v1/gerente/sangrias-hoje [get]
func (h *RelatoriosHandler) SangriasHoje(c *gin.Context) {
	resp, err := h.relatorios.SangriasHoje(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DatasComMovimento godoc
// @Summary Datas dos últimos 30 dias que tiveram lançamentos
// @Tags gerente
// @Produce json
// @Success 200 {object} dto.DatasComMovimentoResponse
// @Router /v1/gerente/datas-com-movimento [get]
func (h *RelatoriosHandler) DatasComMovimento(c *gin.Context) {
	resp, err := h.relatorios.DatasComMovimento(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UltimasMovimentacoes godoc
// @Summary Últimos lançamentos de qualquer caixa, mais recentes primeiro
// @Tags gerente
// @Produce json
// @Param n query int false "Quantidade (padrão 20, máximo 100)"
// @Success 200 {object} dto.LancamentoListResponse
// @Router /v1/gerente/ultimas-movimentacoes [get]
func (h *RelatoriosHandler) UltimasMovimentacoes(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("n", "20"))
	lancs, err := h.relatorios.UltimasMovimentacoes(c.Request.Context(), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LancamentoListResponse{Lancamentos: lancs})
}

func (h *RelatoriosHandler) parsePeriodo(c *gin.Context) (time.Time, time.Time, bool) {
	inicio, err := time.ParseInLocation("2006-01-02", c.Query("inicio"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro inválido: inicio"))
		return time.Time{}, time.Time{}, false
	}
	fim, err := time.ParseInLocation("2006-01-02", c.Query("fim"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro inválido: fim"))
		return time.Time{}, time.Time{}, false
	}
	// fim is a whole day — extend to its last instant
	return inicio, fim.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

func (h *RelatoriosHandler) parseDia(c *gin.Context) (time.Time, bool) {
	dia, err := time.ParseInLocation("2006-01-02", c.Query("data"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro inválido: data"))
		return time.Time{}, false
	}
	return dia, true
}
