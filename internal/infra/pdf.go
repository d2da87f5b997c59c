package infra

// pdf.go — report generation using go-pdf/fpdf.
// Four documents are produced here:
//   - A4 session report: header, reconciliation summary, full ledger table
//   - 80mm thermal closing coupon, for the drawer printer
//   - A4 daily summary, attached to the end-of-day email
//   - A4 period report: totals plus categoria/forma breakdowns
//
// All generators return an in-memory buffer; callers stream it over HTTP or
// persist it with SalvarPDF.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GerarRelatorioCaixaPDF renders the full A4 report of one caixa: identity,
// totals, reconciliation and the complete lançamento table.
func GerarRelatorioCaixaPDF(nomeLoja string, det *dto.CaixaDetalheResponse, resumo *dto.ResumoFechamentoResponse) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Relatório de Caixa"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	c := det.Caixa
	pdf.SetFont("Helvetica", "", 9)
	if c.Operador != nil {
		pdf.CellFormat(contentW, 5, tr("Operador: "+*c.Operador), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, tr("Abertura: "+c.DataAbertura), "", 1, "L", false, 0, "")
	if c.DataFechamento != nil {
		pdf.CellFormat(contentW, 5, tr("Fechamento: "+*c.DataFechamento), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	escreverLinhaValor(pdf, tr, contentW, "Troco inicial", c.TrocoInicial, false)
	escreverLinhaValor(pdf, tr, contentW, "Total de entradas", c.TotalEntradas, false)
	escreverLinhaValor(pdf, tr, contentW, "Total de saídas", c.TotalSaidas, false)
	escreverLinhaValor(pdf, tr, contentW, "Saldo", c.SaldoAtual, true)
	pdf.Ln(2)

	escreverLinhaValor(pdf, tr, contentW, "Dinheiro esperado na gaveta", resumo.DinheiroEsperado, true)
	if c.ValorContado != nil {
		escreverLinhaValor(pdf, tr, contentW, "Valor contado", *c.ValorContado, false)
	}
	if c.Diferenca != nil && c.Resultado != nil {
		escreverLinhaValor(pdf, tr, contentW, "Diferença ("+*c.Resultado+")", *c.Diferenca, true)
	}
	pdf.Ln(4)

	// ── Ledger table ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Lançamentos"), "", 1, "L", false, 0, "")

	col1 := contentW * 0.20 // hora
	col2 := contentW * 0.17 // categoria
	col3 := contentW * 0.20 // forma
	col4 := contentW * 0.28 // descrição
	col5 := contentW * 0.15 // valor

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Data/Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Categoria", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Forma", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, tr("Descrição"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 6, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range det.Lancamentos {
		forma := ""
		if l.FormaPagamento != nil {
			forma = *l.FormaPagamento
		}
		descricao := ""
		if l.Descricao != nil {
			descricao = *l.Descricao
		}
		if len(descricao) > 30 {
			descricao = descricao[:29] + "…"
		}
		valor := "R$ " + l.Valor.StringFixed(2)
		if l.Tipo == "saida" {
			valor = "-" + valor
		}
		pdf.CellFormat(col1, 5, l.DataHora, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, tr(l.Categoria), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, tr(forma), "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, tr(descricao), "", 0, "L", false, 0, "")
		pdf.CellFormat(col5, 5, valor, "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render relatório: %w", err)
	}
	return &buf, nil
}

// GerarCupomFechamento renders the 80mm thermal closing coupon: a compact
// reconciliation slip to drop in the drawer with the counted cash.
func GerarCupomFechamento(nomeLoja string, det *dto.CaixaDetalheResponse, resumo *dto.ResumoFechamentoResponse) (*bytes.Buffer, error) {
	// 80mm roll, height grows with content; 200mm fits the summary comfortably.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: 200},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 10

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, tr("Fechamento de Caixa"), "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.Line(5, pdf.GetY(), pageW-5, pdf.GetY())
	pdf.Ln(2)

	c := det.Caixa
	pdf.SetFont("Helvetica", "", 7)
	if c.Operador != nil {
		pdf.CellFormat(contentW, 4, tr("Operador: "+*c.Operador), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, tr("Abertura: "+c.DataAbertura), "", 1, "L", false, 0, "")
	if c.DataFechamento != nil {
		pdf.CellFormat(contentW, 4, tr("Fechamento: "+*c.DataFechamento), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(5, pdf.GetY(), pageW-5, pdf.GetY())
	pdf.Ln(2)

	linha := func(label string, v decimal.Decimal, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 8)
		pdf.CellFormat(contentW*0.62, 5, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.38, 5, "R$ "+v.StringFixed(2), "", 1, "R", false, 0, "")
	}

	linha("Troco inicial", resumo.TrocoInicial, false)
	linha("Vendas dinheiro", resumo.Vendas.Dinheiro, false)
	linha("Vendas PIX", resumo.Vendas.Pix, false)
	linha("Vendas crédito", resumo.Vendas.CartaoCredito, false)
	linha("Vendas débito", resumo.Vendas.CartaoDebito, false)
	if !resumo.Vendas.Outras.IsZero() {
		linha("Vendas outras", resumo.Vendas.Outras, false)
	}
	linha("Total de vendas", resumo.Vendas.Total, true)
	pdf.Ln(1)

	linha("Sangrias", resumo.Movimentacoes.Sangrias, false)
	linha("Suprimentos", resumo.Movimentacoes.Suprimentos, false)
	linha("Troco dado", resumo.Movimentacoes.TrocoDado, false)
	if !resumo.Movimentacoes.EstornosDinheiro.IsZero() {
		linha("Estornos em dinheiro", resumo.Movimentacoes.EstornosDinheiro, false)
	}
	pdf.Ln(1)
	pdf.Line(5, pdf.GetY(), pageW-5, pdf.GetY())
	pdf.Ln(1)

	linha("Dinheiro esperado", resumo.DinheiroEsperado, true)
	if c.ValorContado != nil {
		linha("Valor contado", *c.ValorContado, true)
	}
	if c.Diferenca != nil && c.Resultado != nil {
		linha("Diferença ("+*c.Resultado+")", *c.Diferenca, true)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Assinatura: ______________________"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render cupom: %w", err)
	}
	return &buf, nil
}

// GerarResumoDiarioPDF renders the one-page daily summary that goes out with
// the end-of-day email.
func GerarResumoDiarioPDF(nomeLoja string, resumo *dto.ResumoDiarioResponse) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Resumo do dia "+resumo.Data), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	escreverLinhaValor(pdf, tr, contentW, "Total de vendas", resumo.TotalVendas, true)
	pdf.Ln(2)
	escreverLinhaValor(pdf, tr, contentW, "Vendas em dinheiro", resumo.Vendas.Dinheiro, false)
	escreverLinhaValor(pdf, tr, contentW, "Vendas PIX", resumo.Vendas.Pix, false)
	escreverLinhaValor(pdf, tr, contentW, "Vendas cartão crédito", resumo.Vendas.CartaoCredito, false)
	escreverLinhaValor(pdf, tr, contentW, "Vendas cartão débito", resumo.Vendas.CartaoDebito, false)
	if !resumo.Vendas.Outras.IsZero() {
		escreverLinhaValor(pdf, tr, contentW, "Vendas outras formas", resumo.Vendas.Outras, false)
	}
	pdf.Ln(2)
	escreverLinhaValor(pdf, tr, contentW, "Sangrias", resumo.Movimentacoes.Sangrias, false)
	escreverLinhaValor(pdf, tr, contentW, "Suprimentos", resumo.Movimentacoes.Suprimentos, false)
	escreverLinhaValor(pdf, tr, contentW, "Troco dado", resumo.Movimentacoes.TrocoDado, false)
	pdf.Ln(2)
	escreverLinhaValor(pdf, tr, contentW, "Saldo final em dinheiro", resumo.SaldoFinalDinheiro, true)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Caixas no dia: %d    Lançamentos: %d", resumo.QtdCaixas, resumo.QtdLancamentos)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render resumo diário: %w", err)
	}
	return &buf, nil
}

// GerarRelatorioPeriodoPDF renders the period report: overall totals plus the
// per-categoria and per-forma breakdowns.
func GerarRelatorioPeriodoPDF(nomeLoja string, resumo *dto.ResumoPeriodoResponse) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Relatório do período "+resumo.Periodo.Inicio+" a "+resumo.Periodo.Fim), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	escreverLinhaValor(pdf, tr, contentW, "Entradas", resumo.Totais.Entradas, false)
	escreverLinhaValor(pdf, tr, contentW, "Saídas", resumo.Totais.Saidas, false)
	escreverLinhaValor(pdf, tr, contentW, "Saldo", resumo.Totais.Saldo, true)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Por categoria"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW*0.4, 6, "Categoria", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.3, 6, "Tipo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.3, 6, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	for _, ct := range resumo.Categorias {
		pdf.CellFormat(contentW*0.4, 5, tr(ct.Categoria), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, tr(ct.Tipo), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, "R$ "+ct.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Vendas por forma de pagamento"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW*0.7, 6, "Forma", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.3, 6, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	for _, fp := range resumo.Pagamentos {
		pdf.CellFormat(contentW*0.7, 5, tr(fp.Forma), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, "R$ "+fp.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render relatório do período: %w", err)
	}
	return &buf, nil
}

// SalvarPDF persists a rendered document under storagePath and returns the
// absolute file path.
func SalvarPDF(buf *bytes.Buffer, storagePath, fileName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)
	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func escreverLinhaValor(pdf *fpdf.Fpdf, tr func(string) string, contentW float64, label string, v decimal.Decimal, bold bool) {
	estilo := ""
	if bold {
		estilo = "B"
	}
	pdf.SetFont("Helvetica", estilo, 10)
	pdf.CellFormat(contentW*0.6, 6, tr(label+":"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, "R$ "+v.StringFixed(2), "", 1, "R", false, 0, "")
}
