package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaixaService(store *memStore) service.CaixaService {
	return service.NewCaixaService(store, store, store, newStepClock(), nil)
}

func abrirCaixa(t *testing.T, svc service.CaixaService, troco float64) *dto.CaixaResponse {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		Operador:     "Maria",
		TrocoInicial: decimal.NewFromFloat(troco),
	})
	require.NoError(t, err)
	return resp
}

func vendaDinheiro(t *testing.T, svc service.CaixaService, valor, recebido float64) *dto.RegistrarLancamentoResponse {
	t.Helper()
	forma := "Dinheiro"
	rec := decimal.NewFromFloat(recebido)
	resp, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo:           "entrada",
		Categoria:      "venda",
		FormaPagamento: &forma,
		Valor:          decimal.NewFromFloat(valor),
		ValorRecebido:  &rec,
	})
	require.NoError(t, err)
	return resp
}

func lancar(t *testing.T, svc service.CaixaService, tipo, categoria string, valor float64, descricao string) *dto.RegistrarLancamentoResponse {
	t.Helper()
	req := dto.RegistrarLancamentoRequest{
		Tipo:      tipo,
		Categoria: categoria,
		Valor:     decimal.NewFromFloat(valor),
	}
	if descricao != "" {
		req.Descricao = &descricao
	}
	resp, err := svc.RegistrarLancamento(context.Background(), req)
	require.NoError(t, err)
	return resp
}

// ── Abrir / Fechar ────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	svc := newCaixaService(newMemStore())

	resp := abrirCaixa(t, svc, 100)
	assert.Equal(t, "aberto", resp.Status)
	assert.Equal(t, "100", resp.TrocoInicial.String())
	require.NotNil(t, resp.Operador)
	assert.Equal(t, "Maria", *resp.Operador)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Aberto)
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		TrocoInicial: decimal.NewFromFloat(50),
	})
	assert.ErrorIs(t, err, service.ErrCaixaJaAberto)
}

func TestAbrirConcorrente(t *testing.T) {
	svc := newCaixaService(newMemStore())

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
				TrocoInicial: decimal.NewFromInt(int64(i)),
			})
		}(i)
	}
	wg.Wait()

	abertos := 0
	for _, err := range errs {
		if err == nil {
			abertos++
		} else {
			assert.ErrorIs(t, err, service.ErrCaixaJaAberto)
		}
	}
	assert.Equal(t, 1, abertos, "exactly one concurrent open may succeed")
}

func TestAbrirTrocoNegativo(t *testing.T) {
	svc := newCaixaService(newMemStore())
	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		TrocoInicial: decimal.NewFromFloat(-1),
	})
	assert.ErrorIs(t, err, service.ErrValorInvalido)
}

func TestFecharSemCaixaAberto(t *testing.T) {
	svc := newCaixaService(newMemStore())
	_, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{})
	assert.ErrorIs(t, err, service.ErrSemCaixaAberto)
}

func TestFecharSemValorContado(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	resp, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fechado", resp.Status)
	assert.Nil(t, resp.ValorContado)
	assert.Nil(t, resp.Diferenca)
	assert.Nil(t, resp.Resultado)
	require.NotNil(t, resp.DataFechamento)
}

func TestFecharConferido(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	vendaDinheiro(t, svc, 50, 50)

	contado := decimal.NewFromFloat(150)
	resp, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{ValorContado: &contado})
	require.NoError(t, err)
	require.NotNil(t, resp.Diferenca)
	assert.True(t, resp.Diferenca.IsZero())
	require.NotNil(t, resp.Resultado)
	assert.Equal(t, "conferido", *resp.Resultado)
}

func TestFecharComFalta(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	lancar(t, svc, "saida", "sangria", 30, "")

	contado := decimal.NewFromFloat(60)
	resp, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{ValorContado: &contado})
	require.NoError(t, err)
	// esperado = 100 − 30 = 70; contado 60 → falta de 10
	assert.Equal(t, "-10", resp.Diferenca.String())
	assert.Equal(t, "falta", *resp.Resultado)
}

func TestReabrirDepoisDeFechar(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	_, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{})
	require.NoError(t, err)

	resp := abrirCaixa(t, svc, 200)
	assert.Equal(t, "200", resp.TrocoInicial.String())
	assert.True(t, resp.TotalEntradas.IsZero(), "a new caixa starts with a clean ledger")
}

// ── RegistrarLancamento ───────────────────────────────────────────────────────

func TestLancamentoSemCaixaAberto(t *testing.T) {
	svc := newCaixaService(newMemStore())
	forma := "PIX"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(10),
	})
	assert.ErrorIs(t, err, service.ErrSemCaixaAberto)
}

func TestVendaDinheiroComTroco(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	resp := vendaDinheiro(t, svc, 30, 50)
	require.NotNil(t, resp.Lancamento.Troco)
	assert.Equal(t, "20", resp.Lancamento.Troco.String())
	assert.Equal(t, "30", resp.Totais.TotalEntradas.String())
	assert.Equal(t, "130", resp.Totais.SaldoAtual.String())
}

func TestVendaDinheiroSemValorRecebido(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	forma := "Dinheiro"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(30),
	})
	assert.ErrorIs(t, err, service.ErrValorRecebidoInsuficiente)
}

func TestVendaDinheiroRecebidoInsuficiente(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	forma := "dinheiro" // case-insensitive against the configured "Dinheiro"
	rec := decimal.NewFromFloat(20)
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(30), ValorRecebido: &rec,
	})
	assert.ErrorIs(t, err, service.ErrValorRecebidoInsuficiente)
}

func TestVendaFormaNaoConfigurada(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	forma := "Cheque"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(30),
	})
	assert.ErrorIs(t, err, service.ErrFormaPagamentoInvalida)
}

func TestVendaPixNaoExigeValorRecebido(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	forma := "PIX"
	resp, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(45.90),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Lancamento.Troco)
}

func TestOutrosSemDescricao(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "saida", Categoria: "outros",
		Valor: decimal.NewFromFloat(10),
	})
	assert.ErrorIs(t, err, service.ErrDescricaoObrigatoria)
}

func TestValorNaoPositivo(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "saida", Categoria: "sangria",
		Valor: decimal.Zero,
	})
	assert.ErrorIs(t, err, service.ErrValorInvalido)
}

func TestSangriaSempreSaida(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	// Caller claims "entrada" but sangrias always leave the drawer.
	resp := lancar(t, svc, "entrada", "sangria", 40, "")
	assert.Equal(t, "saida", resp.Lancamento.Tipo)
	assert.Equal(t, "40", resp.Totais.TotalSaidas.String())
}

func TestValidacaoNaoGravaNada(t *testing.T) {
	store := newMemStore()
	svc := newCaixaService(store)
	abrirCaixa(t, svc, 100)

	forma := "Cheque"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(30),
	})
	require.Error(t, err)

	painel, err := svc.Painel(context.Background())
	require.NoError(t, err)
	assert.True(t, painel.Totais.TotalEntradas.IsZero(), "rejected lançamento must leave no trace")
}

// ── ResumoFechamento ──────────────────────────────────────────────────────────

func TestResumoFechamentoCenarioCompleto(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	vendaDinheiro(t, svc, 50, 70) // troco 20
	forma := "PIX"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(30),
	})
	require.NoError(t, err)
	lancar(t, svc, "saida", "sangria", 40, "Depósito no cofre")
	lancar(t, svc, "entrada", "suprimento", 10, "")

	resumo, err := svc.ResumoFechamento(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "50", resumo.Vendas.Dinheiro.String())
	assert.Equal(t, "30", resumo.Vendas.Pix.String())
	assert.Equal(t, "80", resumo.Vendas.Total.String())
	assert.Equal(t, "20", resumo.Movimentacoes.TrocoDado.String())
	assert.Equal(t, "40", resumo.Movimentacoes.Sangrias.String())
	assert.Equal(t, "10", resumo.Movimentacoes.Suprimentos.String())

	// esperado = 100 + 50 − 20 − 40 + 10 = 100
	assert.Equal(t, "100", resumo.DinheiroEsperado.String())

	// saldo (all methods) = 100 + (50+30+10) − 40 = 150
	painel, err := svc.Painel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "150", painel.Totais.SaldoAtual.String())

	// contado 130 → sobra de 30
	contado := decimal.NewFromFloat(130)
	fechado, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{ValorContado: &contado})
	require.NoError(t, err)
	assert.Equal(t, "30", fechado.Diferenca.String())
	assert.Equal(t, "sobra", *fechado.Resultado)
}

func TestResumoFechamentoVendaCartaoNaoContaNoDinheiro(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)

	forma := "Cartão Crédito"
	_, err := svc.RegistrarLancamento(context.Background(), dto.RegistrarLancamentoRequest{
		Tipo: "entrada", Categoria: "venda", FormaPagamento: &forma,
		Valor: decimal.NewFromFloat(80),
	})
	require.NoError(t, err)

	resumo, err := svc.ResumoFechamento(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "80", resumo.Vendas.CartaoCredito.String())
	assert.Equal(t, "100", resumo.DinheiroEsperado.String(), "card sales never touch the drawer")
}

// ── Estorno ───────────────────────────────────────────────────────────────────

func TestEstornoMesmaSessao(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	venda := vendaDinheiro(t, svc, 50, 50)

	resp, err := svc.EstornarVenda(context.Background(), dto.EstornarVendaRequest{
		LancamentoID: venda.Lancamento.ID,
		Motivo:       "Produto com defeito",
	})
	require.NoError(t, err)
	assert.True(t, resp.Venda.Estornado)
	assert.Equal(t, "Produto com defeito", resp.Estorno.Motivo)

	// Venda and its estorno cancel: expected cash back to the opening float.
	resumo, err := svc.ResumoFechamento(context.Background())
	require.NoError(t, err)
	assert.True(t, resumo.Vendas.Dinheiro.IsZero())
	assert.Equal(t, "100", resumo.DinheiroEsperado.String())
}

func TestEstornoDuplicado(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	venda := vendaDinheiro(t, svc, 50, 50)

	_, err := svc.EstornarVenda(context.Background(), dto.EstornarVendaRequest{
		LancamentoID: venda.Lancamento.ID, Motivo: "Troca",
	})
	require.NoError(t, err)

	_, err = svc.EstornarVenda(context.Background(), dto.EstornarVendaRequest{
		LancamentoID: venda.Lancamento.ID, Motivo: "De novo",
	})
	assert.ErrorIs(t, err, service.ErrVendaJaEstornada)
}

func TestEstornoVendaDeSessaoAnterior(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	venda := vendaDinheiro(t, svc, 50, 50)
	_, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{})
	require.NoError(t, err)

	abrirCaixa(t, svc, 200)
	_, err = svc.EstornarVenda(context.Background(), dto.EstornarVendaRequest{
		LancamentoID: venda.Lancamento.ID, Motivo: "Devolução tardia",
	})
	require.NoError(t, err)

	// The cash left THIS drawer: esperado = 200 − 50.
	resumo, err := svc.ResumoFechamento(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "50", resumo.Movimentacoes.EstornosDinheiro.String())
	assert.Equal(t, "150", resumo.DinheiroEsperado.String())
}

func TestEstornoSoAceitaVendas(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	sangria := lancar(t, svc, "saida", "sangria", 30, "")

	_, err := svc.EstornarVenda(context.Background(), dto.EstornarVendaRequest{
		LancamentoID: sangria.Lancamento.ID, Motivo: "Engano",
	})
	assert.ErrorIs(t, err, service.ErrVendaNaoEncontrada)
}

// ── Feeds and historical queries ──────────────────────────────────────────────

func TestUltimosLancamentosMaisRecentesPrimeiro(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	lancar(t, svc, "entrada", "suprimento", 1, "")
	lancar(t, svc, "entrada", "suprimento", 2, "")
	lancar(t, svc, "entrada", "suprimento", 3, "")

	ultimos, err := svc.UltimosLancamentos(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ultimos, 2)
	assert.Equal(t, "3", ultimos[0].Valor.String())
	assert.Equal(t, "2", ultimos[1].Valor.String())
}

func TestDetalhesCaixaInexistente(t *testing.T) {
	svc := newCaixaService(newMemStore())
	_, err := svc.DetalhesCaixa(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrCaixaNaoEncontrado)
}

func TestListarCaixasPorStatus(t *testing.T) {
	svc := newCaixaService(newMemStore())
	abrirCaixa(t, svc, 100)
	_, err := svc.Fechar(context.Background(), dto.FecharCaixaRequest{})
	require.NoError(t, err)
	abrirCaixa(t, svc, 50)

	fechados, err := svc.ListarCaixas(context.Background(), "fechado")
	require.NoError(t, err)
	assert.Len(t, fechados, 1)

	todos, err := svc.ListarCaixas(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
