package router

import (
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/config"
	"github.com/pedropoiani/SimplesCaixa/internal/handler"
	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/middleware"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"
	"github.com/pedropoiani/SimplesCaixa/internal/service"
	"github.com/pedropoiani/SimplesCaixa/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	clock *infra.SyncedClock,
	pushCB *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	caixaRepo := repository.NewCaixaRepository(db)
	lancRepo := repository.NewLancamentoRepository(db)
	configRepo := repository.NewConfiguracaoRepository(db)
	pushRepo := repository.NewPushRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	caixaSvc := service.NewCaixaService(caixaRepo, lancRepo, configRepo, clock, dispatcher)
	relatorioSvc := service.NewRelatorioService(lancRepo, caixaRepo, clock)
	configSvc := service.NewConfiguracaoService(configRepo)
	pushSvc := service.NewPushService(pushRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	caixaH := handler.NewCaixaHandler(caixaSvc, configSvc)
	lancH := handler.NewLancamentosHandler(caixaSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc, caixaSvc, configSvc, clock)
	configH := handler.NewConfiguracaoHandler(configSvc)
	pushH := handler.NewPushHandler(pushSvc)
	horaH := handler.NewHoraHandler(clock)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, pushCB))

	v1 := r.Group("/v1")
	{
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.POST("/fechar", caixaH.Fechar)
			caixa.GET("/status", caixaH.Status)
			caixa.GET("/painel", caixaH.Painel)
			caixa.GET("/resumo-fechamento", caixaH.ResumoFechamento)
			caixa.GET("/ultimos-lancamentos", caixaH.UltimosLancamentos)
		}

		caixas := v1.Group("/caixas")
		{
			caixas.GET("", caixaH.Listar)
			caixas.GET("/:id", caixaH.Detalhes)
			caixas.GET("/:id/relatorio.pdf", caixaH.RelatorioPDF)
			caixas.GET("/:id/cupom.pdf", caixaH.CupomPDF)
		}

		lanc := v1.Group("/lancamentos")
		{
			lanc.POST("", lancH.Registrar)
			lanc.GET("", lancH.Listar)
			lanc.POST("/estornar", lancH.Estornar)
		}

		rel := v1.Group("/relatorios")
		{
			rel.GET("/periodo", relatoriosH.ResumoPeriodo)
			rel.GET("/periodo.csv", relatoriosH.ExportarPeriodoCSV)
			rel.GET("/periodo.pdf", relatoriosH.ResumoPeriodoPDF)
			rel.GET("/caixas.csv", relatoriosH.ExportarCaixasCSV)
		}

		gerente := v1.Group("/gerente")
		{
			gerente.GET("/resumo-hoje", relatoriosH.ResumoHoje)
			gerente.GET("/resumo-dia", relatoriosH.ResumoDia)
			gerente.GET("/resumo-dia.pdf", relatoriosH.ResumoDiaPDF)
			gerente.GET("/semana", relatoriosH.ResumoSemana)
			gerente.GET("/sangrias-hoje", relatoriosH.SangriasHoje)
			gerente.GET("/datas-com-movimento", relatoriosH.DatasComMovimento)
			gerente.GET("/ultimas-movimentacoes", relatoriosH.UltimasMovimentacoes)
		}

		v1.GET("/configuracao", configH.Get)
		v1.PUT("/configuracao", configH.Atualizar)

		push := v1.Group("/push")
		{
			push.POST("/subscrever", pushH.Subscribe)
			push.GET("/subscricoes", pushH.Listar)
			push.PATCH("/subscricoes/:id", pushH.Atualizar)
			push.DELETE("/subscricoes/:id", pushH.Remover)
		}

		v1.GET("/hora", horaH.Agora)
		v1.POST("/hora/sincronizar", horaH.Sincronizar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
