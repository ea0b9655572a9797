package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ecplacas/ecplacas-api/internal/application/consulta"
	"github.com/ecplacas/ecplacas-api/internal/domain/repository"
	"github.com/ecplacas/ecplacas-api/internal/domain/validacion"
	"github.com/ecplacas/ecplacas-api/internal/infrastructure/postgres"
	infrasri "github.com/ecplacas/ecplacas-api/internal/infrastructure/sri"
	httpRouter "github.com/ecplacas/ecplacas-api/internal/interfaces/http"
	"github.com/ecplacas/ecplacas-api/pkg/config"
	"github.com/ecplacas/ecplacas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistencia opcional: sin base de datos el servicio opera en memoria.
	var repo repository.ConsultaRepository
	if cfg.DB.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo = postgres.NewConsultaRepository(pool)
	} else {
		log.Info().Msg("persistencia deshabilitada, operando solo en memoria")
	}

	cache := infrasri.NewCache(cfg.SRI.CacheTTL, cfg.SRI.CacheMaxEntries)
	httpc := infrasri.NewClienteHTTP(cfg.SRI.Timeout, cfg.SRI.MaxRetries, cfg.SRI.RateLimit, log)
	clienteSRI := infrasri.NewCliente(cfg.SRI.BaseURL, httpc, cache, log)
	clientePropietario := infrasri.NewClientePropietario(cfg.SRI.OwnerPrimaryURL, cfg.SRI.OwnerBackupURL, httpc, log)

	tracker := consulta.NewTracker(cfg.SRI.RetencionSesiones, log)
	go tracker.Janitor(ctx, time.Minute)

	validador := validacion.NewValidador()
	pipeline := consulta.NewPipeline(clienteSRI, clientePropietario, repo, tracker, validador, log, consulta.Config{
		Completa:          cfg.SRI.ConsultaCompleta,
		MaxComponentJobs:  cfg.SRI.MaxComponentJobs,
		MaxPaymentDetails: cfg.SRI.MaxPaymentDetails,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Pipeline:  pipeline,
		Tracker:   tracker,
		Validador: validador,
		Cache:     cache,
		Repo:      repo,
		Admin:     cfg.Admin,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
